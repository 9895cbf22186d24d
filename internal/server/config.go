package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/recursive-mosaic/internal/mosaic"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBlockSize   = "RECURSIVE_MOSAIC_BLOCK_SIZE"
	EnvQuality     = "RECURSIVE_MOSAIC_QUALITY"
	EnvParallelism = "RECURSIVE_MOSAIC_PARALLELISM"
	EnvResampler   = "RECURSIVE_MOSAIC_RESAMPLER"
)

// Config holds the render defaults applied when a tool call omits an argument.
type Config struct {
	BlockSize   int
	Quality     mosaic.Quality
	Parallelism int
	Resampler   string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		BlockSize:   mosaic.DefaultBlockSize,
		Quality:     mosaic.DefaultQuality,
		Parallelism: mosaic.DefaultParallelism,
		Resampler:   mosaic.DefaultResampler.Name(),
	}
}

// ConfigFromEnv starts from DefaultConfig and applies any RECURSIVE_MOSAIC_*
// variables that are set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv(EnvBlockSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: want a positive integer, got %q", EnvBlockSize, v)
		}
		cfg.BlockSize = n
	}
	if v, ok := os.LookupEnv(EnvQuality); ok {
		q, err := mosaic.ParseQuality(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvQuality, err)
		}
		cfg.Quality = q
	}
	if v, ok := os.LookupEnv(EnvParallelism); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: want a positive integer, got %q", EnvParallelism, v)
		}
		cfg.Parallelism = n
	}
	if v, ok := os.LookupEnv(EnvResampler); ok {
		r, err := mosaic.ResamplerByName(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvResampler, err)
		}
		cfg.Resampler = r.Name()
	}

	return cfg, nil
}
