package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/recursive-mosaic/internal/imaging"
	"github.com/ironsheep/recursive-mosaic/internal/mosaic"
	"github.com/ironsheep/recursive-mosaic/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// EnvLogLevel selects the logrus level (panic..trace). Default info.
const EnvLogLevel = "RECURSIVE_MOSAIC_LOG_LEVEL"

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, ok := os.LookupEnv(EnvLogLevel); ok {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			log.WithError(err).Warnf("Ignoring %s", EnvLogLevel)
		} else {
			log.SetLevel(level)
		}
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("recursive-mosaic %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		case "render":
			if err := runRender(os.Args[2:]); err != nil {
				log.Fatalf("Render failed: %v", err)
			}
			return
		}
	}

	cfg, err := server.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.WithFields(log.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("Recursive mosaic MCP server starting")

	srv := server.NewWithConfig(cfg, os.Stdin, os.Stdout)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func usage() {
	fmt.Println("recursive-mosaic - render an image as a mosaic of recolored copies of itself")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  recursive-mosaic                               Run the MCP server on stdin/stdout")
	fmt.Println("  recursive-mosaic render [flags] <input> <output>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Render flags:")
	fmt.Println("  -block N         Block size in source pixels (default 16)")
	fmt.Println("  -quality Q       low, normal, high or ultra (default normal)")
	fmt.Println("  -parallelism N   Concurrent row sections (default 4)")
	fmt.Println("  -resampler R     imaging or nfnt (default imaging)")
	fmt.Println("  -grid            Overlay the block grid")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  RECURSIVE_MOSAIC_LOG_LEVEL=debug     Log level (stderr)")
	fmt.Println("  RECURSIVE_MOSAIC_BLOCK_SIZE=16       Default block size")
	fmt.Println("  RECURSIVE_MOSAIC_QUALITY=normal      Default quality")
	fmt.Println("  RECURSIVE_MOSAIC_PARALLELISM=4       Default parallelism")
	fmt.Println("  RECURSIVE_MOSAIC_RESAMPLER=imaging   Default resampler")
}

// runRender renders one file from the command line. Flag defaults come
// from the same environment the server reads.
func runRender(args []string) error {
	cfg, err := server.ConfigFromEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	block := fs.Int("block", cfg.BlockSize, "block size in source pixels")
	quality := fs.String("quality", cfg.Quality.String(), "low, normal, high or ultra")
	parallelism := fs.Int("parallelism", cfg.Parallelism, "concurrent row sections")
	resamplerName := fs.String("resampler", cfg.Resampler, "imaging or nfnt")
	grid := fs.Bool("grid", false, "overlay the block grid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: recursive-mosaic render [flags] <input> <output>")
	}
	input, output := fs.Arg(0), fs.Arg(1)

	q, err := mosaic.ParseQuality(*quality)
	if err != nil {
		return err
	}
	resampler, err := mosaic.ResamplerByName(*resamplerName)
	if err != nil {
		return err
	}

	src, err := imaging.NewImageCache().Load(input)
	if err != nil {
		return err
	}

	res, err := mosaic.Render(src, mosaic.Options{
		BlockSize:   *block,
		Quality:     q,
		Parallelism: *parallelism,
		Resampler:   resampler,
		Progress: func(fraction float64, status string) {
			fmt.Fprintf(os.Stderr, "%3.0f%% %s\n", fraction*100, status)
		},
	})
	if err != nil {
		return err
	}

	out := res.Image
	if *grid {
		out, err = imaging.GridOverlay(out, res.Layout.TileSize, imaging.DefaultGridColor)
		if err != nil {
			return err
		}
	}

	if err := imaging.Save(output, out); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"output":  output,
		"size":    fmt.Sprintf("%dx%d", res.Layout.OutputWidth, res.Layout.OutputHeight),
		"tiles":   res.Layout.BlockCount(),
		"elapsed": res.Elapsed,
	}).Info("Mosaic saved")
	return nil
}
