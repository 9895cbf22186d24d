package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/recursive-mosaic/internal/imaging"
	"github.com/ironsheep/recursive-mosaic/internal/mosaic"
)

// AutoOutputPath asks mosaic_render to pick the output file name itself.
const AutoOutputPath = "auto"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "mosaic_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token.
	Meta *RequestMeta `json:"_meta,omitempty"`
}

// RequestMeta is the MCP _meta object of a request.
type RequestMeta struct {
	// ProgressToken, when present, asks for notifications/progress messages.
	ProgressToken interface{} `json:"progressToken,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var token interface{}
	if params.Meta != nil {
		token = params.Meta.ProgressToken
	}

	result, err := s.executeTool(params.Name, params.Arguments, token)
	if err != nil {
		log.WithError(err).WithField("tool", params.Name).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage, progressToken interface{}) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_average_color":
		return s.handleImageAverageColor(args)
	case "mosaic_presets":
		return s.handleMosaicPresets()
	case "mosaic_render":
		return s.handleMosaicRender(args, progressToken)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageAverageColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Size int    `json:"size"`
}

// AverageColorResult is the image_average_color tool result.
type AverageColorResult struct {
	// Scope is "image" for the whole image or "block" for a square.
	Scope string              `json:"scope"`
	X     int                 `json:"x,omitempty"`
	Y     int                 `json:"y,omitempty"`
	Size  int                 `json:"size,omitempty"`
	Color imaging.ColorResult `json:"color"`
}

func (s *Server) handleImageAverageColor(args json.RawMessage) (interface{}, error) {
	var a imageAverageColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Size < 0 {
		return nil, fmt.Errorf("size must be >= 0, got %d", a.Size)
	}
	src := mosaic.Opaque(img)

	if a.Size == 0 {
		avg := mosaic.GlobalAverage(src)
		return &AverageColorResult{Scope: "image", Color: imaging.DescribeColor(avg.R, avg.G, avg.B)}, nil
	}

	avg := mosaic.BlockAverage(src, a.X, a.Y, a.Size)
	return &AverageColorResult{
		Scope: "block",
		X:     a.X,
		Y:     a.Y,
		Size:  a.Size,
		Color: imaging.DescribeColor(avg.R, avg.G, avg.B),
	}, nil
}

// === Mosaic Handlers ===

// PresetInfo describes one quality preset.
type PresetInfo struct {
	Name        string  `json:"name"`
	ScaleFactor float64 `json:"scale_factor"`
	Filter      string  `json:"filter"`
}

// PresetsResult is the mosaic_presets tool result.
type PresetsResult struct {
	Presets    []PresetInfo   `json:"presets"`
	Resamplers []string       `json:"resamplers"`
	Defaults   map[string]any `json:"defaults"`
}

func (s *Server) handleMosaicPresets() (interface{}, error) {
	res := &PresetsResult{
		Resamplers: mosaic.ResamplerNames(),
		Defaults: map[string]any{
			"block_size":  s.config.BlockSize,
			"quality":     s.config.Quality.String(),
			"parallelism": s.config.Parallelism,
			"resampler":   s.config.Resampler,
		},
	}
	for _, q := range mosaic.Qualities() {
		p, err := q.Preset()
		if err != nil {
			return nil, err
		}
		res.Presets = append(res.Presets, PresetInfo{
			Name:        q.String(),
			ScaleFactor: p.Scale,
			Filter:      p.Filter.String(),
		})
	}
	return res, nil
}

type mosaicRenderArgs struct {
	Path        string `json:"path"`
	BlockSize   int    `json:"block_size"`
	Quality     string `json:"quality"`
	Parallelism int    `json:"parallelism"`
	Resampler   string `json:"resampler"`
	OutputPath  string `json:"output_path"`
	ShowGrid    bool   `json:"show_grid"`
	GridColor   string `json:"grid_color"`
}

// RenderResult is the mosaic_render tool result.
type RenderResult struct {
	RunID string `json:"run_id"`

	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Quality   string  `json:"quality"`
	Scale     float64 `json:"scale_factor"`
	BlockSize int     `json:"block_size"`
	TileSize  int     `json:"tile_size"`
	Columns   int     `json:"columns"`
	Rows      int     `json:"rows"`
	Sections  int     `json:"sections"`
	Resampler string  `json:"resampler"`

	SourceAverage    imaging.ColorResult `json:"source_average"`
	ThumbnailAverage imaging.ColorResult `json:"thumbnail_average"`

	// TargetDrift is the Lab distance between the source and thumbnail
	// averages: how far the recolor target sits from the whole-image mean.
	TargetDrift float64 `json:"target_drift"`

	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`
	ElapsedMS   int64  `json:"elapsed_ms"`

	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleMosaicRender(args json.RawMessage, progressToken interface{}) (interface{}, error) {
	var a mosaicRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.BlockSize == 0 {
		a.BlockSize = s.config.BlockSize
	}
	if a.Parallelism == 0 {
		a.Parallelism = s.config.Parallelism
	}
	if a.Resampler == "" {
		a.Resampler = s.config.Resampler
	}

	quality := s.config.Quality
	if a.Quality != "" {
		q, err := mosaic.ParseQuality(a.Quality)
		if err != nil {
			return nil, err
		}
		quality = q
	}
	resampler, err := mosaic.ResamplerByName(a.Resampler)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := log.WithFields(log.Fields{
		"run_id":     runID,
		"path":       a.Path,
		"block_size": a.BlockSize,
		"quality":    quality.String(),
	})

	opts := mosaic.Options{
		BlockSize:   a.BlockSize,
		Quality:     quality,
		Parallelism: a.Parallelism,
		Resampler:   resampler,
		Progress: func(fraction float64, status string) {
			logger.WithField("progress", fraction).Debug(status)
			if progressToken != nil {
				s.notifyProgress(progressToken, fraction, status)
			}
		},
	}

	started := time.Now()
	res, err := mosaic.Render(img, opts)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	logger.WithField("elapsed", time.Since(started)).Info("Mosaic rendered")

	out := res.Image
	if a.ShowGrid {
		color := a.GridColor
		if color == "" {
			color = imaging.DefaultGridColor
		}
		out, err = imaging.GridOverlay(out, res.Layout.TileSize, color)
		if err != nil {
			return nil, err
		}
	}

	srcAvg := imaging.DescribeColor(res.SourceAverage.R, res.SourceAverage.G, res.SourceAverage.B)
	thumbAvg := imaging.DescribeColor(res.ThumbnailAverage.R, res.ThumbnailAverage.G, res.ThumbnailAverage.B)

	result := &RenderResult{
		RunID:            runID,
		Width:            res.Layout.OutputWidth,
		Height:           res.Layout.OutputHeight,
		Quality:          quality.String(),
		Scale:            res.Layout.Scale,
		BlockSize:        res.Layout.BlockSize,
		TileSize:         res.Layout.TileSize,
		Columns:          res.Layout.Columns,
		Rows:             res.Layout.Rows,
		Sections:         len(res.Sections),
		Resampler:        resampler.Name(),
		SourceAverage:    srcAvg,
		ThumbnailAverage: thumbAvg,
		TargetDrift:      imaging.ColorDistance(srcAvg.RGB, thumbAvg.RGB),
		CacheHits:        res.Cache.Hits,
		CacheMisses:      res.Cache.Misses,
		ElapsedMS:        res.Elapsed.Milliseconds(),
	}

	switch a.OutputPath {
	case "":
		result.Image, err = imaging.EncodePNG(out)
		if err != nil {
			return nil, err
		}
	case AutoOutputPath:
		result.OutputPath = imaging.OutputName(a.Path, a.BlockSize, quality.String())
	default:
		result.OutputPath = a.OutputPath
	}

	if result.OutputPath != "" {
		if err := imaging.Save(result.OutputPath, out); err != nil {
			return nil, err
		}
	}

	return result, nil
}
