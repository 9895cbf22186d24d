package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source Images
		{
			Name:        "image_load",
			Description: "Load a source image (PNG, JPEG, GIF, BMP, TIFF, WebP or QOI) and return its dimensions and format. The decoded image is cached for later renders.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_average_color",
			Description: "Average color of a whole image, or of the square block starting at (x, y) when size is given. Blocks are clipped to the image; a block entirely outside returns black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Block left edge (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Block top edge (0-based)",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Block side length in pixels. Omit or 0 for the whole image",
						"minimum":     0,
					},
				},
				"required": []string{"path"},
			},
		},

		// Mosaic
		{
			Name:        "mosaic_presets",
			Description: "List the quality presets (scale factor and resampling filter), resampler backends and server defaults.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "mosaic_render",
			Description: "Render a recursive mosaic: every block of the output is replaced by a miniature of the whole image, recolored to match that block's average color. Supports progress notifications via _meta.progressToken.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"block_size": map[string]interface{}{
						"type":        "integer",
						"description": "Block size in source pixels before quality scaling (default 16)",
						"default":     16,
					},
					"quality": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"low", "normal", "high", "ultra"},
						"description": "low=0.75x bilinear, normal=1x Lanczos, high=1.5x Lanczos, ultra=2x Lanczos (default normal)",
						"default":     "normal",
					},
					"parallelism": map[string]interface{}{
						"type":        "integer",
						"description": "Number of row sections rendered concurrently (default 4)",
						"default":     4,
					},
					"resampler": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"imaging", "nfnt"},
						"description": "Thumbnail resampling backend (default imaging)",
						"default":     "imaging",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the result (.png, .jpg, .bmp or .qoi; a leading ~ is expanded). \"auto\" writes recursive_<block>px_<quality>.png next to the source. Omit to receive a base64 PNG",
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Overlay the block grid on the result",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as #RRGGBB or #RRGGBBAA (default #FF000080)",
						"default":     "#FF000080",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
