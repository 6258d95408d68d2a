package server

import (
	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/imaging"
	"github.com/ironsheep/maprdy-mcp/internal/layers"
	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var scaleProperty = map[string]interface{}{
	"type":        "number",
	"description": "Optional scale factor for the returned PNG (e.g., 2.0 to double size). Default 1.0",
	"default":     1.0,
}

var regionProperty = map[string]interface{}{
	"type":        "string",
	"enum":        imaging.RegionNames(),
	"description": "Optional named region to return instead of the whole map",
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// settingsProperties describes every pipeline setting as an optional
// property keyed by its flat-map name.
func settingsProperties() map[string]interface{} {
	descriptions := map[string]string{
		pipeline.KeyThreshold:         "Binarization cutoff on mean brightness, 0-255",
		pipeline.KeyEdgeDetection:     "Replace the binary image with its Sobel edges (ignored in laser mode)",
		pipeline.KeyInvert:            "Swap black and white",
		pipeline.KeyLaserMode:         "Use the fixed luma cutoff of 220 instead of threshold",
		pipeline.KeyBlackText:         "Keep text black on a white halo",
		pipeline.KeyBlackRoads:        "Keep roads black when inverting in laser mode",
		pipeline.KeyWhiteWater:        "Keep water white when inverting in laser mode",
		pipeline.KeyThickenText:       "Dilate black strokes by thickenAmount",
		pipeline.KeyThickenAmount:     "Dilation amount, 0-5, fractional values dither",
		pipeline.KeyThickenCoastlines: "Dilate black strokes by coastlineAmount at the end",
		pipeline.KeyCoastlineAmount:   "Coastline dilation passes, >= 0",
		pipeline.KeyRemoveFerryLines:  "Remove dashed and dotted line components",
		pipeline.KeyWarpLevel:         "Barrel warp level, 0-4",
	}
	types := map[string]string{
		pipeline.KeyThreshold:       "integer",
		pipeline.KeyThickenAmount:   "number",
		pipeline.KeyCoastlineAmount: "integer",
		pipeline.KeyWarpLevel:       "integer",
	}

	props := make(map[string]interface{}, len(descriptions))
	for _, key := range pipeline.Keys() {
		typ, ok := types[key]
		if !ok {
			typ = "boolean"
		}
		props[key] = map[string]interface{}{
			"type":        typ,
			"description": descriptions[key],
		}
	}
	return props
}

func filterNames() []string {
	var names []string
	for _, n := range filter.List() {
		names = append(names, n.Name)
	}
	return names
}

func layerNames() []string {
	var names []string
	for _, k := range layers.Kinds() {
		names = append(names, string(k))
	}
	return append(names, string(layers.Text))
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "map_load",
			Description: "Load a map image (PNG, JPEG, GIF or WebP) from a file or base64 data as the session source. Large maps are fitted to the configured size cap. Settings history is kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the map image",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Base64 image data, optionally as a data URL. Used when path is empty",
					},
				},
			},
		},
		{
			Name:        "map_process",
			Description: "Run the line-art pipeline on the loaded map with the current settings and return the result as PNG. Optionally save it to a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"scale":  scaleProperty,
					"region": regionProperty,
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to save the full-size PNG. A directory gets the configured output name",
					},
				},
			},
		},

		// Settings
		{
			Name:        "map_get_settings",
			Description: "Get the current pipeline settings, the stages they enable, and the undo/redo depth.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_update_settings",
			Description: "Change one or more pipeline settings. The new settings become a new undo step.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": settingsProperties(),
			},
		},
		{
			Name:        "map_reset_settings",
			Description: "Restore the configured default settings as a new undo step.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_undo",
			Description: "Step back to the previous settings. Does nothing when there is no earlier step.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_redo",
			Description: "Re-apply settings undone by map_undo. Any settings change clears the redo steps.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_export_settings",
			Description: "Export the current settings as a flat map of string keys and values, optionally writing them to a JSON file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional JSON file to write",
					},
				},
			},
		},
		{
			Name:        "map_import_settings",
			Description: "Import settings from a flat key/value map or a JSON file written by map_export_settings. Missing keys keep their defaults; unknown keys are rejected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"settings": map[string]interface{}{
						"type":                 "object",
						"additionalProperties": map[string]interface{}{"type": "string"},
						"description":          "Flat settings map, e.g. {\"threshold\": \"140\", \"invert\": \"true\"}",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "JSON file to read when settings is empty",
					},
				},
			},
		},

		// Filters and analysis
		{
			Name:        "map_list_filters",
			Description: "List the single filters available to map_apply_filter with their parameter ranges.",
			InputSchema: noArgs(),
		},
		{
			Name:        "map_apply_filter",
			Description: "Preview one filter on the loaded map, outside the fixed pipeline order. Does not change settings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        filterNames(),
						"description": "Filter name",
					},
					"param": map[string]interface{}{
						"type":        "number",
						"description": "Filter parameter. Defaults to the filter's default",
					},
					"processed": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply to the last map_process result instead of the source",
						"default":     false,
					},
					"scale":  scaleProperty,
					"region": regionProperty,
				},
				"required": []string{"filter"},
			},
		},
		{
			Name:        "map_detect_layer",
			Description: "Detect one semantic layer of the loaded map by color and shape rules. Returns a white-on-black mask, or the layer tinted over the source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": map[string]interface{}{
						"type":        "string",
						"enum":        layerNames(),
						"description": "Layer to detect",
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Tint the layer over the source instead of returning a mask",
						"default":     false,
					},
					"alpha": map[string]interface{}{
						"type":        "number",
						"description": "Overlay opacity 0-1. Default 0.5",
						"default":     0.5,
					},
					"scale": scaleProperty,
				},
				"required": []string{"layer"},
			},
		},
		{
			Name:        "map_detect_text",
			Description: "Find map labels with OCR. Returns the recognized words with confidence and bounding boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty,
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the configured language",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum word confidence 0-100. Defaults to the configured floor",
					},
				},
			},
		},
		{
			Name:        "map_sample_color",
			Description: "Sample source colors at one or more pixels, with HSV and both grayscale values, to see how the thresholds and layer rules treat them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Pixels to sample (0-based, from top-left)",
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "map_dominant_colors",
			Description: "Get the most common colors of the loaded map, useful for choosing a threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": regionProperty,
				},
			},
		},
	}
}
