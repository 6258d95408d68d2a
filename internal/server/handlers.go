package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/imaging"
	"github.com/ironsheep/maprdy-mcp/internal/layers"
	"github.com/ironsheep/maprdy-mcp/internal/logging"
	"github.com/ironsheep/maprdy-mcp/internal/ocr"
	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// errInvalidParams marks argument decoding failures, reported as -32602.
var errInvalidParams = errors.New("invalid params")

// errNoSource is returned by tools that need a loaded map.
var errNoSource = errors.New("no map loaded, call map_load first")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "map_load", "map_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return -32602, tool execution errors -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	logging.Debug("tool %s finished in %v", params.Name, time.Since(start))
	if err != nil {
		if errors.Is(err, errInvalidParams) {
			return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		logging.Warn("tool %s failed: %v", params.Name, err)
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "map_load":
		return s.handleMapLoad(args)
	case "map_process":
		return s.handleMapProcess(args)

	// Settings
	case "map_get_settings":
		return s.settingsResult(), nil
	case "map_update_settings":
		return s.handleUpdateSettings(args)
	case "map_reset_settings":
		s.history.Commit(s.cfg.Settings)
		return s.settingsResult(), nil
	case "map_undo":
		_, changed := s.history.Undo()
		return historyResult{Changed: changed, settingsResult: s.settingsResult()}, nil
	case "map_redo":
		_, changed := s.history.Redo()
		return historyResult{Changed: changed, settingsResult: s.settingsResult()}, nil
	case "map_export_settings":
		return s.handleExportSettings(args)
	case "map_import_settings":
		return s.handleImportSettings(args)

	// Filters and analysis
	case "map_list_filters":
		return filter.List(), nil
	case "map_apply_filter":
		return s.handleApplyFilter(args)
	case "map_detect_layer":
		return s.handleDetectLayer(args)
	case "map_detect_text":
		return s.handleDetectText(args)
	case "map_sample_color":
		return s.handleSampleColor(args)
	case "map_dominant_colors":
		return s.handleDominantColors(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidParams, name)
	}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// current returns the loaded source and the last processed raster.
func (s *Server) current() (*imaging.Source, *raster.Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return nil, nil, errNoSource
	}
	return s.source, s.result, nil
}

// regionArg resolves an optional named region against a raster.
func regionArg(name string, r *raster.Raster) (*image.Rectangle, error) {
	if name == "" {
		return nil, nil
	}
	rect, err := imaging.NamedRegion(r.Width, r.Height, name)
	if err != nil {
		return nil, err
	}
	return &rect, nil
}

func scaleArg(scale float64) float64 {
	if scale == 0 {
		return 1.0
	}
	return scale
}

// === Session Handlers ===

type mapLoadArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

type mapLoadResult struct {
	Path     string             `json:"path,omitempty"`
	Source   imaging.SourceInfo `json:"source"`
	Settings pipeline.Settings  `json:"settings"`
	Filters  int                `json:"filters"`
	Stages   []pipeline.Stage   `json:"stages"`
}

func (s *Server) handleMapLoad(args json.RawMessage) (interface{}, error) {
	var a mapLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var (
		src *imaging.Source
		err error
	)
	switch {
	case a.Path != "":
		src, err = s.cache.Load(a.Path, s.cfg.MaxDimension)
	case a.ImageBase64 != "":
		src, err = imaging.DecodeBase64(a.ImageBase64, s.cfg.MaxDimension)
	default:
		return nil, fmt.Errorf("%w: path or image_base64 is required", errInvalidParams)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.source = src
	s.result = nil
	s.mu.Unlock()

	logging.Info("loaded map %dx%d (%s, fitted=%v)", src.Info.Width, src.Info.Height, src.Info.Format, src.Info.Fitted)

	settings := s.history.Current()
	return mapLoadResult{
		Path:     a.Path,
		Source:   src.Info,
		Settings: settings,
		Filters:  len(filter.List()),
		Stages:   pipeline.Stages(settings),
	}, nil
}

type mapProcessArgs struct {
	Scale      float64 `json:"scale"`
	Region     string  `json:"region"`
	OutputPath string  `json:"output_path"`
}

type mapProcessResult struct {
	Image     *imaging.ImageResult `json:"image"`
	Stages    []pipeline.Stage     `json:"stages"`
	Settings  pipeline.Settings    `json:"settings"`
	SavedTo   string               `json:"saved_to,omitempty"`
	ElapsedMS int64                `json:"elapsed_ms"`
}

func (s *Server) handleMapProcess(args json.RawMessage) (interface{}, error) {
	var a mapProcessArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, _, err := s.current()
	if err != nil {
		return nil, err
	}

	settings := s.history.Current()
	start := time.Now()
	out, err := pipeline.Process(src.Raster, settings)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	s.result = out
	s.mu.Unlock()

	region, err := regionArg(a.Region, out)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Encode(out, region, scaleArg(a.Scale))
	if err != nil {
		return nil, err
	}

	result := mapProcessResult{
		Image:     img,
		Stages:    pipeline.Stages(settings),
		Settings:  settings,
		ElapsedMS: elapsed.Milliseconds(),
	}
	if a.OutputPath != "" {
		path := a.OutputPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, s.cfg.OutputName)
		}
		if err := imaging.SavePNG(out, path); err != nil {
			return nil, err
		}
		logging.Info("saved processed map to %s", path)
		result.SavedTo = path
	}
	return result, nil
}

// === Settings Handlers ===

type settingsResult struct {
	Settings pipeline.Settings `json:"settings"`
	Stages   []pipeline.Stage  `json:"stages"`
	Undo     int               `json:"undo_steps"`
	Redo     int               `json:"redo_steps"`
}

// historyResult reports whether an undo or redo moved, plus the settings
// it landed on.
type historyResult struct {
	Changed bool `json:"changed"`
	settingsResult
}

func (s *Server) settingsResult() settingsResult {
	settings := s.history.Current()
	return settingsResult{
		Settings: settings,
		Stages:   pipeline.Stages(settings),
		Undo:     s.history.Len() - 1,
		Redo:     s.history.RedoLen(),
	}
}

func (s *Server) handleUpdateSettings(args json.RawMessage) (interface{}, error) {
	var raw map[string]interface{}
	if err := decodeArgs(args, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: at least one setting is required", errInvalidParams)
	}

	m := make(map[string]string, len(raw))
	for k, v := range raw {
		str, err := formatValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errInvalidParams, k, err)
		}
		m[k] = str
	}

	next, err := pipeline.SettingsFromMap(m, s.history.Current())
	if err != nil {
		return nil, err
	}
	s.history.Commit(next)
	logging.Debug("settings updated: %v", m)
	return s.settingsResult(), nil
}

// formatValue renders a JSON scalar the way Settings.Map does.
func formatValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

type exportSettingsArgs struct {
	Path string `json:"path"`
}

type exportSettingsResult struct {
	Settings map[string]string `json:"settings"`
	Path     string            `json:"path,omitempty"`
}

func (s *Server) handleExportSettings(args json.RawMessage) (interface{}, error) {
	var a exportSettingsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	m := s.history.Current().Map()
	if a.Path != "" {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode settings: %w", err)
		}
		if err := os.WriteFile(a.Path, append(data, '\n'), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write settings: %w", err)
		}
	}
	return exportSettingsResult{Settings: m, Path: a.Path}, nil
}

type importSettingsArgs struct {
	Settings map[string]string `json:"settings"`
	Path     string            `json:"path"`
}

func (s *Server) handleImportSettings(args json.RawMessage) (interface{}, error) {
	var a importSettingsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	m := a.Settings
	if len(m) == 0 {
		if a.Path == "" {
			return nil, fmt.Errorf("%w: settings or path is required", errInvalidParams)
		}
		data, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: settings file %s: %v", raster.ErrInvalidInput, a.Path, err)
		}
	}

	next, err := pipeline.SettingsFromMap(m, s.cfg.Settings)
	if err != nil {
		return nil, err
	}
	s.history.Commit(next)
	return s.settingsResult(), nil
}

// === Filter and Analysis Handlers ===

type applyFilterArgs struct {
	Filter    string   `json:"filter"`
	Param     *float64 `json:"param"`
	Processed bool     `json:"processed"`
	Scale     float64  `json:"scale"`
	Region    string   `json:"region"`
}

type applyFilterResult struct {
	Filter string               `json:"filter"`
	Param  float64              `json:"param,omitempty"`
	Image  *imaging.ImageResult `json:"image"`
}

func (s *Server) handleApplyFilter(args json.RawMessage) (interface{}, error) {
	var a applyFilterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	n, ok := filter.Lookup(a.Filter)
	if !ok {
		return nil, fmt.Errorf("%w: unknown filter %q", errInvalidParams, a.Filter)
	}

	src, processed, err := s.current()
	if err != nil {
		return nil, err
	}
	base := src.Raster
	if a.Processed {
		if processed == nil {
			return nil, errors.New("no processed map, call map_process first")
		}
		base = processed
	}

	param := n.Default
	if a.Param != nil {
		param = *a.Param
	}
	work := base.Clone()
	if err := n.Apply(work, param); err != nil {
		return nil, err
	}

	region, err := regionArg(a.Region, work)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Encode(work, region, scaleArg(a.Scale))
	if err != nil {
		return nil, err
	}
	return applyFilterResult{Filter: n.Name, Param: param, Image: img}, nil
}

type detectLayerArgs struct {
	Layer   string   `json:"layer"`
	Overlay bool     `json:"overlay"`
	Alpha   *float64 `json:"alpha"`
	Scale   float64  `json:"scale"`
}

type detectLayerResult struct {
	Layer    string               `json:"layer"`
	Pixels   int                  `json:"pixels"`
	Coverage float64              `json:"coverage"` // percent of the map
	Words    []ocr.Word           `json:"words,omitempty"`
	Image    *imaging.ImageResult `json:"image"`
}

func (s *Server) handleDetectLayer(args json.RawMessage) (interface{}, error) {
	var a detectLayerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	kind, err := layers.ParseKind(a.Layer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	src, _, err := s.current()
	if err != nil {
		return nil, err
	}

	var (
		mask  *filter.Mask
		words []ocr.Word
	)
	if kind == layers.Text {
		var result *ocr.Result
		mask, result, err = layers.DetectText(src.Raster, s.ocrOptions("", nil, nil), filter.TextPadding)
		if result != nil {
			words = result.Words
		}
	} else {
		mask, err = layers.Detect(src.Raster, kind)
	}
	if err != nil {
		return nil, err
	}

	var out *raster.Raster
	if a.Overlay {
		alpha := 0.5
		if a.Alpha != nil {
			alpha = *a.Alpha
		}
		out, err = layers.Overlay(src.Raster, layers.Tint{Mask: mask, Color: layers.DefaultColors[kind], Alpha: alpha})
		if err != nil {
			return nil, err
		}
	} else {
		out = mask.Raster()
	}

	img, err := imaging.Encode(out, nil, scaleArg(a.Scale))
	if err != nil {
		return nil, err
	}

	pixels := mask.Count()
	return detectLayerResult{
		Layer:    string(kind),
		Pixels:   pixels,
		Coverage: float64(pixels) * 100 / float64(mask.Width*mask.Height),
		Words:    words,
		Image:    img,
	}, nil
}

type detectTextArgs struct {
	Region        string   `json:"region"`
	Language      string   `json:"language"`
	MinConfidence *float64 `json:"min_confidence"`
}

// ocrOptions fills unset OCR options from the configuration.
func (s *Server) ocrOptions(language string, minConfidence *float64, region *image.Rectangle) ocr.Options {
	opts := ocr.Options{
		Language:      s.cfg.OCRLanguage,
		MinConfidence: s.cfg.OCRMinConfidence,
		Region:        region,
	}
	if language != "" {
		opts.Language = language
	}
	if minConfidence != nil {
		opts.MinConfidence = *minConfidence
	}
	return opts
}

func (s *Server) handleDetectText(args json.RawMessage) (interface{}, error) {
	var a detectTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	src, _, err := s.current()
	if err != nil {
		return nil, err
	}
	region, err := regionArg(a.Region, src.Raster)
	if err != nil {
		return nil, err
	}
	return ocr.Recognize(src.Raster, s.ocrOptions(a.Language, a.MinConfidence, region))
}

type sampleColorArgs struct {
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("%w: at least one point is required", errInvalidParams)
	}
	src, _, err := s.current()
	if err != nil {
		return nil, err
	}
	return imaging.SampleColorsMulti(src.Raster, a.Points)
}

type dominantColorsArgs struct {
	Count  int    `json:"count"`
	Region string `json:"region"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	src, _, err := s.current()
	if err != nil {
		return nil, err
	}
	region, err := regionArg(a.Region, src.Raster)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(src.Raster, a.Count, region)
}
