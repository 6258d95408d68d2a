package server

import (
	"encoding/json"
	"testing"

	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"map_load",
		"map_process",
		"map_get_settings",
		"map_update_settings",
		"map_reset_settings",
		"map_undo",
		"map_redo",
		"map_export_settings",
		"map_import_settings",
		"map_list_filters",
		"map_apply_filter",
		"map_detect_layer",
		"map_detect_text",
		"map_sample_color",
		"map_dominant_colors",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties missing")
			}
			if required, ok := tool.InputSchema["required"].([]string); ok {
				for _, r := range required {
					if _, ok := props[r]; !ok {
						t.Errorf("required property %s not defined", r)
					}
				}
			}
		})
	}
}

func TestToolDefinitions_JSONSerializable(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal tools: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal tools: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("tool %v missing inputSchema key", tool["name"])
		}
	}
}

func TestUpdateSettingsSchema_CoversEverySetting(t *testing.T) {
	var update Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "map_update_settings" {
			update = tool
		}
	}

	props := update.InputSchema["properties"].(map[string]interface{})
	for _, key := range pipeline.Keys() {
		prop, ok := props[key].(map[string]interface{})
		if !ok {
			t.Errorf("setting %s missing from schema", key)
			continue
		}
		if prop["description"] == "" {
			t.Errorf("setting %s has no description", key)
		}
	}
	if len(props) != len(pipeline.Keys()) {
		t.Errorf("schema has %d properties, want %d", len(props), len(pipeline.Keys()))
	}
}
