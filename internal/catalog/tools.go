package catalog

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// FromTools generates a catalog for tools exposed as plain HTTP operations:
// each tool becomes POST /<tool name> whose JSON request body follows the
// tool's input schema.
func FromTools(title, version string, tools []mcp.Tool) Document {
	doc := New(title, version)
	paths := doc.Paths()

	for _, tool := range tools {
		paths["/"+tool.Name] = map[string]any{
			"post": operationFor(tool),
		}
	}
	return doc
}

func operationFor(tool mcp.Tool) map[string]any {
	schema := map[string]any{"type": "object"}
	if tool.InputSchema.Properties != nil {
		schema["properties"] = tool.InputSchema.Properties
	}
	if len(tool.InputSchema.Required) > 0 {
		schema["required"] = tool.InputSchema.Required
	}

	op := map[string]any{
		"operationId": operationID(tool.Name),
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": schema},
			},
		},
		"responses": map[string]any{
			"200": map[string]any{
				"description": "Tool result",
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"type": "object"},
					},
				},
			},
		},
	}
	if tool.Description != "" {
		op["summary"] = tool.Description
	}
	return op
}

// operationID turns get_weather into getWeather.
func operationID(name string) string {
	out := make([]byte, 0, len(name))
	upper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || c == '-' || c == '.' {
			upper = len(out) > 0
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
