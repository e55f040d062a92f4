// Package echo is the embedded echo plugin. It answers POST /call with the
// message it was given and exposes the same behaviour as the MCP tool "echo".
package echo

import (
	"context"
	"net/http"

	"mcphub/internal/catalog"
	"mcphub/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	Name    = "echo"
	Version = "0.1.0"
)

// Request is the body of POST /call.
type Request struct {
	Msg string `json:"msg"`
}

// Response is returned by POST /call and as the tool's structured content.
type Response struct {
	Echo string `json:"echo"`
}

// Descriptor returns the plugin descriptor.
func Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		Name:     Name,
		Catalog:  catalog.Immediate(Catalog()),
		Register: register,
	}
}

func register(ns *plugin.Namespace) {
	// Any method: callers commonly issue GET with a body as well as POST.
	ns.HandleFunc("/call", handleCall)
	ns.HandleMCP(NewMCPServer())
}

func handleCall(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := plugin.DecodeJSON(r, &req); err != nil {
		plugin.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	plugin.WriteJSON(w, http.StatusOK, Response{Echo: req.Msg})
}

// Tool returns the MCP definition of the echo tool.
func Tool() mcp.Tool {
	return mcp.NewTool("echo",
		mcp.WithDescription("Echo back a string"),
		mcp.WithString("msg",
			mcp.Required(),
			mcp.Description("Message to echo back"),
		),
	)
}

// NewMCPServer returns an MCP server exposing the echo tool.
func NewMCPServer() *server.MCPServer {
	s := server.NewMCPServer(Name, Version, server.WithToolCapabilities(true))
	s.AddTool(Tool(), handleTool)
	return s
}

func handleTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := req.RequireString("msg")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := mcp.NewToolResultText(msg)
	result.StructuredContent = Response{Echo: msg}
	return result, nil
}

// Catalog returns the static catalog of the plugin's HTTP routes.
func Catalog() catalog.Document {
	doc := catalog.New("Echo MCP", Version)
	doc.Paths()["/call"] = map[string]any{
		"post": map[string]any{
			"operationId": "callEcho",
			"requestBody": map[string]any{
				"required": true,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": objectSchema(map[string]any{"msg": stringSchema}, "msg"),
					},
				},
			},
			"responses": map[string]any{
				"200": map[string]any{
					"description": "Echo response",
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": objectSchema(map[string]any{"echo": stringSchema}, "echo"),
						},
					},
				},
			},
		},
	}
	return doc
}

var stringSchema = map[string]any{"type": "string"}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
