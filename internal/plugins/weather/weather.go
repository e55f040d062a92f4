// Package weather is the embedded weather plugin. It makes up weather
// reports for a city; its catalog is generated from the tool definition when
// the aggregator loads.
package weather

import (
	"context"
	"math"
	"math/rand/v2"
	"net/http"

	"mcphub/internal/catalog"
	"mcphub/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	Name    = "weather"
	Version = "0.1.0"
)

// Conditions lists every condition a report can carry.
var Conditions = []string{"sunny", "cloudy", "rainy", "stormy", "snowy"}

// Request is the body of POST /get_weather.
type Request struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

type Temperature struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
}

// Report is a generated weather report.
type Report struct {
	Temperature Temperature `json:"temperature"`
	Conditions  string      `json:"conditions"`
}

// Forecast generates a report. A nil r uses the global source.
func Forecast(r *rand.Rand) Report {
	float, intn := rand.Float64, rand.IntN
	if r != nil {
		float, intn = r.Float64, r.IntN
	}

	celsius := math.Round((float()*35-5)*10) / 10
	return Report{
		Temperature: Temperature{
			Celsius:    celsius,
			Fahrenheit: math.Round(celsius*9/5 + 32),
		},
		Conditions: Conditions[intn(len(Conditions))],
	}
}

// Descriptor returns the plugin descriptor.
func Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		Name: Name,
		Catalog: catalog.Deferred(func(context.Context) (catalog.Document, error) {
			return catalog.FromTools("Weather MCP", Version, []mcp.Tool{Tool()}), nil
		}),
		Register: register,
	}
}

func register(ns *plugin.Namespace) {
	ns.HandleFunc("POST /get_weather", handleGetWeather)
	ns.HandleMCP(NewMCPServer())
}

func handleGetWeather(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := plugin.DecodeJSON(r, &req); err != nil {
		plugin.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.City == "" {
		plugin.WriteError(w, http.StatusBadRequest, "city is required")
		return
	}
	plugin.WriteJSON(w, http.StatusOK, Forecast(nil))
}

// Tool returns the MCP definition of get_weather.
func Tool() mcp.Tool {
	return mcp.NewTool("get_weather",
		mcp.WithDescription("Returns fake weather for a city"),
		mcp.WithString("city",
			mcp.Required(),
			mcp.Description("City to report on"),
		),
		mcp.WithString("country",
			mcp.Description("Optional country, to tell cities of the same name apart"),
		),
	)
}

// NewMCPServer returns an MCP server exposing get_weather.
func NewMCPServer() *server.MCPServer {
	s := server.NewMCPServer(Name, Version, server.WithToolCapabilities(true))
	s.AddTool(Tool(), handleTool)
	return s
}

func handleTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := req.RequireString("city"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report := Forecast(nil)
	result := mcp.NewToolResultText(report.Conditions)
	result.StructuredContent = report
	return result, nil
}
