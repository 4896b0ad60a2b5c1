package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength-training journal. Query per-month training metrics, flat set history, the exercise catalogue and weekly KPIs. Months are YYYY-MM; omit month for all data."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTrainingMetrics, Handler: h.getTrainingMetrics},
		server.ServerTool{Tool: toolGetWorkoutSets, Handler: h.getWorkoutSets},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetKPI, Handler: h.getKPI},
		server.ServerTool{Tool: toolCompareMonths, Handler: h.compareMonths},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resWeeklyKPI, Handler: h.weeklyKPI},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"liftlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All catalogue exercises with category and body part"),
	mcp.WithMIMEType("application/json"),
)

var resWeeklyKPI = mcp.NewResource(
	"liftlog://weekly_kpi",
	"Weekly KPI",
	mcp.WithResourceDescription("Latest training week compared with the week before: volume, estimated 1RM and sets per session"),
	mcp.WithMIMEType("application/json"),
)
