package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftlog/internal/dashboard"
	"github.com/claude/liftlog/internal/models"
)

// DataSource abstracts the report layer for MCP tools. Both
// *dashboard.Service (in-process) and HTTPClient (remote via REST API)
// satisfy this interface.
type DataSource interface {
	Metrics(ctx context.Context, month string) (json.RawMessage, error)
	Group(ctx context.Context, month, name string) (json.RawMessage, error)
	Sets(ctx context.Context, month, exercise string) (json.RawMessage, error)
	KPI(ctx context.Context, month string) (json.RawMessage, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
}

// Compile-time check: *dashboard.Service satisfies DataSource.
var _ DataSource = (*dashboard.Service)(nil)
