package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/claude/liftlog/internal/metrics"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var groupNames = metrics.DefaultRegistry().Names()

var toolGetTrainingMetrics = mcp.NewTool("get_training_metrics",
	mcp.WithDescription("Compute training metrics for one month or all data. Without group, returns every group (sessions, exercises, sets, frequency, fatigue, progress, body, correlations); a group with too little data is {} and a failed group is {\"error\": ...}."),
	mcp.WithString("month", mcp.Description("Calendar month as YYYY-MM. Omit for all data.")),
	mcp.WithString("group", mcp.Description("Single metric group to return."), mcp.Enum(groupNames...)),
)

var toolGetWorkoutSets = mcp.NewTool("get_workout_sets",
	mcp.WithDescription("Flat list of logged sets: date, exercise, set number, reps, weight and RIR, ordered by date then exercise then set."),
	mcp.WithString("month", mcp.Description("Calendar month as YYYY-MM. Omit for all data.")),
	mcp.WithString("exercise", mcp.Description("Exact exercise name, case-insensitive.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalogue with category and body part."),
)

var toolGetKPI = mcp.NewTool("get_kpi",
	mcp.WithDescription("Weekly KPIs: total volume, mean estimated 1RM and sets per session for the latest training week against the one before, with percent change."),
	mcp.WithString("month", mcp.Description("Calendar month as YYYY-MM. Omit for all data.")),
)

var toolCompareMonths = mcp.NewTool("compare_months",
	mcp.WithDescription("Compute one metric group for two months side by side (e.g. this month vs last month)."),
	mcp.WithString("group", mcp.Required(), mcp.Description("Metric group to compare."), mcp.Enum(groupNames...)),
	mcp.WithString("month_a", mcp.Required(), mcp.Description("First month as YYYY-MM")),
	mcp.WithString("month_b", mcp.Required(), mcp.Description("Second month as YYYY-MM")),
)

// --- Tool handlers ---

func (h *handlers) getTrainingMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month := strings.TrimSpace(req.GetString("month", ""))
	group := strings.TrimSpace(req.GetString("group", ""))

	var (
		data json.RawMessage
		err  error
	)
	if group == "" {
		data, err = h.ds.Metrics(ctx, month)
	} else {
		data, err = h.ds.Group(ctx, month, group)
	}
	if err != nil {
		h.log.Error("mcp get_training_metrics", "month", month, "group", group, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) getWorkoutSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month := strings.TrimSpace(req.GetString("month", ""))
	exercise := strings.TrimSpace(req.GetString("exercise", ""))

	data, err := h.ds.Sets(ctx, month, exercise)
	if err != nil {
		h.log.Error("mcp get_workout_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getKPI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := h.ds.KPI(ctx, strings.TrimSpace(req.GetString("month", "")))
	if err != nil {
		h.log.Error("mcp get_kpi", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) compareMonths(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("group")
	if err != nil {
		return mcp.NewToolResultError("group is required"), nil
	}
	monthA, err := req.RequireString("month_a")
	if err != nil {
		return mcp.NewToolResultError("month_a is required"), nil
	}
	monthB, err := req.RequireString("month_b")
	if err != nil {
		return mcp.NewToolResultError("month_b is required"), nil
	}

	a, err := h.ds.Group(ctx, monthA, group)
	if err != nil {
		h.log.Error("mcp compare_months A", "error", err)
		return mcp.NewToolResultError("query failed for month_a: " + err.Error()), nil
	}
	b, err := h.ds.Group(ctx, monthB, group)
	if err != nil {
		h.log.Error("mcp compare_months B", "error", err)
		return mcp.NewToolResultError("query failed for month_b: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"group":   group,
		"month_a": map[string]any{"month": monthA, "value": a},
		"month_b": map[string]any{"month": monthB, "value": b},
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
