// Package dashboard serves metric reports for the HTTP and MCP surfaces,
// memoizing the JSON of each computed view.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/claude/liftlog/internal/instrumentation"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/models"
	"github.com/coocood/freecache"
)

const (
	megabyte = 1024 * 1024
	// cacheExpire bounds staleness from writers that cannot call Invalidate,
	// such as the command-line importer.
	cacheExpire = 5 * 60
)

// ErrUnknownGroup is returned for a group name the registry does not list.
var ErrUnknownGroup = errors.New("unknown metric group")

// Loader reads the stored data.
type Loader interface {
	LoadRaw(ctx context.Context) (models.RawTables, error)
	LoadSetsView(ctx context.Context) (models.Table, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
}

// Service computes reports from the loader's data.
type Service struct {
	loader     Loader
	assembler  *metrics.Assembler
	engine     *metrics.Engine
	cache      *freecache.Cache
	generation atomic.Uint64
	inst       *instrumentation.Instrumentation
	log        *slog.Logger
}

// NewService creates a Service with a cacheMB megabyte memoizer. inst may be nil.
func NewService(loader Loader, engine *metrics.Engine, cacheMB int, inst *instrumentation.Instrumentation, log *slog.Logger) *Service {
	return &Service{
		loader:    loader,
		assembler: metrics.NewAssembler(log),
		engine:    engine,
		cache:     freecache.NewCache(max(cacheMB, 1) * megabyte),
		inst:      inst,
		log:       log,
	}
}

// Groups lists the metric group names in report order.
func (s *Service) Groups() []string {
	return s.engine.Registry().Names()
}

// Invalidate drops every memoized view. Call after any write.
func (s *Service) Invalidate() {
	s.generation.Add(1)
	s.cache.Clear()
}

// Metrics returns the full report for month ("" for all data).
func (s *Service) Metrics(ctx context.Context, month string) (json.RawMessage, error) {
	return s.cached("metrics", month, func() (any, error) {
		in, err := s.input(ctx, month)
		if err != nil {
			return nil, err
		}
		return s.engine.Run(in), nil
	})
}

// Group returns one metric group for month.
func (s *Service) Group(ctx context.Context, month, name string) (json.RawMessage, error) {
	if _, ok := s.engine.Registry().Lookup(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return s.cached("group:"+name, month, func() (any, error) {
		in, err := s.input(ctx, month)
		if err != nil {
			return nil, err
		}
		v, _ := s.engine.RunGroup(name, in)
		return v, nil
	})
}

// Sets returns the flat set rows for month, optionally restricted to one
// exercise name (case-insensitive).
func (s *Service) Sets(ctx context.Context, month, exercise string) (json.RawMessage, error) {
	return s.cached("sets:"+strings.ToLower(exercise), month, func() (any, error) {
		rows, err := s.sets(ctx, month)
		if err != nil {
			return nil, err
		}
		if exercise == "" {
			return rows, nil
		}
		out := []models.SetViewRow{}
		for _, r := range rows {
			if strings.EqualFold(r.ExerciseName, exercise) {
				out = append(out, r)
			}
		}
		return out, nil
	})
}

// KPI returns the weekly KPI summary for month.
func (s *Service) KPI(ctx context.Context, month string) (json.RawMessage, error) {
	return s.cached("kpi", month, func() (any, error) {
		rows, err := s.sets(ctx, month)
		if err != nil {
			return nil, err
		}
		return metrics.ComputeKPI(rows), nil
	})
}

// ListExercises returns the exercise catalogue. It is not memoized.
func (s *Service) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	exercises, err := s.loader.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	return exercises, nil
}

func (s *Service) input(ctx context.Context, month string) (*metrics.Input, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	raw, err := s.loader.LoadRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tables: %w", err)
	}
	in, err := s.assembler.Assemble(raw)
	if err != nil {
		return nil, fmt.Errorf("assembling input: %w", err)
	}
	in, _, err = metrics.FilterByMonth(in, nil, month)
	return in, err
}

func (s *Service) sets(ctx context.Context, month string) ([]models.SetViewRow, error) {
	if err := checkMonth(month); err != nil {
		return nil, err
	}
	view, err := s.loader.LoadSetsView(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sets view: %w", err)
	}
	rows, err := s.assembler.AssembleSetsView(view)
	if err != nil {
		return nil, fmt.Errorf("assembling sets view: %w", err)
	}
	_, rows, err = metrics.FilterByMonth(&metrics.Input{}, rows, month)
	if rows == nil && err == nil {
		rows = []models.SetViewRow{}
	}
	return rows, err
}

// cached returns the memoized JSON for kind and month, computing and storing
// it on a miss. Errors are not memoized.
func (s *Service) cached(kind, month string, compute func() (any, error)) (json.RawMessage, error) {
	key := []byte(fmt.Sprintf("%d|%s|%s", s.generation.Load(), kind, month))
	if b, err := s.cache.Get(key); err == nil {
		s.countCache(true)
		return b, nil
	}
	s.countCache(false)

	v, err := compute()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", kind, err)
	}
	if err := s.cache.Set(key, b, cacheExpire); err != nil {
		s.log.Warn("failed to cache report", "kind", kind, "month", month, "error", err)
	}
	return b, nil
}

func (s *Service) countCache(hit bool) {
	if s.inst == nil {
		return
	}
	if hit {
		s.inst.CounterCacheHits.Inc()
	} else {
		s.inst.CounterCacheMisses.Inc()
	}
}

func checkMonth(month string) error {
	if month == "" {
		return nil
	}
	_, err := metrics.ParseMonth(month)
	return err
}
