package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Empty renders as {} for a group without enough data.
type Empty struct{}

// Failure renders as {"error": "..."} for a group that failed.
type Failure struct {
	Error string `json:"error"`
}

// Observer is told how long each group took and whether it failed.
type Observer func(group string, elapsed time.Duration, err error)

// Engine runs a registry over an input.
type Engine struct {
	registry Registry
	params   Params
	observe  Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver installs a per-group observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observe = o }
}

// NewEngine creates an engine over the given registry.
func NewEngine(reg Registry, p Params, opts ...Option) *Engine {
	e := &Engine{registry: reg, params: p}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's registry.
func (e *Engine) Registry() Registry {
	return e.registry
}

// Run computes every group in registry order. A failing group is reported as
// a Failure and does not stop the others.
func (e *Engine) Run(in *Input) *Report {
	r := &Report{values: make(map[string]any, len(e.registry))}
	for _, entry := range e.registry {
		r.names = append(r.names, entry.Name)
		r.values[entry.Name] = e.run(entry, in)
	}
	return r
}

// RunGroup computes a single group by name.
func (e *Engine) RunGroup(name string, in *Input) (any, bool) {
	entry, ok := e.registry.Lookup(name)
	if !ok {
		return nil, false
	}
	return e.run(entry, in), true
}

func (e *Engine) run(entry Entry, in *Input) (v any) {
	start := time.Now()
	var err error
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			v = Failure{Error: err.Error()}
		}
		if e.observe != nil {
			e.observe(entry.Name, time.Since(start), err)
		}
	}()

	if in == nil {
		in = &Input{}
	}
	out, err := entry.Fn(in, e.params)
	switch {
	case err != nil:
		return Failure{Error: err.Error()}
	case out == nil:
		return Empty{}
	}
	return out
}

// Report is the output of one engine run, keyed by group name in registry
// order.
type Report struct {
	names  []string
	values map[string]any
}

// Names returns the group names in order.
func (r *Report) Names() []string {
	return r.names
}

// Get returns the value of one group.
func (r *Report) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Failed reports whether the named group failed.
func (r *Report) Failed(name string) bool {
	_, ok := r.values[name].(Failure)
	return ok
}

// MarshalJSON writes the groups as one object, keys in registry order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[name])
		if err != nil {
			val, _ = json.Marshal(Failure{Error: fmt.Sprintf("encoding %s: %v", name, err)})
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
