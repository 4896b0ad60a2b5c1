package txtlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

//go:generate mockgen -source=provider.go -destination=mock_store_test.go -package=txtlog

var (
	// ErrUnresolved is returned by Commit while some parsed name has no exercise.
	ErrUnresolved = errors.New("unresolved exercise names")
	// ErrNoDate is returned by Commit when neither the caller nor the file gives a date.
	ErrNoDate = errors.New("session date unknown")
	// ErrUnknownExercise is returned when an alias targets an ID not in the catalogue.
	ErrUnknownExercise = errors.New("unknown exercise")
	// ErrUnknownName is returned when an alias names something the file does not contain.
	ErrUnknownName = errors.New("name not in staged file")
)

// Resolution states.
const (
	StatusMatched    = "matched"
	StatusAliased    = "aliased"
	StatusUnresolved = "unresolved"
)

// Store is the persistence the importer needs.
type Store interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error)
	InsertWorkout(ctx context.Context, w models.NewWorkout) (int64, error)
	InsertImportLog(ctx context.Context, l storage.ImportLog) (int64, error)
}

// Resolution says how one distinct parsed name maps to the catalogue.
type Resolution struct {
	Name         string      `json:"name"`
	Key          string      `json:"key"`
	Status       string      `json:"status"`
	ExerciseID   *int64      `json:"exercise_id,omitempty"`
	ExerciseName string      `json:"exercise_name,omitempty"`
	Candidates   []Candidate `json:"candidates,omitempty"`
}

// BlockSummary is a parsed block as shown for review.
type BlockSummary struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Sets   int    `json:"sets"`
}

// Plan is the reviewable state of a staged file.
type Plan struct {
	ImportID    string            `json:"import_id"`
	FileName    string            `json:"file_name"`
	Date        string            `json:"date,omitempty"`
	Start       *models.TimeOfDay `json:"start_time,omitempty"`
	End         *models.TimeOfDay `json:"end_time,omitempty"`
	Blocks      []BlockSummary    `json:"blocks"`
	Resolutions []Resolution      `json:"resolutions"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	Ready       bool              `json:"ready"`

	parsed *Parsed
	date   *time.Time
}

// Unresolved returns the names still lacking an exercise.
func (p *Plan) Unresolved() []string {
	var out []string
	for _, r := range p.Resolutions {
		if r.Status == StatusUnresolved {
			out = append(out, r.Name)
		}
	}
	return out
}

// Provider stages, resolves and commits workout text logs.
type Provider struct {
	store   Store
	staging *StagingDB
	log     *slog.Logger
	now     func() time.Time
}

// NewProvider creates a new text log import provider.
func NewProvider(store Store, staging *StagingDB, log *slog.Logger) *Provider {
	return &Provider{store: store, staging: staging, log: log, now: time.Now}
}

// Stage parses content and stores it as the staged file. date overrides any
// date found in the file header.
func (p *Provider) Stage(ctx context.Context, name string, content []byte, date *time.Time) (*Plan, error) {
	if _, err := Parse(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	id := ContentHash(content)
	replaced, err := p.staging.Stage(ctx, StagedFile{ImportID: id, Name: name, Content: content, StagedAt: p.now()})
	if err != nil {
		return nil, err
	}
	if replaced {
		p.log.Info("replaced staged file", "import_id", id, "name", name)
	}
	return p.plan(ctx, id, date)
}

// Plan returns the current resolution state of a staged import.
func (p *Provider) Plan(ctx context.Context, importID string, date *time.Time) (*Plan, error) {
	return p.plan(ctx, importID, date)
}

// ConfirmAlias maps a parsed name to an existing catalogue exercise.
func (p *Provider) ConfirmAlias(ctx context.Context, importID, name string, exerciseID int64) (*Plan, error) {
	plan, err := p.plan(ctx, importID, nil)
	if err != nil {
		return nil, err
	}
	key := Normalize(name)
	if !plan.hasKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}

	exercises, err := p.store.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	if _, ok := NewMatcher(exercises).Lookup(exerciseID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownExercise, exerciseID)
	}

	if err := p.staging.SetAlias(ctx, importID, key, exerciseID); err != nil {
		return nil, err
	}
	return p.plan(ctx, importID, nil)
}

// AddExercise creates a catalogue exercise for a parsed name and aliases the
// name to it. An empty e.Name takes the parsed name.
func (p *Provider) AddExercise(ctx context.Context, importID, name string, e models.Exercise) (*Plan, error) {
	plan, err := p.plan(ctx, importID, nil)
	if err != nil {
		return nil, err
	}
	key := Normalize(name)
	if !plan.hasKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	if e.Name == "" {
		e.Name = name
	}

	created, err := p.store.AddExercise(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("adding exercise %q: %w", e.Name, err)
	}
	p.log.Info("added exercise", "id", created.ID, "name", created.Name)

	if err := p.staging.SetAlias(ctx, importID, key, created.ID); err != nil {
		return nil, err
	}
	return p.plan(ctx, importID, nil)
}

// Commit writes the staged file as one session. It refuses while any name is
// unresolved or no date is known. Repeated commits insert repeated sessions.
func (p *Provider) Commit(ctx context.Context, importID string, date *time.Time) (*ingest.Result, error) {
	start := p.now()
	plan, err := p.plan(ctx, importID, date)
	if err != nil {
		return nil, err
	}
	if names := plan.Unresolved(); len(names) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnresolved, names)
	}
	if plan.date == nil {
		return nil, ErrNoDate
	}

	ids := make(map[string]int64, len(plan.Resolutions))
	for _, r := range plan.Resolutions {
		ids[r.Key] = *r.ExerciseID
	}

	w := models.NewWorkout{Date: *plan.date, Start: plan.Start, End: plan.End}
	for _, b := range plan.parsed.Blocks {
		w.Exercises = append(w.Exercises, models.NewWorkoutExercise{
			ExerciseID: ids[Normalize(b.Name)],
			Sets:       b.Sets,
		})
	}

	result := &ingest.Result{
		ExercisesReceived: len(w.Exercises),
		BlocksSkipped:     len(plan.Diagnostics),
		SetsReceived:      w.SetCount(),
	}
	sessionID, err := p.store.InsertWorkout(ctx, w)
	if err != nil {
		p.logImport(ctx, plan, result, start, err)
		return nil, fmt.Errorf("committing %s: %w", plan.FileName, err)
	}
	result.SessionID = sessionID
	result.ExercisesInserted = len(w.Exercises)
	result.SetsInserted = int64(w.SetCount())
	result.Message = fmt.Sprintf("session %d on %s: %d exercises, %d sets",
		sessionID, plan.Date, result.ExercisesInserted, result.SetsInserted)

	p.log.Info("committed workout log",
		"import_id", importID, "session_id", sessionID,
		"exercises", result.ExercisesInserted, "sets", result.SetsInserted)
	p.logImport(ctx, plan, result, start, nil)
	return result, nil
}

// logImport records the outcome of a commit. Failures are only logged.
func (p *Provider) logImport(ctx context.Context, plan *Plan, result *ingest.Result, start time.Time, importErr error) {
	durationMs := int(p.now().Sub(start).Milliseconds())
	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}

	meta, _ := json.Marshal(map[string]any{
		"request_id": uuid.NewString(),
		"import_id":  plan.ImportID,
		"file_name":  plan.FileName,
		"date":       plan.Date,
	})
	raw := json.RawMessage(meta)

	l := storage.ImportLog{
		Source:            "txt",
		Status:            status,
		ExercisesReceived: result.ExercisesReceived,
		ExercisesInserted: result.ExercisesInserted,
		SetsReceived:      result.SetsReceived,
		SetsInserted:      result.SetsInserted,
		DurationMs:        &durationMs,
		ErrorMessage:      errMsg,
		Metadata:          &raw,
	}
	if _, err := p.store.InsertImportLog(context.WithoutCancel(ctx), l); err != nil {
		p.log.Error("failed to log import", "import_id", plan.ImportID, "error", err)
	}
}

// plan parses the staged file and resolves every distinct name against the
// catalogue and the confirmed aliases.
func (p *Provider) plan(ctx context.Context, importID string, date *time.Time) (*Plan, error) {
	f, err := p.staging.Get(ctx, importID)
	if err != nil {
		return nil, err
	}
	parsed, err := Parse(bytes.NewReader(f.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
	}
	exercises, err := p.store.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	aliases, err := p.staging.Aliases(ctx, importID)
	if err != nil {
		return nil, err
	}
	m := NewMatcher(exercises)

	plan := &Plan{
		ImportID:    f.ImportID,
		FileName:    f.Name,
		Start:       parsed.Start,
		End:         parsed.End,
		Diagnostics: parsed.Diagnostics,
		parsed:      parsed,
		date:        parsed.Date,
	}
	if date != nil {
		d := models.DayOf(*date)
		plan.date = &d
	}
	if plan.date != nil {
		plan.Date = plan.date.Format(models.DateLayout)
	}

	seen := make(map[string]bool)
	for _, b := range parsed.Blocks {
		plan.Blocks = append(plan.Blocks, BlockSummary{Number: b.Number, Name: b.Name, Sets: len(b.Sets)})
		key := Normalize(b.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		plan.Resolutions = append(plan.Resolutions, resolve(m, aliases, b.Name, key))
	}
	plan.Ready = plan.date != nil && len(plan.Unresolved()) == 0
	return plan, nil
}

// resolve prefers a confirmed alias over an exact catalogue match.
func resolve(m *Matcher, aliases map[string]int64, name, key string) Resolution {
	r := Resolution{Name: name, Key: key, Status: StatusUnresolved}
	if id, ok := aliases[key]; ok {
		if e, ok := m.Lookup(id); ok {
			r.Status, r.ExerciseID, r.ExerciseName = StatusAliased, &e.ID, e.Name
			return r
		}
	}
	if e, ok := m.Exact(key); ok {
		r.Status, r.ExerciseID, r.ExerciseName = StatusMatched, &e.ID, e.Name
		return r
	}
	r.Candidates = m.Candidates(key)
	return r
}

func (p *Plan) hasKey(key string) bool {
	for _, r := range p.Resolutions {
		if r.Key == key {
			return true
		}
	}
	return false
}
