package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/txtlog"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/upload"
)

// importer is satisfied by the local provider and the remote client.
type importer interface {
	Stage(ctx context.Context, name string, content []byte, date *time.Time) (*txtlog.Plan, error)
	ConfirmAlias(ctx context.Context, importID, name string, exerciseID int64) (*txtlog.Plan, error)
	AddExercise(ctx context.Context, importID, name string, e models.Exercise) (*txtlog.Plan, error)
	Commit(ctx context.Context, importID string, date *time.Time) (*ingest.Result, error)
}

var (
	_ importer = (*txtlog.Provider)(nil)
	_ importer = (*upload.Client)(nil)
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ", ") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to the workout text log (required)")
	dateStr := flag.String("date", "", "session date YYYY-MM-DD, overrides the date in the file")
	dryRun := flag.Bool("dry-run", false, "stage and print the plan without writing the session")
	serverURL := flag.String("server", "", "import through a running LiftLog server instead of the database")
	apiKey := flag.String("api-key", os.Getenv("LIFTLOG_AUTH_API_KEY"), "API key for -server")
	var aliases, adds listFlag
	flag.Var(&aliases, "alias", "map a parsed name to an exercise ID, as name=id (repeatable)")
	flag.Var(&adds, "add", "create an exercise for a parsed name, as name=category/body_part (repeatable)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml -file day.txt [-date 2025-04-12] [-alias name=id] [-add name=category/body_part] [-dry-run] [-server URL -api-key KEY]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var date *time.Time
	if *dateStr != "" {
		d, err := time.Parse(models.DateLayout, *dateStr)
		if err != nil {
			log.Error("invalid -date, want YYYY-MM-DD", "date", *dateStr)
			os.Exit(1)
		}
		date = &d
	}

	content, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	name := filepath.Base(*filePath)

	if *serverURL != "" {
		log.Info("importing through server", "url", *serverURL)
		c := upload.NewClient(*serverURL, *apiKey)
		if err := run(ctx, log, c, name, content, date, aliases, adds, *dryRun); err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *dryRun {
		log.Info("DRY RUN mode: the session will not be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	staging, err := txtlog.OpenStagingDB(cfg.Staging.Dir)
	if err != nil {
		log.Error("failed to open staging db", "dir", cfg.Staging.Dir, "error", err)
		os.Exit(1)
	}
	defer staging.Close()

	p := txtlog.NewProvider(db, staging, log)
	if err := run(ctx, log, p, name, content, date, aliases, adds, *dryRun); err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, p importer, name string, content []byte, date *time.Time, aliases, adds []string, dryRun bool) error {
	plan, err := p.Stage(ctx, name, content, date)
	if err != nil {
		return err
	}
	log.Info("file staged", "import_id", plan.ImportID, "blocks", len(plan.Blocks))

	for _, a := range aliases {
		parsed, idStr, ok := cutLast(a, "=")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if !ok || err != nil {
			return fmt.Errorf("invalid -alias %q, want name=id", a)
		}
		if plan, err = p.ConfirmAlias(ctx, plan.ImportID, parsed, id); err != nil {
			return fmt.Errorf("alias %q: %w", parsed, err)
		}
	}
	for _, a := range adds {
		parsed, details, ok := cutLast(a, "=")
		if !ok {
			return fmt.Errorf("invalid -add %q, want name=category/body_part", a)
		}
		category, bodyPart, _ := strings.Cut(details, "/")
		e := models.Exercise{Category: strings.TrimSpace(category), BodyPart: strings.TrimSpace(bodyPart)}
		if plan, err = p.AddExercise(ctx, plan.ImportID, parsed, e); err != nil {
			return fmt.Errorf("add %q: %w", parsed, err)
		}
	}

	printPlan(log, plan)

	if dryRun {
		return nil
	}
	result, err := p.Commit(ctx, plan.ImportID, date)
	if err != nil {
		return err
	}
	printResult(log, result)
	return nil
}

// cutLast splits s around the last sep so names may contain sep.
func cutLast(s, sep string) (before, after string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):]), true
}

func printPlan(log *slog.Logger, plan *txtlog.Plan) {
	log.Info("import plan",
		"file", plan.FileName,
		"date", plan.Date,
		"blocks", len(plan.Blocks),
		"ready", plan.Ready,
	)
	for _, r := range plan.Resolutions {
		switch r.Status {
		case txtlog.StatusUnresolved:
			var cands []string
			for _, c := range r.Candidates {
				cands = append(cands, fmt.Sprintf("%d:%s(%.2f)", c.ExerciseID, c.Name, c.Score))
			}
			log.Warn("unresolved exercise", "name", r.Name, "candidates", strings.Join(cands, " "))
		default:
			log.Info("resolved exercise", "name", r.Name, "status", r.Status, "exercise", r.ExerciseName)
		}
	}
	for _, d := range plan.Diagnostics {
		log.Warn("skipped block", "line", d.Line, "exercise", d.Exercise, "reason", d.Message)
	}
}

func printResult(log *slog.Logger, r *ingest.Result) {
	log.Info("import stats",
		"session_id", r.SessionID,
		"exercises_received", r.ExercisesReceived,
		"exercises_inserted", r.ExercisesInserted,
		"blocks_skipped", r.BlocksSkipped,
		"sets_received", r.SetsReceived,
		"sets_inserted", r.SetsInserted,
	)
	log.Info("import complete")
}
