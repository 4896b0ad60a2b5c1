// Package txtlog imports hand-written workout logs.
//
// A log is one session:
//
//	12.04.2025
//	Godzina: 18:00 - 19:15
//	1. Bench Press
//	8x80 / 8x80 / 6x82,5
//	RIR: 2 / 1 / 0
//	2. Pull-ups
//	10x0 / 8x0
//	RIR: 1 / 0
package txtlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"go.uber.org/multierr"
)

var (
	// exerciseRe matches: 1. Bench Press. The space keeps 12.04.2025 a date.
	exerciseRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)

	// timeRangeRe matches: Godzina: 18:00 - 19:15 (dash may be -, – or —)
	timeRangeRe = regexp.MustCompile(`Godzina:\s*(\d{1,2}:\d{2})\s*[-–—]\s*(\d{1,2}:\d{2})`)

	// dateRe matches a dd.mm.yyyy date anywhere in a header line.
	dateRe = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)

	// rirLineRe matches: RIR: 2 / 1 / 0
	rirLineRe = regexp.MustCompile(`(?i)^RIR\s*:?\s*(.*)$`)

	// setRe matches: 8x80, 8 x 82,5, 10x0kg
	setRe = regexp.MustCompile(`^(\d+)\s*[xX×]\s*(\d+(?:[.,]\d+)?)\s*(?:kg)?$`)
)

// ErrNoBlocks is returned when a file yields no usable exercise block.
var ErrNoBlocks = errors.New("no exercise blocks parsed")

// Block is one accepted exercise with its sets in file order.
type Block struct {
	Number int
	Name   string
	Line   int
	Sets   []models.NewSet
}

// Diagnostic explains why a block was skipped.
type Diagnostic struct {
	Line     int    `json:"line"`
	Exercise string `json:"exercise"`
	Message  string `json:"message"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d (%s): %s", d.Line, d.Exercise, d.Message)
}

// Parsed is the result of reading one log file.
type Parsed struct {
	Date        *time.Time
	Start       *models.TimeOfDay
	End         *models.TimeOfDay
	Blocks      []Block
	Diagnostics []Diagnostic
}

// pending collects the lines of the block being read.
type pending struct {
	number   int
	name     string
	line     int
	sets     string
	hasSets  bool
	rir      string
	hasRIR   bool
	setsLine int
	rirLine  int
}

// Parse reads a workout log. Malformed blocks are skipped with a diagnostic;
// if none survive the returned error matches ErrNoBlocks and the Parsed value
// still carries the diagnostics.
func Parse(r io.Reader) (*Parsed, error) {
	scanner := bufio.NewScanner(r)
	out := &Parsed{}
	var cur *pending
	lineNo := 0

	flush := func() {
		if cur == nil {
			return
		}
		b, diag := cur.build()
		if diag != nil {
			out.Diagnostics = append(out.Diagnostics, *diag)
		} else {
			out.Blocks = append(out.Blocks, b)
		}
		cur = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if line == "" {
			continue
		}

		// The time range may appear anywhere.
		if m := timeRangeRe.FindStringSubmatch(line); m != nil {
			if err := out.setTimes(m[1], m[2]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		if m := exerciseRe.FindStringSubmatch(line); m != nil && !setLike(line) {
			flush()
			num, _ := strconv.Atoi(m[1])
			cur = &pending{number: num, name: strings.TrimSpace(m[2]), line: lineNo}
			continue
		}

		if cur == nil {
			// Header line before the first block.
			if m := dateRe.FindStringSubmatch(line); m != nil && out.Date == nil {
				d, err := time.Parse("02.01.2006", m[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: parsing date %q: %w", lineNo, m[1], err)
				}
				out.Date = &d
			}
			continue
		}

		rir := rirLineRe.FindStringSubmatch(line)
		switch {
		case cur.hasRIR:
		case rir != nil:
			cur.rir, cur.hasRIR, cur.rirLine = rir[1], true, lineNo
		case !cur.hasSets:
			cur.sets, cur.hasSets, cur.setsLine = line, true, lineNo
		}
		// Anything else inside a block is a free-form note.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	flush()

	if len(out.Blocks) == 0 {
		errs := []error{ErrNoBlocks}
		for _, d := range out.Diagnostics {
			errs = append(errs, d)
		}
		return out, multierr.Combine(errs...)
	}
	return out, nil
}

func (p *Parsed) setTimes(start, end string) error {
	s, err := models.ParseTimeOfDay(start)
	if err != nil {
		return fmt.Errorf("parsing start time: %w", err)
	}
	e, err := models.ParseTimeOfDay(end)
	if err != nil {
		return fmt.Errorf("parsing end time: %w", err)
	}
	p.Start, p.End = &s, &e
	return nil
}

// setLike reports whether a line that looks like "1. name" is really a set
// list such as "1.5x10".
func setLike(line string) bool {
	tok, _, _ := strings.Cut(line, "/")
	return setRe.MatchString(strings.TrimSpace(tok))
}

func (p *pending) build() (Block, *Diagnostic) {
	diag := func(line int, format string, args ...any) *Diagnostic {
		return &Diagnostic{Line: line, Exercise: p.name, Message: fmt.Sprintf(format, args...)}
	}
	if !p.hasSets {
		return Block{}, diag(p.line, "missing sets line")
	}

	var sets []models.NewSet
	for _, tok := range splitList(p.sets) {
		m := setRe.FindStringSubmatch(tok)
		if m == nil {
			return Block{}, diag(p.setsLine, "malformed set %q, want <reps>x<weight>", tok)
		}
		reps, err := strconv.Atoi(m[1])
		if err != nil || reps <= 0 {
			return Block{}, diag(p.setsLine, "repetitions must be a positive integer in %q", tok)
		}
		weight, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
		if err != nil {
			return Block{}, diag(p.setsLine, "malformed weight in %q", tok)
		}
		sets = append(sets, models.NewSet{Reps: reps, Weight: weight})
	}
	if len(sets) == 0 {
		return Block{}, diag(p.setsLine, "no sets")
	}

	if p.hasRIR {
		rirs := splitList(p.rir)
		if len(rirs) != len(sets) {
			return Block{}, diag(p.rirLine, "%d sets but %d RIR values", len(sets), len(rirs))
		}
		for i, tok := range rirs {
			v, err := strconv.Atoi(tok)
			if err != nil || v < 0 {
				return Block{}, diag(p.rirLine, "malformed RIR %q", tok)
			}
			sets[i].RIR = &v
		}
	}

	return Block{Number: p.number, Name: p.name, Line: p.line, Sets: sets}, nil
}

// splitList splits a slash-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "/") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
