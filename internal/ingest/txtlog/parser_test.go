package txtlog

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleLog = `Trening push 12.04.2025
Godzina: 18:00 – 19:15

1. Wyciskanie sztangi leżąc
8x80 / 8x80 / 6x82,5
RIR: 2 / 1 / 0

2. Podciąganie
10x0 / 8 x 0
dobre czucie

3. Przysiad
5x100 / 5x100
RIR: 1

4. Martwy ciąg
RIR 2

5. OHP
5xabc
RIR: 1
`

// TestParseSampleLog covers the header, the time range and every block outcome.
func TestParseSampleLog(t *testing.T) {
	p, err := Parse(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if p.Date == nil || !p.Date.Equal(time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2025-04-12", p.Date)
	}
	if p.Start == nil || p.Start.String() != "18:00:00" {
		t.Errorf("Start = %v, want 18:00:00", p.Start)
	}
	if p.End == nil || p.End.String() != "19:15:00" {
		t.Errorf("End = %v, want 19:15:00", p.End)
	}

	if len(p.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(p.Blocks))
	}

	b1 := p.Blocks[0]
	if b1.Number != 1 || b1.Name != "Wyciskanie sztangi leżąc" {
		t.Errorf("b1 = %d %q", b1.Number, b1.Name)
	}
	if len(b1.Sets) != 3 {
		t.Fatalf("b1 sets = %d, want 3", len(b1.Sets))
	}
	if b1.Sets[2].Reps != 6 || b1.Sets[2].Weight != 82.5 {
		t.Errorf("b1 set 3 = %+v, want 6x82.5", b1.Sets[2])
	}
	for i, want := range []int{2, 1, 0} {
		if b1.Sets[i].RIR == nil || *b1.Sets[i].RIR != want {
			t.Errorf("b1 set %d RIR = %v, want %d", i+1, b1.Sets[i].RIR, want)
		}
	}

	// No RIR line: every set carries a nil RIR, the note line is ignored.
	b2 := p.Blocks[1]
	if b2.Name != "Podciąganie" || len(b2.Sets) != 2 {
		t.Fatalf("b2 = %q with %d sets", b2.Name, len(b2.Sets))
	}
	for i, s := range b2.Sets {
		if s.RIR != nil {
			t.Errorf("b2 set %d RIR = %d, want nil", i+1, *s.RIR)
		}
		if s.Weight != 0 {
			t.Errorf("b2 set %d weight = %v, want 0", i+1, s.Weight)
		}
	}

	if len(p.Diagnostics) != 3 {
		t.Fatalf("diagnostics = %d, want 3: %v", len(p.Diagnostics), p.Diagnostics)
	}
	wantDiag := []struct {
		exercise string
		contains string
	}{
		{"Przysiad", "2 sets but 1 RIR values"},
		{"Martwy ciąg", "missing sets line"},
		{"OHP", "malformed set"},
	}
	for i, w := range wantDiag {
		d := p.Diagnostics[i]
		if d.Exercise != w.exercise || !strings.Contains(d.Message, w.contains) {
			t.Errorf("diagnostic %d = %+v, want %s: %s", i, d, w.exercise, w.contains)
		}
	}
}

// TestParseNoHeader verifies a bare log without date or time range.
func TestParseNoHeader(t *testing.T) {
	p, err := Parse(strings.NewReader("1. Bench Press\r\n5x100\r\nRIR: 3\r\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.Date != nil {
		t.Errorf("Date = %v, want nil", p.Date)
	}
	if p.Start != nil || p.End != nil {
		t.Errorf("times = %v-%v, want nil", p.Start, p.End)
	}
	if len(p.Blocks) != 1 || len(p.Blocks[0].Sets) != 1 {
		t.Fatalf("blocks = %+v", p.Blocks)
	}
	if r := p.Blocks[0].Sets[0].RIR; r == nil || *r != 3 {
		t.Errorf("RIR = %v, want 3", r)
	}
}

// TestParseBareDateHeader verifies a date alone on the first line, behind a
// byte-order mark, is read as the session date and not as a block.
func TestParseBareDateHeader(t *testing.T) {
	p, err := Parse(strings.NewReader("\uFEFF12.04.2025\n1. Bench\n5x100\nRIR: 1\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
	if p.Date == nil || !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", p.Date, want)
	}
	if len(p.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", p.Diagnostics)
	}
	if len(p.Blocks) != 1 || p.Blocks[0].Name != "Bench" || p.Blocks[0].Line != 2 {
		t.Errorf("blocks = %+v, want Bench on line 2", p.Blocks)
	}
}

// TestParseNoBlocks verifies the error when every block is rejected.
func TestParseNoBlocks(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDiags int
	}{
		{"empty", "", 0},
		{"header only", "12.04.2025\nGodzina: 18:00 - 19:00\n", 0},
		{"all malformed", "1. Bench\n5x\n2. Squat\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrNoBlocks) {
				t.Fatalf("err = %v, want ErrNoBlocks", err)
			}
			if p == nil {
				t.Fatal("parsed result is nil")
			}
			if len(p.Diagnostics) != tt.wantDiags {
				t.Errorf("diagnostics = %d, want %d", len(p.Diagnostics), tt.wantDiags)
			}
		})
	}
}

// TestParseSetTokens covers the accepted spellings of a set.
func TestParseSetTokens(t *testing.T) {
	tests := []struct {
		line   string
		reps   int
		weight float64
	}{
		{"8x80", 8, 80},
		{"8 x 80", 8, 80},
		{"8X80", 8, 80},
		{"8x82,5", 8, 82.5},
		{"8x82.5", 8, 82.5},
		{"8x80kg", 8, 80},
		{"12x0", 12, 0},
	}
	for _, tt := range tests {
		p, err := Parse(strings.NewReader("1. Bench\n" + tt.line + "\n"))
		if err != nil {
			t.Errorf("%q: parse error: %v", tt.line, err)
			continue
		}
		s := p.Blocks[0].Sets[0]
		if s.Reps != tt.reps || s.Weight != tt.weight {
			t.Errorf("%q = %dx%v, want %dx%v", tt.line, s.Reps, s.Weight, tt.reps, tt.weight)
		}
	}
}

// TestParseRejectsZeroReps verifies a set with no repetitions skips the block.
func TestParseRejectsZeroReps(t *testing.T) {
	p, err := Parse(strings.NewReader("1. Bench\n0x80\n2. Squat\n5x100\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(p.Blocks) != 1 || p.Blocks[0].Name != "Squat" {
		t.Errorf("blocks = %+v, want only Squat", p.Blocks)
	}
	if len(p.Diagnostics) != 1 || p.Diagnostics[0].Line != 2 {
		t.Errorf("diagnostics = %+v, want one on line 2", p.Diagnostics)
	}
}
