package txtlog

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/strength"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// candidateThreshold is the minimum similarity for a fuzzy suggestion.
const candidateThreshold = 0.6

// Letters that do not decompose under NFD.
var foldExtra = strings.NewReplacer("ł", "l", "đ", "d", "ø", "o", "ß", "ss")

// Normalize returns the matching key for an exercise name: lower-cased,
// diacritics folded, only letters, digits and single spaces kept.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}
	folded = foldExtra.Replace(folded)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity is the share of positions at which two keys hold the same rune,
// relative to the longer key.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	same := 0
	for i := range min(len(ra), len(rb)) {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
}

// Candidate is a catalogue exercise suggested for an unmatched name.
type Candidate struct {
	ExerciseID int64   `json:"exercise_id"`
	Name       string  `json:"exercise_name"`
	Score      float64 `json:"score"`
}

// Matcher resolves parsed names against the exercise catalogue.
type Matcher struct {
	exercises []models.Exercise
	keys      []string
	byKey     map[string]models.Exercise
}

// NewMatcher indexes the catalogue. When two exercises share a key the one
// with the smaller ID wins.
func NewMatcher(exercises []models.Exercise) *Matcher {
	sorted := slices.Clone(exercises)
	slices.SortFunc(sorted, func(a, b models.Exercise) int { return cmp.Compare(a.ID, b.ID) })

	m := &Matcher{exercises: sorted, byKey: make(map[string]models.Exercise, len(sorted))}
	for _, e := range sorted {
		k := Normalize(e.Name)
		m.keys = append(m.keys, k)
		if _, dup := m.byKey[k]; !dup {
			m.byKey[k] = e
		}
	}
	return m
}

// Exact returns the exercise whose normalized name equals key.
func (m *Matcher) Exact(key string) (models.Exercise, bool) {
	e, ok := m.byKey[key]
	return e, ok
}

// Lookup returns the exercise with the given ID.
func (m *Matcher) Lookup(id int64) (models.Exercise, bool) {
	i, ok := slices.BinarySearchFunc(m.exercises, id, func(e models.Exercise, id int64) int {
		return cmp.Compare(e.ID, id)
	})
	if !ok {
		return models.Exercise{}, false
	}
	return m.exercises[i], true
}

// Candidates lists catalogue exercises whose key contains or is contained in
// key, or whose similarity exceeds the threshold. Best score first, ties by ID.
func (m *Matcher) Candidates(key string) []Candidate {
	var out []Candidate
	if key == "" {
		return out
	}
	for i, e := range m.exercises {
		k := m.keys[i]
		score := Similarity(key, k)
		contains := k != "" && (strings.Contains(k, key) || strings.Contains(key, k))
		if !contains && score <= candidateThreshold {
			continue
		}
		out = append(out, Candidate{ExerciseID: e.ID, Name: e.Name, Score: score})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ExerciseID, b.ExerciseID)
	})
	for i := range out {
		out[i].Score = strength.Round(out[i].Score, 2)
	}
	return out
}
