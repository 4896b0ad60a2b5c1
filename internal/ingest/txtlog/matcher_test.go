package txtlog

import (
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bench Press", "bench press"},
		{"  Bench   Press  ", "bench press"},
		{"Wyciskanie sztangi leżąc", "wyciskanie sztangi lezac"},
		{"Martwy ciąg (rumuński)", "martwy ciag rumunski"},
		{"Przysiad ze sztangą, high-bar", "przysiad ze sztanga highbar"},
		{"Wiosłowanie", "wioslowanie"},
		{"OHP 2", "ohp 2"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("bench", "bench"))
	assert.Equal(t, 0.0, Similarity("", ""))
	assert.Equal(t, 0.8, Similarity("bench", "bencx"))
	assert.InDelta(t, 5.0/11, Similarity("bench", "bench press"), 1e-9)
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]models.Exercise{
		{ID: 3, Name: "Bench Press Incline"},
		{ID: 1, Name: "Bench Press"},
		{ID: 2, Name: "Squat"},
		{ID: 4, Name: "bench  press"},
	})

	t.Run("exact prefers smallest id", func(t *testing.T) {
		e, ok := m.Exact("bench press")
		require.True(t, ok)
		assert.Equal(t, int64(1), e.ID)
	})

	t.Run("lookup", func(t *testing.T) {
		e, ok := m.Lookup(2)
		require.True(t, ok)
		assert.Equal(t, "Squat", e.Name)
		_, ok = m.Lookup(99)
		assert.False(t, ok)
	})

	t.Run("candidates by containment", func(t *testing.T) {
		got := m.Candidates("bench")
		require.Len(t, got, 3)
		assert.Equal(t, []int64{1, 4, 3}, []int64{got[0].ExerciseID, got[1].ExerciseID, got[2].ExerciseID})
		assert.Equal(t, 0.45, got[0].Score)
	})

	t.Run("candidates by similarity", func(t *testing.T) {
		got := m.Candidates("squad")
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ExerciseID)
		assert.Equal(t, 0.8, got[0].Score)
	})

	t.Run("no candidates", func(t *testing.T) {
		assert.Empty(t, m.Candidates("deadlift"))
		assert.Empty(t, m.Candidates(""))
	})
}
