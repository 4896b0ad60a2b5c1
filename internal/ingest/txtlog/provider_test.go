package txtlog

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const providerLog = `12.04.2025
Godzina: 18:00 - 19:15
1. Bench Press
8x80 / 6x82,5
RIR: 2 / 0
2. Przysiad
5x100
RIR: 1
3. bench press
5x70
4. Broken
abc
`

type providerFixture struct {
	store     *MockStore
	provider  *Provider
	catalogue []models.Exercise
}

func newProviderFixture(t *testing.T) *providerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &providerFixture{
		store: NewMockStore(ctrl),
		catalogue: []models.Exercise{
			{ID: 1, Name: "Bench Press", BodyPart: "chest"},
			{ID: 2, Name: "Squat", BodyPart: "legs"},
			{ID: 3, Name: "Pull-up", BodyPart: "back"},
		},
	}
	f.store.EXPECT().ListExercises(gomock.Any()).DoAndReturn(
		func(context.Context) ([]models.Exercise, error) { return f.catalogue, nil },
	).AnyTimes()
	f.provider = NewProvider(f.store, openTestStaging(t), slog.New(slog.DiscardHandler))
	return f
}

func intp(v int) *int { return &v }

func TestProviderStage(t *testing.T) {
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(context.Background(), "push.txt", []byte(providerLog), nil)
	require.NoError(t, err)

	assert.Equal(t, ContentHash([]byte(providerLog)), plan.ImportID)
	assert.Equal(t, "2025-04-12", plan.Date)
	assert.Equal(t, "18:00:00", plan.Start.String())
	assert.Len(t, plan.Blocks, 3)
	assert.Len(t, plan.Diagnostics, 1)
	assert.False(t, plan.Ready)

	require.Len(t, plan.Resolutions, 2)
	assert.Equal(t, StatusMatched, plan.Resolutions[0].Status)
	assert.Equal(t, int64(1), *plan.Resolutions[0].ExerciseID)
	assert.Equal(t, StatusUnresolved, plan.Resolutions[1].Status)
	assert.Equal(t, []string{"Przysiad"}, plan.Unresolved())
}

func TestProviderStageRejectsEmptyLog(t *testing.T) {
	f := newProviderFixture(t)
	_, err := f.provider.Stage(context.Background(), "x.txt", []byte("nothing here\n"), nil)
	require.ErrorIs(t, err, ErrNoBlocks)

	_, err = f.provider.staging.Current(context.Background())
	assert.ErrorIs(t, err, ErrNotStaged)
}

func TestProviderCommitRefusesUnresolved(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "push.txt", []byte(providerLog), nil)
	require.NoError(t, err)

	_, err = f.provider.Commit(ctx, plan.ImportID, nil)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestProviderAliasAndCommit(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "push.txt", []byte(providerLog), nil)
	require.NoError(t, err)

	plan, err = f.provider.ConfirmAlias(ctx, plan.ImportID, "przysiad", 2)
	require.NoError(t, err)
	assert.True(t, plan.Ready)
	assert.Equal(t, StatusAliased, plan.Resolutions[1].Status)
	assert.Equal(t, "Squat", plan.Resolutions[1].ExerciseName)

	start, end := models.TimeOfDay{Hour: 18}, models.TimeOfDay{Hour: 19, Minute: 15}
	want := models.NewWorkout{
		Date:  time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Start: &start,
		End:   &end,
		Exercises: []models.NewWorkoutExercise{
			{ExerciseID: 1, Sets: []models.NewSet{{Reps: 8, Weight: 80, RIR: intp(2)}, {Reps: 6, Weight: 82.5, RIR: intp(0)}}},
			{ExerciseID: 2, Sets: []models.NewSet{{Reps: 5, Weight: 100, RIR: intp(1)}}},
			{ExerciseID: 1, Sets: []models.NewSet{{Reps: 5, Weight: 70}}},
		},
	}
	f.store.EXPECT().InsertWorkout(gomock.Any(), want).Return(int64(42), nil)
	f.store.EXPECT().InsertImportLog(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l storage.ImportLog) (int64, error) {
			assert.Equal(t, "success", l.Status)
			assert.Equal(t, "txt", l.Source)
			assert.Equal(t, int64(4), l.SetsInserted)
			assert.Nil(t, l.ErrorMessage)
			return 1, nil
		})

	res, err := f.provider.Commit(ctx, plan.ImportID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.SessionID)
	assert.Equal(t, 3, res.ExercisesInserted)
	assert.Equal(t, int64(4), res.SetsInserted)
	assert.Equal(t, 1, res.BlocksSkipped)
}

func TestProviderAddExercise(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "push.txt", []byte(providerLog), nil)
	require.NoError(t, err)

	f.store.EXPECT().AddExercise(gomock.Any(), models.Exercise{Name: "Przysiad", BodyPart: "legs"}).DoAndReturn(
		func(_ context.Context, e models.Exercise) (models.Exercise, error) {
			e.ID = 9
			f.catalogue = append(f.catalogue, e)
			return e, nil
		})

	plan, err = f.provider.AddExercise(ctx, plan.ImportID, "Przysiad", models.Exercise{BodyPart: "legs"})
	require.NoError(t, err)
	assert.True(t, plan.Ready)
	assert.Equal(t, int64(9), *plan.Resolutions[1].ExerciseID)
}

func TestProviderAddExerciseDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "push.txt", []byte(providerLog), nil)
	require.NoError(t, err)

	f.store.EXPECT().AddExercise(gomock.Any(), models.Exercise{Name: "Squat"}).
		Return(models.Exercise{}, storage.ErrExists)

	_, err = f.provider.AddExercise(ctx, plan.ImportID, "Przysiad", models.Exercise{Name: "Squat"})
	require.ErrorIs(t, err, storage.ErrExists)

	aliases, err := f.provider.staging.Aliases(ctx, plan.ImportID)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestProviderAliasErrors(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "push.txt", []byte(providerLog), nil)
	require.NoError(t, err)

	_, err = f.provider.ConfirmAlias(ctx, plan.ImportID, "Przysiad", 99)
	assert.ErrorIs(t, err, ErrUnknownExercise)

	_, err = f.provider.ConfirmAlias(ctx, plan.ImportID, "Deadlift", 2)
	assert.ErrorIs(t, err, ErrUnknownName)

	_, err = f.provider.ConfirmAlias(ctx, "deadbeef", "Przysiad", 2)
	assert.ErrorIs(t, err, ErrNotStaged)
}

func TestProviderCommitDate(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "bare.txt", []byte("1. Squat\n5x100\n"), nil)
	require.NoError(t, err)
	assert.False(t, plan.Ready)
	assert.Empty(t, plan.Date)

	_, err = f.provider.Commit(ctx, plan.ImportID, nil)
	require.ErrorIs(t, err, ErrNoDate)

	override := time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC)
	f.store.EXPECT().InsertWorkout(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, w models.NewWorkout) (int64, error) {
			assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), w.Date)
			assert.Nil(t, w.Start)
			return 7, nil
		})
	f.store.EXPECT().InsertImportLog(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	res, err := f.provider.Commit(ctx, plan.ImportID, &override)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.SessionID)
}

func TestProviderCommitStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)
	plan, err := f.provider.Stage(ctx, "bare.txt", []byte("1. Squat\n5x100\n"), nil)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	f.store.EXPECT().InsertWorkout(gomock.Any(), gomock.Any()).Return(int64(0), boom)
	f.store.EXPECT().InsertImportLog(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l storage.ImportLog) (int64, error) {
			assert.Equal(t, "error", l.Status)
			require.NotNil(t, l.ErrorMessage)
			return 0, errors.New("log table missing")
		})

	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.provider.Commit(ctx, plan.ImportID, &date)
	assert.ErrorIs(t, err, boom)
}
