package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Phippsy/exercise/internal/domain"
)

func TestSessionLoaderFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-session.json": `{"exportType":"workout-session","workoutSummary":{"workoutName":"Push","date":"2025-03-05T10:00:00Z","exercises":[]}}`,
		"a-session.json": `{"exportType":"workout-session","workoutSummary":{"workoutName":"Legs","date":"2025-03-04T10:00:00Z","exercises":[]}}`,
		"backup.json":    `{"exportType":"full-backup","workouts":[]}`,
		"broken.json":    `{"exportType":`,
		"notes.txt":      `not an export`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	set, err := NewSessionLoader(WithLogger(zap.NewNop())).Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a-session.json", "b-session.json"}, set.Loaded)
	require.Equal(t, []string{"backup.json"}, set.Ignored)
	require.Equal(t, []string{"broken.json"}, set.Skipped)
	require.Len(t, set.Sessions, 2)
	require.Equal(t, domain.TextCell("Legs"), set.Sessions[0].WorkoutSummary.WorkoutName)
	require.Equal(t, domain.SessionExportType, set.Sessions[1].ExportType)
}

func TestSessionLoaderKeepsLooselyTypedExercises(t *testing.T) {
	dir := t.TempDir()
	export := `{"exportType":"workout-session","workoutSummary":{"workoutName":"Legs","date":"2025-03-04T10:00:00Z",
	  "exercises":[{"name":"Squat","sets":3,"reps":"8-10","volume":"n/a"},{"name":42,"sets":null}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(export), 0o644))

	set, err := NewSessionLoader().Load(dir)
	require.NoError(t, err)
	require.Empty(t, set.Skipped)
	require.Len(t, set.Sessions, 1)

	rows := domain.FlattenSessions(set.Sessions)
	require.Equal(t, []domain.ReportRow{
		{Date: "2025-03-04", Workout: "Legs", Exercise: "Squat", Sets: "3", Reps: "8-10", Volume: "n/a"},
		{Date: "2025-03-04", Workout: "Legs", Exercise: "42", Sets: "", Reps: "0", Volume: "0"},
	}, rows)
}

func TestSessionLoaderMissingDirectory(t *testing.T) {
	_, err := NewSessionLoader().Load(filepath.Join(t.TempDir(), "exports"))
	require.ErrorIs(t, err, ErrExportsDirNotFound)
}

func TestSessionLoaderEmptyDirectory(t *testing.T) {
	set, err := NewSessionLoader().Load(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, set.Sessions)
}
