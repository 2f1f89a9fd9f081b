package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Phippsy/exercise/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	rows := []domain.ReportRow{
		{Date: "2025-03-04", Workout: "Leg Day", Exercise: "Squat", MuscleGroup: "Legs", Sets: "3", Reps: "8", Volume: "2400"},
		{Date: "2025-03-05", Workout: "Push, Heavy", Exercise: "Bench", MuscleGroup: "Chest", Sets: "5", Reps: "5", Volume: "0"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := "Date,Workout,Exercise,Muscle Group,Sets,Reps,Volume (lbs)\n" +
		"2025-03-04,Leg Day,Squat,Legs,3,8,2400\n" +
		"2025-03-05,\"Push, Heavy\",Bench,Chest,5,5,0\n"
	require.Equal(t, want, buf.String())
}

func TestWriteFileWithoutRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	require.ErrorIs(t, WriteFile(path, nil), ErrNoRows)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	rows := []domain.ReportRow{{Date: "2025-03-04", Workout: "Core", Exercise: "Plank", Sets: "2", Reps: "0", Volume: "0"}}

	require.NoError(t, WriteFile(path, rows))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "2025-03-04,Core,Plank,,2,0,0\n")
}
