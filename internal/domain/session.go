package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// SessionExportType marks an export file holding one performed workout.
const SessionExportType = "workout-session"

// Session is a workout-session export written by the tracker app.
type Session struct {
	ExportType     string         `json:"exportType"`
	ExportDate     string         `json:"exportDate,omitempty"`
	WorkoutSummary WorkoutSummary `json:"workoutSummary"`
}

// WorkoutSummary describes what was performed in a session.
type WorkoutSummary struct {
	WorkoutName Cell              `json:"workoutName"`
	Date        string            `json:"date"`
	Exercises   []SessionExercise `json:"exercises"`
}

// SessionExercise is one exercise line of a session. Values are kept as
// text whatever JSON type the app wrote, e.g. "reps": "8-10".
type SessionExercise struct {
	Name        Cell `json:"name"`
	MuscleGroup Cell `json:"muscleGroup"`
	Sets        Cell `json:"sets"`
	Reps        Cell `json:"reps"`
	Volume      Cell `json:"volume"`
}

// Cell is an export value rendered as report text. Set is false when the
// key was missing; an explicit null is set and renders empty.
type Cell struct {
	Text string
	Set  bool
}

// TextCell returns a set Cell holding s.
func TextCell(s string) Cell { return Cell{Text: s, Set: true} }

// UnmarshalJSON accepts strings, numbers, booleans and null. Objects and
// arrays keep their compact JSON text.
func (c *Cell) UnmarshalJSON(data []byte) error {
	c.Set = true
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		c.Text = ""
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &c.Text)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		c.Text = buf.String()
	}
	return nil
}

// Or returns the cell text, or def when the key was missing.
func (c Cell) Or(def string) string {
	if !c.Set {
		return def
	}
	return c.Text
}

// ReportRow is one line of the trainer report.
type ReportRow struct {
	Date        string
	Workout     string
	Exercise    string
	MuscleGroup string
	Sets        string
	Reps        string
	Volume      string
}

const unknownWorkout = "Unknown"

// FlattenSessions produces one report row per exercise, in session order.
// Missing names fall back to Unknown and missing counts to 0.
func FlattenSessions(sessions []Session) []ReportRow {
	var rows []ReportRow
	for _, s := range sessions {
		summary := s.WorkoutSummary
		workout := summary.WorkoutName.Or(unknownWorkout)
		date := FormatSessionDate(summary.Date)
		for _, ex := range summary.Exercises {
			rows = append(rows, ReportRow{
				Date:        date,
				Workout:     workout,
				Exercise:    ex.Name.Or(""),
				MuscleGroup: ex.MuscleGroup.Or(""),
				Sets:        ex.Sets.Or("0"),
				Reps:        ex.Reps.Or("0"),
				Volume:      ex.Volume.Or("0"),
			})
		}
	}
	return rows
}

var sessionDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// FormatSessionDate reformats an ISO-8601 timestamp as YYYY-MM-DD in the
// timestamp's own offset. Input it cannot parse is returned unchanged.
func FormatSessionDate(raw string) string {
	for _, layout := range sessionDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return raw
}
