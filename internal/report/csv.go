// Package report renders flattened workout sessions as CSV.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Phippsy/exercise/internal/domain"
)

// ErrNoRows is returned when there is nothing to write.
var ErrNoRows = errors.New("no report rows")

// Header is the first CSV line of the report.
var Header = []string{"Date", "Workout", "Exercise", "Muscle Group", "Sets", "Reps", "Volume (lbs)"}

// WriteCSV writes the header followed by one line per row.
func WriteCSV(w io.Writer, rows []domain.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Date, row.Workout, row.Exercise, row.MuscleGroup, row.Sets, row.Reps, row.Volume}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path. With no rows the file is left untouched.
func WriteFile(path string, rows []domain.ReportRow) (err error) {
	if len(rows) == 0 {
		return ErrNoRows
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()
	if err := WriteCSV(f, rows); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
