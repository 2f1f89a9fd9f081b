package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Phippsy/exercise/internal/domain"
)

var (
	rule = strings.Repeat("=", 80)
	line = strings.Repeat("-", 80)
)

// renderComparison prints the human-readable comparison report.
func renderComparison(w io.Writer, base, candidate, trackedField string, result domain.Result) error {
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "COMPARING EXERCISE FILES")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "File 1: %s\n", base)
	fmt.Fprintf(&b, "File 2: %s\n\n", candidate)

	if result.Failed() {
		fmt.Fprintln(&b, "STRUCTURAL DIFFERENCES FOUND:")
		fmt.Fprintln(&b, line)
		for _, d := range result.Differences {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
		fmt.Fprintln(&b)
	} else {
		fmt.Fprintf(&b, "NO STRUCTURAL DIFFERENCES - all keys, values and structure identical (except %s)\n\n", trackedField)
	}

	if len(result.TrackedChanges) > 0 {
		fmt.Fprintf(&b, "%s CHANGES (%d total):\n", strings.ToUpper(trackedField), len(result.TrackedChanges))
		fmt.Fprintln(&b, line)
		for _, c := range result.TrackedChanges {
			fmt.Fprintf(&b, "\n  Exercise: %s\n", c.Exercise)
			fmt.Fprintf(&b, "  Workout:  %s\n", c.Workout)
			fmt.Fprintf(&b, "  Old:      %s\n", c.Old)
			fmt.Fprintf(&b, "  New:      %s\n", c.New)
		}
	} else {
		fmt.Fprintf(&b, "No %s values were changed\n", trackedField)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
