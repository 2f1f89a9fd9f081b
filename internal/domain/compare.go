package domain

import (
	"fmt"
	"slices"
)

// DifferenceKind classifies a structural difference.
type DifferenceKind string

const (
	// KindSchema marks differing field-name sets.
	KindSchema DifferenceKind = "schema"
	// KindLength marks differing group or record counts.
	KindLength DifferenceKind = "length"
	// KindValue marks a differing non-tracked field value.
	KindValue DifferenceKind = "value"
)

// Difference is one structural mismatch between two catalogs.
type Difference struct {
	Kind    DifferenceKind
	Path    string
	Message string
}

func (d Difference) String() string { return d.Message }

// TrackedChange records a differing tracked field. It is informational, not a failure.
type TrackedChange struct {
	Exercise string `json:"exercise"`
	Workout  string `json:"workout"`
	Old      string `json:"old"`
	New      string `json:"new"`
}

// Result is the outcome of a comparison.
type Result struct {
	Differences    []Difference
	TrackedChanges []TrackedChange
}

// Failed reports whether any structural difference was found.
func (r Result) Failed() bool { return len(r.Differences) > 0 }

// Messages returns the differences as preformatted strings.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Differences))
	for _, d := range r.Differences {
		out = append(out, d.Message)
	}
	return out
}

// CountByKind tallies differences per kind.
func (r Result) CountByKind() map[DifferenceKind]int {
	counts := make(map[DifferenceKind]int, 3)
	for _, d := range r.Differences {
		counts[d.Kind]++
	}
	return counts
}

func (r *Result) addf(kind DifferenceKind, path, format string, args ...any) {
	r.Differences = append(r.Differences, Difference{
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// Comparator walks two catalogs depth-first, pairing groups and records by position.
type Comparator struct {
	schema Schema
}

// NewComparator constructs a Comparator for the given schema.
func NewComparator(schema Schema) *Comparator {
	return &Comparator{schema: schema}
}

// Compare runs a comparison with DefaultSchema.
func Compare(a, b Catalog) Result {
	return NewComparator(DefaultSchema()).Compare(a, b)
}

// Compare reports structural differences between a and b and collects tracked-field changes.
// A top-level key mismatch or a group count mismatch stops the walk; group and record
// mismatches only skip their own subtree.
func (c *Comparator) Compare(a, b Catalog) Result {
	var res Result

	if !slices.Equal(a.Keys, b.Keys) {
		res.addf(KindSchema, "", "Top-level keys differ: %v vs %v", a.Keys, b.Keys)
		return res
	}
	if len(a.Groups) != len(b.Groups) {
		res.addf(KindLength, c.schema.GroupsKey, "Different number of %s: %d vs %d",
			c.schema.GroupsKey, len(a.Groups), len(b.Groups))
		return res
	}

	for i := range a.Groups {
		c.compareGroup(&res, fmt.Sprintf("%s[%d]", c.schema.GroupsKey, i), a.Groups[i], b.Groups[i])
	}
	return res
}

func (c *Comparator) compareGroup(res *Result, path string, ga, gb Group) {
	if !slices.Equal(ga.Keys, gb.Keys) {
		res.addf(KindSchema, path, "%s: Different keys - %v vs %v", path, ga.Keys, gb.Keys)
		return
	}

	for _, key := range c.schema.IdentityFields {
		va, vb := ga.Field(key), gb.Field(key)
		if !va.Equal(vb) {
			fieldPath := path + "." + key
			res.addf(KindValue, fieldPath, "%s: '%s' vs '%s'", fieldPath, va, vb)
		}
	}

	if len(ga.Records) != len(gb.Records) {
		res.addf(KindLength, path, "%s: Different number of %s - %d vs %d",
			path, c.schema.RecordsKey, len(ga.Records), len(gb.Records))
		return
	}

	workout := ga.Field(c.schema.LabelField).String()
	for j := range ga.Records {
		recPath := fmt.Sprintf("%s.%s[%d]", path, c.schema.RecordsKey, j)
		c.compareRecord(res, recPath, workout, ga.Records[j], gb.Records[j])
	}
}

func (c *Comparator) compareRecord(res *Result, path, workout string, ra, rb Record) {
	if !slices.Equal(ra.Keys, rb.Keys) {
		res.addf(KindSchema, path, "%s: Different keys - %v vs %v", path, ra.Keys, rb.Keys)
		return
	}

	for _, key := range ra.Keys {
		va, vb := ra.Field(key), rb.Field(key)
		if va.Equal(vb) {
			continue
		}
		if key == c.schema.TrackedField {
			res.TrackedChanges = append(res.TrackedChanges, TrackedChange{
				Exercise: ra.Field(c.schema.LabelField).String(),
				Workout:  workout,
				Old:      va.String(),
				New:      vb.String(),
			})
			continue
		}
		fieldPath := path + "." + key
		res.addf(KindValue, fieldPath, "%s: '%s' vs '%s'", fieldPath, va, vb)
	}
}
