package domain

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const baseCatalog = `{
  "version": 2,
  "workouts": [
    {
      "id": "w1",
      "name": "Leg Day",
      "date": "2024-01-01",
      "exercises": [
        {"name": "Squat", "sets": 3, "reps": 8, "form_video": "linkA"},
        {"name": "Lunge", "sets": 3, "reps": 10, "form_video": "linkC"}
      ]
    },
    {
      "id": "w2",
      "name": "Push Day",
      "date": "2024-01-02",
      "exercises": [
        {"name": "Bench Press", "sets": 4, "reps": 6, "form_video": "linkD"}
      ]
    }
  ]
}`

func mustCatalog(t *testing.T, raw string) Catalog {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc))
	cat, err := BuildCatalog(doc, DefaultSchema())
	require.NoError(t, err)
	return cat
}

// edit decodes baseCatalog, applies mutate to the generic document and rebuilds it.
func edit(t *testing.T, mutate func(doc map[string]any)) Catalog {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(baseCatalog)))
	dec.UseNumber()
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc))
	mutate(doc)
	cat, err := BuildCatalog(doc, DefaultSchema())
	require.NoError(t, err)
	return cat
}

func workout(doc map[string]any, i int) map[string]any {
	return doc["workouts"].([]any)[i].(map[string]any)
}

func exercise(doc map[string]any, i, j int) map[string]any {
	return workout(doc, i)["exercises"].([]any)[j].(map[string]any)
}

func TestCompareIsReflexive(t *testing.T) {
	cat := mustCatalog(t, baseCatalog)

	res := Compare(cat, cat)
	require.Empty(t, res.Differences)
	require.Empty(t, res.TrackedChanges)
	require.False(t, res.Failed())
}

func TestCompareCollectsTrackedFieldChange(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		exercise(doc, 0, 0)["form_video"] = "linkB"
	})

	res := Compare(a, b)
	require.Empty(t, res.Differences)
	want := []TrackedChange{{Exercise: "Squat", Workout: "Leg Day", Old: "linkA", New: "linkB"}}
	if diff := cmp.Diff(want, res.TrackedChanges); diff != "" {
		t.Fatalf("tracked changes mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareReportsValueDifference(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		exercise(doc, 1, 0)["sets"] = json.Number("5")
	})

	res := Compare(a, b)
	require.Empty(t, res.TrackedChanges)
	require.Equal(t, []string{"workouts[1].exercises[0].sets: '4' vs '5'"}, res.Messages())
	require.Equal(t, KindValue, res.Differences[0].Kind)
	require.Equal(t, "workouts[1].exercises[0].sets", res.Differences[0].Path)
}

func TestCompareSkipsRecordWithDifferentKeys(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		ex := exercise(doc, 0, 0)
		delete(ex, "reps")
		ex["sets"] = json.Number("9")
		ex["form_video"] = "linkZ"
	})

	res := Compare(a, b)
	require.Len(t, res.Differences, 1)
	require.Equal(t, KindSchema, res.Differences[0].Kind)
	require.Equal(t,
		"workouts[0].exercises[0]: Different keys - [form_video name reps sets] vs [form_video name sets]",
		res.Differences[0].Message)
	require.Empty(t, res.TrackedChanges)
}

func TestCompareStopsOnGroupCountMismatch(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		groups := doc["workouts"].([]any)
		extra := map[string]any{"id": "w3", "name": "Pull Day", "date": "2024-01-03", "exercises": []any{}}
		doc["workouts"] = append(groups, extra)
		exercise(doc, 0, 0)["sets"] = json.Number("7")
	})

	res := Compare(a, b)
	require.Equal(t, []string{"Different number of workouts: 2 vs 3"}, res.Messages())
	require.Equal(t, KindLength, res.Differences[0].Kind)
	require.Empty(t, res.TrackedChanges)
}

func TestCompareStopsOnTopLevelKeyMismatch(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		delete(doc, "version")
		exercise(doc, 0, 0)["form_video"] = "linkB"
	})

	res := Compare(a, b)
	require.Equal(t, []string{"Top-level keys differ: [version workouts] vs [workouts]"}, res.Messages())
	require.Empty(t, res.TrackedChanges)
}

func TestCompareReportsEveryIdentityMismatch(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		w := workout(doc, 0)
		w["id"] = "w9"
		w["date"] = "2024-02-01"
	})

	res := Compare(a, b)
	want := []string{
		"workouts[0].id: 'w1' vs 'w9'",
		"workouts[0].date: '2024-01-01' vs '2024-02-01'",
	}
	if diff := cmp.Diff(want, res.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareRecordCountMismatchOnlySkipsItsGroup(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		w := workout(doc, 0)
		w["exercises"] = w["exercises"].([]any)[:1]
		exercise(doc, 1, 0)["form_video"] = "linkE"
	})

	res := Compare(a, b)
	require.Equal(t, []string{"workouts[0]: Different number of exercises - 2 vs 1"}, res.Messages())
	require.Equal(t, []TrackedChange{{Exercise: "Bench Press", Workout: "Push Day", Old: "linkD", New: "linkE"}}, res.TrackedChanges)
}

func TestCompareGroupKeyMismatchContinues(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		workout(doc, 0)["notes"] = "deload week"
		exercise(doc, 1, 0)["reps"] = json.Number("5")
	})

	res := Compare(a, b)
	require.Len(t, res.Differences, 2)
	require.Equal(t, KindSchema, res.Differences[0].Kind)
	require.Equal(t, "workouts[0]", res.Differences[0].Path)
	require.Equal(t, "workouts[1].exercises[0].reps: '6' vs '5'", res.Differences[1].Message)
}

func TestCompareAbsentIdentityFieldDiffersFromPresent(t *testing.T) {
	a := mustCatalog(t, `{"workouts":[{"name":"A","exercises":[]}]}`)
	b := mustCatalog(t, `{"workouts":[{"name":"A","exercises":[]}]}`)

	require.Empty(t, Compare(a, b).Differences)

	// id is outside both key sets, so only the identity check sees it.
	a.Groups[0].Fields["id"] = Present(nil)
	res := Compare(a, b)
	require.Equal(t, []string{"workouts[0].id: 'null' vs '<missing>'"}, res.Messages())
}

func TestCompareTreatsEqualNumbersAsEqual(t *testing.T) {
	a := mustCatalog(t, `{"workouts":[{"id":1,"name":"A","date":"d","exercises":[{"name":"Row","weight_kg":40}]}]}`)
	b := mustCatalog(t, `{"workouts":[{"id":1.0,"name":"A","date":"d","exercises":[{"name":"Row","weight_kg":40.0}]}]}`)

	require.Empty(t, Compare(a, b).Differences)
}

func TestCompareDistinguishesLargeIntegers(t *testing.T) {
	a := mustCatalog(t, `{"workouts":[{"id":9007199254740993,"name":"A","date":"d","exercises":[{"name":"Row","sets":12345678901234567}]}]}`)
	b := mustCatalog(t, `{"workouts":[{"id":9007199254740992,"name":"A","date":"d","exercises":[{"name":"Row","sets":12345678901234568}]}]}`)

	want := []string{
		"workouts[0].id: '9007199254740993' vs '9007199254740992'",
		"workouts[0].exercises[0].sets: '12345678901234567' vs '12345678901234568'",
	}
	if diff := cmp.Diff(want, Compare(a, b).Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRawEqualAcrossDecoders(t *testing.T) {
	require.True(t, rawEqual(json.Number("9007199254740993"), int64(9007199254740993)))
	require.False(t, rawEqual(json.Number("9007199254740993"), uint64(9007199254740992)))
	require.True(t, rawEqual(json.Number("0.1"), 0.1))
	require.True(t, rawEqual(json.Number("1e2"), 100))
	require.False(t, rawEqual(json.Number("3"), "3"))
}

func TestComparatorHonoursCustomTrackedField(t *testing.T) {
	a := mustCatalog(t, baseCatalog)
	b := edit(t, func(doc map[string]any) {
		exercise(doc, 0, 1)["reps"] = json.Number("12")
	})

	schema := DefaultSchema()
	schema.TrackedField = "reps"
	res := NewComparator(schema).Compare(a, b)
	require.Empty(t, res.Differences)
	require.Equal(t, []TrackedChange{{Exercise: "Lunge", Workout: "Leg Day", Old: "10", New: "12"}}, res.TrackedChanges)
}

func TestResultCountByKind(t *testing.T) {
	res := Result{Differences: []Difference{
		{Kind: KindValue}, {Kind: KindValue}, {Kind: KindSchema},
	}}
	require.Equal(t, map[DifferenceKind]int{KindValue: 2, KindSchema: 1}, res.CountByKind())
}
