// Package domain holds the exercise catalog model, the structural comparator
// and the workout-session report model.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
)

// ErrMalformedDocument indicates a catalog whose nesting does not match the schema.
var ErrMalformedDocument = errors.New("malformed catalog document")

// Schema names the document keys walked by the comparator.
type Schema struct {
	GroupsKey      string
	RecordsKey     string
	IdentityFields []string
	LabelField     string
	TrackedField   string
}

// DefaultSchema returns the layout of data/exercises.json.
func DefaultSchema() Schema {
	return Schema{
		GroupsKey:      "workouts",
		RecordsKey:     "exercises",
		IdentityFields: []string{"id", "name", "date"},
		LabelField:     "name",
		TrackedField:   "form_video",
	}
}

// Value is a field value read from a document. The zero Value is absent.
type Value struct {
	Raw     any
	Present bool
}

// Present wraps a value that exists in the document, including null.
func Present(raw any) Value {
	return Value{Raw: raw, Present: true}
}

// Absent is the value of a field missing from the document.
var Absent = Value{}

// Equal reports whether two values match. Absent only equals absent.
func (v Value) Equal(other Value) bool {
	if v.Present != other.Present {
		return false
	}
	if !v.Present {
		return true
	}
	return rawEqual(v.Raw, other.Raw)
}

// String renders the value the way difference messages quote it.
func (v Value) String() string {
	if !v.Present {
		return "<missing>"
	}
	return formatRaw(v.Raw)
}

// Catalog is the top-level document.
type Catalog struct {
	Keys   []string
	Groups []Group
}

// Group is one workout: identity fields plus an ordered list of records.
type Group struct {
	Keys    []string
	Fields  map[string]Value
	Records []Record
}

// Field returns the named non-record field, or Absent.
func (g Group) Field(name string) Value {
	if v, ok := g.Fields[name]; ok {
		return v
	}
	return Absent
}

// Record is one exercise.
type Record struct {
	Keys   []string
	Fields map[string]Value
}

// Field returns the named field, or Absent.
func (r Record) Field(name string) Value {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	return Absent
}

// NewRecord builds a record from decoded fields.
func NewRecord(fields map[string]any) Record {
	rec := Record{Keys: sortedKeys(fields), Fields: make(map[string]Value, len(fields))}
	for k, v := range fields {
		rec.Fields[k] = Present(v)
	}
	return rec
}

// BuildCatalog converts a decoded document into a Catalog. A missing groups
// key yields no groups; a groups or records value that is not a list of
// objects is malformed.
func BuildCatalog(doc map[string]any, schema Schema) (Catalog, error) {
	cat := Catalog{Keys: sortedKeys(doc)}
	raw, ok := doc[schema.GroupsKey]
	if !ok {
		return cat, nil
	}
	items, err := objectList(raw)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", schema.GroupsKey, err)
	}
	cat.Groups = make([]Group, 0, len(items))
	for i, item := range items {
		group, err := buildGroup(item, schema)
		if err != nil {
			return Catalog{}, fmt.Errorf("%s[%d].%w", schema.GroupsKey, i, err)
		}
		cat.Groups = append(cat.Groups, group)
	}
	return cat, nil
}

func buildGroup(doc map[string]any, schema Schema) (Group, error) {
	group := Group{Keys: sortedKeys(doc), Fields: make(map[string]Value, len(doc))}
	for k, v := range doc {
		if k == schema.RecordsKey {
			continue
		}
		group.Fields[k] = Present(v)
	}
	raw, ok := doc[schema.RecordsKey]
	if !ok {
		return group, nil
	}
	items, err := objectList(raw)
	if err != nil {
		return Group{}, fmt.Errorf("%s: %w", schema.RecordsKey, err)
	}
	group.Records = make([]Record, 0, len(items))
	for _, item := range items {
		group.Records = append(group.Records, NewRecord(item))
	}
	return group, nil
}

func objectList(raw any) ([]map[string]any, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrMalformedDocument, raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, not an object", ErrMalformedDocument, i, item)
		}
		out = append(out, obj)
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// rawEqual compares decoded values. Numbers compare by value whatever type
// the decoder produced; lists and objects compare element-wise.
func rawEqual(a, b any) bool {
	if ra, ok := toRat(a); ok {
		rb, ok := toRat(b)
		return ok && numbersEqual(ra, rb)
	}
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !rawEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !rawEqual(x, y) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// numbersEqual compares integers exactly and anything fractional as float64,
// so a YAML 0.1 still equals a JSON 0.1.
func numbersEqual(a, b *big.Rat) bool {
	if a.IsInt() && b.IsInt() {
		return a.Cmp(b) == 0
	}
	fa, _ := a.Float64()
	fb, _ := b.Float64()
	return fa == fb
}

func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(n.String())
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	case float32:
		r := new(big.Rat).SetFloat64(float64(n))
		return r, r != nil
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	}
	return nil, false
}

func formatRaw(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any, map[string]any:
		if b, err := json.Marshal(x); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}
