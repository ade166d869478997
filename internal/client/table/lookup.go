package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is implemented by records that expose named fields to Lookup.
//
// Field returns the value stored under name, or nil when there is none. A
// nested Object that is absent must be returned as an untyped nil.
// FieldNames lists the fields in declaration order; it drives the
// searchable-string form of the object.
type Object interface {
	Field(name string) any
	FieldNames() []string
}

// Lookup resolves a dot-path against v. Traversal goes through Object values
// and string-keyed maps; any other value, a missing key or an empty path
// segment yields nil.
func Lookup(v any, path string) any {
	if path == "" {
		return nil
	}
	cur := v
	for _, key := range strings.Split(path, ".") {
		if key == "" {
			return nil
		}
		switch node := cur.(type) {
		case Object:
			cur = node.Field(key)
		case map[string]any:
			cur = node[key]
		case map[string]string:
			s, ok := node[key]
			if !ok {
				return nil
			}
			cur = s
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// SearchableString flattens v into the text used for search, filtering and
// fallback sorting. Objects contribute their own string-typed fields joined
// by a single space (one level only; map keys are taken in sorted order),
// scalars their usual text form, and nil the empty string.
func SearchableString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case Object:
		parts := make([]string, 0, len(val.FieldNames()))
		for _, name := range val.FieldNames() {
			if s, ok := val.Field(name).(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]string:
		keys := sortedKeys(val)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, val[k])
		}
		return strings.Join(parts, " ")
	case map[string]any:
		keys := sortedKeys(val)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := val[k].(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(val, " ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	}
	if f, ok := number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// number reports whether v is a Go numeric value and returns it as float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
