// Package equal provides the deep value equality used for props and effect
// dependencies.
package equal

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// exportAll lets cmp look into unexported struct fields instead of panicking.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Values reports whether a and b are deeply equal.
//
// Function values are equal only when both are nil, so a prop holding a
// closure always counts as changed.
func Values(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return cmp.Equal(a, b, exportAll)
}

// Slices reports whether two dependency lists are equal element by element.
// A nil list never equals anything, including another nil list.
func Slices(a, b []any) bool {
	if a == nil || b == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Values(a[i], b[i]) {
			return false
		}
	}
	return true
}
