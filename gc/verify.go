package gc

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/vio-lang/violang/object"
)

// VerifyInvariants walks the registry and the current root set, checking
// GC-related invariants from spec.md §8: every registered object has its
// mark bit cleared after a cycle, every root is still registered, and
// (spec.md §3) no Code's constant pool holds a duplicate Number, String,
// or Boolean. Objects reachable from a root but not themselves in the root
// set are not checked for registration. Rather than failing fast on the
// first violation, every violation found is accumulated into one
// *multierror.Error, so a single test run (or a --strict-gc diagnostic
// pass) reports the full picture at once.
//
// This is a diagnostic-only pass: it is never on the hot allocation path
// (see vm.maybeGC), and finding no violations returns a nil error, so
// callers can treat the zero value the normal Go way ("if err != nil").
func VerifyInvariants(heap *object.Heap, roots []object.Value) error {
	var result *multierror.Error

	registered := make(map[object.Traceable]bool, heap.Len())
	for _, obj := range heap.Objects() {
		registered[obj] = true
		if obj.Marked() {
			result = multierror.Append(result, fmt.Errorf(
				"object %q left marked after collection", obj.Repr()))
		}
	}

	for _, r := range roots {
		if !r.IsObject() {
			continue
		}
		if !registered[r.Obj] {
			result = multierror.Append(result, fmt.Errorf(
				"root %q is not present in the registry", r.Obj.Repr()))
		}
	}

	for _, obj := range heap.Objects() {
		co, ok := obj.(*object.Code)
		if !ok {
			continue
		}
		for i := 0; i < len(co.Constants); i++ {
			for j := i + 1; j < len(co.Constants); j++ {
				a, b := co.Constants[i], co.Constants[j]
				if a.Kind != b.Kind {
					continue
				}
				if (a.IsNumber() || a.IsBoolean() || a.IsString()) && a.Equal(b) {
					result = multierror.Append(result, fmt.Errorf(
						"code %q has duplicate constants at indices %d and %d",
						co.Repr(), i, j))
				}
			}
		}
	}

	return result.ErrorOrNil()
}
