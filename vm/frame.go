package vm

import "github.com/vio-lang/violang/object"

// frame is a saved caller context, pushed on CALL and popped on RETURN.
// The VM tracks position by index (ip/sp/bp), not by pointer, per
// spec.md §9's re-architecture note, so a frame is just two integers
// plus the caller's Code.
type frame struct {
	returnIP int
	savedBP  int
	savedCo  *object.Code
}
