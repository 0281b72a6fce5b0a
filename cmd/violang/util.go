package main

import (
	"fmt"
	"os"

	"github.com/vio-lang/violang/errz"
)

// fatal prints spec.md §7's required "Fatal error: <message>" line and
// terminates the process. This is the single point in the module that
// calls os.Exit: internal packages only ever return a *errz.FatalError.
func fatal(err error) {
	if fe, ok := err.(*errz.FatalError); ok {
		fmt.Fprintf(os.Stderr, "Fatal error: %s\n", fe.Message)
	} else {
		fmt.Fprintf(os.Stderr, "Fatal error: %s\n", err.Error())
	}
	os.Exit(1)
}
