package silo

import (
	"fmt"
	"os"
)

// guardDropPanic runs fn and, if it panics, writes a diagnostic to stderr
// and aborts the process rather than letting the panic unwind into caller
// code (spec.md §5/§7's AbortOnDropFail: "component drop panics during row
// deletion or replacement cause process abort"). Go has no destructors, so
// the closest analogue is a user-supplied ColumnEvents hook or CustomClone
// callback invoked at those same two points; ordinary user-code panics
// raised elsewhere (e.g. inside a query iteration body) are left to
// propagate normally.
func guardDropPanic(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "silo: panic during row deletion/replacement, aborting: %v\n", r)
			os.Exit(2)
		}
	}()
	fn()
}
