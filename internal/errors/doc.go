// Package errors provides coded, structured errors for reactor.
//
// Every error the reconciler reports carries a code (e.g., "RE001") that
// maps to a short message, a longer explanation and a suggested fix. Errors
// wrap their cause, so errors.Is and errors.As keep working against the
// sentinels of the package that produced them.
//
// # Error Codes
//
//   - RE001-RE099: reconciler (hooks, renderer, stale updates, nodes)
//   - RE100-RE119: configuration
//   - RE120-RE139: command line
//
// # Usage
//
//	err := errors.New("RE001").
//	    WithPath([]string{"App", "Counter"}).
//	    Wrap(cause)
//
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR RE001: Hook order changed between renders
//	//
//	//   App > Counter
//	//
//	//   A component called its hooks in a different order, ...
//	//
//	//   Hint: Call hooks unconditionally at the top level of the render ...
package errors
