// errors.go defines the error taxonomy for backend calls.
//
//   - TransportError: network failure or a non-2xx status without a
//     structured query error. Reported, never retried automatically.
//   - ExecutionError: backend-reported query failure (HTTP 400-class
//     with a detail string). May be repairable; classification is the
//     session package's concern, not ours.
package kusto

import "fmt"

// TransportError wraps a network or HTTP-level failure reaching the backend.
type TransportError struct {
	Op  string // "fetch tree" or "execute"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExecutionError is a query failure reported by the execution endpoint.
type ExecutionError struct {
	StatusCode int
	Detail     string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query failed (%d): %s", e.StatusCode, e.Detail)
}
