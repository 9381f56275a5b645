// classify.go decides whether an execution failure is repairable.
package session

import "strings"

// IsRepairable reports whether an execution error detail looks like a
// query syntax/semantic error the model can be asked to fix. Matching
// is a case-insensitive substring check, nothing smarter: the backend
// error text is free-form.
func IsRepairable(detail string) bool {
	d := strings.ToLower(detail)
	return strings.Contains(d, "syntax") || strings.Contains(d, "semantic")
}
