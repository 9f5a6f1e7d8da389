// Package report merges the findings of every check into an analysis report
// and renders it as text.
package report

import "fmt"

// InvariantError means the findings contradict the score they came from.
// It points at a bug in a check, never at the input.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("report invariant violated: %s", e.Message)
}
