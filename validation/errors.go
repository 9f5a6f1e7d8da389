// Package validation decides whether a score can be analyzed at all.
package validation

import (
	"fmt"
	"strings"
)

// InvalidScoreError means the score was readable but cannot be analyzed.
type InvalidScoreError struct {
	Reasons []string
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid score: %s", strings.Join(e.Reasons, "; "))
}
