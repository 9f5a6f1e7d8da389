package score

import "fmt"

// InputError means a score file could not be read or parsed. No analysis
// is attempted for it.
type InputError struct {
	Path    string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
