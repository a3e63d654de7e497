package match

import "fmt"

// ValidationError rejects a submission before any mutation. Rule names the
// violated rule so the caller can correct and resubmit.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Rule, e.Message)
}

func validationErrf(rule, format string, args ...interface{}) error {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown match or innings.
type NotFoundError struct {
	Kind string // "match" or "innings"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvariantError means a computed mutation would violate a scoring
// invariant. The engine refuses to commit such a mutation; it is fatal for
// that delivery.
type InvariantError struct {
	Invariant string
	Message   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated (%s): %s", e.Invariant, e.Message)
}
