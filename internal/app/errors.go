package app

import "fmt"

// NotFoundError reports a record id that is not in the settings document.
type NotFoundError struct {
	Kind string // "site", "proxy" or "browser"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Kind, e.ID)
}

// ValidationError reports a record rejected before it was saved.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
