package domain

import "fmt"

// ValidationError rejects user input before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateNewBookmark checks the preconditions for inserting a bookmark.
// Both title and url must be non-empty; violations are surfaced to the user
// as validation failures, never as store errors.
func ValidateNewBookmark(title, url string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if url == "" {
		return &ValidationError{Field: "url", Reason: "must not be empty"}
	}
	return nil
}
