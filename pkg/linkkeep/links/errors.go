package links

import "errors"

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrCodeTaken signals an insert-time short code collision. The
	// allocator absorbs it by retrying; it never reaches a caller.
	ErrCodeTaken = errors.New("short code already taken")

	// ErrAllocationExhausted means no free short code was found within
	// the allocator's retry budget.
	ErrAllocationExhausted = errors.New("short code allocation exhausted")
)
