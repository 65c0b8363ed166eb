package forum

import "errors"

// Failure taxonomy shared by the forum core. Handlers translate these to
// HTTP statuses; the core never touches status codes itself.
var (
	// ErrNotFound covers posts and parent replies that are absent, soft
	// deleted, or effectively absent because their category is inactive or
	// hidden from the caller's tier.
	ErrNotFound = errors.New("not found")

	// ErrForbidden covers posts and categories locked against new replies.
	ErrForbidden = errors.New("forbidden")

	// ErrInternal wraps storage and transaction failures.
	ErrInternal = errors.New("internal error")
)

// ValidationError carries the first violation found while validating a
// mutation. Query-parameter problems never produce one; they degrade to
// defaults instead.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
