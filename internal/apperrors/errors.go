// Package apperrors defines the error kinds returned by the social graph,
// engagement and feed services. Callers match sentinels with errors.Is and
// read the kind with KindOf.
package apperrors

import "errors"

// Kind classifies a failure independently of the component that produced it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthenticated
	KindStoreUnavailable
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Error is a user-presentable failure. Message is rendered to clients as-is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a sentinel of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	// Validation
	ErrEmptyContent   = New(KindValidation, "Content cannot be empty")
	ErrContentTooLong = New(KindValidation, "Content is too long")
	ErrSelfFollow     = New(KindValidation, "Cannot follow yourself")
	ErrInvalidID      = New(KindValidation, "Invalid ID")
	ErrInvalidImage   = New(KindValidation, "Unsupported image type")

	// Not found
	ErrUserNotFound    = New(KindNotFound, "User not found")
	ErrPostNotFound    = New(KindNotFound, "Post not found")
	ErrCommentNotFound = New(KindNotFound, "Comment not found")

	// Conflict
	ErrAlreadyFollowing = New(KindConflict, "Already following")
	ErrAlreadyLiked     = New(KindConflict, "Already liked")
	ErrAccountTaken     = New(KindConflict, "Username or email already taken")

	// Authorization
	ErrForbidden          = New(KindForbidden, "Unauthorized")
	ErrUnauthenticated    = New(KindUnauthenticated, "Authentication required")
	ErrInvalidCredentials = New(KindUnauthenticated, "Invalid credentials")

	// Infrastructure
	ErrStoreUnavailable = New(KindStoreUnavailable, "Service temporarily unavailable")
	ErrStorage          = New(KindStorage, "Image storage failed")
)

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Retryable reports whether the caller may retry the operation with backoff.
// Only store connectivity failures qualify.
func Retryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}
