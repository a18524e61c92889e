package errors

import "net/http"

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

var (
	// ErrParentNotFound and ErrParentMismatch are kept distinct so the
	// service layer can tell a stray id from a cross-post id, even though
	// callers treat both as a bad attach request.
	ErrParentNotFound = &ErrorWithStatusCode{Message: "Parent discussion not found", StatusCode: http.StatusBadRequest}
	ErrParentMismatch = &ErrorWithStatusCode{Message: "Parent discussion belongs to a different post", StatusCode: http.StatusBadRequest}
)
