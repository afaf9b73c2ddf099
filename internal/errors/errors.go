package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrNoCopiesAvailable is returned when a book has no available copies to borrow.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrLoanNotFound is returned when a loan is not found.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrLoanAlreadyReturned is returned when returning a loan that is already closed.
	ErrLoanAlreadyReturned = errors.New("loan already returned")
	// ErrFineNotFound is returned when a fine is missing or belongs to another member.
	ErrFineNotFound = errors.New("fine not found")
	// ErrFineAlreadySettled is returned when paying a fine that is no longer pending.
	ErrFineAlreadySettled = errors.New("fine already settled")
	// ErrBookInUse is returned when deleting a book that loans or reviews still reference.
	ErrBookInUse = errors.New("book is referenced by loans or reviews")
	// ErrDuplicateISBN is returned when a book with the same ISBN already exists.
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")
)

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrLoanNotFound), errors.Is(err, ErrFineNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoCopiesAvailable), errors.Is(err, ErrLoanAlreadyReturned), errors.Is(err, ErrFineAlreadySettled):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBookInUse), errors.Is(err, ErrDuplicateISBN):
		return NewHTTPError(http.StatusConflict, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
