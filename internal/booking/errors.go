package booking

import (
	"errors"
	"fmt"
)

// Code identifies a booking failure independently of its message.
type Code string

const (
	CodeInvalidSeat       Code = "INVALID_SEAT"
	CodeSeatTaken         Code = "SEAT_TAKEN"
	CodeShowFull          Code = "SHOW_FULL"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeAlreadyCancelled  Code = "ALREADY_CANCELLED"
	CodeTransactionFailed Code = "TRANSACTION_FAILED"
)

// Error is returned by every Engine and Lifecycle operation that fails.
// Two errors match under errors.Is when their codes are equal, so callers
// compare against the Err* values below.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidSeat       = &Error{Code: CodeInvalidSeat, Message: "Seat number exceeds total seats."}
	ErrSeatTaken         = &Error{Code: CodeSeatTaken, Message: "This seat is already booked."}
	ErrShowFull          = &Error{Code: CodeShowFull, Message: "Show is fully booked."}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "Not found."}
	ErrForbidden         = &Error{Code: CodeForbidden, Message: "You cannot cancel another user's booking."}
	ErrAlreadyCancelled  = &Error{Code: CodeAlreadyCancelled, Message: "Booking is already cancelled."}
	ErrTransactionFailed = &Error{Code: CodeTransactionFailed, Message: "Error while booking seat."}
)

// withMessage returns a copy of base carrying a more specific message.
func withMessage(base *Error, msg string) *Error {
	return &Error{Code: base.Code, Message: msg}
}

// transactionFailed wraps a storage fault.
func transactionFailed(err error) *Error {
	return &Error{Code: CodeTransactionFailed, Message: ErrTransactionFailed.Message, Err: err}
}

// Category groups codes by how a caller should react to them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryValidation
	CategoryConflict
	CategoryNotFound
	CategoryForbidden
	CategoryTransient
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "unknown",
	CategoryValidation: "validation",
	CategoryConflict:   "conflict",
	CategoryNotFound:   "not_found",
	CategoryForbidden:  "forbidden",
	CategoryTransient:  "transient",
}

func (c Category) String() string { return categoryNames[c] }

// Retryable reports whether repeating the whole operation may succeed.
// Only transient failures qualify; the unit of work was rolled back.
func (c Category) Retryable() bool { return c == CategoryTransient }

var codeCategories = map[Code]Category{
	CodeInvalidSeat:       CategoryValidation,
	CodeSeatTaken:         CategoryConflict,
	CodeShowFull:          CategoryConflict,
	CodeAlreadyCancelled:  CategoryConflict,
	CodeNotFound:          CategoryNotFound,
	CodeForbidden:         CategoryForbidden,
	CodeTransactionFailed: CategoryTransient,
}

// CategoryOf returns the category of err, or CategoryUnknown when err is
// not a booking error.
func CategoryOf(err error) Category {
	var be *Error
	if errors.As(err, &be) {
		return codeCategories[be.Code]
	}
	return CategoryUnknown
}
