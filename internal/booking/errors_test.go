package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByCode(t *testing.T) {
	custom := withMessage(ErrNotFound, "Screening not found.")
	assert.ErrorIs(t, custom, ErrNotFound)
	assert.NotErrorIs(t, custom, ErrForbidden)
	assert.Equal(t, "Screening not found.", custom.Error())

	wrapped := fmt.Errorf("handler: %w", ErrSeatTaken)
	assert.ErrorIs(t, wrapped, ErrSeatTaken)
	assert.Equal(t, CategoryConflict, CategoryOf(wrapped))
}

func TestTransactionFailedWrapsCause(t *testing.T) {
	cause := errors.New("deadlock")
	err := transactionFailed(cause)
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deadlock")
}

func TestCategories(t *testing.T) {
	cases := map[*Error]Category{
		ErrInvalidSeat:       CategoryValidation,
		ErrSeatTaken:         CategoryConflict,
		ErrShowFull:          CategoryConflict,
		ErrAlreadyCancelled:  CategoryConflict,
		ErrNotFound:          CategoryNotFound,
		ErrForbidden:         CategoryForbidden,
		ErrTransactionFailed: CategoryTransient,
	}
	for err, want := range cases {
		got := CategoryOf(err)
		assert.Equal(t, want, got, err.Code)
		assert.Equal(t, want == CategoryTransient, got.Retryable(), err.Code)
	}
	assert.Equal(t, CategoryUnknown, CategoryOf(errors.New("plain")))
	assert.Equal(t, "transient", CategoryTransient.String())
}
