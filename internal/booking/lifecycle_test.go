package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func TestCancel(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	b := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingActive})
	events := &recorder{}
	l := NewLifecycle(store, WithEvents(events))

	require.NoError(t, l.Cancel(context.Background(), b.ID, 42))

	got := store.get(b.ID)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, uint32(1), got.Version)
	assert.Equal(t, uint32(3), got.SeatNumber)
	require.Len(t, events.cancelled, 1)
	assert.Equal(t, model.BookingCancelled, events.cancelled[0].Status)
}

func TestCancelTwice(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	b := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingActive})
	l := NewLifecycle(store)

	require.NoError(t, l.Cancel(context.Background(), b.ID, 42))
	err := l.Cancel(context.Background(), b.ID, 42)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, CategoryConflict, CategoryOf(err))
	assert.Equal(t, model.BookingCancelled, store.get(b.ID).Status)
}

func TestCancelForbidden(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	b := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingActive})
	l := NewLifecycle(store)

	err := l.Cancel(context.Background(), b.ID, 43)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, CategoryForbidden, CategoryOf(err))
	assert.Equal(t, model.BookingActive, store.get(b.ID).Status)
}

func TestCancelNotFound(t *testing.T) {
	err := NewLifecycle(newMemStore()).Cancel(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelLeavesOtherBookingsAlone(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	a := store.seed(model.Booking{UserID: 1, ScreeningID: 1, SeatNumber: 1, Status: model.BookingActive})
	other := store.seed(model.Booking{UserID: 2, ScreeningID: 1, SeatNumber: 2, Status: model.BookingActive})
	before := store.get(other.ID)

	require.NoError(t, NewLifecycle(store).Cancel(context.Background(), a.ID, 1))
	assert.Equal(t, before, store.get(other.ID))
}

func TestCancelLostRace(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	b := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingActive})
	store.staleCancel = true
	events := &recorder{}

	err := NewLifecycle(store, WithEvents(events)).Cancel(context.Background(), b.ID, 42)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, model.BookingCancelled, store.get(b.ID).Status)
	assert.Empty(t, events.cancelled)
}

func TestCancelStorageFault(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	b := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingActive})
	store.cancelErr = errors.New("lost connection")

	err := NewLifecycle(store).Cancel(context.Background(), b.ID, 42)
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.Equal(t, model.BookingActive, store.get(b.ID).Status)
}

func TestConcurrentCancel(t *testing.T) {
	const n = 16
	store := newMemStore()
	store.addScreening(1, 5)
	b := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingActive})
	l := NewLifecycle(store)

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Cancel(context.Background(), b.ID, 42)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	}
	assert.Equal(t, 1, ok)
	got := store.get(b.ID)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, uint32(1), got.Version)
}

func TestListForUserNewestFirst(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 5)
	first := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 1, Status: model.BookingActive})
	store.seed(model.Booking{UserID: 7, ScreeningID: 1, SeatNumber: 2, Status: model.BookingActive})
	second := store.seed(model.Booking{UserID: 42, ScreeningID: 1, SeatNumber: 3, Status: model.BookingCancelled})

	out, err := NewLifecycle(store).ListForUser(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, second.ID, out[0].ID)
	assert.Equal(t, first.ID, out[1].ID)
	assert.Equal(t, "Inception", out[0].Screening.Movie.Title)
}

// The two-seat walkthrough: occupancy, seat bound and a freed seat.
func TestServiceTwoSeatScenario(t *testing.T) {
	const userA, userB, userC = 1, 2, 3
	store := newMemStore()
	store.addScreening(1, 2)
	svc := NewService(store)
	ctx := context.Background()

	a, err := svc.Reserve(ctx, 1, 1, userA)
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, 1, 1, userB)
	assert.ErrorIs(t, err, ErrSeatTaken)

	_, err = svc.Reserve(ctx, 1, 2, userB)
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, 1, 3, userC)
	assert.ErrorIs(t, err, ErrInvalidSeat)

	require.NoError(t, svc.Cancel(ctx, a.ID, userA))
	assert.Equal(t, model.BookingCancelled, store.get(a.ID).Status)

	c, err := svc.Reserve(ctx, 1, 1, userC)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), c.SeatNumber)
	assert.Equal(t, 2, store.activeCount(1))
}

func TestServiceBookReturnsDetail(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 10)
	svc := NewService(store)

	d, err := svc.Book(context.Background(), 1, 4, 42)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), d.SeatNumber)
	assert.Equal(t, model.BookingActive, d.Status)
	assert.Equal(t, uint64(1), d.Screening.ID)
	assert.Equal(t, "Inception", d.Screening.Movie.Title)

	list, err := svc.ListForUser(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, list[0], *d)
}

func TestServiceBookSurvivesDetailReadFailure(t *testing.T) {
	store := newMemStore()
	store.addScreening(1, 10)
	store.detailErr = errors.New("replica lag")
	svc := NewService(store)

	d, err := svc.Book(context.Background(), 1, 4, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.Screening.ID)
	assert.Equal(t, uint32(4), d.SeatNumber)
	assert.Equal(t, 1, store.activeCount(1))

	_, err = svc.Book(context.Background(), 1, 4, 43)
	assert.ErrorIs(t, err, ErrSeatTaken)
}
