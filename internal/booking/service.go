package booking

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

var errConcurrentUpdate = errors.New("booking changed concurrently")

// Service bundles the engine and the lifecycle manager over one store.
type Service struct {
	*Engine
	*Lifecycle
}

func NewService(store Store, opts ...Option) *Service {
	return &Service{
		Engine:    NewEngine(store, opts...),
		Lifecycle: NewLifecycle(store, opts...),
	}
}

// Book reserves the seat and returns the new booking in the shape of
// ListForUser. The reservation has committed once Reserve returns, so a
// failed detail read only degrades the response to the fields the
// booking itself carries.
func (s *Service) Book(ctx context.Context, screeningID uint64, seatNumber int, userID uint64) (*repository.BookingDetail, error) {
	b, err := s.Reserve(ctx, screeningID, seatNumber, userID)
	if err != nil {
		return nil, err
	}
	d, err := s.Engine.store.BookingDetail(ctx, b.ID)
	if err != nil {
		s.Engine.log.WithError(err).WithField("booking_id", b.ID).Warn("load booking detail failed")
		return bareDetail(b), nil
	}
	return d, nil
}

func bareDetail(b *model.Booking) *repository.BookingDetail {
	return &repository.BookingDetail{
		ID:         b.ID,
		Screening:  repository.ScreeningDetail{ID: b.ScreeningID},
		SeatNumber: b.SeatNumber,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}
