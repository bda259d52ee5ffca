package booking

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// memStore is an in-memory Store. Each screening has its own mutex, held
// for the whole of WithScreeningLock, and inserts only become visible when
// fn returns nil.
type memStore struct {
	mu         sync.Mutex
	locks      map[uint64]*sync.Mutex
	movies     map[uint64]model.Movie
	screenings map[uint64]model.Screening
	bookings   map[uint64]*model.Booking
	nextID     uint64
	clock      time.Time

	insertErr error
	commitErr error
	cancelErr error
	detailErr error
	// staleCancel makes MarkCancelled lose the race once after cancelling
	// the booking itself, as a concurrent canceller would.
	staleCancel bool
}

func newMemStore() *memStore {
	return &memStore{
		locks:      map[uint64]*sync.Mutex{},
		movies:     map[uint64]model.Movie{},
		screenings: map[uint64]model.Screening{},
		bookings:   map[uint64]*model.Booking{},
		clock:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addScreening(id uint64, totalSeats uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movies[1] = model.Movie{ID: 1, Title: "Inception", DurationMinutes: 148}
	m.screenings[id] = model.Screening{ID: id, MovieID: 1, ScreenName: "Screen 1", StartsAt: m.clock.Add(2 * time.Hour), TotalSeats: totalSeats}
}

// seed stores a booking directly, bypassing every check.
func (m *memStore) seed(b model.Booking) *model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Millisecond)
	b.ID = m.nextID
	b.CreatedAt, b.UpdatedAt = m.clock, m.clock
	m.bookings[b.ID] = &b
	cp := b
	return &cp
}

func (m *memStore) get(id uint64) model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.bookings[id]
}

func (m *memStore) activeCount(screeningID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.ScreeningID == screeningID && b.IsActive() {
			n++
		}
	}
	return n
}

func (m *memStore) screeningLock(id uint64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lk, ok := m.locks[id]
	if !ok {
		lk = &sync.Mutex{}
		m.locks[id] = lk
	}
	return lk
}

func (m *memStore) Screening(_ context.Context, id uint64) (*model.Screening, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.screenings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memStore) WithScreeningLock(ctx context.Context, screeningID uint64,
	fn func(ctx context.Context, tx ReservationTx, s *model.Screening) error) error {
	lk := m.screeningLock(screeningID)
	lk.Lock()
	defer lk.Unlock()

	s, err := m.Screening(ctx, screeningID)
	if err != nil {
		return err
	}
	tx := &memTx{store: m, screeningID: screeningID}
	if err := fn(ctx, tx, s); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	m.mu.Lock()
	for _, b := range tx.staged {
		m.bookings[b.ID] = b
	}
	m.mu.Unlock()
	return nil
}

func (m *memStore) Booking(_ context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) MarkCancelled(_ context.Context, id uint64, version uint32) (bool, error) {
	if m.cancelErr != nil {
		return false, m.cancelErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Version != version || b.Status != model.BookingActive {
		return false, nil
	}
	b.Status = model.BookingCancelled
	b.Version++
	if m.staleCancel {
		m.staleCancel = false
		return false, nil
	}
	return true, nil
}

func (m *memStore) detailLocked(b *model.Booking) repository.BookingDetail {
	s := m.screenings[b.ScreeningID]
	return repository.BookingDetail{
		ID: b.ID,
		Screening: repository.ScreeningDetail{
			ID: s.ID, Movie: m.movies[s.MovieID], ScreenName: s.ScreenName,
			StartsAt: s.StartsAt, TotalSeats: s.TotalSeats,
		},
		SeatNumber: b.SeatNumber,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}

func (m *memStore) BookingDetail(_ context.Context, id uint64) (*repository.BookingDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := m.detailLocked(b)
	return &d, nil
}

func (m *memStore) BookingsByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.BookingDetail, 0)
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, m.detailLocked(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type memTx struct {
	store       *memStore
	screeningID uint64
	staged      []*model.Booking
}

func (t *memTx) ActiveSeatExists(_ context.Context, seat uint32) (bool, error) {
	// Give competing goroutines a chance to run between check and insert.
	runtime.Gosched()
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.seatActiveLocked(seat), nil
}

func (t *memTx) seatActiveLocked(seat uint32) bool {
	for _, b := range t.store.bookings {
		if b.ScreeningID == t.screeningID && b.SeatNumber == seat && b.IsActive() {
			return true
		}
	}
	for _, b := range t.staged {
		if b.SeatNumber == seat {
			return true
		}
	}
	return false
}

func (t *memTx) CountActive(_ context.Context) (int, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	n := len(t.staged)
	for _, b := range t.store.bookings {
		if b.ScreeningID == t.screeningID && b.IsActive() {
			n++
		}
	}
	return n, nil
}

func (t *memTx) Insert(_ context.Context, b *model.Booking) error {
	if t.store.insertErr != nil {
		return t.store.insertErr
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.seatActiveLocked(b.SeatNumber) {
		return ErrSeatTaken
	}
	t.store.nextID++
	t.store.clock = t.store.clock.Add(time.Millisecond)
	b.ID = t.store.nextID
	b.ScreeningID = t.screeningID
	b.Status = model.BookingActive
	b.CreatedAt, b.UpdatedAt = t.store.clock, t.store.clock
	cp := *b
	t.staged = append(t.staged, &cp)
	return nil
}

// recorder collects published events.
type recorder struct {
	mu        sync.Mutex
	created   []model.Booking
	cancelled []model.Booking
	err       error
}

func (r *recorder) BookingCreated(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, *b)
	return r.err
}

func (r *recorder) BookingCancelled(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, *b)
	return r.err
}
