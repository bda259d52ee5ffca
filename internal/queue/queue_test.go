package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/logger"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func sampleEvent() BookingEvent {
	b := &model.Booking{ID: 9, UserID: 42, ScreeningID: 3, SeatNumber: 12, Status: model.BookingActive}
	return NewBookingEvent(BookingCreated, b, time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC))
}

func TestNewBookingEvent(t *testing.T) {
	ev := sampleEvent()
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, uint64(9), ev.BookingID)
	assert.Equal(t, uint32(12), ev.SeatNumber)
	assert.Equal(t, model.BookingActive, ev.Status)
}

func TestFormatLine(t *testing.T) {
	ev := sampleEvent()
	line := FormatLine(ev)
	assert.True(t, strings.HasPrefix(line, "[2025-03-01T18:30:00Z] booking.created | booking_id=9 | user_id=42 | screening_id=3 | seat=12 | status=ACTIVE"))
	assert.True(t, strings.HasSuffix(line, ev.ID.String()+"\n"))
}

func TestHandleAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := &Consumer{LogDir: dir, Log: logger.Discard()}

	created := sampleEvent()
	cancelled := created
	cancelled.Type = BookingCancelled
	cancelled.Status = model.BookingCancelled
	for _, ev := range []BookingEvent{created, cancelled} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.Handle(body))
	}

	data, err := os.ReadFile(filepath.Join(dir, "booking.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "booking.cancelled")
	assert.Contains(t, lines[1], "status=CANCELLED")
}

func TestHandleRejectsBadMessages(t *testing.T) {
	c := &Consumer{LogDir: t.TempDir(), Log: logger.Discard()}
	assert.Error(t, c.Handle([]byte("{not json")))
	assert.Error(t, c.Handle([]byte(`{"type":"booking.refunded"}`)))
}
