package model

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingActive, BookingCancelled, true},
		{BookingCancelled, BookingCancelled, false},
		{BookingCancelled, BookingActive, false},
		{BookingActive, BookingActive, false},
		{BookingStatus("EXPIRED"), BookingCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestBookingStatus_Valid(t *testing.T) {
	assert.True(t, BookingActive.Valid())
	assert.True(t, BookingCancelled.Valid())
	assert.False(t, BookingStatus("booked").Valid())
}

func TestScreening_Validate(t *testing.T) {
	assert.NoError(t, Screening{ScreenName: "Screen 1", TotalSeats: 50}.Validate())
	assert.ErrorIs(t, Screening{ScreenName: "Screen 1"}.Validate(), ErrNoSeats)
	assert.ErrorIs(t, Screening{ScreenName: "  ", TotalSeats: 2}.Validate(), ErrNoScreenName)
}

func TestScreening_HasSeat(t *testing.T) {
	s := Screening{TotalSeats: 2}
	assert.False(t, s.HasSeat(0))
	assert.True(t, s.HasSeat(1))
	assert.True(t, s.HasSeat(2))
	assert.False(t, s.HasSeat(3))
	assert.False(t, s.HasSeat(-1))
}

// Field lists in doc comments are tab-indented code blocks with a blank
// comment line before them; a space-indented list gets rewritten by gofmt.
func TestDocFieldListsAreGofmtStable(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	spaceIndented := regexp.MustCompile(`^// {2,}\S`)

	checked := 0
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := os.Open(name)
		require.NoError(t, err)
		sc := bufio.NewScanner(f)
		prev, line := "", 0
		for sc.Scan() {
			line++
			text := sc.Text()
			assert.False(t, spaceIndented.MatchString(text), "%s:%d space-indented doc line", name, line)
			if prev == "// Fields:" {
				assert.Equal(t, "//", text, "%s:%d blank comment line after Fields:", name, line)
				checked++
			}
			prev = text
		}
		require.NoError(t, sc.Err())
		f.Close()
	}
	assert.Equal(t, 4, checked)
}
