package dialogue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFullFlow(t *testing.T) {
	s := NewSession("", "")
	assert.Equal(t, AwaitingDeparture, s.State())

	turns := []struct {
		input string
		next  State
	}{
		{"yto", AwaitingArrival},
		{"del", AwaitingDateType},
		{"specific", AwaitingDepDate},
		{"15/06/2024", AwaitingTripType},
		{"yes", AwaitingReturnDate},
		{"22/06/2024", AwaitingCabin},
		{"economy", AwaitingAdults},
		{"2", AwaitingChildren},
		{"0", AwaitingDirectPref},
	}
	for _, turn := range turns {
		reply, done := s.Advance(turn.input)
		require.False(t, done, turn.input)
		assert.Equal(t, turn.next, s.State(), turn.input)
		assert.Equal(t, prompts[turn.next], reply)
	}

	url, done := s.Advance("no")
	require.True(t, done)
	assert.Equal(t,
		"https://www.skyscanner.ca/transport/flights/yto/del/240615/240622/?adultsv2=2&cabinclass=economy&childrenv2=0&inboundaltsenabled=false&outboundaltsenabled=false&preferdirects=false&ref=home&rtn=1",
		url)
}

func TestSessionSeededFromUtterance(t *testing.T) {
	s := NewSession("yto", "del")
	assert.Equal(t, AwaitingDateType, s.State())

	s = NewSession("yto", "")
	assert.Equal(t, AwaitingArrival, s.State())
}

// A malformed answer must leave both the state and the collected slots
// untouched and re-ask the same question.
func TestSessionRejectsWithoutMutation(t *testing.T) {
	s := NewSession("yto", "del")
	s.Advance("specific")
	require.Equal(t, AwaitingDepDate, s.State())
	before := s.Slots()

	for _, bad := range []string{"next friday", "2024-06-15", "15/6/2024", ""} {
		reply, done := s.Advance(bad)
		assert.False(t, done)
		assert.True(t, strings.HasPrefix(reply, "I didn't understand. "), bad)
		assert.Equal(t, prompts[AwaitingDepDate], strings.TrimPrefix(reply, "I didn't understand. "))
		assert.Equal(t, AwaitingDepDate, s.State())
		assert.Equal(t, before, s.Slots())
	}

	_, done := s.Advance("15/06/2024")
	assert.False(t, done)
	assert.Equal(t, AwaitingTripType, s.State())
}

func TestSessionOneWaySkipsReturnDate(t *testing.T) {
	s := NewSession("yto", "del")
	s.Advance("specific")
	s.Advance("15/06/2024")
	_, done := s.Advance("no")
	require.False(t, done)
	assert.Equal(t, AwaitingCabin, s.State())
}

func TestSessionCabinValidation(t *testing.T) {
	s := NewSession("yto", "del")
	s.Advance("specific")
	s.Advance("15/06/2024")
	s.Advance("no")

	_, done := s.Advance("luxury")
	assert.False(t, done)
	assert.Equal(t, AwaitingCabin, s.State())

	// "premium economy" collapses to the wire spelling.
	_, done = s.Advance("premium economy")
	assert.False(t, done)
	assert.Equal(t, AwaitingAdults, s.State())
	assert.Equal(t, "premiumeconomy", s.Slots().Cabin)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(0)
	assert.False(t, m.Active())

	prompt := m.Start("yto", "del")
	assert.Equal(t, prompts[AwaitingDateType], prompt)
	assert.True(t, m.Active())

	reply, ok := m.Feed("specific")
	require.True(t, ok)
	assert.Equal(t, prompts[AwaitingDepDate], reply)

	for _, turn := range []string{"15/06/2024", "no", "economy", "1", "0"} {
		_, ok = m.Feed(turn)
		require.True(t, ok)
	}
	url, ok := m.Feed("no")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(url, "https://www.skyscanner.ca/"))

	// The finished session is gone.
	assert.False(t, m.Active())
	_, ok = m.Feed("yes")
	assert.False(t, ok)
}

func TestManagerIdleExpiry(t *testing.T) {
	m := NewManager(2 * time.Minute)
	m.Start("yto", "del")
	require.True(t, m.Active())

	m.now = func() time.Time { return time.Now().Add(3 * time.Minute) }
	assert.False(t, m.Active())
	_, ok := m.Feed("specific")
	assert.False(t, ok)
}
