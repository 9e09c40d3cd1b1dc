// Package dialogue implements the multi-turn flight-search flow as an
// explicit state machine: one tagged state per missing slot, one typed
// slot record, one transition per user turn. An answer that does not
// match the awaited shape leaves both the state and the slots untouched
// and re-asks the same question.
package dialogue

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"vani/internal/flight"
)

type State int

const (
	AwaitingDeparture State = iota
	AwaitingArrival
	AwaitingDateType
	AwaitingDepDate
	AwaitingTripType
	AwaitingReturnDate
	AwaitingCabin
	AwaitingAdults
	AwaitingChildren
	AwaitingDirectPref
	Ready
)

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

const misunderstood = "I didn't understand. "

var prompts = map[State]string{
	AwaitingDeparture:  "Where are you flying from? Please give the airport code.",
	AwaitingArrival:    "Where are you flying to?",
	AwaitingDateType:   "Do you have a specific date, or are you flexible?",
	AwaitingDepDate:    "What date do you want to leave? Please use DD/MM/YYYY.",
	AwaitingTripType:   "Is this a round trip? Yes or no.",
	AwaitingReturnDate: "What date do you want to return? Please use DD/MM/YYYY.",
	AwaitingCabin:      "Which cabin class: economy, premiumeconomy, business or first?",
	AwaitingAdults:     "How many adults are travelling?",
	AwaitingChildren:   "How many children are travelling?",
	AwaitingDirectPref: "Do you prefer direct flights only? Yes or no.",
}

// Session is one in-flight slot-filling conversation. It is created on
// the first flight utterance and discarded once Ready fires or the
// session sits idle past the manager's expiry window.
type Session struct {
	state    State
	slots    flight.Search
	lastTurn time.Time
}

// NewSession seeds a session from whatever the opening utterance
// already supplied ("flights from YTO to DEL" fills both cities).
func NewSession(departure, arrival string) *Session {
	s := &Session{lastTurn: time.Now()}
	s.slots.Departure = strings.TrimSpace(departure)
	s.slots.Arrival = strings.TrimSpace(arrival)
	s.state = s.nextMissing()
	return s
}

func (s *Session) nextMissing() State {
	if s.slots.Departure == "" {
		return AwaitingDeparture
	}
	if s.slots.Arrival == "" {
		return AwaitingArrival
	}
	return AwaitingDateType
}

// State exposes the current state for tests and status reporting.
func (s *Session) State() State { return s.state }

// Slots returns a copy of the collected slot record.
func (s *Session) Slots() flight.Search { return s.slots }

// Prompt returns the question for the currently awaited slot.
func (s *Session) Prompt() string { return prompts[s.state] }

// Advance consumes one user turn. It returns the next prompt, or the
// final result once every slot is filled, plus done=true when the
// session is finished. Unparseable input re-emits the same prompt.
func (s *Session) Advance(input string) (reply string, done bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	s.lastTurn = time.Now()

	if !s.accept(input) {
		return misunderstood + prompts[s.state], false
	}

	if s.state == Ready {
		url, err := s.slots.BuildURL()
		if err != nil {
			// Slots were validated per turn, so this means the
			// flow itself is wrong; restart rather than loop.
			return "Something went wrong with your flight details. Let's start over: " + prompts[AwaitingDeparture], true
		}
		return url, true
	}
	return prompts[s.state], false
}

// accept validates input against the awaited shape and, only on
// success, stores the slot and moves the cursor. Returns false with no
// mutation otherwise.
func (s *Session) accept(input string) bool {
	switch s.state {
	case AwaitingDeparture:
		if input == "" {
			return false
		}
		s.slots.Departure = input
		s.state = AwaitingArrival
		if s.slots.Arrival != "" {
			s.state = AwaitingDateType
		}

	case AwaitingArrival:
		if input == "" {
			return false
		}
		s.slots.Arrival = input
		s.state = AwaitingDateType

	case AwaitingDateType:
		if input != "specific" && input != "flexible" {
			return false
		}
		s.state = AwaitingDepDate

	case AwaitingDepDate:
		if !datePattern.MatchString(input) {
			return false
		}
		if _, err := flight.ParseDate(input); err != nil {
			return false
		}
		s.slots.DepDate = input
		s.state = AwaitingTripType

	case AwaitingTripType:
		yes, ok := yesNo(input)
		if !ok {
			return false
		}
		s.slots.RoundTrip = yes
		if yes {
			s.state = AwaitingReturnDate
		} else {
			s.state = AwaitingCabin
		}

	case AwaitingReturnDate:
		if !datePattern.MatchString(input) {
			return false
		}
		if _, err := flight.ParseDate(input); err != nil {
			return false
		}
		s.slots.RetDate = input
		s.state = AwaitingCabin

	case AwaitingCabin:
		cabin := strings.ReplaceAll(input, " ", "")
		if !flight.ValidCabin(cabin) {
			return false
		}
		s.slots.Cabin = cabin
		s.state = AwaitingAdults

	case AwaitingAdults:
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 {
			return false
		}
		s.slots.Adults = n
		s.state = AwaitingChildren

	case AwaitingChildren:
		n, err := strconv.Atoi(input)
		if err != nil || n < 0 {
			return false
		}
		s.slots.Children = n
		s.state = AwaitingDirectPref

	case AwaitingDirectPref:
		yes, ok := yesNo(input)
		if !ok {
			return false
		}
		s.slots.Direct = yes
		s.state = Ready
	}
	return true
}

func yesNo(input string) (value, ok bool) {
	switch input {
	case "yes", "yeah", "yep", "sure", "round trip", "return":
		return true, true
	case "no", "nope", "one way", "single":
		return false, true
	}
	return false, false
}
