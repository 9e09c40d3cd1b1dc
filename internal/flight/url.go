// Package flight builds Skyscanner search URLs from a completed set of
// flight slots. The path and query layout is byte-compatible with what
// the travel site expects, so the format string is not to be touched
// casually.
package flight

import (
	"errors"
	"fmt"
	"time"
)

const baseURL = "https://www.skyscanner.ca/transport/flights/"

// DateLayout is the on-the-wire shape of user-supplied dates.
const DateLayout = "02/01/2006"

var cabinClasses = map[string]bool{
	"economy":        true,
	"premiumeconomy": true,
	"business":       true,
	"first":          true,
}

// ValidCabin reports whether name is a Skyscanner cabin class.
func ValidCabin(name string) bool { return cabinClasses[name] }

// ParseDate parses a DD/MM/YYYY user answer.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Search is the completed slot record the URL builder consumes.
type Search struct {
	Departure string
	Arrival   string
	DepDate   string // DD/MM/YYYY
	RetDate   string // DD/MM/YYYY, ignored unless RoundTrip
	Adults    int
	Children  int
	Cabin     string
	RoundTrip bool
	Direct    bool
}

// BuildURL renders the search URL. Missing required slots are a defined
// error, never a malformed URL.
func (s Search) BuildURL() (string, error) {
	if s.Departure == "" || s.Arrival == "" {
		return "", errors.New("missing departure or arrival")
	}
	dep, err := ParseDate(s.DepDate)
	if err != nil {
		return "", fmt.Errorf("departure date: %w", err)
	}
	ret := dep
	if s.RoundTrip {
		if ret, err = ParseDate(s.RetDate); err != nil {
			return "", fmt.Errorf("return date: %w", err)
		}
	}
	cabin := s.Cabin
	if cabin == "" {
		cabin = "economy"
	}
	adults := s.Adults
	if adults < 1 {
		adults = 1
	}
	rtn := 0
	if s.RoundTrip {
		rtn = 1
	}
	// preferdirects is always false in the deep link; the Direct answer
	// is collected but not forwarded.
	return fmt.Sprintf(
		"%s%s/%s/%s/%s/?adultsv2=%d&cabinclass=%s&childrenv2=%d&inboundaltsenabled=false&outboundaltsenabled=false&preferdirects=false&ref=home&rtn=%d",
		baseURL, s.Departure, s.Arrival,
		dep.Format("060102"), ret.Format("060102"),
		adults, cabin, s.Children, rtn,
	), nil
}
