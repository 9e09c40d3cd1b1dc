package flight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURLRoundTrip(t *testing.T) {
	s := Search{
		Departure: "yto",
		Arrival:   "del",
		DepDate:   "15/06/2024",
		RetDate:   "22/06/2024",
		Adults:    2,
		Children:  0,
		Cabin:     "economy",
		RoundTrip: true,
	}
	url, err := s.BuildURL()
	require.NoError(t, err)
	assert.Equal(t,
		"https://www.skyscanner.ca/transport/flights/yto/del/240615/240622/?adultsv2=2&cabinclass=economy&childrenv2=0&inboundaltsenabled=false&outboundaltsenabled=false&preferdirects=false&ref=home&rtn=1",
		url)
}

func TestBuildURLOneWayDefaults(t *testing.T) {
	s := Search{
		Departure: "yvr",
		Arrival:   "lhr",
		DepDate:   "01/12/2024",
	}
	url, err := s.BuildURL()
	require.NoError(t, err)
	// One way repeats the departure date, defaults one adult in economy.
	assert.Contains(t, url, "/yvr/lhr/241201/241201/")
	assert.Contains(t, url, "adultsv2=1")
	assert.Contains(t, url, "cabinclass=economy")
	assert.Contains(t, url, "rtn=0")
}

// A direct-flight preference never changes the deep link.
func TestBuildURLDirectPreference(t *testing.T) {
	s := Search{Departure: "yto", Arrival: "del", DepDate: "15/06/2024", Direct: true}
	url, err := s.BuildURL()
	require.NoError(t, err)
	assert.Contains(t, url, "preferdirects=false")
}

func TestBuildURLMissingSlots(t *testing.T) {
	_, err := Search{Arrival: "del", DepDate: "15/06/2024"}.BuildURL()
	assert.Error(t, err)

	_, err = Search{Departure: "yto", Arrival: "del", DepDate: "junk"}.BuildURL()
	assert.Error(t, err)

	_, err = Search{Departure: "yto", Arrival: "del", DepDate: "15/06/2024", RoundTrip: true}.BuildURL()
	assert.Error(t, err, "round trip without a return date")
}

func TestValidCabin(t *testing.T) {
	for _, c := range []string{"economy", "premiumeconomy", "business", "first"} {
		assert.True(t, ValidCabin(c), c)
	}
	assert.False(t, ValidCabin("steerage"))
}
