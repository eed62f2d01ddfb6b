package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "medtour-itinerary-service/pkg/errors"
)

func TestParseLocation(t *testing.T) {
	origin, destination, err := ParseLocation("e1", "New York(JFK) - Changchun(CGQ)")
	require.NoError(t, err)
	assert.Equal(t, "New York(JFK)", origin)
	assert.Equal(t, "Changchun(CGQ)", destination)

	origin, destination, err = ParseLocation("e2", "Ulan-Ude - Beijing")
	require.NoError(t, err)
	assert.Equal(t, "Ulan-Ude", origin)
	assert.Equal(t, "Beijing", destination)

	for _, bad := range []string{"Changchun", "A - B - C", " - Beijing", ""} {
		_, _, err := ParseLocation("e3", bad)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParseFailure), bad)
	}
}

func TestSplitCityCode(t *testing.T) {
	name, code := SplitCityCode("New York (jfk)")
	assert.Equal(t, "New York", name)
	assert.Equal(t, "JFK", code)

	name, code = SplitCityCode(" Changchun ")
	assert.Equal(t, "Changchun", name)
	assert.Empty(t, code)

	assert.True(t, SameCity("changchun(CGQ)", "Changchun"))
	assert.False(t, SameCity("Beijing", "Changchun"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "2h 30m", FormatMinutes(150))
	assert.Equal(t, "14h", FormatMinutes(840))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "0m", FormatMinutes(0))
}

func TestParseLegacyFlightDescription(t *testing.T) {
	direct, via, ok := ParseLegacyFlightDescription("CA982 New York - Beijing (Direct)")
	assert.True(t, ok)
	assert.True(t, direct)
	assert.Empty(t, via)

	direct, via, ok = ParseLegacyFlightDescription("New York - Changchun (Via Beijing)")
	assert.True(t, ok)
	assert.False(t, direct)
	assert.Equal(t, "Beijing", via)

	_, _, ok = ParseLegacyFlightDescription("Outbound flight")
	assert.False(t, ok)
}
