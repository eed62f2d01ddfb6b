package utils

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "medtour-itinerary-service/pkg/errors"
)

var (
	cityCodeRe   = regexp.MustCompile(`^\s*(.*?)\s*\(([A-Za-z]{3})\)\s*$`)
	legacyViaRe  = regexp.MustCompile(`\(Via ([^)]+)\)`)
	legacyDirect = "(Direct)"
)

// ParseLocation splits an "Origin - Destination" location into its two parts
func ParseLocation(entryID, location string) (string, string, error) {
	parts := strings.Split(location, LocationSeparator)
	if len(parts) != 2 {
		return "", "", apperrors.NewParseFailureError(entryID, location)
	}
	origin := strings.TrimSpace(parts[0])
	destination := strings.TrimSpace(parts[1])
	if origin == "" || destination == "" {
		return "", "", apperrors.NewParseFailureError(entryID, location)
	}
	return origin, destination, nil
}

// FormatLocation is the inverse of ParseLocation
func FormatLocation(origin, destination string) string {
	return origin + LocationSeparator + destination
}

// SplitCityCode splits "New York(JFK)" or "New York (JFK)" into name and upper-cased code
func SplitCityCode(value string) (string, string) {
	if m := cityCodeRe.FindStringSubmatch(value); m != nil {
		return strings.TrimSpace(m[1]), strings.ToUpper(m[2])
	}
	return strings.TrimSpace(value), ""
}

// SameCity compares two city strings ignoring case, spacing and airport codes
func SameCity(a, b string) bool {
	an, _ := SplitCityCode(a)
	bn, _ := SplitCityCode(b)
	return strings.EqualFold(an, bn)
}

// FormatMinutes renders a duration as "2h 30m", "14h" or "45m"
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// ParseLegacyFlightDescription reads the "(Direct)" and "(Via X)" markers written into flight
// descriptions before structured flight details existed
func ParseLegacyFlightDescription(description string) (isDirect bool, connectionCity string, ok bool) {
	if m := legacyViaRe.FindStringSubmatch(description); m != nil {
		return false, strings.TrimSpace(m[1]), true
	}
	if strings.Contains(description, legacyDirect) {
		return true, "", true
	}
	return false, "", false
}
