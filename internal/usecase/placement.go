package usecase

import (
	"time"

	apperrors "medtour-itinerary-service/pkg/errors"
)

const (
	attractionDuration    = 120 * time.Minute
	medicalDefaultLength  = 60 * time.Minute
	hotelCheckInDelay     = 4 * time.Hour
	medicalEarliestOffset = 20 * time.Hour
	attractionLatestEnd   = 20
)

// attractionWindow computes where the first attraction goes and the bounds every
// attraction must respect: minDate = arrival + 1 day, maxDate = return - 1 day.
func attractionWindow(arrival, depart time.Time, medicalEnd *time.Time) (candidate, minDate, maxDate time.Time) {
	candidate = atClock(arrival.AddDate(0, 0, 2), 10, 0)
	if medicalEnd != nil {
		afterMedical := atClock(medicalEnd.AddDate(0, 0, 1), 14, 0)
		if afterMedical.After(candidate) {
			candidate = afterMedical
		}
	}
	minDate = arrival.AddDate(0, 0, 1)
	maxDate = depart.AddDate(0, 0, -1)
	if candidate.Before(minDate) {
		candidate = minDate
	}
	return candidate, minDate, maxDate
}

// planAttractionSlots returns up to n start times on consecutive days at 10:00, stopping at
// the max bound. It fails when not even the first slot fits.
func planAttractionSlots(n int, arrival, depart time.Time, medicalEnd *time.Time) ([]time.Time, error) {
	candidate, minDate, maxDate := attractionWindow(arrival, depart, medicalEnd)
	if !candidate.Before(maxDate) {
		return nil, apperrors.NewNoAvailableSlotError("no attraction slot between arrival and return",
			candidate, minDate, maxDate)
	}

	slots := []time.Time{candidate}
	for len(slots) < n {
		next := atClock(slots[len(slots)-1].AddDate(0, 0, 1), 10, 0)
		if !next.Before(maxDate) {
			break
		}
		slots = append(slots, next)
	}
	return slots, nil
}

// planExistingAttractionSlots places every one of n existing attractions. One that would
// reach the max bound goes one hour after the previous attraction ends, provided it still
// starts before the bound and finishes by 20:00. Otherwise nothing fits.
func planExistingAttractionSlots(durations []time.Duration, arrival, depart time.Time, medicalEnd *time.Time) ([]time.Time, error) {
	if len(durations) == 0 {
		return nil, nil
	}
	candidate, minDate, maxDate := attractionWindow(arrival, depart, medicalEnd)
	if !candidate.Before(maxDate) {
		return nil, apperrors.NewNoAvailableSlotError("no attraction slot between arrival and return",
			candidate, minDate, maxDate)
	}

	slots := []time.Time{candidate}
	for i := 1; i < len(durations); i++ {
		prev := slots[i-1]
		next := atClock(prev.AddDate(0, 0, 1), 10, 0)
		if !next.Before(maxDate) {
			next = prev.Add(durations[i-1]).Add(time.Hour)
			if !next.Before(maxDate) || next.Add(durations[i]).After(atClock(prev, attractionLatestEnd, 0)) {
				return nil, apperrors.NewNoAvailableSlotError("attractions do not fit between arrival and return",
					next, minDate, maxDate).WithDetail("attractions", len(durations))
			}
		}
		slots = append(slots, next)
	}
	return slots, nil
}

// medicalSlot puts the consultation at (arrival + 1 day) 10:00, clamped into
// [arrival + 20h, return - 1 day]
func medicalSlot(arrival, depart time.Time) (time.Time, error) {
	target := atClock(arrival.AddDate(0, 0, 1), 10, 0)
	lower := arrival.Add(medicalEarliestOffset)
	upper := depart.AddDate(0, 0, -1)
	if upper.Before(lower) {
		return time.Time{}, apperrors.NewNoAvailableSlotError("no medical consultation slot between arrival and return",
			target, lower, upper)
	}
	if target.Before(lower) {
		target = lower
	}
	if target.After(upper) {
		target = upper
	}
	return target, nil
}

// hotelStay checks in four hours after arrival and out at 10:00 on the return day
func hotelStay(arrival, depart time.Time) (time.Time, time.Time) {
	start := arrival.Add(hotelCheckInDelay)
	end := atClock(depart, 10, 0)
	if start.After(end) {
		start = arrival
	}
	return start, end
}
