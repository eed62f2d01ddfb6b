package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	apperrors "medtour-itinerary-service/pkg/errors"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/metrics"
	"medtour-itinerary-service/pkg/utils"
)

// RecommendedStep is one line of the suggested day-by-day plan
type RecommendedStep struct {
	Day      int       `json:"day"`
	Date     string    `json:"date"`
	Time     time.Time `json:"time"`
	Activity string    `json:"activity"`
}

// ValidationReport is the read-only verdict on an order's itinerary
type ValidationReport struct {
	OrderID             string                 `json:"orderId"`
	Issues              []entity.TimelineIssue `json:"issues"`
	Suggestions         []string               `json:"suggestions"`
	RecommendedTimeline []RecommendedStep      `json:"recommendedTimeline"`
	Summary             string                 `json:"summary"`
}

// FlightDiagnosis describes one flight entry as stored
type FlightDiagnosis struct {
	EntryID          string               `json:"entryId"`
	Location         string               `json:"location"`
	Origin           string               `json:"origin,omitempty"`
	Destination      string               `json:"destination,omitempty"`
	TripDirection    entity.TripDirection `json:"tripDirection,omitempty"`
	Start            time.Time            `json:"start"`
	End              time.Time            `json:"end"`
	HasFlightDetails bool                 `json:"hasFlightDetails"`
	Consistent       bool                 `json:"consistent"`
	ParseError       string               `json:"parseError,omitempty"`
}

// EntrySummary is the short form of a non-flight entry
type EntrySummary struct {
	EntryID  string    `json:"entryId"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Diagnosis is the full read-only picture of an order's itinerary
type Diagnosis struct {
	OrderID             string                 `json:"orderId"`
	Flights             []FlightDiagnosis      `json:"flights"`
	MedicalConsultation *EntrySummary          `json:"medicalConsultation"`
	Hotel               *EntrySummary          `json:"hotel"`
	Attractions         []EntrySummary         `json:"attractions"`
	Issues              []entity.TimelineIssue `json:"issues"`
	RecommendedTimeline []RecommendedStep      `json:"recommendedTimeline"`
}

// TimelineValidator compares itinerary entries with the trip anchors. It never writes.
type TimelineValidator struct {
	orderRepo     repository.OrderRepository
	itineraryRepo repository.ItineraryRepository
	cities        *CityDirectory
	metrics       *metrics.Metrics
	logger        logger.Logger
}

// NewTimelineValidator creates a new timeline validator
func NewTimelineValidator(
	orderRepo repository.OrderRepository,
	itineraryRepo repository.ItineraryRepository,
	cities *CityDirectory,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *TimelineValidator {
	return &TimelineValidator{
		orderRepo:     orderRepo,
		itineraryRepo: itineraryRepo,
		cities:        cities,
		metrics:       metrics,
		logger:        logger,
	}
}

func (v *TimelineValidator) load(ctx context.Context, orderID string) (*entity.Order, []*entity.ItineraryEntry, error) {
	order, err := v.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := v.itineraryRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list itinerary entries: %w", err)
	}
	return order, entries, nil
}

// Validate reports timeline issues and a recommended plan
func (v *TimelineValidator) Validate(ctx context.Context, orderID string) (*ValidationReport, error) {
	order, entries, err := v.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	issues, steps := v.recommend(v.check(ctx, order, entries), order, entries)

	report := &ValidationReport{
		OrderID:             orderID,
		Issues:              issues,
		Suggestions:         make([]string, 0, len(issues)+1),
		RecommendedTimeline: steps,
		Summary:             summarizeIssues(issues),
	}
	for _, issue := range issues {
		if issue.Suggestion != "" {
			report.Suggestions = append(report.Suggestions, issue.Suggestion)
		}
	}
	if len(steps) > 0 {
		report.Suggestions = append(report.Suggestions, "Recommended timeline: "+formatSteps(steps))
	}

	v.logger.Info("Itinerary validated", "orderID", orderID, "issues", len(issues))
	return report, nil
}

// Diagnose returns the stored flights, dependent entries, issues and recommended plan
func (v *TimelineValidator) Diagnose(ctx context.Context, orderID string) (*Diagnosis, error) {
	order, entries, err := v.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	issues, steps := v.recommend(v.check(ctx, order, entries), order, entries)
	d := &Diagnosis{
		OrderID:             orderID,
		Flights:             []FlightDiagnosis{},
		Attractions:         []EntrySummary{},
		Issues:              issues,
		RecommendedTimeline: steps,
	}
	for _, f := range flightsOf(entries) {
		fd := FlightDiagnosis{
			EntryID:          f.ID,
			Location:         f.Location,
			TripDirection:    f.Metadata.TripDirection,
			Start:            f.StartDate,
			End:              f.EndDate,
			HasFlightDetails: f.Metadata.FlightDetails != nil,
			Consistent:       flightDetailsConsistent(f),
		}
		if origin, destination, err := entryRoute(f); err != nil {
			fd.ParseError = err.Error()
		} else {
			fd.Origin, fd.Destination = origin, destination
		}
		d.Flights = append(d.Flights, fd)
	}
	if medical := firstOf(entries, (*entity.ItineraryEntry).IsMedical); medical != nil {
		d.MedicalConsultation = summarize(medical)
	}
	if hotel := firstOf(entries, (*entity.ItineraryEntry).IsHotel); hotel != nil {
		d.Hotel = summarize(hotel)
	}
	for _, a := range attractionsOf(entries) {
		d.Attractions = append(d.Attractions, *summarize(a))
	}
	return d, nil
}

func summarize(e *entity.ItineraryEntry) *EntrySummary {
	return &EntrySummary{EntryID: e.ID, Name: e.Name, Location: e.Location, Start: e.StartDate, End: e.EndDate}
}

func (v *TimelineValidator) report(issues []entity.TimelineIssue, issueType string, severity entity.Severity, message, suggestion string) []entity.TimelineIssue {
	v.metrics.ObserveIssue(string(severity))
	return append(issues, entity.TimelineIssue{Type: issueType, Severity: severity, Message: message, Suggestion: suggestion})
}

// check runs every rule in order and collects the issues
func (v *TimelineValidator) check(ctx context.Context, order *entity.Order, entries []*entity.ItineraryEntry) []entity.TimelineIssue {
	issues := []entity.TimelineIssue{}
	flights := flightsOf(entries)

	if len(flights) != expectedFlightCount {
		issues = v.report(issues, entity.IssueFlightCount, entity.SeverityCritical,
			fmt.Sprintf("expected %d flight entries, found %d", expectedFlightCount, len(flights)),
			"Add the missing outbound or return flight, or remove duplicates")
	}
	if len(flights) < 2 {
		return issues
	}

	first, last := flights[0], flights[len(flights)-1]
	issues = v.checkFlightPair(ctx, issues, first, last)

	arrival := first.EndDate
	if anchors, err := resolveAnchors(entries); err == nil {
		arrival = anchors.Arrival
	}
	if arrival.IsZero() {
		return issues
	}
	stamp := arrival.Format(time.RFC3339)

	if order.DoctorAppointmentDate != nil && order.DoctorAppointmentDate.Before(arrival) {
		issues = v.report(issues, entity.IssueAppointmentBeforeArrive, entity.SeverityCritical,
			fmt.Sprintf("doctor appointment %s is before arrival %s", order.DoctorAppointmentDate.Format(time.RFC3339), stamp),
			"Run adjust-timeline to move the appointment after arrival")
	}

	medical := firstOf(entries, (*entity.ItineraryEntry).IsMedical)
	if medical != nil && !medical.StartDate.IsZero() && medical.StartDate.Before(arrival) {
		issues = v.report(issues, entity.IssueMedicalBeforeArrival, entity.SeverityCritical,
			fmt.Sprintf("medical consultation %q starts before arrival %s", medical.Name, stamp),
			"Run adjust-timeline to reschedule the consultation")
	}

	for _, hotel := range sortedByStart(entries, (*entity.ItineraryEntry).IsHotel) {
		if !hotel.StartDate.IsZero() && hotel.StartDate.Before(arrival) {
			issues = v.report(issues, entity.IssueHotelBeforeArrival, entity.SeverityMedium,
				fmt.Sprintf("hotel %q check-in is before arrival %s", hotel.Name, stamp),
				"Run adjust-timeline to move check-in after arrival")
		}
		if hotel.HasDates() && hotel.StartDate.After(hotel.EndDate) {
			issues = v.report(issues, entity.IssueHotelDatesInverted, entity.SeverityMedium,
				fmt.Sprintf("hotel %q check-in is after check-out", hotel.Name),
				"Run fix-flights to swap the hotel dates")
		}
	}

	if medical != nil && !medical.StartDate.IsZero() {
		for _, a := range attractionsOf(entries) {
			if !a.StartDate.IsZero() && a.StartDate.Before(medical.StartDate) {
				issues = v.report(issues, entity.IssueAttractionBeforeMedical, entity.SeverityMedium,
					fmt.Sprintf("attraction %q is before the medical consultation", a.Name),
					"Run adjust-timeline to move sightseeing after the consultation")
			}
		}
	}

	return issues
}

// checkFlightPair verifies the first and last flights mirror each other and, as a safety net,
// that they are not flown the wrong way round
func (v *TimelineValidator) checkFlightPair(ctx context.Context, issues []entity.TimelineIssue, first, last *entity.ItineraryEntry) []entity.TimelineIssue {
	outOrigin, outDest, errOut := entryRoute(first)
	retOrigin, retDest, errRet := entryRoute(last)
	for _, err := range []error{errOut, errRet} {
		if err != nil {
			issues = v.report(issues, entity.IssueLocationParse, entity.SeverityWarning, err.Error(),
				"Set the flight location as \"Origin - Destination\"")
		}
	}
	if errOut != nil || errRet != nil {
		return issues
	}

	if !utils.SameCity(outOrigin, retDest) || !utils.SameCity(outDest, retOrigin) {
		return v.report(issues, entity.IssueFlightOrder, entity.SeverityHigh,
			fmt.Sprintf("outbound %q and return %q are not mirror routes", first.Location, last.Location),
			"Check the flight entries; the return flight should reverse the outbound route")
	}

	if first.Metadata.TripDirection == entity.TripDirectionReturn ||
		(!v.cities.IsChinaCity(ctx, outDest) && v.cities.IsChinaCity(ctx, retDest)) {
		issues = v.report(issues, entity.IssueFlightDirection, entity.SeverityWarning,
			fmt.Sprintf("the first flight %q looks like the return leg", first.Location),
			"Run correct-direction to rebuild both legs")
	}
	return issues
}

// recommendTimeline lays out the plan the reconciler would produce. Empty when the flights
// cannot anchor a plan. A medical or attraction slot that cannot be placed is returned as the
// error while the rest of the plan is still laid out.
func recommendTimeline(order *entity.Order, entries []*entity.ItineraryEntry) ([]RecommendedStep, error) {
	anchors, err := resolveAnchors(entries)
	if err != nil {
		return []RecommendedStep{}, nil
	}
	plan := &timelinePlan{anchors: anchors}
	plan.placeHotels(entries)
	slotErr := plan.placeMedical(order, entries)
	if slotErr == nil {
		slotErr = plan.placeAttractions(entries)
	}
	arrival, depart := plan.anchors.Arrival, plan.anchors.Depart
	arrivalDay := atClock(arrival, 0, 0)

	type event struct {
		at       time.Time
		activity string
	}
	arrivalCity := ""
	if _, dest, err := entryRoute(plan.anchors.Outbound[len(plan.anchors.Outbound)-1]); err == nil {
		arrivalCity = " in " + dest
	}
	events := []event{{arrival, "Arrive" + arrivalCity}}

	hasMedical, hasHotel := false, false
	for _, pe := range plan.entries {
		switch pe.kind {
		case AdjustHotel:
			if !hasHotel {
				events = append(events, event{pe.start, "Hotel check-in"}, event{pe.end, "Hotel check-out"})
				hasHotel = true
			}
		case AdjustMedical:
			events = append(events, event{pe.start, "Medical consultation"})
			hasMedical = true
		case AdjustAttraction:
			events = append(events, event{pe.start, "Sightseeing: " + pe.entry.Name})
		}
	}
	if !hasHotel {
		start, end := hotelStay(arrival, depart)
		events = append(events, event{start, "Hotel check-in"}, event{end, "Hotel check-out"})
	}
	if !hasMedical {
		if slot, err := medicalSlot(arrival, depart); err == nil {
			events = append(events, event{slot, "Medical consultation"})
		}
	}
	events = append(events, event{depart, "Return flight departs"})

	sort.SliceStable(events, func(i, j int) bool { return events[i].at.Before(events[j].at) })
	steps := make([]RecommendedStep, 0, len(events))
	for _, e := range events {
		steps = append(steps, RecommendedStep{
			Day:      int(atClock(e.at.In(arrival.Location()), 0, 0).Sub(arrivalDay).Hours()/24) + 1,
			Date:     e.at.Format("2006-01-02"),
			Time:     e.at,
			Activity: e.activity,
		})
	}
	return steps, slotErr
}

// recommend builds the plan and turns an unplaceable slot into an issue
func (v *TimelineValidator) recommend(issues []entity.TimelineIssue, order *entity.Order, entries []*entity.ItineraryEntry) ([]entity.TimelineIssue, []RecommendedStep) {
	steps, slotErr := recommendTimeline(order, entries)
	if slotErr == nil {
		return issues, steps
	}
	message := slotErr.Error()
	if appErr, ok := apperrors.As(slotErr); ok {
		message = fmt.Sprintf("%s (earliest %v, latest %v)", appErr.Message, appErr.Details["minDate"], appErr.Details["maxDate"])
	}
	issues = v.report(issues, entity.IssueNoAvailableSlot, entity.SeverityWarning, message,
		"Extend the stay or remove sightseeing entries; adjust-timeline cannot place them")
	return issues, steps
}

func formatSteps(steps []RecommendedStep) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, fmt.Sprintf("Day %d %s: %s", s.Day, s.Time.Format("15:04"), s.Activity))
	}
	return strings.Join(parts, "; ")
}

func summarizeIssues(issues []entity.TimelineIssue) string {
	if len(issues) == 0 {
		return "No issues found"
	}
	counts := map[entity.Severity]int{}
	for _, i := range issues {
		counts[i.Severity]++
	}
	var parts []string
	for _, s := range []entity.Severity{entity.SeverityCritical, entity.SeverityHigh, entity.SeverityMedium, entity.SeverityWarning} {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	return fmt.Sprintf("%d issues found (%s)", len(issues), strings.Join(parts, ", "))
}
