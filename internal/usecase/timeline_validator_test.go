package usecase

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/pkg/metrics"
)

func newValidator(f *fixture) *TimelineValidator {
	return NewTimelineValidator(f.orders, f.itineraries, f.cities, nil, f.log)
}

func issueTypes(issues []entity.TimelineIssue) map[string]entity.Severity {
	out := map[string]entity.Severity{}
	for _, i := range issues {
		out[i.Type] = i.Severity
	}
	return out
}

func scenarioAEntries(orderID string) []*entity.ItineraryEntry {
	return []*entity.ItineraryEntry{
		flightEntry("f1", orderID, "New York(JFK) - Changchun(CGQ)", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", orderID, "Changchun(CGQ) - New York(JFK)", at(10, 0, 0), at(10, 14, 0)),
	}
}

func TestTimelineValidator_AppointmentBeforeArrival(t *testing.T) {
	order := newOrder("order-a", 0, timePtr(at(1, 2, 0)))
	f := newFixture(t, order, scenarioAEntries(order.ID)...)

	report, err := newValidator(f).Validate(context.Background(), order.ID)
	require.NoError(t, err)

	types := issueTypes(report.Issues)
	assert.NotContains(t, types, entity.IssueFlightOrder)
	assert.NotContains(t, types, entity.IssueFlightDirection)
	assert.Equal(t, entity.SeverityCritical, types[entity.IssueAppointmentBeforeArrive])
	assert.Equal(t, "1 issues found (1 critical)", report.Summary)

	require.NotEmpty(t, report.RecommendedTimeline)
	assert.Equal(t, 1, report.RecommendedTimeline[0].Day)
	assert.Contains(t, report.RecommendedTimeline[0].Activity, "Arrive")
	var medicalDay int
	for _, s := range report.RecommendedTimeline {
		if s.Activity == "Medical consultation" {
			medicalDay = s.Day
			assert.Equal(t, at(2, 10, 0), s.Time)
		}
	}
	assert.Equal(t, 2, medicalDay)
	assert.Contains(t, report.Suggestions[len(report.Suggestions)-1], "Recommended timeline: Day 1")
}

func TestTimelineValidator_CleanOrder(t *testing.T) {
	order := newOrder("order-ok", 50, timePtr(at(2, 10, 0)))
	entries := append(scenarioAEntries(order.ID),
		hotelEntry("h1", order.ID, "Changchun", at(1, 18, 0), at(10, 10, 0)),
		medicalEntry("m1", order.ID, at(2, 10, 0), at(2, 11, 0)),
		attractionEntry("a1", order.ID, "Park", at(3, 14, 0), at(3, 16, 0)))
	f := newFixture(t, order, entries...)

	report, err := newValidator(f).Validate(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Empty(t, report.Issues)
	assert.Equal(t, "No issues found", report.Summary)
	require.Len(t, report.Suggestions, 1, "recommended timeline is always suggested")
}

func TestTimelineValidator_ReportsEveryRule(t *testing.T) {
	order := newOrder("order-bad", 50, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Beijing - Los Angeles", at(10, 0, 0), at(10, 14, 0)),
		hotelEntry("h1", order.ID, "Changchun", at(9, 10, 0), at(1, 8, 0)),
		medicalEntry("m1", order.ID, at(1, 9, 0), at(1, 10, 0)),
		attractionEntry("a1", order.ID, "Park", at(1, 8, 0), at(1, 9, 0)))

	report, err := newValidator(f).Validate(context.Background(), order.ID)
	require.NoError(t, err)

	types := issueTypes(report.Issues)
	assert.Equal(t, entity.SeverityHigh, types[entity.IssueFlightOrder])
	assert.Equal(t, entity.SeverityCritical, types[entity.IssueMedicalBeforeArrival])
	assert.Equal(t, entity.SeverityMedium, types[entity.IssueHotelDatesInverted])
	assert.Equal(t, entity.SeverityMedium, types[entity.IssueAttractionBeforeMedical])
	assert.NotContains(t, types, entity.IssueHotelBeforeArrival)
}

func TestTimelineValidator_FlightCountAndParse(t *testing.T) {
	t.Run("one flight", func(t *testing.T) {
		order := newOrder("o1", 0, nil)
		f := newFixture(t, order, flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)))

		report, err := newValidator(f).Validate(context.Background(), order.ID)
		require.NoError(t, err)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, entity.IssueFlightCount, report.Issues[0].Type)
		assert.Empty(t, report.RecommendedTimeline)
	})

	t.Run("unparseable location", func(t *testing.T) {
		order := newOrder("o2", 0, nil)
		f := newFixture(t, order,
			flightEntry("f1", order.ID, "New York to Changchun", at(1, 0, 0), at(1, 14, 0)),
			flightEntry("f2", order.ID, "Changchun - New York", at(10, 0, 0), at(10, 14, 0)))

		report, err := newValidator(f).Validate(context.Background(), order.ID)
		require.NoError(t, err)
		types := issueTypes(report.Issues)
		assert.Equal(t, entity.SeverityWarning, types[entity.IssueLocationParse])
		assert.NotContains(t, types, entity.IssueFlightOrder)
	})

	t.Run("inverted direction safety net", func(t *testing.T) {
		order := newOrder("o3", 0, nil)
		f := newFixture(t, order,
			flightEntry("f1", order.ID, "Changchun - New York", at(1, 0, 0), at(1, 14, 0)),
			flightEntry("f2", order.ID, "New York - Changchun", at(10, 0, 0), at(10, 14, 0)))

		report, err := newValidator(f).Validate(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SeverityWarning, issueTypes(report.Issues)[entity.IssueFlightDirection])
	})
}

func TestTimelineValidator_NeverWrites(t *testing.T) {
	order := newOrder("order-p4", 50, timePtr(at(1, 2, 0)))
	entries := append(scenarioAEntries(order.ID),
		hotelEntry("h1", order.ID, "Changchun", at(9, 10, 0), at(1, 8, 0)),
		medicalEntry("m1", order.ID, at(1, 9, 0), at(1, 10, 0)))
	f := newFixture(t, order, entries...)
	v := newValidator(f)
	ctx := context.Background()

	before := f.list(t, order.ID)
	for i := 0; i < 5; i++ {
		_, err := v.Validate(ctx, order.ID)
		require.NoError(t, err)
		_, err = v.Diagnose(ctx, order.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, before, f.list(t, order.ID))
	assert.Zero(t, f.itineraries.writes)
	assert.Zero(t, f.uow.commits)
	stored, _ := f.orders.GetByID(ctx, order.ID)
	assert.Equal(t, at(1, 2, 0), *stored.DoctorAppointmentDate)
}

func TestTimelineValidator_Diagnose(t *testing.T) {
	order := newOrder("order-d", 50, nil)
	entries := append(scenarioAEntries(order.ID),
		hotelEntry("h1", order.ID, "Changchun", at(1, 18, 0), at(10, 10, 0)),
		medicalEntry("m1", order.ID, at(2, 10, 0), at(2, 11, 0)),
		attractionEntry("a1", order.ID, "Park", at(3, 14, 0), at(3, 16, 0)))
	f := newFixture(t, order, entries...)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsWithRegistry("test", reg)
	v := NewTimelineValidator(f.orders, f.itineraries, f.cities, m, f.log)

	d, err := v.Diagnose(context.Background(), order.ID)
	require.NoError(t, err)

	require.Len(t, d.Flights, 2)
	assert.Equal(t, "New York(JFK)", d.Flights[0].Origin)
	assert.False(t, d.Flights[0].HasFlightDetails)
	assert.False(t, d.Flights[0].Consistent)
	require.NotNil(t, d.MedicalConsultation)
	assert.Equal(t, "m1", d.MedicalConsultation.EntryID)
	require.NotNil(t, d.Hotel)
	assert.Len(t, d.Attractions, 1)
	assert.Empty(t, d.Issues)
	assert.NotEmpty(t, d.RecommendedTimeline)
	assert.Zero(t, testutil.ToFloat64(m.TimelineIssues.WithLabelValues(string(entity.SeverityCritical))))
}

func TestTimelineValidator_ShortTripKeepsRecommendation(t *testing.T) {
	order := newOrder("order-short", 50, nil)
	f := newFixture(t, order,
		flightEntry("f1", order.ID, "New York - Changchun", at(1, 0, 0), at(1, 14, 0)),
		flightEntry("f2", order.ID, "Changchun - New York", at(3, 8, 0), at(3, 22, 0)),
		attractionEntry("a1", order.ID, "Park", at(2, 15, 0), at(2, 17, 0)))

	report, err := newValidator(f).Validate(context.Background(), order.ID)
	require.NoError(t, err)

	types := issueTypes(report.Issues)
	assert.Equal(t, entity.SeverityWarning, types[entity.IssueNoAvailableSlot])
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0].Message, "2025-03-02T14:00:00Z")
	assert.Contains(t, report.Issues[0].Message, "2025-03-02T08:00:00Z")

	activities := make([]string, 0, len(report.RecommendedTimeline))
	for _, s := range report.RecommendedTimeline {
		activities = append(activities, s.Activity)
	}
	assert.ElementsMatch(t, []string{"Arrive in Changchun", "Hotel check-in", "Hotel check-out", "Return flight departs"}, activities)
	require.Len(t, report.Suggestions, 2)
	assert.Contains(t, report.Suggestions[1], "Recommended timeline: Day 1")

	diagnosis, err := newValidator(f).Diagnose(context.Background(), order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, diagnosis.RecommendedTimeline)
	assert.Contains(t, issueTypes(diagnosis.Issues), entity.IssueNoAvailableSlot)
}
