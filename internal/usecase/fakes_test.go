package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"
	apperrors "medtour-itinerary-service/pkg/errors"
	"medtour-itinerary-service/pkg/logger"
)

var errStorage = errors.New("storage unavailable")

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]*entity.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id string, patch entity.OrderPatch) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if patch.DoctorAppointmentDate != nil {
		o.DoctorAppointmentDate = timePtr(*patch.DoctorAppointmentDate)
	}
	cp := *o
	return &cp, nil
}

type fakeItineraryRepo struct {
	mu      sync.Mutex
	entries map[string]*entity.ItineraryEntry
	writes  int
	failOn  string // entry id whose update fails
}

func newFakeItineraryRepo(entries ...*entity.ItineraryEntry) *fakeItineraryRepo {
	r := &fakeItineraryRepo{entries: map[string]*entity.ItineraryEntry{}}
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return r
}

func (r *fakeItineraryRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.ItineraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ItineraryEntry
	for _, e := range r.entries {
		if e.OrderID == orderID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeItineraryRepo) Insert(_ context.Context, entry *entity.ItineraryEntry) (*entity.ItineraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.ID] = &cp
	r.writes++
	return entry, nil
}

func (r *fakeItineraryRepo) Update(_ context.Context, id string, patch entity.EntryPatch) (*entity.ItineraryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == r.failOn {
		return nil, errStorage
	}
	e, ok := r.entries[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("entry not found")
	}
	patch.Apply(e, e.UpdatedAt.Add(time.Second))
	r.writes++
	cp := *e
	return &cp, nil
}

func (r *fakeItineraryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return apperrors.NewNotFoundError("entry not found")
	}
	delete(r.entries, id)
	r.writes++
	return nil
}

func (r *fakeItineraryRepo) snapshot() map[string]entity.ItineraryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]entity.ItineraryEntry, len(r.entries))
	for id, e := range r.entries {
		out[id] = *e
	}
	return out
}

func (r *fakeItineraryRepo) restore(s map[string]entity.ItineraryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*entity.ItineraryEntry, len(s))
	for id, e := range s {
		cp := e
		r.entries[id] = &cp
	}
}

// fakeUnitOfWork rolls the itinerary store back when fn fails
type fakeUnitOfWork struct {
	itineraries *fakeItineraryRepo
	orders      *fakeOrderRepo
	commits     int
	rollbacks   int
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(repository.ItineraryRepository, repository.OrderRepository) error) error {
	before := u.itineraries.snapshot()
	if err := fn(u.itineraries, u.orders); err != nil {
		u.itineraries.restore(before)
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type fakeRouteCache struct {
	mu     sync.Mutex
	routes map[string]entity.Route
	ttls   map[string]time.Duration
}

func newFakeRouteCache() *fakeRouteCache {
	return &fakeRouteCache{routes: map[string]entity.Route{}, ttls: map[string]time.Duration{}}
}

func (c *fakeRouteCache) Get(_ context.Context, key string) (*entity.Route, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.routes[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (c *fakeRouteCache) Put(_ context.Context, key string, route *entity.Route, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[key] = *route
	c.ttls[key] = ttl
	return nil
}

type fakeSearch struct {
	results []entity.SearchResult
	err     error
	calls   int
	queries []string
}

func (s *fakeSearch) WebSearch(_ context.Context, query string, _ int, _ bool) ([]entity.SearchResult, error) {
	s.calls++
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type fakeAirlineRepo map[string]string

func (r fakeAirlineRepo) GetByCode(_ context.Context, code string) (*entity.Airline, error) {
	name, ok := r[code]
	if !ok {
		return nil, nil
	}
	return &entity.Airline{Code: code, Name: name}, nil
}

type fakeRepairLog struct {
	runs []*entity.RepairRun
	err  error
}

func (l *fakeRepairLog) Save(_ context.Context, run *entity.RepairRun) error {
	if l.err != nil {
		return l.err
	}
	l.runs = append(l.runs, run)
	return nil
}

func (l *fakeRepairLog) FindByOrder(_ context.Context, orderID string, limit int) ([]*entity.RepairRun, error) {
	var out []*entity.RepairRun
	for i := len(l.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if l.runs[i].OrderID == orderID {
			out = append(out, l.runs[i])
		}
	}
	return out, nil
}

// fixture wires the use cases over in-memory fakes with a fixed clock
type fixture struct {
	now         time.Time
	orders      *fakeOrderRepo
	itineraries *fakeItineraryRepo
	uow         *fakeUnitOfWork
	cache       *fakeRouteCache
	cities      *CityDirectory
	resolver    *RouteResolver
	builder     *SegmentBuilder
	log         logger.Logger
}

func newFixture(t *testing.T, order *entity.Order, entries ...*entity.ItineraryEntry) *fixture {
	t.Helper()
	f := &fixture{
		now:         time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		orders:      newFakeOrderRepo(order),
		itineraries: newFakeItineraryRepo(entries...),
		cache:       newFakeRouteCache(),
		log:         logger.NewNopLogger(),
	}
	f.uow = &fakeUnitOfWork{itineraries: f.itineraries, orders: f.orders}
	f.cities = NewCityDirectory(nil, f.log)
	f.resolver = NewRouteResolver(f.cache, nil, f.cities, nil, f.log, RouteResolverOptions{Clock: f.clock})
	f.builder = NewSegmentBuilder(nil, f.cities, f.log)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) list(t *testing.T, orderID string) []*entity.ItineraryEntry {
	t.Helper()
	entries, err := f.itineraries.ListByOrder(context.Background(), orderID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	return entries
}

var tripStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func newOrder(id string, ticketFee float64, appointment *time.Time) *entity.Order {
	return &entity.Order{ID: id, UserID: "user-1", Status: "paid", TicketFee: ticketFee, DoctorAppointmentDate: appointment, CreatedAt: tripStart.AddDate(0, -1, 0)}
}

func flightEntry(id, orderID, location string, start, end time.Time) *entity.ItineraryEntry {
	return &entity.ItineraryEntry{ID: id, OrderID: orderID, Type: entity.EntryTypeFlight, Name: "Flight", Location: location,
		StartDate: start, EndDate: end, Status: entity.EntryStatusConfirmed}
}

func hotelEntry(id, orderID, location string, start, end time.Time) *entity.ItineraryEntry {
	return &entity.ItineraryEntry{ID: id, OrderID: orderID, Type: entity.EntryTypeHotel, Name: "Hotel", Location: location,
		StartDate: start, EndDate: end, Status: entity.EntryStatusConfirmed}
}

func medicalEntry(id, orderID string, start, end time.Time) *entity.ItineraryEntry {
	return &entity.ItineraryEntry{ID: id, OrderID: orderID, Type: entity.EntryTypeTicket, Name: "Consultation",
		StartDate: start, EndDate: end, Metadata: entity.EntryMetadata{MedicalType: "consultation"}}
}

func attractionEntry(id, orderID, name string, start, end time.Time) *entity.ItineraryEntry {
	return &entity.ItineraryEntry{ID: id, OrderID: orderID, Type: entity.EntryTypeTicket, Name: name,
		StartDate: start, EndDate: end, DurationMinutes: 120, Metadata: entity.EntryMetadata{AttractionType: "park"}}
}
