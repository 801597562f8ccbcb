package tests

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"urbik/internal/domain"
	"urbik/internal/maps"
	"urbik/internal/redis"
	"urbik/internal/repository"
	"urbik/internal/service"
)

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is an in-memory implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*domain.Rider

	// Error injection
	CreateError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{riders: make(map[string]*domain.Rider)}
}

// AddRider seeds a rider.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.riders {
		if r.Email == rider.Email {
			return repository.ErrDuplicate
		}
	}
	m.riders[rider.ID] = rider
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rider
	return &copy, nil
}

func (m *MockRiderRepository) GetByEmail(ctx context.Context, email string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.riders {
		if r.Email == email {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRiderRepository) UpdateSocketID(ctx context.Context, id, socketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riders[id]
	if !ok {
		return repository.ErrNotFound
	}
	rider.SocketID = socketID
	return nil
}

func (m *MockRiderRepository) ClearBySocketID(ctx context.Context, socketID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.riders {
		if r.SocketID == socketID {
			r.SocketID = ""
			return r.ID, nil
		}
	}
	return "", repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK CAPTAIN REPOSITORY
// ──────────────────────────────────────────────

// MockCaptainRepository is an in-memory implementation of CaptainRepository.
type MockCaptainRepository struct {
	mu       sync.RWMutex
	captains map[string]*domain.Captain

	// Error injection
	CreateError    error
	SetActiveError error
}

// NewMockCaptainRepository creates a new mock captain repository.
func NewMockCaptainRepository() *MockCaptainRepository {
	return &MockCaptainRepository{captains: make(map[string]*domain.Captain)}
}

// AddCaptain seeds a captain.
func (m *MockCaptainRepository) AddCaptain(captain *domain.Captain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captains[captain.ID] = captain
}

func (m *MockCaptainRepository) Create(ctx context.Context, captain *domain.Captain) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.captains {
		if c.Email == captain.Email || c.Vehicle.Plate == captain.Vehicle.Plate {
			return repository.ErrDuplicate
		}
	}
	m.captains[captain.ID] = captain
	return nil
}

func (m *MockCaptainRepository) GetByID(ctx context.Context, id string) (*domain.Captain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	captain, ok := m.captains[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *captain
	return &copy, nil
}

func (m *MockCaptainRepository) GetByEmail(ctx context.Context, email string) (*domain.Captain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.captains {
		if c.Email == email {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCaptainRepository) AttachSocket(ctx context.Context, id, socketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	captain, ok := m.captains[id]
	if !ok {
		return repository.ErrNotFound
	}
	captain.SocketID = socketID
	captain.Status = domain.CaptainStatusActive
	return nil
}

func (m *MockCaptainRepository) SetActive(ctx context.Context, id string, lat, lng float64) error {
	if m.SetActiveError != nil {
		return m.SetActiveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	captain, ok := m.captains[id]
	if !ok {
		return repository.ErrNotFound
	}
	captain.Status = domain.CaptainStatusActive
	captain.Lat = &lat
	captain.Lng = &lng
	return nil
}

func (m *MockCaptainRepository) SetInactive(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	captain, ok := m.captains[id]
	if !ok {
		return repository.ErrNotFound
	}
	captain.Status = domain.CaptainStatusInactive
	captain.SocketID = ""
	return nil
}

func (m *MockCaptainRepository) DetachBySocket(ctx context.Context, socketID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.captains {
		if c.SocketID == socketID {
			c.SocketID = ""
			c.Status = domain.CaptainStatusInactive
			return c.ID, nil
		}
	}
	return "", repository.ErrNotFound
}

func (m *MockCaptainRepository) ListActiveLocated(ctx context.Context) ([]*domain.Captain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Captain
	for _, c := range m.captains {
		if c.Status == domain.CaptainStatusActive && c.SocketID != "" && c.HasLocation() {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockCaptainRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Captain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Captain, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.captains[id]; ok {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory implementation of RideRepository with
// the same conditional-transition semantics as the Postgres one.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{rides: make(map[string]*domain.Ride)}
}

// AddRide seeds a ride.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	copy.OTP = ""
	return &copy, nil
}

func (m *MockRideRepository) GetByIDWithOTP(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) AssignIfPending(ctx context.Context, rideID, captainID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusPending {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusAccepted
	ride.CaptainID = captainID
	return nil
}

func (m *MockRideRepository) TransitionOwned(ctx context.Context, rideID, captainID string, from, to domain.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.Status != from || ride.CaptainID != captainID {
		return repository.ErrConflict
	}
	ride.Status = to
	return nil
}

func (m *MockRideRepository) CancelForRider(ctx context.Context, rideID, riderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.RiderID != riderID {
		return repository.ErrNotFound
	}
	if ride.Status != domain.RideStatusPending && ride.Status != domain.RideStatusAccepted {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusCancelled
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is an in-memory geo index.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]redis.CaptainLocation

	// Error injection
	FindError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{locations: make(map[string]redis.CaptainLocation)}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, captainID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[captainID] = redis.CaptainLocation{CaptainID: captainID, Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) FindNearbyCaptains(ctx context.Context, lat, lng, radiusKm float64) ([]redis.CaptainLocation, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []redis.CaptainLocation
	for _, loc := range m.locations {
		if haversineKm(lat, lng, loc.Lat, loc.Lng) <= radiusKm {
			result = append(result, loc)
		}
	}
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, captainID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, captainID)
	return nil
}

// Has reports whether the captain is present in the index.
func (m *MockLocationStore) Has(captainID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locations[captainID]
	return ok
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ──────────────────────────────────────────────
// MOCK TOKEN STORE
// ──────────────────────────────────────────────

// MockTokenStore is an in-memory revoked-credential store.
type MockTokenStore struct {
	mu      sync.RWMutex
	revoked map[string]bool
}

// NewMockTokenStore creates a new mock token store.
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{revoked: make(map[string]bool)}
}

func (m *MockTokenStore) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = true
	return nil
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revoked[token], nil
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder is a canned maps gateway.
type MockGeocoder struct {
	Coords       maps.Coordinates
	Travel       maps.DistanceTime
	Predictions  []maps.Suggestion
	GeocodeError error
	TravelError  error
}

// NewMockGeocoder creates a mock geocoder with a fixed location and travel
// estimate.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		Coords: maps.Coordinates{Lat: 12.9716, Lng: 77.5946},
		Travel: maps.DistanceTime{DistanceMeters: 5000, DurationSeconds: 600},
	}
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (maps.Coordinates, error) {
	if m.GeocodeError != nil {
		return maps.Coordinates{}, m.GeocodeError
	}
	return m.Coords, nil
}

func (m *MockGeocoder) DistanceTime(ctx context.Context, origin, destination string) (maps.DistanceTime, error) {
	if m.TravelError != nil {
		return maps.DistanceTime{}, m.TravelError
	}
	return m.Travel, nil
}

func (m *MockGeocoder) Suggestions(ctx context.Context, input string) ([]maps.Suggestion, error) {
	return m.Predictions, nil
}

// ──────────────────────────────────────────────
// MOCK SENDER / CAPTAIN FINDER
// ──────────────────────────────────────────────

// SentEvent records one event pushed through the relay.
type SentEvent struct {
	SocketID string
	Event    string
	Data     any
}

// MockSender records every event instead of delivering it.
type MockSender struct {
	mu     sync.Mutex
	Events []SentEvent
}

// NewMockSender creates a new mock sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(socketID, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, SentEvent{SocketID: socketID, Event: event, Data: data})
}

// EventsNamed returns the recorded events with the given name.
func (m *MockSender) EventsNamed(event string) []SentEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentEvent
	for _, e := range m.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// MockCaptainFinder records the radii the matcher probes and answers from a
// radius -> captains table.
type MockCaptainFinder struct {
	mu          sync.Mutex
	RadiiProbed []float64
	ByRadius    map[float64][]*domain.Captain
	FindError   error
}

// NewMockCaptainFinder creates a finder that finds nobody at any radius.
func NewMockCaptainFinder() *MockCaptainFinder {
	return &MockCaptainFinder{ByRadius: make(map[float64][]*domain.Captain)}
}

func (m *MockCaptainFinder) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*domain.Captain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.RadiiProbed = append(m.RadiiProbed, radiusKm)
	return m.ByRadius[radiusKm], nil
}

// Interface guards.
var (
	_ repository.RiderRepository   = (*MockRiderRepository)(nil)
	_ repository.CaptainRepository = (*MockCaptainRepository)(nil)
	_ repository.RideRepository    = (*MockRideRepository)(nil)
	_ redis.LocationStoreInterface = (*MockLocationStore)(nil)
	_ redis.TokenStoreInterface    = (*MockTokenStore)(nil)
	_ maps.Geocoder                = (*MockGeocoder)(nil)
	_ service.Sender               = (*MockSender)(nil)
	_ service.CaptainFinder        = (*MockCaptainFinder)(nil)
)
