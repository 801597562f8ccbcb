package tests

import (
	"context"
	"errors"
	"testing"

	"urbik/internal/domain"
	"urbik/internal/service"
)

func ptr(v float64) *float64 { return &v }

func newDirectory() (*service.DirectoryService, *MockCaptainRepository, *MockRiderRepository, *MockLocationStore) {
	captains := NewMockCaptainRepository()
	riders := NewMockRiderRepository()
	locations := NewMockLocationStore()
	return service.NewDirectoryService(captains, riders, locations), captains, riders, locations
}

func activeCaptain(id string, lat, lng float64) *domain.Captain {
	return &domain.Captain{
		ID:       id,
		Status:   domain.CaptainStatusActive,
		SocketID: "sock-" + id,
		Lat:      ptr(lat),
		Lng:      ptr(lng),
	}
}

func TestFindNearby_FiltersInactiveAndDisconnected(t *testing.T) {
	t.Parallel()

	dir, captains, _, locations := newDirectory()
	ctx := context.Background()

	near := activeCaptain("near", 12.9716, 77.5946)
	inactive := activeCaptain("inactive", 12.9720, 77.5950)
	inactive.Status = domain.CaptainStatusInactive
	disconnected := activeCaptain("disconnected", 12.9718, 77.5948)
	disconnected.SocketID = ""

	for _, c := range []*domain.Captain{near, inactive, disconnected} {
		captains.AddCaptain(c)
		locations.UpdateLocation(ctx, c.ID, *c.Lat, *c.Lng)
	}

	found, err := dir.FindNearby(ctx, 12.9716, 77.5946, 2.0)
	if err != nil {
		t.Fatalf("find nearby failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != "near" {
		t.Errorf("expected only the active connected captain, got %+v", found)
	}
}

func TestFindNearby_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	dir, captains, _, _ := newDirectory()

	// A captain well outside the radius.
	far := activeCaptain("far", 13.5, 78.5)
	captains.AddCaptain(far)

	found, err := dir.FindNearby(context.Background(), 12.9716, 77.5946, 2.0)
	if err != nil {
		t.Fatalf("find nearby failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(found) != 0 {
		t.Errorf("expected no captains, got %d", len(found))
	}
}

func TestFindNearby_UnionsBothRepresentations(t *testing.T) {
	t.Parallel()

	dir, captains, _, locations := newDirectory()
	ctx := context.Background()

	// Captain present in the geo index and the table.
	indexed := activeCaptain("indexed", 12.9716, 77.5946)
	captains.AddCaptain(indexed)
	locations.UpdateLocation(ctx, indexed.ID, *indexed.Lat, *indexed.Lng)

	// Captain with flat columns only, never written to the index.
	flatOnly := activeCaptain("flat-only", 12.9730, 77.5950)
	captains.AddCaptain(flatOnly)

	found, err := dir.FindNearby(ctx, 12.9716, 77.5946, 2.0)
	if err != nil {
		t.Fatalf("find nearby failed: %v", err)
	}

	seen := make(map[string]int)
	for _, c := range found {
		seen[c.ID]++
	}
	if seen["indexed"] != 1 || seen["flat-only"] != 1 {
		t.Errorf("expected both representations once each, got %v", seen)
	}
}

func TestFindNearby_SurvivesGeoIndexFailure(t *testing.T) {
	t.Parallel()

	dir, captains, _, locations := newDirectory()
	locations.FindError = errors.New("redis down")

	c := activeCaptain("captain-1", 12.9716, 77.5946)
	captains.AddCaptain(c)

	found, err := dir.FindNearby(context.Background(), 12.9716, 77.5946, 2.0)
	if err != nil {
		t.Fatalf("expected table-scan fallback, got: %v", err)
	}
	if len(found) != 1 || found[0].ID != "captain-1" {
		t.Errorf("fallback missed the captain, got %+v", found)
	}
}

func TestSetActive_ValidatesCoordinateRanges(t *testing.T) {
	t.Parallel()

	dir, captains, _, _ := newDirectory()
	captains.AddCaptain(activeCaptain("captain-1", 0, 0))
	ctx := context.Background()

	if err := dir.SetActive(ctx, "captain-1", 91, 0); !errors.Is(err, service.ErrInvalidLatitude) {
		t.Errorf("expected ErrInvalidLatitude, got: %v", err)
	}
	if err := dir.SetActive(ctx, "captain-1", -91, 0); !errors.Is(err, service.ErrInvalidLatitude) {
		t.Errorf("expected ErrInvalidLatitude, got: %v", err)
	}
	if err := dir.SetActive(ctx, "captain-1", 0, 181); !errors.Is(err, service.ErrInvalidLongitude) {
		t.Errorf("expected ErrInvalidLongitude, got: %v", err)
	}
	if err := dir.SetActive(ctx, "captain-1", 0, -181); !errors.Is(err, service.ErrInvalidLongitude) {
		t.Errorf("expected ErrInvalidLongitude, got: %v", err)
	}

	// Boundary values are valid.
	if err := dir.SetActive(ctx, "captain-1", 90, 180); err != nil {
		t.Errorf("expected boundary coordinates to pass, got: %v", err)
	}
}

func TestSetActive_WritesBothRepresentations(t *testing.T) {
	t.Parallel()

	dir, captains, _, locations := newDirectory()
	captain := &domain.Captain{ID: "captain-1", Status: domain.CaptainStatusInactive}
	captains.AddCaptain(captain)
	ctx := context.Background()

	if err := dir.SetActive(ctx, "captain-1", 12.9716, 77.5946); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	stored, _ := captains.GetByID(ctx, "captain-1")
	if stored.Status != domain.CaptainStatusActive {
		t.Errorf("expected status active, got %s", stored.Status)
	}
	if !stored.HasLocation() || *stored.Lat != 12.9716 || *stored.Lng != 77.5946 {
		t.Errorf("flat columns not updated: %+v", stored)
	}
	if !locations.Has("captain-1") {
		t.Error("geo index entry missing")
	}
}

func TestSetInactive_ClearsLiveState(t *testing.T) {
	t.Parallel()

	dir, captains, _, locations := newDirectory()
	captain := activeCaptain("captain-1", 12.9716, 77.5946)
	captains.AddCaptain(captain)
	ctx := context.Background()
	locations.UpdateLocation(ctx, captain.ID, *captain.Lat, *captain.Lng)

	if err := dir.SetInactive(ctx, "captain-1"); err != nil {
		t.Fatalf("set inactive failed: %v", err)
	}

	stored, _ := captains.GetByID(ctx, "captain-1")
	if stored.Status != domain.CaptainStatusInactive {
		t.Errorf("expected status inactive, got %s", stored.Status)
	}
	if stored.SocketID != "" {
		t.Errorf("expected socket id cleared, got %q", stored.SocketID)
	}
	if locations.Has("captain-1") {
		t.Error("geo index entry not removed")
	}
}

func TestDisconnect_ClearsCaptainOrRider(t *testing.T) {
	t.Parallel()

	dir, captains, riders, locations := newDirectory()
	ctx := context.Background()

	captain := activeCaptain("captain-1", 12.9716, 77.5946)
	captains.AddCaptain(captain)
	locations.UpdateLocation(ctx, captain.ID, *captain.Lat, *captain.Lng)

	rider := &domain.Rider{ID: "rider-1", SocketID: "sock-rider-1"}
	riders.AddRider(rider)

	dir.Disconnect(ctx, "sock-captain-1")
	storedCaptain, _ := captains.GetByID(ctx, "captain-1")
	if storedCaptain.Status != domain.CaptainStatusInactive || storedCaptain.SocketID != "" {
		t.Errorf("captain live state not cleared: %+v", storedCaptain)
	}
	if locations.Has("captain-1") {
		t.Error("geo index entry not removed on disconnect")
	}

	dir.Disconnect(ctx, "sock-rider-1")
	storedRider, _ := riders.GetByID(ctx, "rider-1")
	if storedRider.SocketID != "" {
		t.Errorf("rider socket id not cleared: %q", storedRider.SocketID)
	}

	// Unknown sockets are a no-op.
	dir.Disconnect(ctx, "sock-unknown")
}
