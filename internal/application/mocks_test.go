package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

// === Mock implementations ===

// MockVenueRepository implements venue.Repository
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id uint64) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) List(ctx context.Context, filter venue.ListFilter) ([]*venue.Venue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) Update(ctx context.Context, id uint64, patch venue.Patch) (*venue.Venue, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) Delete(ctx context.Context, id uint64) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

// MockTimeslotRepository implements timeslot.Repository
type MockTimeslotRepository struct {
	mock.Mock
}

func (m *MockTimeslotRepository) Create(ctx context.Context, t *timeslot.Timeslot) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTimeslotRepository) GetByID(ctx context.Context, id uint64) (*timeslot.Timeslot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeslot.Timeslot), args.Error(1)
}

func (m *MockTimeslotRepository) List(ctx context.Context, filter timeslot.ListFilter) ([]*timeslot.Timeslot, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*timeslot.Timeslot), args.Error(1)
}

func (m *MockTimeslotRepository) ListByVenue(ctx context.Context, venueID uint64) ([]*timeslot.Timeslot, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*timeslot.Timeslot), args.Error(1)
}

func (m *MockTimeslotRepository) Update(ctx context.Context, id uint64, patch timeslot.Patch) (*timeslot.Timeslot, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeslot.Timeslot), args.Error(1)
}

func (m *MockTimeslotRepository) Delete(ctx context.Context, id uint64) (*timeslot.Timeslot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeslot.Timeslot), args.Error(1)
}

// MockVenueCache implements VenueCache
type MockVenueCache struct {
	mock.Mock
}

var errMockCacheMiss = &cacheMissError{}

type cacheMissError struct{}

func (*cacheMissError) Error() string { return "cache miss" }

func (m *MockVenueCache) Get(ctx context.Context, id uint64) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueCache) Set(ctx context.Context, v *venue.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueCache) Invalidate(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVenueCache) IsMiss(err error) bool {
	return err == errMockCacheMiss
}

// MockVenueLocker implements VenueLocker
type MockVenueLocker struct {
	mock.Mock
	released int
}

func (m *MockVenueLocker) LockVenue(ctx context.Context, venueID uint64) (func(context.Context) error, error) {
	args := m.Called(ctx, venueID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}
