package handler

import (
	"context"

	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

// VenueServiceInterface は会場サービスのインターフェース
type VenueServiceInterface interface {
	CreateVenue(ctx context.Context, input application.CreateVenueInput) (*venue.Venue, error)
	GetVenue(ctx context.Context, id uint64) (*venue.Venue, error)
	ListVenues(ctx context.Context, filter venue.ListFilter) ([]*venue.Venue, error)
	UpdateVenue(ctx context.Context, id uint64, patch venue.Patch) (*venue.Venue, error)
	PublishVenue(ctx context.Context, id uint64) (*venue.Venue, error)
	UnpublishVenue(ctx context.Context, id uint64) (*venue.Venue, error)
	DeleteVenue(ctx context.Context, id uint64) (*venue.Venue, error)
}

// TimeslotServiceInterface は利用枠サービスのインターフェース
type TimeslotServiceInterface interface {
	CreateTimeslot(ctx context.Context, input application.CreateTimeslotInput) (*timeslot.Timeslot, error)
	GetTimeslot(ctx context.Context, id uint64) (*timeslot.Timeslot, error)
	ListTimeslots(ctx context.Context, filter timeslot.ListFilter) ([]*timeslot.Timeslot, error)
	ListTimeslotsByVenue(ctx context.Context, venueID uint64) ([]*timeslot.Timeslot, error)
	UpdateTimeslot(ctx context.Context, id uint64, patch timeslot.Patch) (*timeslot.Timeslot, error)
	DeleteTimeslot(ctx context.Context, id uint64) (*timeslot.Timeslot, error)
}
