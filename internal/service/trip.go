// Package service contains the business logic for the trip expense service.
// Services validate inputs, enforce business rules, and compose repo calls;
// every multi-document write goes through a single repo.Batch so it commits
// atomically. No SQL lives here: services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripsplit/backend/internal/domain"
	"github.com/pkordes/tripsplit/backend/internal/repo"
)

// Policy holds the authorization switches that are a product decision rather
// than fixed behaviour. The zero value allows any authenticated caller to
// create expenses on a trip id it knows, delete any expense, and resolve any
// invitation id as itself.
type Policy struct {
	// Strict requires trip membership to create an expense, expense ownership
	// to delete one, and that the caller is the stored invitee (for the named
	// trip) to resolve an invitation.
	Strict bool
}

// TripService implements trip creation and the trip read paths.
type TripService struct {
	trips   repo.TripRepo
	batches repo.Batcher
	newID   func() string
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, batches repo.Batcher) *TripService {
	return &TripService{trips: trips, batches: batches, newID: uuid.NewString}
}

// Create validates req and writes the trip plus one invitation per invitee in
// a single batch. Each invitation carries a snapshot of the trip as it is now.
// Returns a domain.ValidationErrors (matching domain.ErrValidation) before any
// write if req is invalid.
func (s *TripService) Create(ctx context.Context, req domain.TripRequest, creator string) (domain.Trip, error) {
	if creator == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrUnauthenticated)
	}
	if err := req.Validate(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip := req.Build(s.newID(), creator)

	batch := s.batches.NewBatch()
	batch.CreateTrip(trip)
	snapshot := trip.Snapshot()
	for _, invitee := range trip.Invitees.Slice() {
		batch.CreateInvitation(domain.Invitation{
			ID:        s.newID(),
			Trip:      snapshot,
			Invitee:   invitee,
			InvitedBy: creator,
		})
	}

	if err := batch.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

// Get returns the trip with the given id if username is a member of it.
// Returns domain.ErrNotFound for missing trips and for trips the user cannot see.
func (s *TripService) Get(ctx context.Context, id, username string) (domain.Trip, error) {
	trip, err := s.trips.GetForMember(ctx, id, username)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// ListForUser returns every trip username is a member of, in no set order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListForUser(ctx context.Context, username string) ([]domain.Trip, error) {
	trips, err := s.trips.ListByMember(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Members returns the member usernames of a trip.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Members(ctx context.Context, id string) ([]string, error) {
	members, err := s.trips.Members(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Members: %w", err)
	}
	return members, nil
}
