package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/tripsplit/backend/internal/domain"
	"github.com/pkordes/tripsplit/backend/internal/repo"
)

// InvitationService implements invitation resolution and the invitation inbox.
type InvitationService struct {
	invitations repo.InvitationRepo
	batches     repo.Batcher
	policy      Policy
}

// NewInvitationService constructs an InvitationService backed by the provided repos.
func NewInvitationService(invitations repo.InvitationRepo, batches repo.Batcher, policy Policy) *InvitationService {
	return &InvitationService{invitations: invitations, batches: batches, policy: policy}
}

// Resolve accepts or declines an invitation on behalf of invitee in one batch:
// the invitation is deleted, invitee is removed from the trip's invitees and,
// on accept only, added to its members.
//
// Returns domain.ErrValidation for a malformed action and domain.ErrNotFound
// when the invitation is already gone or the trip does not exist; in both
// cases nothing is written. Under a strict Policy a caller that is not the
// stored invitee gets domain.ErrForbidden.
func (s *InvitationService) Resolve(ctx context.Context, action domain.InvitationAction, invitee string) error {
	if invitee == "" {
		return fmt.Errorf("service.InvitationService.Resolve: %w", domain.ErrUnauthenticated)
	}
	if err := action.Validate(); err != nil {
		return fmt.Errorf("service.InvitationService.Resolve: %w", err)
	}
	id, tripID := *action.ID, *action.TripID

	var guard repo.InvitationGuard
	if s.policy.Strict {
		inv, err := s.invitations.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("service.InvitationService.Resolve: %w", err)
		}
		if inv.Invitee != invitee || inv.Trip.ID != tripID {
			return fmt.Errorf("service.InvitationService.Resolve: %w", domain.ErrForbidden)
		}
		guard = repo.InvitationGuard{Invitee: invitee, TripID: tripID}
	}

	// The delete goes first: it must find the invitation, so a repeated or
	// concurrent resolution of the same id fails the whole batch.
	batch := s.batches.NewBatch()
	batch.DeleteInvitation(id, guard)
	if *action.Accept {
		batch.AddTripMember(tripID, invitee)
	}
	batch.RemoveTripInvitee(tripID, invitee)

	if err := batch.Commit(ctx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.InvitationService.Resolve: invitation %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("service.InvitationService.Resolve: %w", err)
	}
	return nil
}

// ListForUser returns the pending invitations addressed to username.
// Always returns a non-nil slice so callers can safely range over it.
func (s *InvitationService) ListForUser(ctx context.Context, username string) ([]domain.Invitation, error) {
	invitations, err := s.invitations.ListByInvitee(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.InvitationService.ListForUser: %w", err)
	}
	if invitations == nil {
		return []domain.Invitation{}, nil
	}
	return invitations, nil
}

// CountPending returns the number of pending invitations for username.
func (s *InvitationService) CountPending(ctx context.Context, username string) (int64, error) {
	n, err := s.invitations.CountByInvitee(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("service.InvitationService.CountPending: %w", err)
	}
	return n, nil
}
