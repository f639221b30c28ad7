package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripsplit/backend/internal/domain"
	"github.com/pkordes/tripsplit/backend/internal/repo"
)

// ExpenseService implements the expense ledger of a trip.
// It holds the trip repo as well because the summary is member-only and a
// strict Policy checks membership before logging an expense.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	policy   Policy
	newID    func() string
}

// NewExpenseService constructs an ExpenseService backed by the provided repos.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, policy Policy) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses, policy: policy, newID: uuid.NewString}
}

// Create validates req and writes one expense on tripID owned by creator.
// CreatedBy and TripID always come from the arguments, never from the payload.
// Returns domain.ErrValidation before any write if req is invalid.
func (s *ExpenseService) Create(ctx context.Context, tripID string, req domain.ExpenseRequest, creator string) (domain.Expense, error) {
	if creator == "" {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", domain.ErrUnauthenticated)
	}
	if err := req.Validate(); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}

	if s.policy.Strict {
		if _, err := s.trips.GetForMember(ctx, tripID, creator); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", domain.ErrForbidden)
			}
			return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
		}
	}

	created, err := s.expenses.Create(ctx, req.Build(s.newID(), tripID, creator))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return created, nil
}

// ListForTrip returns the trip's expenses, newest date first. A non-nil
// createdBy keeps only the expenses logged by that user.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExpenseService) ListForTrip(ctx context.Context, tripID string, createdBy *string) ([]domain.Expense, error) {
	expenses, err := s.expenses.ListByTrip(ctx, tripID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListForTrip: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// Delete removes an expense. Deleting an id that does not exist succeeds.
// Under a strict Policy only the expense's creator may delete it.
func (s *ExpenseService) Delete(ctx context.Context, id, caller string) error {
	if s.policy.Strict {
		e, err := s.expenses.GetByID(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("service.ExpenseService.Delete: %w", err)
		case e.CreatedBy != caller:
			return fmt.Errorf("service.ExpenseService.Delete: %w", domain.ErrForbidden)
		}
	}

	if err := s.expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

// Summary returns the expense count and raw amount total of a trip username
// is a member of. Returns domain.ErrNotFound if the trip is missing or hidden.
func (s *ExpenseService) Summary(ctx context.Context, tripID, username string) (domain.TripSummary, error) {
	if _, err := s.trips.GetForMember(ctx, tripID, username); err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}

	count, total, err := s.expenses.Totals(ctx, tripID)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}
	return domain.TripSummary{TripID: tripID, ExpenseCount: count, TotalAmount: total}, nil
}
