package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkordes/tripsplit/backend/internal/domain"
	"github.com/pkordes/tripsplit/backend/internal/repo"
)

// memStore is an in-memory stand-in for the three collections and the batch
// primitive. A batch is applied to a copy of the state and swapped in only if
// every write succeeds, which reproduces the all-or-nothing commit.
type memStore struct {
	mu          sync.Mutex
	trips       map[string]domain.Trip
	invitations map[string]domain.Invitation
	expenses    map[string]domain.Expense
	now         time.Time

	// commitErr, when set, fails the next Commit before anything is applied.
	commitErr error
	commits   int
}

func newMemStore() *memStore {
	return &memStore{
		trips:       map[string]domain.Trip{},
		invitations: map[string]domain.Invitation{},
		expenses:    map[string]domain.Expense{},
		now:         time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp for created_at.
func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

var (
	_ repo.TripRepo       = (*memStore)(nil)
	_ repo.InvitationRepo = (*memStore)(nil)
	_ repo.Batcher        = (*memStore)(nil)
)

// ---- trip reads ------------------------------------------------------------

func (s *memStore) GetForMember(_ context.Context, id, username string) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok || !t.Members.Contains(username) {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *memStore) ListByMember(_ context.Context, username string) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Trip{}
	for _, t := range s.trips {
		if t.Members.Contains(username) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) Members(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t.Members.Slice(), nil
}

// ---- invitation reads ------------------------------------------------------

func (s *memStore) GetByID(_ context.Context, id string) (domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return domain.Invitation{}, domain.ErrNotFound
	}
	return inv, nil
}

func (s *memStore) ListByInvitee(_ context.Context, username string) ([]domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Invitation{}
	for _, inv := range s.invitations {
		if inv.Invitee == username {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) CountByInvitee(ctx context.Context, username string) (int64, error) {
	invs, _ := s.ListByInvitee(ctx, username)
	return int64(len(invs)), nil
}

// ---- expense collection ----------------------------------------------------
// ExpenseRepo.GetByID collides with InvitationRepo.GetByID, so the expense
// collection is served through a view over the same store.

type expenseStore struct{ *memStore }

var _ repo.ExpenseRepo = expenseStore{}

func (s *memStore) expenseRepo() expenseStore { return expenseStore{s} }

func (s expenseStore) Create(_ context.Context, e domain.Expense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.expenses[e.ID]; dup {
		return domain.Expense{}, fmt.Errorf("duplicate expense %s", e.ID)
	}
	e.CreatedAt = s.tick()
	s.expenses[e.ID] = e
	return e, nil
}

func (s expenseStore) GetByID(_ context.Context, id string) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return domain.Expense{}, domain.ErrNotFound
	}
	return e, nil
}

func (s expenseStore) ListByTrip(_ context.Context, tripID string, createdBy *string) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Expense{}
	for _, e := range s.expenses {
		if e.TripID != tripID || (createdBy != nil && e.CreatedBy != *createdBy) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s expenseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expenses, id)
	return nil
}

func (s expenseStore) Totals(_ context.Context, tripID string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count, total int64
	for _, e := range s.expenses {
		if e.TripID == tripID {
			count++
			total += e.Amount
		}
	}
	return count, total, nil
}

// ---- batch -----------------------------------------------------------------

// state is one consistent copy of the collections a batch mutates.
type state struct {
	trips       map[string]domain.Trip
	invitations map[string]domain.Invitation
}

type memOp func(st *state, now func() time.Time) error

type memBatch struct {
	store *memStore
	ops   []memOp
}

func (s *memStore) NewBatch() repo.Batch { return &memBatch{store: s} }

func (b *memBatch) CreateTrip(t domain.Trip) {
	b.ops = append(b.ops, func(st *state, now func() time.Time) error {
		if _, dup := st.trips[t.ID]; dup {
			return fmt.Errorf("create trip: duplicate id %s", t.ID)
		}
		t.Members = domain.NewUsernameSet(t.Members.Slice()...)
		t.Invitees = domain.NewUsernameSet(t.Invitees.Slice()...)
		t.CreatedAt = now()
		st.trips[t.ID] = t
		return nil
	})
}

func (b *memBatch) CreateInvitation(inv domain.Invitation) {
	b.ops = append(b.ops, func(st *state, now func() time.Time) error {
		if _, dup := st.invitations[inv.ID]; dup {
			return fmt.Errorf("create invitation: duplicate id %s", inv.ID)
		}
		inv.CreatedAt = now()
		st.invitations[inv.ID] = inv
		return nil
	})
}

func (b *memBatch) AddTripMember(tripID, username string) {
	b.ops = append(b.ops, func(st *state, _ func() time.Time) error {
		t, ok := st.trips[tripID]
		if !ok {
			return fmt.Errorf("add trip member: %w", domain.ErrNotFound)
		}
		t.Members = domain.NewUsernameSet(t.Members.Slice()...)
		t.Members.Add(username)
		st.trips[tripID] = t
		return nil
	})
}

func (b *memBatch) RemoveTripInvitee(tripID, username string) {
	b.ops = append(b.ops, func(st *state, _ func() time.Time) error {
		t, ok := st.trips[tripID]
		if !ok {
			return fmt.Errorf("remove trip invitee: %w", domain.ErrNotFound)
		}
		t.Invitees = domain.NewUsernameSet(t.Invitees.Slice()...)
		t.Invitees.Remove(username)
		st.trips[tripID] = t
		return nil
	})
}

func (b *memBatch) DeleteInvitation(id string, guard repo.InvitationGuard) {
	b.ops = append(b.ops, func(st *state, _ func() time.Time) error {
		inv, ok := st.invitations[id]
		if !ok ||
			(guard.Invitee != "" && inv.Invitee != guard.Invitee) ||
			(guard.TripID != "" && inv.Trip.ID != guard.TripID) {
			return fmt.Errorf("delete invitation: %w", domain.ErrNotFound)
		}
		delete(st.invitations, id)
		return nil
	})
}

func (b *memBatch) Commit(context.Context) error {
	ops := b.ops
	b.ops = nil
	if len(ops) == 0 {
		return nil
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++

	if err := s.commitErr; err != nil {
		s.commitErr = nil
		return fmt.Errorf("memBatch.Commit: %w", err)
	}

	st := &state{trips: map[string]domain.Trip{}, invitations: map[string]domain.Invitation{}}
	for k, v := range s.trips {
		st.trips[k] = v
	}
	for k, v := range s.invitations {
		st.invitations[k] = v
	}
	for _, op := range ops {
		if err := op(st, s.tick); err != nil {
			return fmt.Errorf("memBatch.Commit: %w", err)
		}
	}
	s.trips, s.invitations = st.trips, st.invitations
	return nil
}

// ---- inspection helpers ----------------------------------------------------

func (s *memStore) trip(id string) (domain.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	return t, ok
}

func (s *memStore) invitationsFor(tripID string) []domain.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range s.invitations {
		if inv.Trip.ID == tripID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memStore) counts() (trips, invitations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trips), len(s.invitations)
}
