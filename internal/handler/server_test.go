package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripsplit/backend/internal/domain"
	"github.com/pkordes/tripsplit/backend/internal/handler"
	"github.com/pkordes/tripsplit/backend/internal/middleware"
)

// ---- test doubles ----------------------------------------------------------
// Set only the method fields your test needs; an unset field panics if called.

type mockTripServicer struct {
	create      func(ctx context.Context, req domain.TripRequest, creator string) (domain.Trip, error)
	get         func(ctx context.Context, id, username string) (domain.Trip, error)
	listForUser func(ctx context.Context, username string) ([]domain.Trip, error)
	members     func(ctx context.Context, id string) ([]string, error)
}

func (m *mockTripServicer) Create(ctx context.Context, req domain.TripRequest, creator string) (domain.Trip, error) {
	return m.create(ctx, req, creator)
}
func (m *mockTripServicer) Get(ctx context.Context, id, username string) (domain.Trip, error) {
	return m.get(ctx, id, username)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, username string) ([]domain.Trip, error) {
	return m.listForUser(ctx, username)
}
func (m *mockTripServicer) Members(ctx context.Context, id string) ([]string, error) {
	return m.members(ctx, id)
}

type mockInvitationServicer struct {
	resolve      func(ctx context.Context, action domain.InvitationAction, invitee string) error
	listForUser  func(ctx context.Context, username string) ([]domain.Invitation, error)
	countPending func(ctx context.Context, username string) (int64, error)
}

func (m *mockInvitationServicer) Resolve(ctx context.Context, action domain.InvitationAction, invitee string) error {
	return m.resolve(ctx, action, invitee)
}
func (m *mockInvitationServicer) ListForUser(ctx context.Context, username string) ([]domain.Invitation, error) {
	return m.listForUser(ctx, username)
}
func (m *mockInvitationServicer) CountPending(ctx context.Context, username string) (int64, error) {
	return m.countPending(ctx, username)
}

type mockExpenseServicer struct {
	create      func(ctx context.Context, tripID string, req domain.ExpenseRequest, creator string) (domain.Expense, error)
	listForTrip func(ctx context.Context, tripID string, createdBy *string) ([]domain.Expense, error)
	delete      func(ctx context.Context, id, caller string) error
	summary     func(ctx context.Context, tripID, username string) (domain.TripSummary, error)
}

func (m *mockExpenseServicer) Create(ctx context.Context, tripID string, req domain.ExpenseRequest, creator string) (domain.Expense, error) {
	return m.create(ctx, tripID, req, creator)
}
func (m *mockExpenseServicer) ListForTrip(ctx context.Context, tripID string, createdBy *string) ([]domain.Expense, error) {
	return m.listForTrip(ctx, tripID, createdBy)
}
func (m *mockExpenseServicer) Delete(ctx context.Context, id, caller string) error {
	return m.delete(ctx, id, caller)
}
func (m *mockExpenseServicer) Summary(ctx context.Context, tripID, username string) (domain.TripSummary, error) {
	return m.summary(ctx, tripID, username)
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer       = (*mockTripServicer)(nil)
	_ handler.InvitationServicer = (*mockInvitationServicer)(nil)
	_ handler.ExpenseServicer    = (*mockExpenseServicer)(nil)
	_ handler.Pinger             = mockPinger{}
)

// ---- helpers ---------------------------------------------------------------

// services bundles the doubles a test wires into the Server. Nil fields get an
// empty mock so an unexpected call fails loudly.
type services struct {
	trips       *mockTripServicer
	invitations *mockInvitationServicer
	expenses    *mockExpenseServicer
	db          handler.Pinger
}

// fakeIdentity authenticates every request whose X-Test-User header is set,
// standing in for the JWT middleware.
func fakeIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := r.Header.Get("X-Test-User")
		if u == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithUsername(r.Context(), u)))
	})
}

func newHTTPHandler(s services) http.Handler {
	if s.trips == nil {
		s.trips = &mockTripServicer{}
	}
	if s.invitations == nil {
		s.invitations = &mockInvitationServicer{}
	}
	if s.expenses == nil {
		s.expenses = &mockExpenseServicer{}
	}
	srv := handler.NewServer(s.trips, s.invitations, s.expenses, s.db, nil)
	return srv.Routes(fakeIdentity)
}

// do sends one request as user (empty for anonymous) and returns the recorder.
func do(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// isNullBody reports whether the response body is the JSON literal null.
func isNullBody(rec *httptest.ResponseRecorder) bool {
	return strings.TrimSpace(rec.Body.String()) == "null"
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:           "trip-1",
		Title:        "Ski Trip",
		Location:     "Aspen",
		PlannedDates: "January 10-15, 2025",
		CreatedBy:    "alice",
		StartDate:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Members:      domain.NewUsernameSet("alice"),
		Invitees:     domain.NewUsernameSet("bob"),
		CreatedAt:    time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	}
}
