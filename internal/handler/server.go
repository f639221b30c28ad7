// Package handler implements the JSON HTTP surface of the trip expense API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, invitation.go, expense.go, ...) but share the same Server
// struct so they can reach its dependencies. Routing lives in Routes.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pkordes/tripsplit/backend/api"
	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, req domain.TripRequest, creator string) (domain.Trip, error)
	Get(ctx context.Context, id, username string) (domain.Trip, error)
	ListForUser(ctx context.Context, username string) ([]domain.Trip, error)
	Members(ctx context.Context, id string) ([]string, error)
}

// InvitationServicer defines the invitation operations the handlers depend on.
type InvitationServicer interface {
	Resolve(ctx context.Context, action domain.InvitationAction, invitee string) error
	ListForUser(ctx context.Context, username string) ([]domain.Invitation, error)
	CountPending(ctx context.Context, username string) (int64, error)
}

// ExpenseServicer defines the expense ledger operations the handlers depend on.
type ExpenseServicer interface {
	Create(ctx context.Context, tripID string, req domain.ExpenseRequest, creator string) (domain.Expense, error)
	ListForTrip(ctx context.Context, tripID string, createdBy *string) ([]domain.Expense, error)
	Delete(ctx context.Context, id, caller string) error
	Summary(ctx context.Context, tripID, username string) (domain.TripSummary, error)
}

// Pinger reports whether the backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips       TripServicer
	invitations InvitationServicer
	expenses    ExpenseServicer
	db          Pinger
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// db may be nil, in which case /readyz always reports ready.
func NewServer(trips TripServicer, invitations InvitationServicer, expenses ExpenseServicer, db Pinger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, invitations: invitations, expenses: expenses, db: db, log: log}
}

// Routes returns the API router. Probes and docs are public; every other
// route runs behind authn, which must store the verified username with
// middleware.WithUsername.
func (s *Server) Routes(authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Get("/dashboard", s.GetDashboard)

		r.Route("/trip", func(r chi.Router) {
			r.Get("/", s.GetTrips)
			r.Post("/", s.CreateTrip)

			r.Get("/invitation", s.ListInvitations)
			r.Post("/invitation", s.ResolveInvitation)
			r.Get("/invitation/count", s.CountInvitations)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Get("/members", s.GetTripMembers)
				r.Get("/summary", s.GetTripSummary)
				r.Get("/expense", s.ListExpenses)
				r.Post("/expense", s.CreateExpense)
				r.Delete("/expense/{expenseId}", s.DeleteExpense)
			})
		})
	})

	return r
}

// serveOpenAPI writes the embedded API document.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}
