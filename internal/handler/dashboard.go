package handler

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// GetDashboard handles GET /dashboard: the caller's trips and the
// pending-invitation badge count, read concurrently.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}

	var (
		trips   []domain.Trip
		pending int64
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		trips, err = s.trips.ListForUser(ctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.invitations.CountPending(ctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Trips:              tripsToResponse(trips),
		PendingInvitations: pending,
	})
}
