package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// ListInvitations handles GET /trip/invitation.
func (s *Server) ListInvitations(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}

	invitations, err := s.invitations.ListForUser(r.Context(), username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]invitationResponse, len(invitations))
	for i, inv := range invitations {
		out[i] = invitationToResponse(inv)
	}
	writeJSON(w, http.StatusOK, out)
}

// ResolveInvitation handles POST /trip/invitation with {id, trip_id, accept}.
// An invitation that was already resolved answers 404 and changes nothing.
func (s *Server) ResolveInvitation(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	var action domain.InvitationAction
	if !decode(w, r, &action) {
		return
	}

	if err := s.invitations.Resolve(r.Context(), action, username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Invitation not found or already resolved.")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// CountInvitations handles GET /trip/invitation/count.
func (s *Server) CountInvitations(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}

	n, err := s.invitations.CountPending(r.Context(), username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}
