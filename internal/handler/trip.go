package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// CreateTrip handles POST /trip.
// The trip and its invitations are written together; the body on success is null.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	var req domain.TripRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := s.trips.Create(r.Context(), req, username); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// GetTrips handles GET /trip.
// With ?id= it behaves like GET /trip/{id}; otherwise it lists the caller's trips.
func (s *Server) GetTrips(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := queryParam(w, r, "id")
	if !ok {
		return
	}
	if id != nil {
		s.writeTrip(w, r, *id, username)
		return
	}

	trips, err := s.trips.ListForUser(r.Context(), username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToResponse(trips))
}

// GetTrip handles GET /trip/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	s.writeTrip(w, r, id, username)
}

// writeTrip answers with the trip, or 404 null when the caller is not a member.
func (s *Server) writeTrip(w http.ResponseWriter, r *http.Request, id, username string) {
	trip, err := s.trips.Get(r.Context(), id, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// GetTripMembers handles GET /trip/{id}/members.
// A missing trip answers 200 with null rather than 404.
func (s *Server) GetTripMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	members, err := s.trips.Members(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	if members == nil {
		members = []string{}
	}
	writeJSON(w, http.StatusOK, members)
}
