package domain

import "time"

// Invitation is a pending, single-use offer for Invitee to join a trip.
// It is created alongside the trip and deleted when the invitee accepts
// or declines it.
type Invitation struct {
	ID        string
	Trip      TripSnapshot
	Invitee   string
	InvitedBy string
	CreatedAt time.Time
}

// InvitationAction is the inbound payload for accepting or declining an
// invitation. Accept is a pointer so that an absent value is rejected rather
// than read as a decline.
type InvitationAction struct {
	ID     *string `json:"id"`
	TripID *string `json:"trip_id"`
	Accept *bool   `json:"accept"`
}

// Validate checks that all three fields are present.
func (a InvitationAction) Validate() error {
	var errs ValidationErrors
	if a.ID == nil || *a.ID == "" {
		errs.add("id", "Invitation ID is required.")
	}
	if a.TripID == nil || *a.TripID == "" {
		errs.add("trip_id", "Trip ID is required.")
	}
	if a.Accept == nil {
		errs.add("accept", "Action (accept) is required.")
	}
	return errs.err()
}
