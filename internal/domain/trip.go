// Package domain contains the core data types for the trip expense service:
// trips, invitations, expenses, the request structs that create or change
// them, and the validation rules those requests must satisfy.
// It imports nothing outside the standard library and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"regexp"
	"time"
)

// Trip is a shared journey. Members can see the trip and its expenses.
// CreatedBy is always Members' first entry; Members only grows, through
// accepted invitations. Invitees is advisory once invitations exist.
type Trip struct {
	ID           string
	Title        string
	Location     string
	PlannedDates string // free-text label, e.g. "July 15-20, 2025"
	CreatedBy    string
	StartDate    time.Time
	Members      UsernameSet
	Invitees     UsernameSet
	CreatedAt    time.Time
}

// Snapshot captures the trip fields copied into an invitation.
func (t Trip) Snapshot() TripSnapshot {
	return TripSnapshot{
		ID:        t.ID,
		Title:     t.Title,
		Location:  t.Location,
		StartDate: t.StartDate,
	}
}

// TripSnapshot is the trip summary embedded in an invitation at creation time.
// It is not refreshed if the trip later changes.
type TripSnapshot struct {
	ID        string
	Title     string
	Location  string
	StartDate time.Time
}

// plannedDatesPattern matches "Month D1-D2, Year".
var plannedDatesPattern = regexp.MustCompile(`^[A-Za-z]+\s\d{1,2}-\d{1,2},\s\d{4}$`)

// TripRequest is the inbound payload for creating a trip.
// Pointer fields distinguish an absent field from an empty one.
// Server-owned fields (id, created_by, members) are not part of the request.
type TripRequest struct {
	Title        *string    `json:"title"`
	Location     *string    `json:"location"`
	StartDate    *DateField `json:"start_date"`
	PlannedDates *string    `json:"planned_dates"`
	Invitees     []string   `json:"invitees"`
}

// Validate checks every field and returns ValidationErrors listing all
// violations, or nil.
func (r TripRequest) Validate() error {
	var errs ValidationErrors

	checkLength(&errs, "title", "Title", r.Title, 3, 100)
	checkLength(&errs, "location", "Location", r.Location, 3, 100)

	switch {
	case !r.StartDate.Set():
		errs.add("start_date", "Start date is required.")
	case !r.StartDate.Valid():
		errs.add("start_date", "Start date must be a valid date.")
	}

	switch {
	case r.PlannedDates == nil:
		errs.add("planned_dates", "Planned dates are required.")
	case *r.PlannedDates == "":
		errs.add("planned_dates", "Planned dates cannot be empty.")
	case !plannedDatesPattern.MatchString(*r.PlannedDates):
		errs.add("planned_dates", "Planned dates must be in the format 'Month Day-Day, Year'.")
	}

	checkUsernames(&errs, "invitees", r.Invitees)

	return errs.err()
}

// Build turns a validated request into a Trip created by creator.
// The creator is the only member; invitees are deduplicated.
func (r TripRequest) Build(id, creator string) Trip {
	return Trip{
		ID:           id,
		Title:        *r.Title,
		Location:     *r.Location,
		PlannedDates: *r.PlannedDates,
		CreatedBy:    creator,
		StartDate:    r.StartDate.Time(),
		Members:      NewUsernameSet(creator),
		Invitees:     NewUsernameSet(r.Invitees...),
	}
}
