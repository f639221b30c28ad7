package domain

import (
	"math"
	"time"
	"unicode/utf8"
)

// Expense is a cost record attached to a trip and shared among Members.
// Amount is a positive whole number of the trip's currency unit.
// CreatedBy is always assigned by the server from the verified caller.
type Expense struct {
	ID          string
	TripID      string
	Title       string
	Description string
	Amount      int64
	Date        time.Time
	CreatedBy   string
	Members     UsernameSet
	CreatedAt   time.Time
}

// TripSummary is the raw total of a trip's expenses. No balances are derived.
type TripSummary struct {
	TripID       string
	ExpenseCount int64
	TotalAmount  int64
}

// maxAmount bounds amounts to integers a float64 holds exactly.
const maxAmount = 1 << 53

// ExpenseRequest is the inbound payload for logging an expense.
// Any created_by or trip_id in the body is ignored: the creator comes from the
// verified identity and the trip from the route.
type ExpenseRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Amount      *float64   `json:"amount"`
	Date        *DateField `json:"date"`
	Members     []string   `json:"members"`
}

// Validate checks every field and returns ValidationErrors listing all
// violations, or nil.
func (r ExpenseRequest) Validate() error {
	var errs ValidationErrors

	checkLength(&errs, "title", "Title", r.Title, 3, 100)

	if r.Description != nil && utf8.RuneCountInString(*r.Description) > 200 {
		errs.add("description", "Description cannot exceed 200 characters.")
	}

	switch {
	case r.Amount == nil:
		errs.add("amount", "Amount is required.")
	case *r.Amount <= 0:
		errs.add("amount", "Amount must be a positive number.")
	case *r.Amount != math.Trunc(*r.Amount):
		errs.add("amount", "Amount must be a whole number.")
	case *r.Amount >= maxAmount:
		errs.add("amount", "Amount is too large.")
	}

	switch {
	case !r.Date.Set():
		errs.add("date", "Date is required.")
	case !r.Date.Valid():
		errs.add("date", "Date must be a valid date.")
	}

	checkUsernames(&errs, "members", r.Members)

	return errs.err()
}

// Build turns a validated request into an Expense owned by creator on tripID.
// An empty member list defaults to the creator alone.
func (r ExpenseRequest) Build(id, tripID, creator string) Expense {
	e := Expense{
		ID:        id,
		TripID:    tripID,
		Title:     *r.Title,
		Amount:    int64(*r.Amount),
		Date:      r.Date.Time(),
		CreatedBy: creator,
		Members:   NewUsernameSet(r.Members...),
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if e.Members.Len() == 0 {
		e.Members.Add(creator)
	}
	return e
}
