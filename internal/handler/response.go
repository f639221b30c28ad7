package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// Response bodies. Dates go out as YYYY-MM-DD, timestamps as RFC 3339.

type tripResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Location     string             `json:"location"`
	PlannedDates string             `json:"planned_dates"`
	CreatedBy    string             `json:"created_by"`
	StartDate    openapi_types.Date `json:"start_date"`
	Members      domain.UsernameSet `json:"members"`
	Invitees     domain.UsernameSet `json:"invitees"`
	CreatedAt    time.Time          `json:"created_at"`
}

type tripSnapshotResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Location  string             `json:"location"`
	StartDate openapi_types.Date `json:"start_date"`
}

type invitationResponse struct {
	ID        string               `json:"id"`
	Trip      tripSnapshotResponse `json:"trip"`
	Invitee   string               `json:"invitee"`
	InvitedBy string               `json:"invited_by"`
	CreatedAt time.Time            `json:"created_at"`
}

type expenseResponse struct {
	ID          string             `json:"id"`
	TripID      string             `json:"trip_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Amount      int64              `json:"amount"`
	Date        openapi_types.Date `json:"date"`
	CreatedBy   string             `json:"created_by"`
	Members     domain.UsernameSet `json:"members"`
	CreatedAt   time.Time          `json:"created_at"`
}

type summaryResponse struct {
	TripID       string `json:"trip_id"`
	ExpenseCount int64  `json:"expense_count"`
	TotalAmount  int64  `json:"total_amount"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type dashboardResponse struct {
	Trips              []tripResponse `json:"trips"`
	PendingInvitations int64          `json:"pending_invitations"`
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:           t.ID,
		Title:        t.Title,
		Location:     t.Location,
		PlannedDates: t.PlannedDates,
		CreatedBy:    t.CreatedBy,
		StartDate:    openapi_types.Date{Time: t.StartDate},
		Members:      t.Members,
		Invitees:     t.Invitees,
		CreatedAt:    t.CreatedAt,
	}
}

func tripsToResponse(trips []domain.Trip) []tripResponse {
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}

func invitationToResponse(inv domain.Invitation) invitationResponse {
	return invitationResponse{
		ID: inv.ID,
		Trip: tripSnapshotResponse{
			ID:        inv.Trip.ID,
			Title:     inv.Trip.Title,
			Location:  inv.Trip.Location,
			StartDate: openapi_types.Date{Time: inv.Trip.StartDate},
		},
		Invitee:   inv.Invitee,
		InvitedBy: inv.InvitedBy,
		CreatedAt: inv.CreatedAt,
	}
}

func expenseToResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Title:       e.Title,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        openapi_types.Date{Time: e.Date},
		CreatedBy:   e.CreatedBy,
		Members:     e.Members,
		CreatedAt:   e.CreatedAt,
	}
}
