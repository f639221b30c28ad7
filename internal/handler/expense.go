package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// ListExpenses handles GET /trip/{id}/expense?created_by=.
// Results come back newest date first.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}
	tripID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	createdBy, ok := queryParam(w, r, "created_by")
	if !ok {
		return
	}

	expenses, err := s.expenses.ListForTrip(r.Context(), tripID, createdBy)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateExpense handles POST /trip/{id}/expense.
// The creator is the verified caller, whatever the body says.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	tripID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.ExpenseRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := s.expenses.Create(r.Context(), tripID, req, username); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// DeleteExpense handles DELETE /trip/{id}/expense/{expenseId}.
// Deleting an expense that does not exist still answers 200.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	if _, ok := pathParam(w, r, "id"); !ok {
		return
	}
	expenseID, ok := pathParam(w, r, "expenseId")
	if !ok {
		return
	}

	if err := s.expenses.Delete(r.Context(), expenseID, username); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// GetTripSummary handles GET /trip/{id}/summary.
func (s *Server) GetTripSummary(w http.ResponseWriter, r *http.Request) {
	username, ok := caller(w, r)
	if !ok {
		return
	}
	tripID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	sum, err := s.expenses.Summary(r.Context(), tripID, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		TripID:       sum.TripID,
		ExpenseCount: sum.ExpenseCount,
		TotalAmount:  sum.TotalAmount,
	})
}
