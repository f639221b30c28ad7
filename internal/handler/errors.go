package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/tripsplit/backend/internal/domain"
)

// genericMessage is the only detail a client sees for an unexpected failure.
const genericMessage = "Please try after sometime."

// errorResponse is the body of every non-2xx JSON response except the trip
// read path, which answers 404 with a bare null.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// writeJSON encodes v with the given status. A nil v is written as null.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// decode reads a JSON request body into dst. On failure it writes the 400 or
// 413 response itself and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var (
		tooLarge  *http.MaxBytesError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &tooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		writeMessage(w, http.StatusBadRequest, "Request body is required.")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fe := domain.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid value for %s.", typeErr.Field),
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: fe.Message, Errors: []domain.FieldError{fe}})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		writeMessage(w, http.StatusBadRequest, "Request body must be valid JSON.")
	default:
		writeMessage(w, http.StatusBadRequest, "Request body must be a JSON object.")
	}
	return false
}

// fail maps a service error to its response. Callers handle domain.ErrNotFound
// first because its body differs per route.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: verrs.First(), Errors: verrs})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, genericMessage)
	}
}
