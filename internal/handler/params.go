package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tripsplit/backend/internal/middleware"
)

// pathParam binds the named chi path parameter. An empty or malformed value
// gets a 400 written for it and ok=false.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (value string, ok bool) {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || value == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid format for parameter "+name+".")
		return "", false
	}
	return value, true
}

// queryParam binds an optional form-style query parameter. nil means absent.
func queryParam(w http.ResponseWriter, r *http.Request, name string) (value *string, ok bool) {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &value); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid format for parameter "+name+".")
		return nil, false
	}
	return value, true
}

// caller returns the verified username. The identity middleware normally
// answers 401 before a handler runs; this guards routes mounted without it.
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	u, ok := middleware.UsernameFrom(r.Context())
	if !ok || u == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return u, true
}
