package api

import (
	"context"
	"encoding/json"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wifid/station"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (a *Api) jsonResponse(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		a.log.Errorf("Could not respond with JSON: %v", err)
	}
}

func (a *Api) jsonError(w http.ResponseWriter, message string, code int) {
	a.jsonResponse(w, &errorResponse{Error: message}, code)
}

// stationError tells a lost station apart from a station that answered
// with a failure of the link.
func (a *Api) stationError(w http.ResponseWriter, err error) {
	var linkErr *station.LinkError

	switch {
	case station.IsUnreachable(err):
		a.jsonError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &linkErr):
		a.jsonError(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.jsonError(w, err.Error(), http.StatusGatewayTimeout)
	default:
		a.log.Errorf("Unexpected station error: %v", err)
		a.jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
