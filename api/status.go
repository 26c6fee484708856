package api

import (
	"net/http"
)

type getStatusResponse struct {
	State        string `json:"state"`
	Ssid         string `json:"ssid,omitempty"`
	Bssid        string `json:"bssid,omitempty"`
	Frequency    int    `json:"frequency,omitempty"`
	Connectivity string `json:"connectivity,omitempty"`
}

func (a *Api) handleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := a.client.Status(r.Context())
		if err != nil {
			a.stationError(w, err)
			return
		}

		res := &getStatusResponse{
			State:     status.State,
			Ssid:      status.Ssid,
			Bssid:     status.Bssid,
			Frequency: status.Frequency,
		}

		if a.reporter != nil {
			res.Connectivity = a.reporter.CurrentState().String()
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}
