package api

import (
	"net/http"
	"time"
)

type scanResultResponse struct {
	Ssid      string `json:"ssid"`
	Bssid     string `json:"bssid"`
	Signal    int    `json:"signal"`
	Frequency int    `json:"frequency"`
	Privacy   bool   `json:"privacy"`
}

type getScanResponse struct {
	Taken   time.Time             `json:"taken"`
	Results []*scanResultResponse `json:"results"`
}

func (a *Api) handleGetScan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.scanLimiter.Allow() {
			a.jsonError(w, "Scanning too often", http.StatusTooManyRequests)
			return
		}

		results, err := a.client.Scan(r.Context())
		if err != nil {
			a.stationError(w, err)
			return
		}

		res := []*scanResultResponse{} // Use literal instead of declaration so it serializes into empty json array
		for _, result := range results.All() {
			res = append(res, &scanResultResponse{
				Ssid:      result.Ssid,
				Bssid:     result.Bssid,
				Signal:    result.Signal,
				Frequency: result.Frequency,
				Privacy:   result.Privacy,
			})
		}

		a.jsonResponse(w, &getScanResponse{
			Taken:   results.Taken(),
			Results: res,
		}, http.StatusOK)
	}
}
