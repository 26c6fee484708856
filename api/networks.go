package api

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/wifid/station"
	"net/http"
	"strconv"
)

type networkResponse struct {
	Id      station.NetworkID `json:"id"`
	Ssid    string            `json:"ssid"`
	HasPsk  bool              `json:"hasPsk"`
	Current bool              `json:"current"`
}

type postNetworkRequest struct {
	Ssid string `json:"ssid"`
	Psk  string `json:"psk"`
}

type postNetworkResponse struct {
	Id station.NetworkID `json:"id"`
}

type patchNetworkRequest struct {
	Ssid *string `json:"ssid"`
	Psk  *string `json:"psk"`
}

type postSelectResponse struct {
	Result station.SelectResult `json:"result"`
}

func (a *Api) handleGetNetworks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		networks, err := a.client.Networks(r.Context())
		if err != nil {
			a.stationError(w, err)
			return
		}

		res := []*networkResponse{}
		for _, n := range networks {
			res = append(res, &networkResponse{
				Id:      n.ID,
				Ssid:    n.Ssid,
				HasPsk:  n.HasPsk,
				Current: n.Current,
			})
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handlePostNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := postNetworkRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Ssid == "" {
			a.jsonError(w, "Missing ssid", http.StatusBadRequest)
			return
		}

		ctx := r.Context()

		id, err := a.client.AddNetwork(ctx)
		if err != nil {
			a.stationError(w, err)
			return
		}

		err = a.client.SetNetworkSsid(ctx, id, req.Ssid)
		if err == nil && req.Psk != "" {
			err = a.client.SetNetworkPsk(ctx, id, req.Psk)
		}

		if err != nil {
			a.discardNetwork(id)
			a.stationError(w, err)
			return
		}

		a.log.Infof("Added network %v for %v", id, req.Ssid)

		a.jsonResponse(w, &postNetworkResponse{Id: id}, http.StatusCreated)
	}
}

func (a *Api) handlePatchNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.existingNetwork(w, r)
		if !ok {
			return
		}

		req := patchNetworkRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Ssid != nil {
			err := a.client.SetNetworkSsid(r.Context(), id, *req.Ssid)
			if err != nil {
				a.stationError(w, err)
				return
			}
		}

		if req.Psk != nil {
			err := a.client.SetNetworkPsk(r.Context(), id, *req.Psk)
			if err != nil {
				a.stationError(w, err)
				return
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *Api) handleDeleteNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.existingNetwork(w, r)
		if !ok {
			return
		}

		err := a.client.RemoveNetwork(r.Context(), id)
		if err != nil {
			a.stationError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *Api) handlePostSelect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := networkID(r)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := a.client.SelectNetwork(r.Context(), id)
		if err != nil {
			a.stationError(w, err)
			return
		}

		a.log.Infof("Selecting network %v: %v", id, result)

		a.jsonResponse(w, &postSelectResponse{Result: result}, http.StatusOK)
	}
}

func (a *Api) handlePostSaveConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.client.SaveConfig(r.Context())
		if err != nil {
			a.stationError(w, err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

// discardNetwork removes a network that could not be set up completely.
// The request context may already be gone at this point.
func (a *Api) discardNetwork(id station.NetworkID) {
	err := a.client.RemoveNetwork(context.Background(), id)
	if err != nil {
		a.log.Errorf("Could not discard incomplete network %v: %v", id, err)
	}
}

// existingNetwork responds with an error unless the id in the path is a
// configured network.
func (a *Api) existingNetwork(w http.ResponseWriter, r *http.Request) (station.NetworkID, bool) {
	id, err := networkID(r)
	if err != nil {
		a.jsonError(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}

	networks, err := a.client.Networks(r.Context())
	if err != nil {
		a.stationError(w, err)
		return 0, false
	}

	for _, n := range networks {
		if n.ID == id {
			return id, true
		}
	}

	a.jsonError(w, fmt.Sprintf("No network with id %v found", id), http.StatusNotFound)
	return 0, false
}

func networkID(r *http.Request) (station.NetworkID, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, errors.Errorf("invalid network id: %v", err)
	}

	return station.NetworkID(id), nil
}
