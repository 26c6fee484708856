package api

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/wifid/connectivity"
	"github.com/the-lightning-land/wifid/station"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
	"net"
	"net/http"
	"time"
)

// Station is the part of the station the api needs besides its client.
type Station interface {
	Client() *station.Client
	Subscribe() *station.Receiver
}

// stationClient is what the handlers ask the station. *station.Client
// implements it.
type stationClient interface {
	Scan(ctx context.Context) (*station.ScanResults, error)
	Networks(ctx context.Context) ([]station.NetworkResult, error)
	Status(ctx context.Context) (*station.Status, error)
	AddNetwork(ctx context.Context) (station.NetworkID, error)
	SetNetworkPsk(ctx context.Context, id station.NetworkID, psk string) error
	SetNetworkSsid(ctx context.Context, id station.NetworkID, ssid string) error
	SaveConfig(ctx context.Context) error
	RemoveNetwork(ctx context.Context, id station.NetworkID) error
	SelectNetwork(ctx context.Context, id station.NetworkID) (station.SelectResult, error)
}

var _ stationClient = (*station.Client)(nil)

type Config struct {
	Station  Station
	Reporter connectivity.Reporter
	Log      Logger
	// MaxConns limits concurrent connections, zero means unlimited.
	MaxConns int
	// ScanInterval is the minimum time between two scans requested
	// through the api, zero means unlimited.
	ScanInterval time.Duration
}

type Api struct {
	station     Station
	client      stationClient
	reporter    connectivity.Reporter
	router      *mux.Router
	log         Logger
	maxConns    int
	scanLimiter *rate.Limiter
}

func New(config *Config) *Api {
	api := &Api{
		station:  config.Station,
		client:   config.Station.Client(),
		reporter: config.Reporter,
		router:   mux.NewRouter(),
		maxConns: config.MaxConns,
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	if config.ScanInterval > 0 {
		api.scanLimiter = rate.NewLimiter(rate.Every(config.ScanInterval), 1)
	} else {
		api.scanLimiter = rate.NewLimiter(rate.Inf, 1)
	}

	api.router.Use(api.loggingMiddleware)

	api.router.Handle("/api/v1/status", api.handleGetStatus()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/scan", api.handleGetScan()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/events", api.handleGetEvents()).Methods(http.MethodGet)

	api.router.Handle("/api/v1/networks", api.handleGetNetworks()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/networks", api.handlePostNetwork()).Methods(http.MethodPost)
	api.router.Handle("/api/v1/networks/{id:[0-9]+}", api.handlePatchNetwork()).Methods(http.MethodPatch)
	api.router.Handle("/api/v1/networks/{id:[0-9]+}", api.handleDeleteNetwork()).Methods(http.MethodDelete)
	api.router.Handle("/api/v1/networks/{id:[0-9]+}/select", api.handlePostSelect()).Methods(http.MethodPost)

	api.router.Handle("/api/v1/config/save", api.handlePostSaveConfig()).Methods(http.MethodPost)

	return api
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *Api) Serve(l net.Listener) error {
	if a.maxConns > 0 {
		l = netutil.LimitListener(l, a.maxConns)
	}

	err := http.Serve(l, a.router)
	if err != nil {
		return errors.Errorf("Unable to serve api: %v", err)
	}

	return nil
}

func (a *Api) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.log.Debugf("%v %v", r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}
