package connectivity

import (
	"context"
	"github.com/the-lightning-land/wifid/station"
	"sync"
)

type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Online:
		return "ONLINE"
	default:
		return "INVALID STATE"
	}
}

type Reporter interface {
	CurrentState() State
	WaitForStateChange(context.Context, State) bool
}

// Station is what the reporter watches.
type Station interface {
	Subscribe() *station.Receiver
	Client() *station.Client
}

type Config struct {
	Station Station
	Logger  Logger
}

// StationReporter derives connectivity from station broadcasts.
type StationReporter struct {
	log     Logger
	station Station
	mu      sync.Mutex
	state   State
	changed chan struct{}
}

var _ Reporter = (*StationReporter)(nil)

func NewReporter(config *Config) *StationReporter {
	r := &StationReporter{
		station: config.Station,
		state:   Offline,
		changed: make(chan struct{}),
	}

	if config.Logger != nil {
		r.log = config.Logger
	} else {
		r.log = noopLogger{}
	}

	return r
}

// Run follows the station until it stops or ctx is cancelled.
func (r *StationReporter) Run(ctx context.Context) error {
	receiver := r.station.Subscribe()
	defer receiver.Cancel()

	status, err := r.station.Client().Status(ctx)
	if err != nil {
		r.log.Warnf("Could not get initial status: %v", err)
	} else if status.State == "completed" {
		r.setState(Online)
	}

	for {
		b, err := receiver.Recv(ctx)
		if station.IsUnreachable(err) {
			r.setState(Offline)
			return nil
		} else if err != nil {
			return err
		}

		switch b {
		case station.Connected:
			r.setState(Online)
		case station.Disconnected, station.WrongPsk, station.NetworkNotFound:
			r.setState(Offline)
		}
	}
}

func (r *StationReporter) setState(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == state {
		return
	}

	r.log.Infof("Connectivity changed from %v to %v", r.state, state)

	r.state = state
	close(r.changed)
	r.changed = make(chan struct{})
}

func (r *StationReporter) CurrentState() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// WaitForStateChange blocks until the state differs from the given one.
// It returns false if ctx ended first.
func (r *StationReporter) WaitForStateChange(ctx context.Context, state State) bool {
	for {
		r.mu.Lock()
		current, changed := r.state, r.changed
		r.mu.Unlock()

		if current != state {
			return true
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return false
		}
	}
}
