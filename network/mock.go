package network

import (
	"github.com/the-lightning-land/wifid/station"
	"sync"
	"time"
)

var _ Network = (*MockNetwork)(nil)

// AccessPoint is a network the mock radio can see.
type AccessPoint struct {
	Ssid      string
	Bssid     string
	Psk       string
	Signal    int
	Frequency int
}

type MockConfig struct {
	AccessPoints []AccessPoint
	// Latency delays scan completions and association outcomes.
	Latency time.Duration
	Logger  Logger
}

// MockNetwork is an in-memory radio used for development and tests.
type MockNetwork struct {
	log     Logger
	latency time.Duration
	events  chan station.LinkEvent
	done    chan struct{}
	wg      sync.WaitGroup

	mu        sync.Mutex
	aps       []AccessPoint
	connected *AccessPoint
}

func NewMockNetwork(config *MockConfig) *MockNetwork {
	n := &MockNetwork{
		latency: config.Latency,
		events:  make(chan station.LinkEvent, eventBuffer),
		done:    make(chan struct{}),
		aps:     append([]AccessPoint(nil), config.AccessPoints...),
	}

	if config.Logger != nil {
		n.log = config.Logger
	} else {
		n.log = noopLogger{}
	}

	return n
}

func (n *MockNetwork) Start() error {
	n.later(func() []station.LinkEvent {
		return []station.LinkEvent{station.LinkReady}
	})

	return nil
}

func (n *MockNetwork) Stop() error {
	close(n.done)
	n.wg.Wait()

	return nil
}

func (n *MockNetwork) Events() <-chan station.LinkEvent {
	return n.events
}

func (n *MockNetwork) TriggerScan() error {
	n.log.Debugf("mock scan triggered")

	n.later(func() []station.LinkEvent {
		return []station.LinkEvent{station.LinkScanDone}
	})

	return nil
}

func (n *MockNetwork) ScanResults() ([]station.ScanResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	results := make([]station.ScanResult, 0, len(n.aps))

	for _, ap := range n.aps {
		results = append(results, station.ScanResult{
			Ssid:      ap.Ssid,
			Bssid:     ap.Bssid,
			Signal:    ap.Signal,
			Frequency: ap.Frequency,
			Privacy:   ap.Psk != "",
		})
	}

	return results, nil
}

func (n *MockNetwork) Status() (*station.Status, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.connected == nil {
		return &station.Status{State: "disconnected"}, nil
	}

	return &station.Status{
		State:     "completed",
		Ssid:      n.connected.Ssid,
		Bssid:     n.connected.Bssid,
		Frequency: n.connected.Frequency,
	}, nil
}

func (n *MockNetwork) Select(network *station.NetworkConfig) error {
	ssid, psk := network.Ssid, network.Psk

	n.log.Debugf("mock selecting %v", ssid)

	n.later(func() []station.LinkEvent {
		n.mu.Lock()
		defer n.mu.Unlock()

		var events []station.LinkEvent

		if n.connected != nil {
			n.connected = nil
			events = append(events, station.LinkDisconnected)
		}

		for i := range n.aps {
			ap := n.aps[i]
			if ap.Ssid != ssid {
				continue
			}

			if ap.Psk != psk {
				return append(events, station.LinkWrongPsk)
			}

			n.connected = &ap
			return append(events, station.LinkConnected)
		}

		return append(events, station.LinkNetworkNotFound)
	})

	return nil
}

// Disconnect leaves the current access point like a radio asked to.
func (n *MockNetwork) Disconnect() error {
	n.log.Debugf("mock disconnecting")

	n.Drop()

	return nil
}

// Drop simulates losing the current association.
func (n *MockNetwork) Drop() {
	n.later(func() []station.LinkEvent {
		n.mu.Lock()
		defer n.mu.Unlock()

		if n.connected == nil {
			return nil
		}

		n.connected = nil
		return []station.LinkEvent{station.LinkDisconnected}
	})
}

// SetAccessPoints replaces what the mock radio can see.
func (n *MockNetwork) SetAccessPoints(aps []AccessPoint) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.aps = append([]AccessPoint(nil), aps...)
}

// later runs f after the configured latency and emits its events in order.
func (n *MockNetwork) later(f func() []station.LinkEvent) {
	n.wg.Add(1)

	go func() {
		defer n.wg.Done()

		if n.latency > 0 {
			select {
			case <-time.After(n.latency):
			case <-n.done:
				return
			}
		}

		for _, event := range f() {
			select {
			case n.events <- event:
			case <-n.done:
				return
			}
		}
	}()
}
