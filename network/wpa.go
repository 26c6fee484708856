package network

import (
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wifid/network/wpa"
	"github.com/the-lightning-land/wifid/station"
	"sync"
)

// check WpaNetworks compliance to its interface during compile time
var _ Network = (*WpaNetwork)(nil)

const defaultNotFoundScans = 3

type Config struct {
	Interface string
	Logger    Logger
	// NotFoundScans is the number of completed scans during an association
	// attempt after which the network is reported as not found.
	NotFoundScans int
}

// WpaNetwork drives wpa_supplicant and translates its state changes into
// link events for the station.
type WpaNetwork struct {
	log           Logger
	wpa           *wpa.Wpa
	ifname        string
	iface         *wpa.Interface
	network       *wpa.Network
	signals       *wpa.SignalClient
	events        chan station.LinkEvent
	done          chan struct{}
	wg            sync.WaitGroup
	notFoundScans int
	association   association
}

// association is shared between the station loop (Select) and the signal loop.
type association struct {
	sync.Mutex
	pending bool
	state   string
	scans   int
}

func NewWpaNetwork(config *Config) *WpaNetwork {
	net := &WpaNetwork{
		ifname:        config.Interface,
		wpa:           wpa.New(),
		events:        make(chan station.LinkEvent, eventBuffer),
		done:          make(chan struct{}),
		notFoundScans: config.NotFoundScans,
	}

	if config.Logger != nil {
		net.log = config.Logger
	} else {
		net.log = noopLogger{}
	}

	if net.notFoundScans <= 0 {
		net.notFoundScans = defaultNotFoundScans
	}

	return net
}

func (n *WpaNetwork) Start() error {
	err := n.wpa.Start()
	if err != nil {
		return errors.Errorf("could not start wpa: %v", err)
	}

	iface, err := n.wpa.GetInterface(n.ifname)
	if err != nil {
		_ = n.wpa.Stop()
		return errors.Errorf("could not find interface %v: %v", n.ifname, err)
	}

	n.iface = iface

	n.signals, err = iface.Subscribe()
	if err != nil {
		_ = n.wpa.Stop()
		return errors.Errorf("could not subscribe to interface %v: %v", n.ifname, err)
	}

	state, err := iface.State()
	if err != nil {
		n.log.Warnf("could not read initial state: %v", err)
	}

	n.association.Lock()
	n.association.state = state
	n.association.Unlock()

	n.wg.Add(1)
	go n.run()

	n.emit(station.LinkReady)

	return nil
}

func (n *WpaNetwork) Stop() error {
	close(n.done)

	if n.signals != nil {
		n.signals.Cancel()
	}

	n.wg.Wait()

	err := n.wpa.Stop()
	if err != nil {
		return errors.Errorf("could not stop wpa: %v", err)
	}

	return nil
}

func (n *WpaNetwork) Events() <-chan station.LinkEvent {
	return n.events
}

func (n *WpaNetwork) TriggerScan() error {
	err := n.iface.Scan()
	if err != nil {
		return errors.Errorf("unable to scan: %v", err)
	}

	return nil
}

func (n *WpaNetwork) ScanResults() ([]station.ScanResult, error) {
	bsss, err := n.iface.BSSs()
	if err != nil {
		return nil, errors.Errorf("unable to get BSSs: %v", err)
	}

	var results []station.ScanResult

	for _, bss := range bsss {
		b, err := bss.GetAll()
		if err != nil {
			n.log.Debugf("skipping bss %v: %v", bss, err)
			continue
		}

		results = append(results, station.ScanResult{
			Ssid:      b.Ssid,
			Bssid:     b.Bssid,
			Signal:    int(b.Signal),
			Frequency: int(b.Frequency),
			Privacy:   b.Privacy,
		})
	}

	return results, nil
}

func (n *WpaNetwork) Status() (*station.Status, error) {
	state, err := n.iface.State()
	if err != nil {
		return nil, errors.Errorf("unable to get state: %v", err)
	}

	status := &station.Status{
		State: state,
	}

	bss, err := n.iface.CurrentBSS()
	if err != nil {
		return nil, errors.Errorf("unable to get current bss: %v", err)
	}

	if bss != nil {
		b, err := bss.GetAll()
		if err != nil {
			return nil, errors.Errorf("unable to read current bss: %v", err)
		}

		status.Ssid = b.Ssid
		status.Bssid = b.Bssid
		status.Frequency = int(b.Frequency)
	}

	return status, nil
}

// Select replaces the network blocks of wpa_supplicant with the given
// network and starts associating with it.
func (n *WpaNetwork) Select(network *station.NetworkConfig) error {
	err := n.iface.RemoveAllNetworks()
	if err != nil {
		return errors.Errorf("unable to clear networks: %v", err)
	}

	n.network = nil

	net, err := n.iface.AddNetwork(network.Ssid, network.Psk)
	if err != nil {
		return errors.Errorf("unable to add network %v: %v", network.Ssid, err)
	}

	n.network = net

	n.association.Lock()
	n.association.pending = true
	n.association.scans = 0
	n.association.Unlock()

	err = n.iface.SelectNetwork(net)
	if err != nil {
		n.association.Lock()
		n.association.pending = false
		n.association.Unlock()

		return errors.Errorf("unable to select network %v: %v", net, err)
	}

	return nil
}

// Disconnect leaves the current network and removes its network block so
// wpa_supplicant does not join it again on its own.
func (n *WpaNetwork) Disconnect() error {
	n.association.Lock()
	n.association.pending = false
	n.association.Unlock()

	err := n.iface.Disconnect()
	if err != nil {
		return errors.Errorf("unable to disconnect: %v", err)
	}

	if n.network == nil {
		return nil
	}

	err = n.iface.RemoveNetwork(n.network)
	if err != nil {
		return errors.Errorf("unable to remove network %v: %v", n.network, err)
	}

	n.network = nil

	return nil
}

func (n *WpaNetwork) run() {
	defer n.wg.Done()

	for {
		select {
		case signal, ok := <-n.signals.Signals:
			if !ok {
				return
			}

			for _, event := range n.handleSignal(signal) {
				n.emit(event)
			}
		case <-n.done:
			return
		}
	}
}

// handleSignal maps supplicant signals to link events.
func (n *WpaNetwork) handleSignal(signal *wpa.Signal) []station.LinkEvent {
	var events []station.LinkEvent

	n.association.Lock()
	defer n.association.Unlock()

	if success, ok := signal.ScanDone(); ok {
		if success {
			events = append(events, station.LinkScanDone)
		} else {
			events = append(events, station.LinkScanFailed)
		}

		if n.association.pending && !associating(n.association.state) {
			n.association.scans++

			if n.association.scans >= n.notFoundScans {
				n.association.pending = false
				events = append(events, station.LinkNetworkNotFound)
			}
		}

		return events
	}

	state, ok := signal.State()
	if !ok {
		return nil
	}

	prev := n.association.state
	n.association.state = state

	n.log.Debugf("wpa state %v -> %v", prev, state)

	switch state {
	case "completed":
		if prev != "completed" {
			n.association.pending = false
			events = append(events, station.LinkConnected)
		}
	case "disconnected":
		if n.association.pending && prev == "4way_handshake" {
			n.association.pending = false
			events = append(events, station.LinkWrongPsk)
		} else if prev == "completed" {
			events = append(events, station.LinkDisconnected)
		}
	}

	return events
}

func associating(state string) bool {
	switch state {
	case "authenticating", "associating", "associated", "4way_handshake", "group_handshake":
		return true
	default:
		return false
	}
}

func (n *WpaNetwork) emit(event station.LinkEvent) {
	select {
	case n.events <- event:
	case <-n.done:
	}
}
