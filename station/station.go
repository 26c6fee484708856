package station

import (
	"context"
	"github.com/go-errors/errors"
	"sort"
	"time"
)

const defaultQueueSize = 16

type Config struct {
	Link            Link
	Store           ConfigStore
	Logger          Logger
	QueueSize       int
	BroadcastBuffer int
	// SelectTimeout resolves a pending selection as not found when the
	// link did not report an outcome in time. Zero waits forever.
	SelectTimeout time.Duration
}

type pendingSelect struct {
	id    NetworkID
	reply chan<- SelectResult
}

// Station owns all state of the managed interface. Everything below the
// channels is only touched from the Run loop.
type Station struct {
	log           Logger
	link          Link
	store         ConfigStore
	requests      chan request
	done          chan struct{}
	hub           *Hub
	client        *Client
	selectTimeout time.Duration

	networks    []*NetworkConfig
	nextID      NetworkID
	// current is only meaningful while hasCurrent is set, i.e. after a
	// select of this station resolved successfully and no disconnect followed.
	current     NetworkID
	hasCurrent  bool
	pending     *pendingSelect
	selectTimer *time.Timer
	scanWaiters []chan<- scanReply
	scanning    bool
}

func New(config *Config) *Station {
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	s := &Station{
		link:          config.Link,
		store:         config.Store,
		requests:      make(chan request, queueSize),
		done:          make(chan struct{}),
		hub:           NewHub(config.BroadcastBuffer),
		selectTimeout: config.SelectTimeout,
	}

	if config.Logger != nil {
		s.log = config.Logger
	} else {
		s.log = noopLogger{}
	}

	s.client = &Client{
		requests: s.requests,
		done:     s.done,
	}

	return s
}

func (s *Station) Client() *Client {
	return s.client
}

// Subscribe attaches a receiver for broadcasts emitted from now on.
func (s *Station) Subscribe() *Receiver {
	return s.hub.Subscribe()
}

// Done is closed once the station stopped processing requests.
func (s *Station) Done() <-chan struct{} {
	return s.done
}

// Run processes requests one at a time until a shutdown request is handled
// or ctx is cancelled. It must be called exactly once.
func (s *Station) Run(ctx context.Context) error {
	defer s.stop()

	err := s.loadNetworks()
	if err != nil {
		s.log.Errorf("Could not load saved networks: %v", err)
	}

	s.log.Infof("Station running with %d saved networks", len(s.networks))

	events := s.link.Events()

	for {
		var selectTimeout <-chan time.Time
		if s.selectTimer != nil {
			selectTimeout = s.selectTimer.C
		}

		select {
		case req := <-s.requests:
			if !s.handleRequest(req) {
				s.log.Infof("Station received shutdown")
				return nil
			}

		case event, ok := <-events:
			if !ok {
				s.log.Warnf("Link event stream closed")
				events = nil
				continue
			}

			s.handleLinkEvent(event)

		case <-selectTimeout:
			s.selectTimer = nil
			s.log.Warnf("Selecting network %v timed out after %v", s.pending.id, s.selectTimeout)
			s.resolveSelect(SelectNotFound)
			s.hub.Publish(NetworkNotFound)

		case <-ctx.Done():
			s.log.Infof("Station stopped: %v", ctx.Err())
			return ctx.Err()
		}
	}
}

// stop abandons every reply handle still held. Callers waiting on them
// observe the closed done channel.
func (s *Station) stop() {
	if s.selectTimer != nil {
		s.selectTimer.Stop()
		s.selectTimer = nil
	}

	s.pending = nil
	s.scanWaiters = nil

	close(s.done)
	s.hub.Close()
}

func (s *Station) loadNetworks() error {
	if s.store == nil {
		return nil
	}

	saved, err := s.store.LoadNetworks()
	if err != nil {
		return errors.Errorf("could not load networks: %v", err)
	}

	if saved == nil {
		return nil
	}

	networks := saved.Networks

	sort.Slice(networks, func(i, j int) bool {
		return networks[i].ID < networks[j].ID
	})

	s.networks = networks
	s.nextID = saved.NextID

	for _, n := range networks {
		if n.ID >= s.nextID {
			s.nextID = n.ID + 1
		}
	}

	return nil
}

// handleRequest returns false when the station should stop.
func (s *Station) handleRequest(req request) bool {
	switch r := req.(type) {
	case statusRequest:
		status, err := s.link.Status()
		if err != nil {
			r.reply <- statusReply{err: &LinkError{Op: "status", Err: err}}
		} else {
			r.reply <- statusReply{status: status}
		}

	case networksRequest:
		r.reply <- s.networkResults()

	case scanRequest:
		s.scanWaiters = append(s.scanWaiters, r.reply)

		if !s.scanning {
			err := s.link.TriggerScan()
			if err != nil {
				s.log.Errorf("Could not trigger scan: %v", err)
				s.finishScan(nil, &LinkError{Op: "scan", Err: err})
			} else {
				s.scanning = true
			}
		}

	case addNetworkRequest:
		id := s.nextID
		s.nextID++
		s.networks = append(s.networks, &NetworkConfig{ID: id})

		s.log.Debugf("Added network %v", id)

		r.reply <- id

	case setNetworkRequest:
		n := s.network(r.id)
		if n == nil {
			s.log.Warnf("Could not set %v of network %v: no such network", r.edit.kind, r.id)
			break
		}

		switch r.edit.kind {
		case editSsid:
			n.Ssid = r.edit.value
		case editPsk:
			n.Psk = r.edit.value
		}

		s.log.Debugf("Set %v of network %v", r.edit.kind, r.id)

	case saveConfigRequest:
		if s.store == nil {
			s.log.Warnf("Could not save config: no config store")
			break
		}

		err := s.store.SaveNetworks(&SavedNetworks{
			NextID:   s.nextID,
			Networks: s.copyNetworks(),
		})
		if err != nil {
			s.log.Errorf("Could not save config: %v", err)
		} else {
			s.log.Infof("Saved %d networks", len(s.networks))
		}

	case removeNetworkRequest:
		if !s.removeNetwork(r.id) {
			s.log.Warnf("Could not remove network %v: no such network", r.id)
			break
		}

		s.log.Debugf("Removed network %v", r.id)

		if s.hasCurrent && s.current == r.id {
			s.hasCurrent = false

			err := s.link.Disconnect()
			if err != nil {
				s.log.Errorf("Could not disconnect from removed network %v: %v", r.id, err)
			}
		}

	case selectNetworkRequest:
		s.selectNetwork(r)

	case shutdownRequest:
		return false

	default:
		s.log.Errorf("Unknown request %T", req)
	}

	return true
}

func (s *Station) selectNetwork(r selectNetworkRequest) {
	n := s.network(r.id)
	if n == nil {
		r.reply <- SelectInvalidNetworkID
		return
	}

	if s.pending != nil {
		s.log.Debugf("Refusing to select %v while %v is pending", r.id, s.pending.id)
		r.reply <- SelectPending
		return
	}

	network := *n

	err := s.link.Select(&network)
	if err != nil {
		s.log.Errorf("Could not select network %v: %v", r.id, err)
		r.reply <- SelectNotFound
		s.hub.Publish(NetworkNotFound)
		return
	}

	s.log.Infof("Selecting network %v (%v)", r.id, n.Ssid)

	// the link left whatever it was associated with
	s.hasCurrent = false

	s.pending = &pendingSelect{
		id:    r.id,
		reply: r.reply,
	}

	if s.selectTimeout > 0 {
		s.selectTimer = time.NewTimer(s.selectTimeout)
	}
}

func (s *Station) handleLinkEvent(event LinkEvent) {
	s.log.Debugf("Link event %v", event)

	switch event {
	case LinkReady:
		s.hub.Publish(Ready)

	case LinkScanDone:
		if len(s.scanWaiters) == 0 {
			s.scanning = false
			return
		}

		results, err := s.link.ScanResults()
		if err != nil {
			s.finishScan(nil, &LinkError{Op: "scan", Err: err})
			return
		}

		s.finishScan(newScanResults(results), nil)

	case LinkScanFailed:
		s.finishScan(nil, &LinkError{Op: "scan", Err: errors.New("scan failed")})

	case LinkConnected:
		if s.pending != nil {
			s.current = s.pending.id
			s.hasCurrent = true
		}

		s.resolveSelect(SelectSuccess)
		s.hub.Publish(Connected)

	case LinkDisconnected:
		s.hasCurrent = false
		s.hub.Publish(Disconnected)

	case LinkWrongPsk:
		s.resolveSelect(SelectWrongPsk)
		s.hub.Publish(WrongPsk)

	case LinkNetworkNotFound:
		s.resolveSelect(SelectNotFound)
		s.hub.Publish(NetworkNotFound)

	default:
		s.log.Warnf("Unknown link event %v", event)
	}
}

// resolveSelect answers the pending selection, if there is one.
func (s *Station) resolveSelect(result SelectResult) {
	if s.pending == nil {
		return
	}

	if s.selectTimer != nil {
		s.selectTimer.Stop()
		s.selectTimer = nil
	}

	s.log.Infof("Selecting network %v resolved: %v", s.pending.id, result)

	s.pending.reply <- result
	s.pending = nil
}

// finishScan hands the same snapshot to every caller that waited for it.
func (s *Station) finishScan(results *ScanResults, err error) {
	for _, waiter := range s.scanWaiters {
		waiter <- scanReply{results: results, err: err}
	}

	s.scanWaiters = nil
	s.scanning = false
}

func (s *Station) network(id NetworkID) *NetworkConfig {
	for _, n := range s.networks {
		if n.ID == id {
			return n
		}
	}

	return nil
}

func (s *Station) removeNetwork(id NetworkID) bool {
	for i, n := range s.networks {
		if n.ID == id {
			s.networks = append(s.networks[:i], s.networks[i+1:]...)
			return true
		}
	}

	return false
}

func (s *Station) networkResults() []NetworkResult {
	results := make([]NetworkResult, 0, len(s.networks))

	for _, n := range s.networks {
		results = append(results, NetworkResult{
			ID:      n.ID,
			Ssid:    n.Ssid,
			HasPsk:  n.Psk != "",
			Current: s.hasCurrent && s.current == n.ID,
		})
	}

	return results
}

func (s *Station) copyNetworks() []*NetworkConfig {
	networks := make([]*NetworkConfig, 0, len(s.networks))

	for _, n := range s.networks {
		network := *n
		networks = append(networks, &network)
	}

	return networks
}
