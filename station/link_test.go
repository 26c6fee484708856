package station

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeLink records what the station asked for and lets tests inject events.
type fakeLink struct {
	mu        sync.Mutex
	events    chan LinkEvent
	results   []ScanResult
	selected  []NetworkConfig
	triggers  int
	drops     int
	autoScan  bool
	selectErr error
	statusErr error
	status    *Status
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		events:   make(chan LinkEvent, 16),
		autoScan: true,
		status:   &Status{State: "disconnected"},
	}
}

func (l *fakeLink) Events() <-chan LinkEvent {
	return l.events
}

func (l *fakeLink) TriggerScan() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.triggers++

	if l.autoScan {
		l.events <- LinkScanDone
	}

	return nil
}

func (l *fakeLink) ScanResults() ([]ScanResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.results, nil
}

func (l *fakeLink) Status() (*Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.statusErr != nil {
		return nil, l.statusErr
	}

	status := *l.status
	return &status, nil
}

func (l *fakeLink) Select(network *NetworkConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.selectErr != nil {
		return l.selectErr
	}

	l.selected = append(l.selected, *network)
	return nil
}

func (l *fakeLink) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.drops++
	return nil
}

func (l *fakeLink) disconnects() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.drops
}

func (l *fakeLink) selections() []NetworkConfig {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]NetworkConfig(nil), l.selected...)
}

func (l *fakeLink) scanTriggers() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.triggers
}

type memStore struct {
	mu     sync.Mutex
	nextID NetworkID
	stored []*NetworkConfig
	saves  int
}

func (m *memStore) LoadNetworks() (*SavedNetworks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &SavedNetworks{
		NextID:   m.nextID,
		Networks: append([]*NetworkConfig(nil), m.stored...),
	}, nil
}

func (m *memStore) SaveNetworks(saved *SavedNetworks) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID = saved.NextID
	m.stored = saved.Networks
	m.saves++
	return nil
}

func (m *memStore) saved() ([]*NetworkConfig, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stored, m.saves
}

// startStation runs a station until the test ends.
func startStation(t *testing.T, config *Config) *Station {
	t.Helper()

	s := New(config)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = s.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})

	return s
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	return ctx
}

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
