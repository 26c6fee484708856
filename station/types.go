package station

import (
	"fmt"
	"time"
)

// NetworkID identifies a configured network. Ids are handed out by the
// station in increasing order and are never reused.
type NetworkID uint32

func (id NetworkID) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

type ScanResult struct {
	Ssid      string
	Bssid     string
	Signal    int
	Frequency int
	Privacy   bool
}

// ScanResults is the snapshot taken at one scan completion. It is shared
// between every caller that waited on that scan and must not change after
// it was created.
type ScanResults struct {
	results []ScanResult
	taken   time.Time
}

func newScanResults(results []ScanResult) *ScanResults {
	r := make([]ScanResult, len(results))
	copy(r, results)

	return &ScanResults{
		results: r,
		taken:   time.Now(),
	}
}

func (s *ScanResults) Len() int {
	return len(s.results)
}

func (s *ScanResults) At(i int) ScanResult {
	return s.results[i]
}

// All returns a copy of the results, safe to modify.
func (s *ScanResults) All() []ScanResult {
	r := make([]ScanResult, len(s.results))
	copy(r, s.results)
	return r
}

func (s *ScanResults) Taken() time.Time {
	return s.taken
}

type NetworkResult struct {
	ID      NetworkID
	Ssid    string
	HasPsk  bool
	Current bool
}

// NetworkConfig is a configured network as persisted and handed to the link.
type NetworkConfig struct {
	ID   NetworkID `json:"id"`
	Ssid string    `json:"ssid"`
	Psk  string    `json:"psk,omitempty"`
}

// SavedNetworks is what a ConfigStore keeps. NextID survives restarts so
// ids of removed networks are not handed out again.
type SavedNetworks struct {
	NextID   NetworkID        `json:"nextId"`
	Networks []*NetworkConfig `json:"networks"`
}

type Status struct {
	State     string
	Ssid      string
	Bssid     string
	Frequency int
}

type SelectResult int

const (
	SelectSuccess SelectResult = iota
	SelectWrongPsk
	SelectNotFound
	SelectPending
	SelectInvalidNetworkID
)

func (r SelectResult) String() string {
	switch r {
	case SelectSuccess:
		return "success"
	case SelectWrongPsk:
		return "wrong_psk"
	case SelectNotFound:
		return "network_not_found"
	case SelectPending:
		return "select_already_pending"
	case SelectInvalidNetworkID:
		return "invalid_network_id"
	default:
		return "invalid_select_result"
	}
}

func (r SelectResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Broadcast is an event the station emits on its own, e.g. when the link
// drops or a join resolves late.
type Broadcast int

const (
	Connected Broadcast = iota
	Disconnected
	NetworkNotFound
	WrongPsk
	Ready
)

func (b Broadcast) String() string {
	switch b {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case NetworkNotFound:
		return "network_not_found"
	case WrongPsk:
		return "wrong_psk"
	case Ready:
		return "ready"
	default:
		return "invalid_broadcast"
	}
}

func (b Broadcast) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
