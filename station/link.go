package station

// LinkEvent is reported asynchronously by the link layer.
type LinkEvent int

const (
	LinkReady LinkEvent = iota
	LinkScanDone
	LinkScanFailed
	LinkConnected
	LinkDisconnected
	LinkWrongPsk
	LinkNetworkNotFound
)

func (e LinkEvent) String() string {
	switch e {
	case LinkReady:
		return "READY"
	case LinkScanDone:
		return "SCAN_DONE"
	case LinkScanFailed:
		return "SCAN_FAILED"
	case LinkConnected:
		return "CONNECTED"
	case LinkDisconnected:
		return "DISCONNECTED"
	case LinkWrongPsk:
		return "WRONG_PSK"
	case LinkNetworkNotFound:
		return "NETWORK_NOT_FOUND"
	default:
		return "INVALID LINK EVENT"
	}
}

// Link is the radio side of the station. Its methods are only ever called
// from the station loop and must not block for long; outcomes of scans and
// associations are reported through Events.
type Link interface {
	Events() <-chan LinkEvent
	TriggerScan() error
	ScanResults() ([]ScanResult, error)
	Status() (*Status, error)
	Select(network *NetworkConfig) error
	// Disconnect leaves the current network and forgets it on the radio.
	Disconnect() error
}

// ConfigStore persists the list of configured networks. LoadNetworks
// returns an empty SavedNetworks if nothing was saved yet.
type ConfigStore interface {
	LoadNetworks() (*SavedNetworks, error)
	SaveNetworks(saved *SavedNetworks) error
}
