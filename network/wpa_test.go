package network

import (
	"github.com/godbus/dbus/v5"
	"github.com/the-lightning-land/wifid/network/wpa"
	"github.com/the-lightning-land/wifid/station"
	"reflect"
	"testing"
)

func stateSignal(state string) *wpa.Signal {
	return &wpa.Signal{
		Name: wpa.SignalPropertiesChanged,
		Body: []interface{}{map[string]dbus.Variant{
			"State": dbus.MakeVariant(state),
		}},
	}
}

func scanDoneSignal(success bool) *wpa.Signal {
	return &wpa.Signal{
		Name: wpa.SignalScanDone,
		Body: []interface{}{success},
	}
}

func pendingWpaNetwork(state string) *WpaNetwork {
	n := NewWpaNetwork(&Config{Interface: "wlan0", NotFoundScans: 2})
	n.association.pending = true
	n.association.state = state
	return n
}

func TestWpaSignalsConnected(t *testing.T) {
	n := pendingWpaNetwork("scanning")

	for _, s := range []string{"associating", "4way_handshake"} {
		if events := n.handleSignal(stateSignal(s)); len(events) != 0 {
			t.Fatalf("unexpected events for %v: %v", s, events)
		}
	}

	events := n.handleSignal(stateSignal("completed"))
	if !reflect.DeepEqual(events, []station.LinkEvent{station.LinkConnected}) {
		t.Fatalf("unexpected events %v", events)
	}

	events = n.handleSignal(stateSignal("disconnected"))
	if !reflect.DeepEqual(events, []station.LinkEvent{station.LinkDisconnected}) {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestWpaSignalsWrongPsk(t *testing.T) {
	n := pendingWpaNetwork("associated")

	n.handleSignal(stateSignal("4way_handshake"))

	events := n.handleSignal(stateSignal("disconnected"))
	if !reflect.DeepEqual(events, []station.LinkEvent{station.LinkWrongPsk}) {
		t.Fatalf("unexpected events %v", events)
	}

	if n.association.pending {
		t.Fatalf("association should be resolved")
	}
}

func TestWpaSignalsNotFound(t *testing.T) {
	n := pendingWpaNetwork("scanning")

	events := n.handleSignal(scanDoneSignal(true))
	if !reflect.DeepEqual(events, []station.LinkEvent{station.LinkScanDone}) {
		t.Fatalf("unexpected events %v", events)
	}

	events = n.handleSignal(scanDoneSignal(false))
	expected := []station.LinkEvent{station.LinkScanFailed, station.LinkNetworkNotFound}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("expected %v, got %v", expected, events)
	}

	// further scans are plain scans
	events = n.handleSignal(scanDoneSignal(true))
	if !reflect.DeepEqual(events, []station.LinkEvent{station.LinkScanDone}) {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestWpaScansWhileAssociatingAreNotCounted(t *testing.T) {
	n := pendingWpaNetwork("associating")

	for i := 0; i < 3; i++ {
		n.handleSignal(scanDoneSignal(true))
	}

	if !n.association.pending || n.association.scans != 0 {
		t.Fatalf("scans during association must not count, got %d", n.association.scans)
	}
}
