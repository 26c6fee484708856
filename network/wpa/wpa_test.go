package wpa

import (
	"github.com/godbus/dbus/v5"
	"testing"
)

func TestParseBss(t *testing.T) {
	bss, err := parseBss(map[string]dbus.Variant{
		"SSID":      dbus.MakeVariant([]byte("home")),
		"BSSID":     dbus.MakeVariant([]byte{0xaa, 0xbb, 0xcc, 0x00, 0x11, 0x22}),
		"Signal":    dbus.MakeVariant(int16(-52)),
		"Frequency": dbus.MakeVariant(uint16(2437)),
		"Privacy":   dbus.MakeVariant(true),
	})
	if err != nil {
		t.Fatalf("parseBss: %v", err)
	}

	if bss.Ssid != "home" || bss.Bssid != "aabbcc001122" {
		t.Fatalf("unexpected bss: %+v", bss)
	}
	if bss.Signal != -52 || bss.Frequency != 2437 || !bss.Privacy {
		t.Fatalf("unexpected optional properties: %+v", bss)
	}
}

func TestParseBssMissingSsid(t *testing.T) {
	_, err := parseBss(map[string]dbus.Variant{
		"BSSID": dbus.MakeVariant([]byte{0xaa}),
	})
	if err == nil {
		t.Fatalf("expected an error for a missing SSID")
	}
}

func TestSignalScanDone(t *testing.T) {
	s := &Signal{Name: SignalScanDone, Body: []interface{}{true}}

	success, ok := s.ScanDone()
	if !ok || !success {
		t.Fatalf("expected successful scan, got %v %v", success, ok)
	}

	other := &Signal{Name: SignalBSSAdded, Body: []interface{}{true}}
	if _, ok := other.ScanDone(); ok {
		t.Fatalf("BSSAdded is not a scan completion")
	}
}

func TestSignalState(t *testing.T) {
	s := &Signal{
		Name: SignalPropertiesChanged,
		Body: []interface{}{map[string]dbus.Variant{
			"State": dbus.MakeVariant("4way_handshake"),
		}},
	}

	state, ok := s.State()
	if !ok || state != "4way_handshake" {
		t.Fatalf("unexpected state %q %v", state, ok)
	}

	unrelated := &Signal{
		Name: SignalPropertiesChanged,
		Body: []interface{}{map[string]dbus.Variant{
			"Scanning": dbus.MakeVariant(true),
		}},
	}
	if _, ok := unrelated.State(); ok {
		t.Fatalf("expected no state")
	}
}

func TestDeliverSignalRoutesByPath(t *testing.T) {
	w := New()

	matching := &SignalClient{Id: 0, signals: make(chan *Signal, 1), path: "/a", iface: interfaceIface, wpa: w}
	other := &SignalClient{Id: 1, signals: make(chan *Signal, 1), path: "/b", iface: interfaceIface, wpa: w}
	w.clients[matching.Id] = matching
	w.clients[other.Id] = other

	w.deliverSignal(interfaceIface, SignalScanDone, &dbus.Signal{Path: "/a", Body: []interface{}{true}})

	select {
	case s := <-matching.signals:
		if s.Name != SignalScanDone {
			t.Fatalf("unexpected signal %v", s.Name)
		}
	default:
		t.Fatalf("expected a signal on the matching client")
	}

	select {
	case s := <-other.signals:
		t.Fatalf("unexpected signal %v on other path", s.Name)
	default:
	}
}

func TestSignalRouterIgnoresForeignInterfaces(t *testing.T) {
	w := New()
	client := &SignalClient{Id: 0, signals: make(chan *Signal, 2), path: "/a", iface: "org.freedesktop.DBus", wpa: w}
	w.clients[client.Id] = client

	router := &signalRouter{wpa: w}
	router.DeliverSignal("org.freedesktop.DBus", "NameOwnerChanged", &dbus.Signal{Path: "/a"})

	select {
	case s := <-client.signals:
		t.Fatalf("unexpected signal %v", s.Name)
	default:
	}
}
