package wpa

import (
	"github.com/godbus/dbus/v5"
	"strings"
)

const (
	SignalScanDone          = "ScanDone"
	SignalPropertiesChanged = "PropertiesChanged"
	SignalBSSAdded          = "BSSAdded"
)

// Signal is a wpa_supplicant signal with its interface prefix stripped.
type Signal struct {
	Name string
	Body []interface{}
}

// signalRouter receives every signal of the bus connection and passes
// supplicant signals on to the subscribed clients.
type signalRouter struct {
	wpa *Wpa
}

var _ dbus.SignalHandler = (*signalRouter)(nil)

func (r *signalRouter) DeliverSignal(iface, name string, signal *dbus.Signal) {
	if !strings.HasPrefix(iface, service) {
		return
	}

	r.wpa.deliverSignal(iface, name, signal)
}

type SignalClient struct {
	Signals <-chan *Signal
	Id      uint32
	signals chan *Signal
	path    dbus.ObjectPath
	iface   string
	wpa     *Wpa
}

func (c *SignalClient) Cancel() {
	c.wpa.unsubscribe(c)
}

// ScanDone reports whether the signal is a completed scan and whether it succeeded.
func (s *Signal) ScanDone() (success bool, ok bool) {
	if s.Name != SignalScanDone || len(s.Body) == 0 {
		return false, false
	}

	success, ok = s.Body[0].(bool)
	return success, ok
}

// State returns the new interface state carried by a PropertiesChanged signal.
func (s *Signal) State() (string, bool) {
	if s.Name != SignalPropertiesChanged || len(s.Body) == 0 {
		return "", false
	}

	props, ok := s.Body[0].(map[string]dbus.Variant)
	if !ok {
		return "", false
	}

	val, ok := props["State"]
	if !ok {
		return "", false
	}

	state, ok := val.Value().(string)
	return state, ok
}
