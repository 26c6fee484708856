package wpa

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
	"sync"
)

const (
	service        = "fi.w1.wpa_supplicant1"
	path           = "/fi/w1/wpa_supplicant1"
	interfaceIface = "fi.w1.wpa_supplicant1.Interface"
	bssIface       = "fi.w1.wpa_supplicant1.BSS"

	// signals queued per subscriber before newer ones are dropped
	signalBuffer = 64
)

// Wpa is a connection to wpa_supplicant on the system bus.
type Wpa struct {
	conn       *dbus.Conn
	obj        dbus.BusObject
	clientsMtx sync.Mutex
	clients    map[uint32]*SignalClient
	nextClient uint32
}

func New() *Wpa {
	return &Wpa{
		clients: make(map[uint32]*SignalClient),
	}
}

func (w *Wpa) Start() error {
	conn, err := dbus.ConnectSystemBus(dbus.WithSignalHandler(&signalRouter{wpa: w}))
	if err != nil {
		return errors.Errorf("could not connect to system bus: %v", err)
	}

	w.conn = conn
	w.obj = conn.Object(service, path)

	return nil
}

func (w *Wpa) Stop() error {
	w.clientsMtx.Lock()
	for id, client := range w.clients {
		close(client.signals)
		delete(w.clients, id)
	}
	w.clientsMtx.Unlock()

	if w.conn == nil {
		return nil
	}

	err := w.conn.Close()
	if err != nil {
		return errors.Errorf("could not close system bus connection: %v", err)
	}

	return nil
}

func (w *Wpa) GetInterface(ifname string) (*Interface, error) {
	call := w.obj.Call("fi.w1.wpa_supplicant1.GetInterface", 0, ifname)
	if call.Err != nil {
		return nil, errors.Errorf("could not get interface: %v", call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return &Interface{
		wpa: w,
		obj: w.conn.Object(service, objPath),
	}, nil
}

// deliverSignal hands a signal to every client listening on its path and
// interface. Slow clients lose signals instead of blocking the bus.
func (w *Wpa) deliverSignal(iface, name string, signal *dbus.Signal) {
	w.clientsMtx.Lock()
	defer w.clientsMtx.Unlock()

	for _, client := range w.clients {
		if client.path != signal.Path || client.iface != iface {
			continue
		}

		select {
		case client.signals <- &Signal{Name: name, Body: signal.Body}:
		default:
		}
	}
}

func (w *Wpa) subscribe(objPath dbus.ObjectPath, iface string) (*SignalClient, error) {
	err := w.conn.AddMatchSignal(dbus.WithMatchObjectPath(objPath), dbus.WithMatchInterface(iface))
	if err != nil {
		return nil, errors.Errorf("could not add signal: %v", err)
	}

	signals := make(chan *Signal, signalBuffer)

	w.clientsMtx.Lock()
	client := &SignalClient{
		Signals: signals,
		Id:      w.nextClient,
		signals: signals,
		path:    objPath,
		iface:   iface,
		wpa:     w,
	}
	w.nextClient++
	w.clients[client.Id] = client
	w.clientsMtx.Unlock()

	return client, nil
}

func (w *Wpa) unsubscribe(client *SignalClient) {
	w.clientsMtx.Lock()
	if _, ok := w.clients[client.Id]; ok {
		delete(w.clients, client.Id)
		close(client.signals)
	}
	w.clientsMtx.Unlock()

	_ = w.conn.RemoveMatchSignal(dbus.WithMatchObjectPath(client.path), dbus.WithMatchInterface(client.iface))
}
