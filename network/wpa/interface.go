package wpa

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

// Interface is a network interface controlled by wpa_supplicant.
type Interface struct {
	wpa *Wpa
	obj dbus.BusObject
}

func (i *Interface) String() string {
	return string(i.obj.Path())
}

func (i *Interface) Scan() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.Scan", 0, map[string]interface{}{
		"Type": "active",
	})
	if call.Err != nil {
		return errors.Errorf("could not scan: %v", call.Err)
	}

	return nil
}

// Subscribe listens to all signals of this interface, such as ScanDone
// and PropertiesChanged.
func (i *Interface) Subscribe() (*SignalClient, error) {
	return i.wpa.subscribe(i.obj.Path(), interfaceIface)
}

func (i *Interface) BSSs() ([]*BSS, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.BSSs")
	if err != nil {
		return nil, errors.Errorf("could not get bsss: %v", err)
	}

	objectPaths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, errors.Errorf("could not convert result: %v", v)
	}

	var bsss []*BSS

	for _, objectPath := range objectPaths {
		bsss = append(bsss, &BSS{
			obj: i.wpa.conn.Object(service, objectPath),
		})
	}

	return bsss, nil
}

// CurrentBSS returns nil if the interface is not associated.
func (i *Interface) CurrentBSS() (*BSS, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.CurrentBSS")
	if err != nil {
		return nil, errors.Errorf("could not get current bss: %v", err)
	}

	objectPath, ok := v.Value().(dbus.ObjectPath)
	if !ok {
		return nil, errors.Errorf("could not convert result: %v", v)
	}

	if objectPath == "/" {
		return nil, nil
	}

	return &BSS{
		obj: i.wpa.conn.Object(service, objectPath),
	}, nil
}

func (i *Interface) State() (string, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.State")
	if err != nil {
		return "", errors.Errorf("could not get state: %v", err)
	}

	state, ok := v.Value().(string)
	if !ok {
		return "", errors.Errorf("could not convert state: %v", v)
	}

	return state, nil
}

func (i *Interface) AddNetwork(ssid string, psk string) (*Network, error) {
	args := map[string]interface{}{}

	if psk != "" {
		args["ssid"] = ssid
		args["psk"] = psk
	} else {
		args["ssid"] = ssid
		args["key_mgmt"] = "NONE"
	}

	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.AddNetwork", 0, args)
	if call.Err != nil {
		return nil, errors.Errorf("could not call: %v", call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	netObj := i.wpa.conn.Object(service, objPath)

	return &Network{
		wpa: i.wpa,
		obj: netObj,
	}, nil
}

func (i *Interface) SelectNetwork(net *Network) error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.SelectNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not select network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveNetwork(net *Network) error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.RemoveNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not remove network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveAllNetworks() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.RemoveAllNetworks", 0)
	if call.Err != nil {
		return errors.Errorf("could not remove all networks: %v", call.Err)
	}

	return nil
}

func (i *Interface) Disconnect() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.Disconnect", 0)
	if call.Err != nil {
		return errors.Errorf("could not disconnect: %v", call.Err)
	}

	return nil
}
