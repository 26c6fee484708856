package main

import (
	"fmt"
	"github.com/jessevdk/go-flags"
	"github.com/the-lightning-land/wifid/network"
	"strings"
	"time"
)

const (
	defaultDataDir = "/var/lib/wifid"
	defaultNet     = "wpa"
)

type wpaConfig struct {
	Interface     string `long:"interface" description:"Wireless interface managed by wpa_supplicant"`
	NotFoundScans int    `long:"notfoundscans" description:"Completed scans without association after which a network counts as not found"`
}

type mockConfig struct {
	AccessPoints []string      `long:"ap" description:"Access point visible to the mock radio as ssid or ssid:psk, may be repeated"`
	Latency      time.Duration `long:"latency" description:"Delay of mock scan and association outcomes"`
}

type stationConfig struct {
	QueueSize       int           `long:"queuesize" description:"Number of requests that may wait for the station"`
	BroadcastBuffer int           `long:"broadcastbuffer" description:"Number of events buffered per subscriber before the oldest are dropped"`
	SelectTimeout   time.Duration `long:"selecttimeout" description:"Time after which a pending network selection counts as not found, 0 waits forever"`
}

type apiConfig struct {
	Listen       string        `long:"listen" description:"Address the HTTP api listens on"`
	MaxConns     int           `long:"maxconns" description:"Maximum number of concurrent api connections, 0 is unlimited"`
	ScanInterval time.Duration `long:"scaninterval" description:"Minimum time between two scans requested through the api"`
}

type profilingConfig struct {
	Listen string `long:"listen" description:"Start a profiling server listening on this address"`
}

type config struct {
	ShowVersion bool             `short:"v" long:"version" description:"Display version information and exit"`
	ConfigFile  string           `long:"configfile" description:"Path to an INI configuration file"`
	Debug       bool             `long:"debug" description:"Start in debug mode"`
	DataDir     string           `long:"datadir" description:"The directory to store wifid's data within"`
	Net         string           `long:"net" description:"The radio to drive" choice:"wpa" choice:"mock"`
	Wpa         *wpaConfig       `group:"wpa_supplicant" namespace:"wpa"`
	Mock        *mockConfig      `group:"Mock radio" namespace:"mock"`
	Station     *stationConfig   `group:"Station" namespace:"station"`
	Api         *apiConfig       `group:"API" namespace:"api"`
	Profiling   *profilingConfig `group:"Profiling" namespace:"profiling"`
}

func defaultConfig() *config {
	return &config{
		DataDir: defaultDataDir,
		Net:     defaultNet,
		Wpa: &wpaConfig{
			Interface:     "wlan0",
			NotFoundScans: 3,
		},
		Mock: &mockConfig{
			Latency: 500 * time.Millisecond,
		},
		Station: &stationConfig{
			QueueSize:       16,
			BroadcastBuffer: 32,
			SelectTimeout:   30 * time.Second,
		},
		Api: &apiConfig{
			Listen:       ":9000",
			MaxConns:     32,
			ScanInterval: 2 * time.Second,
		},
		Profiling: &profilingConfig{},
	}
}

// loadConfig starts with defaults, applies the config file if one was
// given and lets command line flags override everything.
func loadConfig() (*config, error) {
	preCfg := defaultConfig()

	_, err := flags.Parse(preCfg)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if preCfg.ConfigFile != "" {
		err := flags.IniParse(preCfg.ConfigFile, cfg)
		if err != nil {
			return nil, err
		}
	}

	_, err = flags.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// accessPoints parses the mock access points given as ssid or ssid:psk.
func (c *mockConfig) accessPoints() []network.AccessPoint {
	var aps []network.AccessPoint

	for i, ap := range c.AccessPoints {
		ssid, psk, _ := strings.Cut(ap, ":")

		aps = append(aps, network.AccessPoint{
			Ssid:      ssid,
			Psk:       psk,
			Bssid:     mockBssid(i),
			Signal:    -40 - 5*i,
			Frequency: 2412,
		})
	}

	return aps
}

func mockBssid(i int) string {
	return fmt.Sprintf("02:00:00:00:%02x:%02x", i>>8&0xff, i&0xff)
}
