package main

import (
	"context"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/wifid/api"
	"github.com/the-lightning-land/wifid/connectivity"
	"github.com/the-lightning-land/wifid/network"
	"github.com/the-lightning-land/wifid/station"
	"github.com/the-lightning-land/wifid/stationdb"
	"golang.org/x/sync/errgroup"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"
)

var (
	// commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// wifidMain is the true entry point for wifid. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func wifidMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// station.db persistently stores the configured networks
	db, err := stationdb.Open(cfg.DataDir)
	if err != nil {
		return errors.Errorf("Could not open station.db: %v", err)
	}

	log.Infof("Opened station.db")

	defer func() {
		err := db.Close()
		if err != nil {
			log.Errorf("Could not close station.db: %v", err)
		} else {
			log.Info("Closed station.db.")
		}
	}()

	// The radio the station drives
	var radio network.Network

	switch cfg.Net {
	case "wpa":
		radio = network.NewWpaNetwork(&network.Config{
			Interface:     cfg.Wpa.Interface,
			NotFoundScans: cfg.Wpa.NotFoundScans,
			Logger:        log.New().WithField("system", "network"),
		})

		log.Infof("Created wpa_supplicant network on %v.", cfg.Wpa.Interface)
	case "mock":
		radio = network.NewMockNetwork(&network.MockConfig{
			AccessPoints: cfg.Mock.accessPoints(),
			Latency:      cfg.Mock.Latency,
			Logger:       log.New().WithField("system", "network"),
		})

		log.Infof("Created a mock network with %d access points.", len(cfg.Mock.AccessPoints))
	default:
		return errors.Errorf("Unknown networking type %v", cfg.Net)
	}

	err = radio.Start()
	if err != nil {
		return errors.Errorf("Could not start network: %v", err)
	}

	defer func() {
		err := radio.Stop()
		if err != nil {
			log.Errorf("Could not properly shut down network: %v", err)
		} else {
			log.Info("Stopped network.")
		}
	}()

	// central controller for everything the station does
	st := station.New(&station.Config{
		Link:            radio,
		Store:           db,
		Logger:          log.New().WithField("system", "station"),
		QueueSize:       cfg.Station.QueueSize,
		BroadcastBuffer: cfg.Station.BroadcastBuffer,
		SelectTimeout:   cfg.Station.SelectTimeout,
	})

	log.Infof("Created station.")

	reporter := connectivity.NewReporter(&connectivity.Config{
		Station: st,
		Logger:  log.New().WithField("system", "connectivity"),
	})

	a := api.New(&api.Config{
		Station:      st,
		Reporter:     reporter,
		Log:          log.New().WithField("system", "api"),
		MaxConns:     cfg.Api.MaxConns,
		ScanInterval: cfg.Api.ScanInterval,
	})

	log.Infof("Created API")

	lis, err := net.Listen("tcp", cfg.Api.Listen)
	if err != nil {
		return errors.Errorf("Could not listen on %v: %v", cfg.Api.Listen, err)
	}

	log.Infof("API listening on %v", lis.Addr())

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		sig := <-signals
		log.Info(sig)
		log.Info("Received an interrupt, stopping station...")

		err := st.Client().Shutdown(context.Background())
		if err != nil {
			log.Errorf("Could not shut down station: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// the station stopping takes everything else down with it
	g.Go(func() error {
		defer cancel()
		return st.Run(ctx)
	})

	g.Go(func() error {
		return reporter.Run(ctx)
	})

	g.Go(func() error {
		err := a.Serve(lis)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		return lis.Close()
	})

	// blocks until the station is shut down
	err = g.Wait()
	if err != nil && err != context.Canceled {
		return errors.Errorf("Failed running station: %v", err)
	}

	// finish with no error
	return nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := wifidMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running wifid.")
		}
		os.Exit(1)
	}
}
