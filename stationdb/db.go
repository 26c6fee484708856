package stationdb

import (
	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

const (
	dbFilename       = "station.db"
	dbFilePermission = 0600
)

var (
	settingsBucket = []byte("settings")
	networksKey    = []byte("networks")
)

// DB persistently stores the configured networks of the station
type DB struct {
	*bbolt.DB
}

func Open(dataDir string) (*DB, error) {
	err := os.MkdirAll(dataDir, 0700)
	if err != nil {
		return nil, errors.Errorf("could not create data dir %v: %v", dataDir, err)
	}

	path := filepath.Join(dataDir, dbFilename)

	bdb, err := bbolt.Open(path, dbFilePermission, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Errorf("could not open %v: %v", path, err)
	}

	return &DB{DB: bdb}, nil
}
