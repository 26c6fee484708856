package stationdb

import (
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wifid/station"
)

var _ station.ConfigStore = (*DB)(nil)

func (db *DB) LoadNetworks() (*station.SavedNetworks, error) {
	saved := &station.SavedNetworks{}

	_, err := db.getJSON(settingsBucket, networksKey, saved)
	if err != nil {
		return nil, errors.Errorf("could not get networks: %v", err)
	}

	return saved, nil
}

func (db *DB) SaveNetworks(saved *station.SavedNetworks) error {
	doc := station.SavedNetworks{}
	if saved != nil {
		doc = *saved
	}

	if doc.Networks == nil {
		doc.Networks = []*station.NetworkConfig{}
	}

	err := db.setJSON(settingsBucket, networksKey, &doc)
	if err != nil {
		return errors.Errorf("could not set networks: %v", err)
	}

	return nil
}
