package stationdb

import (
	"github.com/the-lightning-land/wifid/station"
	"testing"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	dir := t.TempDir()

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return db, dir
}

func TestLoadNetworksEmpty(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	saved, err := db.LoadNetworks()
	if err != nil {
		t.Fatalf("LoadNetworks: %v", err)
	}
	if len(saved.Networks) != 0 || saved.NextID != 0 {
		t.Fatalf("expected nothing saved, got %+v", saved)
	}
}

func TestSaveNetworksSurvivesReopen(t *testing.T) {
	db, dir := openTestDB(t)

	err := db.SaveNetworks(&station.SavedNetworks{
		NextID: 5,
		Networks: []*station.NetworkConfig{
			{ID: 0, Ssid: "home", Psk: "secret"},
			{ID: 3, Ssid: "cafe"},
		},
	})
	if err != nil {
		t.Fatalf("SaveNetworks: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	saved, err := db.LoadNetworks()
	if err != nil {
		t.Fatalf("LoadNetworks: %v", err)
	}
	if saved.NextID != 5 {
		t.Fatalf("expected next id 5, got %v", saved.NextID)
	}

	networks := saved.Networks
	if len(networks) != 2 {
		t.Fatalf("expected 2 networks, got %d", len(networks))
	}
	if *networks[0] != (station.NetworkConfig{ID: 0, Ssid: "home", Psk: "secret"}) {
		t.Fatalf("unexpected network %+v", networks[0])
	}
	if networks[1].ID != 3 || networks[1].Ssid != "cafe" || networks[1].Psk != "" {
		t.Fatalf("unexpected network %+v", networks[1])
	}
}

func TestSaveNetworksOverwrites(t *testing.T) {
	db, _ := openTestDB(t)
	defer db.Close()

	_ = db.SaveNetworks(&station.SavedNetworks{
		NextID:   2,
		Networks: []*station.NetworkConfig{{ID: 1, Ssid: "old"}},
	})

	if err := db.SaveNetworks(&station.SavedNetworks{NextID: 2}); err != nil {
		t.Fatalf("SaveNetworks: %v", err)
	}

	saved, err := db.LoadNetworks()
	if err != nil {
		t.Fatalf("LoadNetworks: %v", err)
	}
	if len(saved.Networks) != 0 {
		t.Fatalf("expected the list to be cleared, got %+v", saved.Networks)
	}
	if saved.NextID != 2 {
		t.Fatalf("expected the id counter to survive, got %v", saved.NextID)
	}
}
