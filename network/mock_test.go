package network

import (
	"context"
	"github.com/the-lightning-land/wifid/station"
	"testing"
	"time"
)

func startMockStation(t *testing.T, aps []AccessPoint) (*MockNetwork, *station.Station) {
	t.Helper()

	mock := NewMockNetwork(&MockConfig{
		AccessPoints: aps,
		Latency:      time.Millisecond,
	})

	if err := mock.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s := station.New(&station.Config{Link: mock})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = s.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-s.Done()
		_ = mock.Stop()
	})

	return mock, s
}

func addNetwork(t *testing.T, ctx context.Context, client *station.Client, ssid, psk string) station.NetworkID {
	t.Helper()

	id, err := client.AddNetwork(ctx)
	if err != nil {
		t.Fatalf("AddNetwork: %v", err)
	}

	if err := client.SetNetworkSsid(ctx, id, ssid); err != nil {
		t.Fatalf("SetNetworkSsid: %v", err)
	}

	if psk != "" {
		if err := client.SetNetworkPsk(ctx, id, psk); err != nil {
			t.Fatalf("SetNetworkPsk: %v", err)
		}
	}

	return id
}

func TestMockSelectOutcomes(t *testing.T) {
	_, s := startMockStation(t, []AccessPoint{
		{Ssid: "home", Bssid: "aabbccddeeff", Psk: "secret", Signal: -40, Frequency: 2412},
		{Ssid: "cafe", Bssid: "001122334455", Signal: -70, Frequency: 5180},
	})
	client := s.Client()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cases := []struct {
		ssid     string
		psk      string
		expected station.SelectResult
	}{
		{"home", "wrong", station.SelectWrongPsk},
		{"nowhere", "", station.SelectNotFound},
		{"cafe", "", station.SelectSuccess},
		{"home", "secret", station.SelectSuccess},
	}

	for _, c := range cases {
		id := addNetwork(t, ctx, client, c.ssid, c.psk)

		result, err := client.SelectNetwork(ctx, id)
		if err != nil {
			t.Fatalf("SelectNetwork(%v): %v", c.ssid, err)
		}
		if result != c.expected {
			t.Fatalf("SelectNetwork(%v): expected %v, got %v", c.ssid, c.expected, result)
		}
	}

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.State != "completed" || status.Ssid != "home" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestMockScan(t *testing.T) {
	mock, s := startMockStation(t, []AccessPoint{
		{Ssid: "home", Psk: "secret"},
	})
	client := s.Client()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := client.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if first.Len() != 1 || first.At(0).Ssid != "home" || !first.At(0).Privacy {
		t.Fatalf("unexpected scan results: %+v", first.All())
	}

	mock.SetAccessPoints([]AccessPoint{{Ssid: "home"}, {Ssid: "cafe"}})

	second, err := client.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if second.Len() != 2 {
		t.Fatalf("expected 2 results, got %d", second.Len())
	}
	if first.Len() != 1 {
		t.Fatalf("earlier snapshot changed")
	}
}

func TestMockDropBroadcasts(t *testing.T) {
	mock, s := startMockStation(t, []AccessPoint{{Ssid: "home"}})
	client := s.Client()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	receiver := s.Subscribe()
	defer receiver.Cancel()

	id := addNetwork(t, ctx, client, "home", "")

	result, err := client.SelectNetwork(ctx, id)
	if err != nil || result != station.SelectSuccess {
		t.Fatalf("SelectNetwork: %v %v", result, err)
	}

	mock.Drop()

	for {
		b, err := receiver.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if b == station.Disconnected {
			break
		}
	}

	networks, err := client.Networks(ctx)
	if err != nil {
		t.Fatalf("Networks: %v", err)
	}
	if networks[0].Current {
		t.Fatalf("network should not be current after the link dropped")
	}
}

func TestMockRemovingCurrentNetworkDisconnects(t *testing.T) {
	_, s := startMockStation(t, []AccessPoint{{Ssid: "home"}})
	client := s.Client()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	receiver := s.Subscribe()
	defer receiver.Cancel()

	id := addNetwork(t, ctx, client, "home", "")

	result, err := client.SelectNetwork(ctx, id)
	if err != nil || result != station.SelectSuccess {
		t.Fatalf("SelectNetwork: %v %v", result, err)
	}

	if err := client.RemoveNetwork(ctx, id); err != nil {
		t.Fatalf("RemoveNetwork: %v", err)
	}

	for {
		b, err := receiver.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if b == station.Disconnected {
			break
		}
	}

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.State != "disconnected" {
		t.Fatalf("expected disconnected, got %v", status.State)
	}
}
