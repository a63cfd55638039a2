package connectivity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSubscribeReportsCurrentStateSynchronously(t *testing.T) {
	m := NewMonitor(nil, time.Minute, WithInitialState(true))

	var got []bool
	m.Subscribe(func(online bool) { got = append(got, online) })

	if len(got) != 1 || got[0] != true {
		t.Fatalf("expected immediate online notification, got %v", got)
	}
}

func TestEdgeDeduplication(t *testing.T) {
	m := NewMonitor(nil, time.Minute)

	var got []bool
	m.Subscribe(func(online bool) { got = append(got, online) })

	m.SetOnline(false) // already offline, no edge
	m.SetOnline(true)
	m.SetOnline(true) // repeated state, no edge
	m.SetOnline(false)
	m.SetOnline(false)

	want := []bool{false, true, false}
	if len(got) != len(want) {
		t.Fatalf("got %v notifications, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProbeDrivesState(t *testing.T) {
	var probeErr error
	m := NewMonitor(func(ctx context.Context) error { return probeErr }, time.Minute)

	if online := m.Probe(context.Background()); !online {
		t.Error("Probe with nil error should report online")
	}
	if !m.Online() {
		t.Error("Online() should be true after successful probe")
	}

	probeErr = errors.New("unreachable")
	if online := m.Probe(context.Background()); online {
		t.Error("Probe with error should report offline")
	}
	if m.Online() {
		t.Error("Online() should be false after failed probe")
	}
}

func TestForcedOfflineIgnoresProbe(t *testing.T) {
	m := NewMonitor(func(ctx context.Context) error { return nil }, time.Minute, ForcedOffline())

	m.Probe(context.Background())
	if m.Online() {
		t.Error("forced-offline monitor went online after probe")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	m := NewMonitor(nil, time.Minute)

	var a, b int
	m.Subscribe(func(bool) { a++ })
	m.Subscribe(func(bool) { b++ })

	m.SetOnline(true)
	if a != 2 || b != 2 {
		t.Errorf("a = %d, b = %d, want 2 each (initial + edge)", a, b)
	}
}
