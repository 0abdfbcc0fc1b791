package apiserver

import (
	"testing"
	"time"
)

func TestBroadcastDeliversToMatchingSubscriber(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1", nil)
	defer b.Unsubscribe(sub)

	b.BroadcastState("sess-1", map[string]any{"status": "running"})

	select {
	case event := <-sub.Channel:
		if event.Type != EventState || event.SessionID != "sess-1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestBroadcastFiltersBySessionID(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-A", nil)
	defer b.Unsubscribe(sub)

	b.BroadcastState("sess-B", map[string]any{"status": "running"})

	select {
	case event := <-sub.Channel:
		t.Fatalf("expected no event for a different session, got %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastFiltersByEventType(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("", []EventType{EventOutput})
	defer b.Unsubscribe(sub)

	b.BroadcastState("sess-1", map[string]any{"status": "running"})

	select {
	case event := <-sub.Channel:
		t.Fatalf("expected state events to be filtered out, got %+v", event)
	case <-time.After(100 * time.Millisecond):
	}

	b.BroadcastOutput("sess-1", "stdout", "hello")
	select {
	case event := <-sub.Channel:
		if event.Type != EventOutput || event.Data["content"] != "hello" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for output event")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("", nil)
	b.Unsubscribe(sub)

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub.Channel:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected channel to close after Unsubscribe")
		}
	}
}

func TestSubscriptionCountTracksActiveSubscribers(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	if b.SubscriptionCount() != 0 {
		t.Fatalf("expected 0 subscriptions initially")
	}
	sub := b.Subscribe("", nil)
	waitFor(t, func() bool { return b.SubscriptionCount() == 1 })

	b.Unsubscribe(sub)
	waitFor(t, func() bool { return b.SubscriptionCount() == 0 })
}

func TestCloseDisconnectsAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("", nil)
	b.Close()

	select {
	case _, ok := <-sub.Channel:
		if ok {
			t.Fatalf("expected channel closed after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Close to close subscriber channels")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}
