package events

import (
	"testing"
	"time"
)

func TestHub_FanOutAndCancel(t *testing.T) {
	hub := NewHub(4, nil)

	sub1, cancel1 := hub.Subscribe()
	sub2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Publish(Event{Type: "challenge_created", ChallengeAddress: "0xabc"})

	for _, sub := range []<-chan Event{sub1, sub2} {
		select {
		case evt := <-sub:
			if evt.Type != "challenge_created" {
				t.Fatalf("type=%s want=challenge_created", evt.Type)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	cancel1()
	if hub.SubscriberCount() != 1 {
		t.Fatalf("subscribers=%d want=1", hub.SubscriberCount())
	}
	// Double cancel is a no-op.
	cancel1()

	hub.Publish(Event{Type: "withdrawal"})
	select {
	case evt := <-sub2:
		if evt.Type != "withdrawal" {
			t.Fatalf("type=%s want=withdrawal", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive event")
	}
}

func TestHub_DropsWhenFull(t *testing.T) {
	hub := NewHub(1, nil)
	sub, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(Event{Type: "a"})
	hub.Publish(Event{Type: "b"}) // dropped, buffer full

	evt := <-sub
	if evt.Type != "a" {
		t.Fatalf("type=%s want=a", evt.Type)
	}
	select {
	case evt := <-sub:
		t.Fatalf("unexpected second event %q", evt.Type)
	default:
	}
}
