package core

import (
	"testing"

	"check-please/internal/notifications/domain/dto"
)

func TestWatchReceivesOwnOrderOnly(t *testing.T) {
	w := NewWatchers()

	ch1, cancel1 := w.Watch("ORD-001")
	defer cancel1()
	ch2, cancel2 := w.Watch("ORD-002")
	defer cancel2()

	w.Notify(dto.StatusUpdateMessage{OrderNumber: "ORD-001", NewStatus: "cooking"})

	select {
	case msg := <-ch1:
		if msg.NewStatus != "cooking" {
			t.Errorf("NewStatus = %q, want cooking", msg.NewStatus)
		}
	default:
		t.Fatal("watcher for ORD-001 got nothing")
	}

	select {
	case msg := <-ch2:
		t.Errorf("watcher for ORD-002 got %+v", msg)
	default:
	}
}

func TestNotifyFansOut(t *testing.T) {
	w := NewWatchers()
	ch1, cancel1 := w.Watch("ORD-001")
	defer cancel1()
	ch2, cancel2 := w.Watch("ORD-001")
	defer cancel2()

	w.Notify(dto.StatusUpdateMessage{OrderNumber: "ORD-001", NewStatus: "ready"})

	for i, ch := range []<-chan dto.StatusUpdateMessage{ch1, ch2} {
		select {
		case <-ch:
		default:
			t.Errorf("watcher %d got nothing", i)
		}
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	w := NewWatchers()
	ch, cancel := w.Watch("ORD-001")
	cancel()

	w.Notify(dto.StatusUpdateMessage{OrderNumber: "ORD-001", NewStatus: "ready"})

	select {
	case msg := <-ch:
		t.Errorf("cancelled watcher got %+v", msg)
	default:
	}
}

func TestNotifySkipsFullWatcher(t *testing.T) {
	w := NewWatchers()
	_, cancel := w.Watch("ORD-001")
	defer cancel()

	// Channel capacity is 8; pushing more must not block the notifier.
	for i := 0; i < 20; i++ {
		w.Notify(dto.StatusUpdateMessage{OrderNumber: "ORD-001", NewStatus: "cooking"})
	}
}
