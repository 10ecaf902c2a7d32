package consumer

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"check-please/internal/notifications/app/core"
	"check-please/internal/xpkg/logger"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}
func (f *fakeAcknowledger) Reject(uint64, bool) error { return nil }

func TestProcessMsg(t *testing.T) {
	watchers := core.NewWatchers()
	s := NewSubscriber(watchers, logger.Nop())

	ch, cancel := watchers.Watch("ORD-42")
	defer cancel()

	ack := &fakeAcknowledger{}
	requeue, err := s.processMsg(amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"order_number":"ORD-42","old_status":"received","new_status":"cooking","changed_by":"chef_1"}`),
	})
	if err != nil {
		t.Fatalf("processMsg() error = %v", err)
	}
	if requeue {
		t.Error("requeue = true for a processed message")
	}
	if !ack.acked {
		t.Error("message was not acked")
	}

	select {
	case update := <-ch:
		if update.NewStatus != "cooking" {
			t.Errorf("NewStatus = %q, want cooking", update.NewStatus)
		}
	default:
		t.Error("watcher did not receive the update")
	}
}

func TestProcessMsgMalformed(t *testing.T) {
	s := NewSubscriber(core.NewWatchers(), logger.Nop())

	ack := &fakeAcknowledger{}
	requeue, err := s.processMsg(amqp.Delivery{Acknowledger: ack, Body: []byte("{broken")})
	if err == nil {
		t.Fatal("processMsg() accepted a malformed payload")
	}
	// Malformed payloads go to the DLX, never back on the queue.
	if requeue {
		t.Error("requeue = true for a malformed payload")
	}
	if ack.acked {
		t.Error("malformed message was acked")
	}
}

func TestWorkStopsWhenChannelCloses(t *testing.T) {
	s := NewSubscriber(core.NewWatchers(), logger.Nop())

	deliveries := make(chan amqp.Delivery)
	done := make(chan struct{})
	go func() {
		s.Work(context.Background(), deliveries)
		close(done)
	}()

	deliveries <- amqp.Delivery{
		Acknowledger: &fakeAcknowledger{},
		Body:         []byte(`{"order_number":"ORD-1","new_status":"ready"}`),
	}
	close(deliveries)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Work did not return after the delivery channel closed")
	}
}

func TestWorkStopsOnCancel(t *testing.T) {
	s := NewSubscriber(core.NewWatchers(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	deliveries := make(chan amqp.Delivery)
	done := make(chan struct{})
	go func() {
		s.Work(ctx, deliveries)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Work did not return after context cancel")
	}
}
