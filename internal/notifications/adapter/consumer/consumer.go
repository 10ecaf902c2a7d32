package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"check-please/internal/notifications/app/core"
	"check-please/internal/notifications/domain/dto"
	"check-please/internal/xpkg/logger"
	"check-please/internal/xpkg/metrics"
)

// Subscriber consumes order-status updates and fans them out to watchers.
type Subscriber struct {
	watchers *core.Watchers
	mylog    logger.Logger

	wg sync.WaitGroup
}

func NewSubscriber(watchers *core.Watchers, mylog logger.Logger) *Subscriber {
	return &Subscriber{
		watchers: watchers,
		mylog:    mylog,
	}
}

// Work drains the delivery channel until the context is cancelled or the
// channel closes (broken connection, handled by the caller's reconnect loop).
func (s *Subscriber) Work(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			s.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			s.wg.Wait()
			return

		case msg, ok := <-deliveries:
			if !ok {
				s.wg.Wait()
				return
			}
			s.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer s.wg.Done()

				if requeue, err := s.processMsg(msg); err != nil {
					s.mylog.Action("process_msg_failed").Error("Failed to process status update", err)
					if nackErr := msg.Nack(false, requeue); nackErr != nil {
						s.mylog.Action("nack_failed").Error("Failed to nack", nackErr)
					}
				}
			}(msg)
		}
	}
}

// processMsg decodes one status update. The bool reports whether the message
// should be requeued; malformed payloads go to the dead letter exchange.
func (s *Subscriber) processMsg(msg amqp.Delivery) (bool, error) {
	var update dto.StatusUpdateMessage
	if err := json.Unmarshal(msg.Body, &update); err != nil {
		return false, fmt.Errorf("unmarshal status update: %w", err)
	}

	mylog := s.mylog.WithGroup("details").With("order_number", update.OrderNumber, "new_status", update.NewStatus)
	mylog.Action("notification_received").Info("Received status update for order")

	metrics.StatusUpdatesReceived.Inc()
	s.watchers.Notify(update)

	fmt.Printf("Order %s: status changed from '%s' to '%s' by %s.\n",
		update.OrderNumber, update.OldStatus, update.NewStatus, update.ChangedBy)

	if err := msg.Ack(false); err != nil {
		return true, fmt.Errorf("acknowledge message: %w", err)
	}
	return false, nil
}
