package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/weblineafrica/order-sms/internal/model"
)

const DefaultSubject = "orders.status_changed"

type Sink func(ctx context.Context, ev model.OrderStatusEvent)

// Subscriber listens for order status changes published on NATS by the
// shop backend and forwards them to a sink.
type Subscriber struct {
	conn    *nats.Conn
	subject string
	sink    Sink

	sub *nats.Subscription
}

func NewSubscriber(conn *nats.Conn, subject string, sink Sink) *Subscriber {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Subscriber{conn: conn, subject: subject, sink: sink}
}

func (s *Subscriber) Start() error {
	sub, err := s.conn.Subscribe(s.subject, s.handleMsg)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.sub = sub
	slog.Info("subscribed to order events", "subject", s.subject)
	return nil
}

// Stop drains the subscription so messages already delivered are handled.
func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Drain()
}

func (s *Subscriber) handleMsg(msg *nats.Msg) {
	ev, err := Decode(msg.Data)
	if err != nil {
		slog.Warn("dropping malformed order event", "subject", msg.Subject, "error", err)
		return
	}
	s.sink(context.Background(), ev)
}

// Decode parses a status change payload of the form
// {"order_id":1042,"old_status":"processing","new_status":"completed"}.
func Decode(data []byte) (model.OrderStatusEvent, error) {
	var ev model.OrderStatusEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return model.OrderStatusEvent{}, fmt.Errorf("decode order event: %w", err)
	}
	if ev.OrderID <= 0 {
		return model.OrderStatusEvent{}, errors.New("order_id must be > 0")
	}
	ev.ReceivedAt = time.Now().UTC()
	return ev, nil
}
