package notifier

import (
	"context"
	"log/slog"

	"github.com/weblineafrica/order-sms/internal/gateway"
	"github.com/weblineafrica/order-sms/internal/message"
	"github.com/weblineafrica/order-sms/internal/model"
	"github.com/weblineafrica/order-sms/internal/orders"
	"github.com/weblineafrica/order-sms/internal/settings"
)

type SendClient interface {
	Send(ctx context.Context, phoneNumber, message string, orderID int64) gateway.Result
}

type (
	SentHook   func(ctx context.Context, ev model.OrderStatusEvent, to model.RecipientKind, response string)
	FailedHook func(ctx context.Context, ev model.OrderStatusEvent, to model.RecipientKind, res gateway.Result)
)

// Handler turns order status changes into customer and, optionally, admin
// SMS messages. It never returns errors: every outcome ends up in the log.
type Handler struct {
	orders   orders.Lookup
	settings settings.Provider
	client   SendClient

	onSent   SentHook
	onFailed FailedHook
}

func NewHandler(lookup orders.Lookup, provider settings.Provider, client SendClient) *Handler {
	return &Handler{
		orders:   lookup,
		settings: provider,
		client:   client,
	}
}

func (h *Handler) WithHooks(onSent SentHook, onFailed FailedHook) *Handler {
	h.onSent = onSent
	h.onFailed = onFailed
	return h
}

func (h *Handler) OnOrderStatusChanged(ctx context.Context, orderID int64, oldStatus, newStatus string) {
	h.Handle(ctx, model.OrderStatusEvent{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
}

func (h *Handler) Handle(ctx context.Context, ev model.OrderStatusEvent) {
	order, err := h.orders.GetOrder(ctx, ev.OrderID)
	if err != nil {
		slog.Error("order lookup failed", "order_id", ev.OrderID, "error", err)
		return
	}

	if order.BillingPhone == "" {
		slog.Warn("no phone number for order", "order_id", ev.OrderID)
		return
	}

	cfg, err := h.settings.Settings(ctx)
	if err != nil {
		slog.Error("sms settings unavailable", "order_id", ev.OrderID, "error", err)
		return
	}
	cfg = cfg.WithDefaults()

	h.dispatch(ctx, ev, model.Customer, order.BillingPhone, message.Render(cfg.MessageTemplate, ev))

	if cfg.AdminNotificationsEnabled && cfg.AdminPhone != "" {
		h.dispatch(ctx, ev, model.Admin, cfg.AdminPhone, message.Render(message.AdminTemplate, ev))
	}
}

func (h *Handler) dispatch(ctx context.Context, ev model.OrderStatusEvent, to model.RecipientKind, phoneNumber, text string) {
	res := h.client.Send(ctx, phoneNumber, text, ev.OrderID)

	if res.OK() {
		slog.Info("sms sent", "order_id", ev.OrderID, "recipient", to, "response", res.Body())
		if h.onSent != nil {
			h.onSent(ctx, ev, to, res.Body())
		}
		return
	}

	slog.Error("sms sending failed",
		"order_id", ev.OrderID,
		"recipient", to,
		"kind", res.Kind(),
		"error", res.Message(),
	)
	if h.onFailed != nil {
		h.onFailed(ctx, ev, to, res)
	}
}
