package model

import "time"

type Order struct {
	ID           int64
	BillingPhone string
}

type OrderStatusEvent struct {
	OrderID    int64     `json:"order_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ReceivedAt time.Time `json:"-"`
}

// RecipientKind tells customer and admin dispatches apart in logs and hooks.
type RecipientKind string

const (
	Customer RecipientKind = "customer"
	Admin    RecipientKind = "admin"
)
