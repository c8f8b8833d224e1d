package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/weblineafrica/order-sms/internal/model"
)

// MemoryOrderLookup serves orders from a map; useful for local runs and tests.
type MemoryOrderLookup struct {
	mu     sync.RWMutex
	orders map[int64]model.Order
}

func NewMemoryOrderLookup(orders ...model.Order) *MemoryOrderLookup {
	m := &MemoryOrderLookup{orders: make(map[int64]model.Order, len(orders))}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *MemoryOrderLookup) Put(o model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *MemoryOrderLookup) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	return o, nil
}
