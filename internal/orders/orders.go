package orders

import (
	"context"
	"errors"

	"github.com/weblineafrica/order-sms/internal/model"
)

var ErrOrderNotFound = errors.New("order not found")

type Lookup interface {
	GetOrder(ctx context.Context, id int64) (model.Order, error)
}
