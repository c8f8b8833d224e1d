package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/weblineafrica/order-sms/internal/model"
)

type PostgresOrderLookup struct {
	db *sql.DB
}

func NewPostgresOrderLookup(db *sql.DB) *PostgresOrderLookup {
	return &PostgresOrderLookup{db: db}
}

// Open connects through the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (r *PostgresOrderLookup) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var (
		o     model.Order
		phone sql.NullString
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, billing_phone
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	if err != nil {
		return model.Order{}, err
	}

	if phone.Valid {
		o.BillingPhone = phone.String
	}
	return o, nil
}
