package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository/audit"
	"storefront/internal/repository/product"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id, email, full_name, street, city, postcode, subtotal, delivery_total, total, status, payment_method, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	items, totals, err := domain.PriceLines(ctx, in.Lines, func(ctx context.Context, id string) (*domain.Product, error) {
		return product.Get(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	if !totals.Equal(in.Totals) {
		r.logger.Printf("order repo: catalog changed during checkout validated=%s current=%s", in.Totals.Total.StringFixed(2), totals.Total.StringFixed(2))
		return nil, &domain.MismatchError{Field: "total", Claimed: in.Totals.Total, Calculated: totals.Total, Err: domain.ErrTotalMismatch}
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
INSERT INTO orders (user_id, email, full_name, street, city, postcode, subtotal, delivery_total, total, status, payment_method)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', $10)
RETURNING `+orderColumns,
		in.UserID,
		in.Email,
		in.FullName,
		in.Address.Street,
		in.Address.City,
		in.Address.Postcode,
		totals.Subtotal,
		totals.Delivery,
		totals.Total,
		string(in.PaymentMethod),
	))
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].OrderID = o.ID
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, delivery_charge)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`, o.ID, items[i].ProductID, items[i].ProductName, items[i].ProductPrice, items[i].Quantity, items[i].DeliveryCharge,
		).Scan(&items[i].ID, &items[i].CreatedAt); err != nil {
			return nil, err
		}
	}

	if err := audit.Append(ctx, tx, domain.AuditEntry{
		EventType: domain.AuditOrderCreated,
		TableName: "orders",
		RecordID:  o.ID,
		UserID:    in.UserID,
		EventData: map[string]interface{}{
			"email":          o.Email,
			"total":          o.Total.StringFixed(2),
			"payment_method": string(o.PaymentMethod),
			"anonymous":      o.IsAnonymous(),
			"items":          len(items),
		},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	o.Items = items
	r.logger.Printf("order repo: create id=%s items=%d total=%s anonymous=%t", o.ID, len(items), o.Total.StringFixed(2), o.IsAnonymous())
	return o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := Get(ctx, r.pool, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
	}
	return o, err
}

func (r *postgresRepo) Items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, product_price, quantity, delivery_charge, created_at
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.Quantity, &it.DeliveryCharge, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
}

func (r *postgresRepo) List(ctx context.Context, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+`
FROM orders
WHERE ($1 = '' OR status = $1)
  AND ($2 = '' OR payment_method = $2)
  AND ($3 = '' OR lower(email) = lower($3))
ORDER BY created_at DESC
LIMIT $4 OFFSET $5
`, string(filter.Status), string(filter.PaymentMethod), filter.Email, limit, offset)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, actor *string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o, err := Transition(ctx, tx, id, from, to, actor)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: status id=%s %s->%s", id, from, to)
	return o, nil
}

func (r *postgresRepo) CountAnonymousSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE user_id IS NULL AND created_at > $1`, since).Scan(&n)
	return n, err
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// Get reads one order through q, which may be a pool or an open transaction.
func Get(ctx context.Context, q product.Querier, id string) (*domain.Order, error) {
	o, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// Transition moves an order from one status to another inside tx and appends
// the audit entry. It fails with ErrInvalidTransition when the order is no
// longer in status from.
func Transition(ctx context.Context, tx pgx.Tx, id string, from, to domain.OrderStatus, actor *string) (*domain.Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING `+orderColumns, string(to), id, string(from)))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, getErr := Get(ctx, tx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrInvalidTransition
	}

	if err := audit.Append(ctx, tx, domain.AuditEntry{
		EventType: domain.AuditOrderStatusUpdated,
		TableName: "orders",
		RecordID:  o.ID,
		UserID:    actor,
		EventData: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	}); err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status, method string
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Email,
		&o.FullName,
		&o.Address.Street,
		&o.Address.City,
		&o.Address.Postcode,
		&o.Subtotal,
		&o.DeliveryTotal,
		&o.Total,
		&status,
		&method,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(method)
	return &o, nil
}
