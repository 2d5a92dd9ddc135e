package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository/audit"
	orderrepo "storefront/internal/repository/order"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id::text, order_id::text, payment_method, payment_id, status, amount, currency, provider_details, created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*Result, error) {
	details, err := encodeDetails(in.ProviderDetails)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p, err := scanPayment(tx.QueryRow(ctx, `
INSERT INTO payments (order_id, payment_method, payment_id, status, amount, currency, provider_details)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+paymentColumns,
		in.OrderID,
		string(in.PaymentMethod),
		in.PaymentID,
		string(in.Status),
		in.Amount,
		in.Currency,
		details,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrAlreadyExists
			case "23503":
				return nil, domain.ErrNotFound
			}
		}
		r.logger.Printf("payment repo: create order=%s error=%v", in.OrderID, err)
		return nil, err
	}

	if err := audit.Append(ctx, tx, domain.AuditEntry{
		EventType: domain.AuditPaymentCreated,
		TableName: "payments",
		RecordID:  p.ID,
		UserID:    in.Actor,
		EventData: map[string]interface{}{
			"order_id":       p.OrderID,
			"amount":         p.Amount.StringFixed(2),
			"payment_method": string(p.PaymentMethod),
			"status":         string(p.Status),
		},
	}); err != nil {
		return nil, err
	}

	res := &Result{Payment: p}
	if p.Status == domain.PaymentStatusCompleted {
		if res.PaidOrder, err = markOrderPaid(ctx, tx, p.OrderID, in.Actor); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("payment repo: create id=%s order=%s method=%s status=%s", p.ID, p.OrderID, p.PaymentMethod, p.Status)
	return res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *postgresRepo) GetByProvider(ctx context.Context, method domain.PaymentMethod, providerID string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payment_method = $1 AND payment_id = $2`, string(method), providerID)
}

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+`
FROM payments
WHERE order_id = $1
ORDER BY created_at, id
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*Result, error) {
	details, err := encodeDetails(in.ProviderDetails)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p, err := scanPayment(tx.QueryRow(ctx, `
UPDATE payments
SET status = $1,
    provider_details = provider_details || $2::jsonb,
    updated_at = now()
WHERE id = $3 AND status = $4
RETURNING `+paymentColumns, string(in.To), details, in.ID, string(in.From)))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, getErr := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, in.ID)); getErr != nil {
			if errors.Is(getErr, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, getErr
		}
		return nil, domain.ErrInvalidTransition
	}

	res := &Result{Payment: p}
	if in.From != in.To {
		if err := audit.Append(ctx, tx, domain.AuditEntry{
			EventType: domain.AuditPaymentStatusUpdated,
			TableName: "payments",
			RecordID:  p.ID,
			UserID:    in.Actor,
			EventData: map[string]interface{}{
				"order_id": p.OrderID,
				"from":     string(in.From),
				"to":       string(in.To),
			},
		}); err != nil {
			return nil, err
		}
		if in.To == domain.PaymentStatusCompleted {
			if res.PaidOrder, err = markOrderPaid(ctx, tx, p.OrderID, in.Actor); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("payment repo: status id=%s %s->%s order_paid=%t", p.ID, in.From, in.To, res.PaidOrder != nil)
	return res, nil
}

func (r *postgresRepo) getOne(ctx context.Context, q string, args ...any) (*domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// markOrderPaid advances a pending order to paid. Orders already past pending
// are left as they are.
func markOrderPaid(ctx context.Context, tx pgx.Tx, orderID string, actor *string) (*domain.Order, error) {
	o, err := orderrepo.Transition(ctx, tx, orderID, domain.OrderStatusPending, domain.OrderStatusPaid, actor)
	if errors.Is(err, domain.ErrInvalidTransition) {
		return nil, nil
	}
	return o, err
}

func encodeDetails(details map[string]interface{}) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode provider details: %w", err)
	}
	return raw, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var method, status string
	var details []byte
	if err := row.Scan(
		&p.ID,
		&p.OrderID,
		&method,
		&p.PaymentID,
		&status,
		&p.Amount,
		&p.Currency,
		&details,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.PaymentMethod = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &p.ProviderDetails); err != nil {
			return nil, fmt.Errorf("decode provider details id=%s: %w", p.ID, err)
		}
	}
	return &p, nil
}
