package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// Append writes entry inside tx so the audit row commits or rolls back with
// the write it describes.
func Append(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	data := entry.EventData
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode audit data: %w", err)
	}
	_, err = tx.Exec(ctx, `
INSERT INTO audit_logs (event_type, table_name, record_id, user_id, event_data)
VALUES ($1, $2, $3, $4, $5)
`, entry.EventType, entry.TableName, entry.RecordID, entry.UserID, raw)
	return err
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.AuditEntry, error) {
	const q = `
SELECT id::text, event_type, table_name, record_id::text, user_id, event_data, created_at
FROM audit_logs
WHERE (NULLIF($1, '')::uuid IS NULL OR record_id = NULLIF($1, '')::uuid)
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, f.RecordID, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var raw []byte
		if err := rows.Scan(&e.ID, &e.EventType, &e.TableName, &e.RecordID, &e.UserID, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.EventData); err != nil {
				return nil, fmt.Errorf("decode audit data id=%s: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
