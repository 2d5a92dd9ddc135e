package domain

import "time"

const (
	AuditOrderCreated         = "order_created"
	AuditOrderStatusUpdated   = "order_status_updated"
	AuditPaymentCreated       = "payment_created"
	AuditPaymentStatusUpdated = "payment_status_updated"
)

// AuditEntry is an append-only record of a write. UserID is nil for guests.
type AuditEntry struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"eventType"`
	TableName string                 `json:"tableName"`
	RecordID  string                 `json:"recordId"`
	UserID    *string                `json:"userId,omitempty"`
	EventData map[string]interface{} `json:"eventData"`
	CreatedAt time.Time              `json:"createdAt"`
}
