package entities

import "time"

type AuditEventType string

const (
	AuditEventCatalog AuditEventType = "catalog"
	AuditEventReport  AuditEventType = "report"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CorrelationID string         `gorm:"size:36;index" json:"correlation_id"`
	EventType     AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action        string         `gorm:"size:100" json:"action"`      // e.g., "book_add", "book_undo"
	Description   string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType    string         `gorm:"size:50" json:"entity_type"`
	EntityKey     string         `gorm:"size:64;index" json:"entity_key,omitempty"` // ISBN for books
	Metadata      string         `gorm:"type:text" json:"metadata,omitempty"`       // JSON snapshot
	Status        AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg      string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
