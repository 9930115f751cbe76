package audit

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one review action with before/after snapshots.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"size:64;index" json:"user_id"`
	Actor        string         `gorm:"size:255" json:"actor"`
	Action       string         `gorm:"size:32;index" json:"action"`
	ResourceType string         `gorm:"size:32;index" json:"resource_type"`
	ResourceID   string         `gorm:"size:64;index" json:"resource_id"`
	OldData      datatypes.JSON `json:"old_data,omitempty" swaggertype:"object"`
	NewData      datatypes.JSON `json:"new_data,omitempty" swaggertype:"object"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	UserAgent    string         `gorm:"size:255" json:"user_agent"`
	Description  string         `gorm:"type:text" json:"description"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
