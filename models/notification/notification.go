package notification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Notification statuses. Pending and in_progress are open; resolved and
// dismissed are terminal.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusDismissed  = "dismissed"
)

// Severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Notification is an operational alert row. The table is append-only apart
// from status transitions; resolve/dismiss stamp the acting admin.
type Notification struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Type     string `gorm:"type:varchar(100);not null;index" json:"type"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Message  string `gorm:"type:text" json:"message"`
	Severity string `gorm:"type:varchar(50);not null;default:medium;index" json:"severity"`
	Status   string `gorm:"type:varchar(50);not null;default:pending;index" json:"status"`

	VendorID *uint   `gorm:"index" json:"vendor_id,omitempty"`
	OrderID  *string `gorm:"type:varchar(255);index" json:"order_id,omitempty"`

	Metadata JSONMap `gorm:"type:json" json:"metadata,omitempty"`

	ResolvedBy      *uint      `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes *string    `gorm:"type:text" json:"resolution_notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// StatusRank orders statuses for listing: open work first.
func StatusRank(status string) int {
	switch status {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusResolved:
		return 2
	case StatusDismissed:
		return 3
	default:
		return 4
	}
}

// SeverityRank orders severities for listing: most urgent first.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// PriorityOrderSQL is the ORDER BY expression for notification listings:
// status rank, then severity rank, then newest first.
const PriorityOrderSQL = `CASE status WHEN 'pending' THEN 0 WHEN 'in_progress' THEN 1 WHEN 'resolved' THEN 2 WHEN 'dismissed' THEN 3 ELSE 4 END, ` +
	`CASE severity WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END, ` +
	`created_at DESC`

// IsTerminal reports whether the status can no longer change.
func IsTerminal(status string) bool {
	return status == StatusResolved || status == StatusDismissed
}

// IsValidSeverity reports whether s is one of the severities.
func IsValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// JSONMap stores a free-form metadata blob in a JSON column so it works
// on both postgres and the sqlite test driver.
type JSONMap map[string]interface{}

// Scan implements the Scanner interface for database deserialization
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

// Value implements the driver Valuer interface for database serialization
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
