package models

import "time"

// Audit actions recorded after successful mutations.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionRegister       = "REGISTER"
	AuditActionAlumniCreate   = "ALUMNI_CREATE"
	AuditActionAlumniUpdate   = "ALUMNI_UPDATE"
	AuditActionAlumniDelete   = "ALUMNI_DELETE"
	AuditActionCurriculumAdd  = "CURRICULUM_CREATE"
	AuditActionCurriculumEdit = "CURRICULUM_STATUS"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
