package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditUserDeleted      AuditAction = "user.deleted"
	AuditWhitelistAdded   AuditAction = "whitelist.added"
	AuditFileDeleted      AuditAction = "file.deleted"
	AuditResultPublished  AuditAction = "result.published"
	AuditSupervisorExport AuditAction = "supervisor.export"
)

// AuditEvent records a supervisor-level mutation. Details is a free-form
// JSON document whose shape depends on the action.
type AuditEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Action    AuditAction    `json:"action" gorm:"not null;size:50;index"`
	ActorID   uint           `json:"actor_id" gorm:"not null;index"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
