package repositories

import (
	"context"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

// AuditRepository records supervisor-level mutations.
type AuditRepository interface {
	Record(ctx context.Context, event *models.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error)
}
