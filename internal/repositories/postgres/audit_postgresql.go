package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
)

type auditPostgreSQL struct {
	db *gorm.DB
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &auditPostgreSQL{db: db}
}

func (r *auditPostgreSQL) Record(ctx context.Context, event *models.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

func (r *auditPostgreSQL) ListRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var events []*models.AuditEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}
