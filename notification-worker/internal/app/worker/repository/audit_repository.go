package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
)

type reminderAuditRepository struct {
	db *gorm.DB
}

func NewReminderAuditRepository(db *gorm.DB) ReminderAuditRepository {
	return &reminderAuditRepository{db: db}
}

func (r *reminderAuditRepository) Create(ctx context.Context, audit *entity.ReminderAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create reminder audit: %w", err)
	}
	return nil
}

func (r *reminderAuditRepository) ListByBooking(ctx context.Context, bookingID string) ([]entity.ReminderAudit, error) {
	var audits []entity.ReminderAudit

	result := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("sent_at").
		Find(&audits)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list reminder audits: %w", result.Error)
	}
	return audits, nil
}
