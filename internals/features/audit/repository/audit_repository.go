package repository

import (
	"context"

	"gorm.io/gorm"

	"pesantren_backend/internals/features/audit/model"
)

type AuditRepository struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *model.AuditLogModel) error {
	return r.DB.WithContext(ctx).Create(log).Error
}

// ListByRecord: riwayat perubahan satu record, terbaru dulu.
func (r *AuditRepository) ListByRecord(ctx context.Context, entity string, recordID int64, limit int) ([]model.AuditLogModel, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []model.AuditLogModel
	err := r.DB.WithContext(ctx).
		Where("audit_log_entity = ? AND audit_log_record_id = ?", entity, recordID).
		Order("audit_log_id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
