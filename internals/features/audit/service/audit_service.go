// internals/features/audit/service/audit_service.go
package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"pesantren_backend/internals/features/audit/model"
	"pesantren_backend/internals/features/audit/repository"
)

// Entry adalah satu kejadian tulis yang perlu dicatat.
type Entry struct {
	RequestID string
	Entity    string
	Action    string
	RecordID  int64
	Actor     string
	Payload   map[string]any
}

// AuditService menulis audit_logs. Gagal menulis audit hanya di-log, tidak
// pernah menggagalkan request yang sudah berhasil mengubah data.
type AuditService struct {
	Repo    *repository.AuditRepository
	Enabled bool
}

func NewAuditService(repo *repository.AuditRepository, enabled bool) *AuditService {
	return &AuditService{Repo: repo, Enabled: enabled}
}

func (s *AuditService) Record(ctx context.Context, e Entry) {
	if s == nil || !s.Enabled || s.Repo == nil {
		return
	}

	row := &model.AuditLogModel{
		Entity: e.Entity,
		Action: e.Action,
		Actor:  e.Actor,
	}
	if e.RecordID > 0 {
		id := e.RecordID
		row.RecordID = &id
	}
	if rid, err := uuid.Parse(e.RequestID); err == nil {
		row.RequestID = &rid
	}
	if len(e.Payload) > 0 {
		raw, err := sonic.Marshal(e.Payload)
		if err == nil {
			row.Payload = datatypes.JSON(raw)
		}
	}

	if err := s.Repo.Create(context.WithoutCancel(ctx), row); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"entity":    e.Entity,
			"action":    e.Action,
			"record_id": e.RecordID,
		}).Warn("⚠️ gagal menulis audit log")
	}
}

func (s *AuditService) History(ctx context.Context, entity string, recordID int64, limit int) ([]model.AuditLogModel, error) {
	return s.Repo.ListByRecord(ctx, entity, recordID, limit)
}
