// internals/features/records/service/record_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"pesantren_backend/internals/constants"
	auditModel "pesantren_backend/internals/features/audit/model"
	auditService "pesantren_backend/internals/features/audit/service"
	"pesantren_backend/internals/features/records/registry"
	"pesantren_backend/internals/features/records/repository"
	authService "pesantren_backend/internals/features/users/auth/service"
	"pesantren_backend/internals/helpers/apperror"
)

// Meta: konteks request yang ikut dicatat di audit.
type Meta struct {
	RequestID string
	Actor     string
}

type RecordService struct {
	Repo  *repository.RecordRepository
	Audit *auditService.AuditService

	// StorePlainPassword: ikut menulis users.password_plain (default mati).
	StorePlainPassword bool
}

func NewRecordService(repo *repository.RecordRepository, audit *auditService.AuditService, storePlain bool) *RecordService {
	return &RecordService{Repo: repo, Audit: audit, StorePlainPassword: storePlain}
}

/* ===============================
   READ
=================================*/

func (s *RecordService) List(ctx context.Context, entity string, page *repository.Page) ([]repository.Record, error) {
	return s.Repo.List(ctx, entity, page)
}

func (s *RecordService) Get(ctx context.Context, entity string, id int64) (repository.Record, error) {
	return s.Repo.GetByID(ctx, entity, id)
}

func (s *RecordService) Schema(entity string) (registry.Schema, error) {
	e, ok := registry.Lookup(entity)
	if !ok {
		return registry.Schema{}, apperror.InvalidType(entity)
	}
	return e.Schema(), nil
}

/* ===============================
   WRITE
=================================*/

func (s *RecordService) Save(ctx context.Context, entity string, record repository.Record, meta Meta) (repository.SaveResult, error) {
	if _, ok := registry.Lookup(entity); !ok {
		return repository.SaveResult{}, apperror.InvalidType(entity)
	}
	if record == nil {
		record = repository.Record{}
	}

	if entity == registry.EntityUsers {
		prepared, err := s.prepareUser(record)
		if err != nil {
			return repository.SaveResult{}, err
		}
		record = prepared
	}

	res, err := s.Repo.Save(ctx, entity, record)
	if err != nil {
		return res, err
	}

	if len(res.Dropped) > 0 {
		logrus.WithFields(logrus.Fields{
			"entity":  entity,
			"dropped": res.Dropped,
			"reqid":   meta.RequestID,
		}).Debug("field tidak terdaftar dibuang")
	}

	action := auditModel.ActionUpdate
	if res.Created {
		action = auditModel.ActionCreate
	}
	if res.Created || res.Affected > 0 {
		s.Audit.Record(ctx, auditService.Entry{
			RequestID: meta.RequestID,
			Entity:    entity,
			Action:    action,
			RecordID:  res.ID,
			Actor:     meta.Actor,
			Payload:   auditPayload(entity, record),
		})
	}
	return res, nil
}

func (s *RecordService) Delete(ctx context.Context, entity string, id int64, meta Meta) (int64, error) {
	affected, err := s.Repo.Remove(ctx, entity, id)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.Audit.Record(ctx, auditService.Entry{
			RequestID: meta.RequestID,
			Entity:    entity,
			Action:    auditModel.ActionDelete,
			RecordID:  id,
			Actor:     meta.Actor,
		})
	}
	return affected, nil
}

// prepareUser: password dari client selalu plaintext → disimpan sebagai hash.
// Password kosong saat update = tidak diubah. User baru wajib punya password.
// Role harus salah satu constants.AllRoles.
func (s *RecordService) prepareUser(in repository.Record) (repository.Record, error) {
	out := make(repository.Record, len(in))
	for k, v := range in {
		out[k] = v
	}
	delete(out, "password_plain")

	_, hasID, err := repository.ParseID(out[registry.IDColumn])
	if err != nil {
		return nil, apperror.InvalidValue(registry.IDColumn, err)
	}

	// user baru wajib punya role; update boleh tanpa field role, tapi tidak boleh mengosongkannya
	if raw, present := out["role"]; present || !hasID {
		role, _ := raw.(string)
		if !constants.IsKnownRole(role) {
			return nil, apperror.InvalidValue("role", errors.New(constants.RoleError(role)))
		}
		out["role"] = constants.NormalizeRole(role)
	}

	plain, isString := out["password"].(string)
	if raw, present := out["password"]; present && raw != nil && !isString {
		return nil, apperror.InvalidValue("password", errors.New("must be a string"))
	}

	if strings.TrimSpace(plain) == "" {
		delete(out, "password")
		if !hasID {
			return nil, apperror.InvalidValue("password", errors.New("required for new user"))
		}
		return out, nil
	}

	out["password"] = authService.HashPassword(plain)
	if s.StorePlainPassword {
		out["password_plain"] = plain
	}
	return out, nil
}

// auditPayload: field terdaftar yang dikirim, tanpa field secret.
func auditPayload(entity string, record repository.Record) map[string]any {
	e, ok := registry.Lookup(entity)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		f, ok := e.Field(k)
		if !ok || f.Secret {
			continue
		}
		out[k] = v
	}
	return out
}
