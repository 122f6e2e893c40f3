package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pesantren_backend/internals/databases/dbtest"
	auditModel "pesantren_backend/internals/features/audit/model"
	auditRepo "pesantren_backend/internals/features/audit/repository"
	auditService "pesantren_backend/internals/features/audit/service"
	"pesantren_backend/internals/features/records/repository"
	authService "pesantren_backend/internals/features/users/auth/service"
	"pesantren_backend/internals/helpers/apperror"
)

func setup(t *testing.T, storePlain bool) (*RecordService, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	audit := auditService.NewAuditService(auditRepo.NewAuditRepository(db), true)
	return NewRecordService(repository.NewRecordRepository(db), audit, storePlain), db
}

type userRow struct {
	Password      string
	PasswordPlain *string
}

func readUser(t *testing.T, db *gorm.DB, id int64) userRow {
	t.Helper()
	var row userRow
	require.NoError(t, db.Raw(`SELECT password, password_plain FROM users WHERE id = ?`, id).Scan(&row).Error)
	return row
}

func TestSaveUserHashesPassword(t *testing.T) {
	svc, db := setup(t, false)
	ctx := context.Background()

	res, err := svc.Save(ctx, "users", repository.Record{
		"username": "ustadz1", "password": "bismillah", "password_plain": "bocor", "role": "ustadz",
	}, Meta{Actor: "admin"})
	require.NoError(t, err)

	row := readUser(t, db, res.ID)
	assert.Equal(t, authService.HashPassword("bismillah"), row.Password)
	assert.Nil(t, row.PasswordPlain)

	got, err := svc.Get(ctx, "users", res.ID)
	require.NoError(t, err)
	assert.NotContains(t, got, "password")
}

func TestSaveUserPlainMirrorIsOptIn(t *testing.T) {
	svc, db := setup(t, true)

	res, err := svc.Save(context.Background(), "users", repository.Record{"username": "u2", "password": "abc", "role": "ustadz"}, Meta{})
	require.NoError(t, err)

	row := readUser(t, db, res.ID)
	require.NotNil(t, row.PasswordPlain)
	assert.Equal(t, "abc", *row.PasswordPlain)
}

func TestUpdateUserBlankPasswordKeepsHash(t *testing.T) {
	svc, db := setup(t, false)
	ctx := context.Background()

	res, err := svc.Save(ctx, "users", repository.Record{"username": "u3", "password": "lama", "role": "pengurus"}, Meta{})
	require.NoError(t, err)

	_, err = svc.Save(ctx, "users", repository.Record{"id": res.ID, "password": "", "role": "admin"}, Meta{})
	require.NoError(t, err)

	assert.Equal(t, authService.HashPassword("lama"), readUser(t, db, res.ID).Password)
	got, err := svc.Get(ctx, "users", res.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got["role"])
}

func TestNewUserRequiresPassword(t *testing.T) {
	svc, _ := setup(t, false)

	_, err := svc.Save(context.Background(), "users", repository.Record{"username": "u4", "role": "admin"}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidValue)

	_, err = svc.Save(context.Background(), "users", repository.Record{"username": "u4", "password": 123, "role": "admin"}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidValue)
}

func TestSaveUserRoleMustBeKnown(t *testing.T) {
	svc, _ := setup(t, false)
	ctx := context.Background()

	_, err := svc.Save(ctx, "users", repository.Record{"username": "u5", "password": "x", "role": "root"}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidValue)

	// tanpa role → tidak bisa login dengan role kosong
	_, err = svc.Save(ctx, "users", repository.Record{"username": "u5", "password": "x"}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidValue)

	res, err := svc.Save(ctx, "users", repository.Record{"username": "u5", "password": "x", "role": "Bendahara"}, Meta{})
	require.NoError(t, err)
	got, err := svc.Get(ctx, "users", res.ID)
	require.NoError(t, err)
	assert.Equal(t, "bendahara", got["role"])

	// update tanpa role tetap jalan; mengosongkan role ditolak
	_, err = svc.Save(ctx, "users", repository.Record{"id": res.ID, "fullname": "Ust. Hasan"}, Meta{})
	require.NoError(t, err)
	_, err = svc.Save(ctx, "users", repository.Record{"id": res.ID, "role": ""}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidValue)
	_, err = svc.Save(ctx, "users", repository.Record{"id": res.ID, "role": nil}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidValue)
}

func TestSaveAndDeleteAreAudited(t *testing.T) {
	svc, db := setup(t, false)
	ctx := context.Background()
	meta := Meta{Actor: "admin"}

	res, err := svc.Save(ctx, "kamar", repository.Record{"nama_kamar": "A1", "kapasitas": 10, "asal": "x"}, meta)
	require.NoError(t, err)
	_, err = svc.Save(ctx, "kamar", repository.Record{"id": res.ID, "kapasitas": 12}, meta)
	require.NoError(t, err)
	// update id yang tidak ada tidak dicatat
	_, err = svc.Save(ctx, "kamar", repository.Record{"id": 999, "kapasitas": 1}, meta)
	require.NoError(t, err)

	n, err := svc.Delete(ctx, "kamar", res.ID, meta)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = svc.Delete(ctx, "kamar", res.ID, meta)
	require.NoError(t, err)
	assert.Zero(t, n)

	var logs []auditModel.AuditLogModel
	require.NoError(t, db.Order("audit_log_id").Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, []string{"create", "update", "delete"}, []string{logs[0].Action, logs[1].Action, logs[2].Action})
	assert.Equal(t, "admin", logs[0].Actor)
	assert.JSONEq(t, `{"nama_kamar":"A1","kapasitas":10}`, string(logs[0].Payload))
}

func TestUnknownEntity(t *testing.T) {
	svc, _ := setup(t, false)

	_, err := svc.Save(context.Background(), "hacker", repository.Record{}, Meta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidType)

	_, err = svc.Schema("hacker")
	assert.ErrorIs(t, err, apperror.ErrInvalidType)

	sch, err := svc.Schema("kamar")
	require.NoError(t, err)
	assert.Equal(t, "kamar", sch.Name)
}
