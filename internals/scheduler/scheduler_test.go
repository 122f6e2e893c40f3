package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pesantren_backend/internals/configs"
	"pesantren_backend/internals/databases/dbtest"
	auditModel "pesantren_backend/internals/features/audit/model"
)

func TestPingStore(t *testing.T) {
	assert.True(t, PingStore(dbtest.Open(t)))
}

func TestCleanupAuditLogs(t *testing.T) {
	db := dbtest.Open(t)
	old := time.Now().Add(-60 * 24 * time.Hour).UTC()
	rows := []auditModel.AuditLogModel{
		{Entity: "santri", Action: auditModel.ActionCreate, CreatedAt: old},
		{Entity: "santri", Action: auditModel.ActionUpdate, CreatedAt: old},
		{Entity: "santri", Action: auditModel.ActionDelete, CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, db.Create(&rows).Error)

	n, err := CleanupAuditLogs(context.Background(), db, time.Now().Add(-30*24*time.Hour).UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var left []auditModel.AuditLogModel
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, auditModel.ActionDelete, left[0].Action)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	db := dbtest.Open(t)

	_, err := Start(db, &configs.Config{StorePingSchedule: "bukan jadwal"})
	assert.Error(t, err)

	c, err := Start(db, &configs.Config{StorePingSchedule: "@every 1h", AuditRetention: 30, AuditCleanupCron: "@daily"})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	c.Stop()
}
