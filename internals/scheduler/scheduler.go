package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesantren_backend/internals/configs"
	database "pesantren_backend/internals/databases"
	auditModel "pesantren_backend/internals/features/audit/model"
)

// Start menjalankan job latar: ping store berkala dan pembersihan audit_logs.
// Pemanggil wajib Stop() saat shutdown.
func Start(db *gorm.DB, cfg *configs.Config) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if cfg.StorePingSchedule != "" {
		if _, err := c.AddFunc(cfg.StorePingSchedule, func() { PingStore(db) }); err != nil {
			return nil, err
		}
		logrus.WithField("schedule", cfg.StorePingSchedule).Info("[STORE-PING] started")
	}

	if cfg.AuditRetention > 0 {
		retention := time.Duration(cfg.AuditRetention) * 24 * time.Hour
		if _, err := c.AddFunc(cfg.AuditCleanupCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
			defer cancel()
			if _, err := CleanupAuditLogs(ctx, db, time.Now().Add(-retention)); err != nil {
				logrus.WithError(err).Error("[AUDIT-CLEANUP] gagal")
			}
		}); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"schedule":       cfg.AuditCleanupCron,
			"retention_days": cfg.AuditRetention,
		}).Info("[AUDIT-CLEANUP] started")
	}

	c.Start()
	return c, nil
}

// PingStore: menjaga pool tetap hangat & mencatat kalau store tidak bisa dijangkau.
func PingStore(db *gorm.DB) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if err := database.Ping(ctx, db); err != nil {
		logrus.WithError(err).Error("[STORE-PING] ❌ store tidak bisa dijangkau")
		return false
	}
	logrus.WithField("dur", time.Since(start).String()).Debug("[STORE-PING] ok")
	return true
}

// CleanupAuditLogs menghapus audit log yang lebih tua dari before, per batch 500.
func CleanupAuditLogs(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	var total int64
	for {
		var ids []int64
		if err := db.WithContext(ctx).Model(&auditModel.AuditLogModel{}).
			Where("audit_log_created_at < ?", before).
			Order("audit_log_id").
			Limit(500).
			Pluck("audit_log_id", &ids).Error; err != nil {
			return total, err
		}
		if len(ids) == 0 {
			break
		}
		res := db.WithContext(ctx).Where("audit_log_id IN ?", ids).Delete(&auditModel.AuditLogModel{})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
		if len(ids) < 500 {
			break
		}
	}
	if total > 0 {
		logrus.WithField("deleted", total).Info("[AUDIT-CLEANUP] audit log lama dihapus")
	}
	return total, nil
}
