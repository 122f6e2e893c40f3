package database

import (
	"context"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"pesantren_backend/internals/configs"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// ConnectDB membuka koneksi sesuai DB_DRIVER.
func ConnectDB(cfg *configs.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: configs.NewGormLogger(time.Duration(cfg.DBSlowQueryMS) * time.Millisecond),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		path := cfg.DBDSN
		if path == "" {
			path = "pesantren.db"
		}
		logrus.WithField("path", path).Info("🔌 Koneksi ke SQLite...")
		db, err := OpenSQLite(path, gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logrus.Info("✅ DB connected.")
		return db, nil

	case DriverPostgres, "":
		logrus.WithField("host", cfg.DBHost).Info("🔌 Koneksi ke PostgreSQL...")
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN(cfg),
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		}), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logrus.Info("✅ DB connected.")
		return db, nil

	default:
		return nil, fmt.Errorf("DB_DRIVER %q tidak dikenal", cfg.DBDriver)
	}
}

// OpenSQLite dipakai juga oleh test (file sementara di t.TempDir()).
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, gcfg)
	if err != nil {
		return nil, err
	}
	// sqlite hanya satu writer; hindari "database is locked" saat request paralel.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// postgresDSN: pakai DB_DSN kalau diisi, selain itu dirakit dari DB_* + statement_timeout.
func postgresDSN(cfg *configs.Config) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	q := url.Values{}
	q.Set("sslmode", cfg.DBSSLMode)
	q.Set("application_name", "pesantren")
	if cfg.DBStatementTimeoutMS > 0 {
		q.Set("options", fmt.Sprintf("-c statement_timeout=%d", cfg.DBStatementTimeoutMS))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     cfg.DBHost + ":" + cfg.DBPort,
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func TunePool(db *gorm.DB, cfg *configs.Config) {
	if db.Dialector.Name() == DriverSQLite {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Warn("pool tune err")
		return
	}
	// ⚖️ Sesuaikan dengan limit Supabase/PgBouncer
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			logrus.WithError(err).Warn("warm-up ping err")
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// RunMigrations menjalankan migrasi goose sesuai dialek koneksi.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	dialect, dir := "postgres", "migrations/postgres"
	if db.Dialector.Name() == DriverSQLite {
		dialect, dir = "sqlite3", "migrations/sqlite"
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logrus.StandardLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, dir)
}
