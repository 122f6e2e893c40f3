// Package dbtest menyiapkan database sqlite sementara (sudah dimigrasi) untuk test.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "pesantren_backend/internals/databases"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pesantren_test.db")
	db, err := database.OpenSQLite(path, &gorm.Config{Logger: gormLogger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}
