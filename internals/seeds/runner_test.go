package seeds

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pesantren_backend/internals/databases/dbtest"
	"pesantren_backend/internals/features/records/repository"
	authService "pesantren_backend/internals/features/users/auth/service"
	records "pesantren_backend/internals/seeds/records_seed"
	users "pesantren_backend/internals/seeds/users_seed"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, RunAllSeeds(ctx, db, ""))
	require.NoError(t, RunAllSeeds(ctx, db, ""))

	repo := repository.NewRecordRepository(db)
	n, err := repo.Count(ctx, "users")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repo.Count(ctx, "kamar")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	var hash string
	require.NoError(t, db.Raw(`SELECT password FROM users WHERE username = ?`, "admin").Scan(&hash).Error)
	assert.True(t, authService.CheckPasswordHash(hash, "admin123"))
}

func TestRunAllSeedsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(`[{"username":"u","password":"p","role":"admin"}]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.json"), []byte(`{"santri":[{"nama":"Ali"}]}`), 0o600))

	db := dbtest.Open(t)
	require.NoError(t, RunAllSeeds(context.Background(), db, dir))

	n, err := repository.NewRecordRepository(db).Count(context.Background(), "santri")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRecordsSeedRejectsUsersAndUnknownEntity(t *testing.T) {
	db := dbtest.Open(t)
	_, err := records.SeedRecordsFromJSON(context.Background(), db, []byte(`{"users":[{"username":"x"}]}`))
	assert.Error(t, err)

	_, err = records.SeedRecordsFromJSON(context.Background(), db, []byte(`{"hacker":[{"x":1}]}`))
	assert.Error(t, err)
}

func TestUsersSeedRejectsUnknownRole(t *testing.T) {
	db := dbtest.Open(t)
	_, err := users.SeedUsersFromJSON(context.Background(), db, []byte(`[{"username":"x","password":"p","role":"superuser"}]`))
	assert.Error(t, err)

	n, err := users.SeedUsersFromJSON(context.Background(), db, []byte(`[{"username":"y","password":"p","role":" Ustadz "}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var role string
	require.NoError(t, db.Raw(`SELECT role FROM users WHERE username = ?`, "y").Scan(&role).Error)
	assert.Equal(t, "ustadz", role)
}
