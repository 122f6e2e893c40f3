package seeds

import (
	"context"
	"embed"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	records "pesantren_backend/internals/seeds/records_seed"
	users "pesantren_backend/internals/seeds/users_seed"
)

//go:embed data/*.json
var dataFS embed.FS

// RunAllSeeds: dir kosong = pakai data bawaan (embed); selain itu baca
// <dir>/users.json dan <dir>/records.json.
func RunAllSeeds(ctx context.Context, db *gorm.DB, dir string) error {
	//* Users
	raw, err := readSeed(dir, "users.json")
	if err != nil {
		return err
	}
	if _, err := users.SeedUsersFromJSON(ctx, db, raw); err != nil {
		return err
	}

	//* Data referensi (kamar, kelas, kegiatan)
	raw, err = readSeed(dir, "records.json")
	if err != nil {
		return err
	}
	_, err = records.SeedRecordsFromJSON(ctx, db, raw)
	return err
}

func readSeed(dir, name string) ([]byte, error) {
	if dir == "" {
		return dataFS.ReadFile("data/" + name)
	}
	return os.ReadFile(filepath.Join(dir, name))
}
