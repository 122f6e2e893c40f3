package records_seed

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/records/registry"
	"pesantren_backend/internals/features/records/repository"
)

// SeedRecordsFromJSON: format {"<entity>": [record, ...]}. Entity yang tabelnya
// sudah berisi dilewati supaya seed aman dijalankan berulang.
func SeedRecordsFromJSON(ctx context.Context, db *gorm.DB, raw []byte) (int, error) {
	var inputs map[string][]map[string]any
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return 0, fmt.Errorf("decode records seed: %w", err)
	}

	entities := make([]string, 0, len(inputs))
	for name := range inputs {
		if name == registry.EntityUsers {
			return 0, fmt.Errorf("users harus di-seed lewat users seed (password di-hash)")
		}
		entities = append(entities, name)
	}
	sort.Strings(entities)

	repo := repository.NewRecordRepository(db)
	created := 0
	for _, entity := range entities {
		n, err := repo.Count(ctx, entity)
		if err != nil {
			return created, err
		}
		if n > 0 {
			logrus.Infof("ℹ️ Tabel %s sudah berisi %d baris, dilewati.", entity, n)
			continue
		}
		for _, rec := range inputs[entity] {
			if _, err := repo.Save(ctx, entity, rec); err != nil {
				return created, fmt.Errorf("seed %s: %w", entity, err)
			}
			created++
		}
		logrus.Infof("✅ Seed %s: %d baris", entity, len(inputs[entity]))
	}
	return created, nil
}
