// internals/features/dashboard/stats/service/quick_stats_service.go
package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pesantren_backend/internals/features/dashboard/stats/dto"
	"pesantren_backend/internals/features/records/registry"
	"pesantren_backend/internals/features/records/repository"
)

// Nilai kolom yang dipakai sebagai filter statistik.
const (
	JenisPemasukan   = "pemasukan"
	JenisPengeluaran = "pengeluaran"
	StatusIzinAktif  = "aktif"
)

type QuickStatsService struct {
	Repo *repository.RecordRepository
	Loc  *time.Location
	Now  func() time.Time
}

func NewQuickStatsService(repo *repository.RecordRepository, loc *time.Location) *QuickStatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &QuickStatsService{Repo: repo, Loc: loc, Now: time.Now}
}

func (s *QuickStatsService) today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.Loc)
}

// Get menjalankan semua agregat paralel; satu gagal = semua gagal.
func (s *QuickStatsService) Get(ctx context.Context) (dto.QuickStats, error) {
	var out dto.QuickStats

	today := s.today()
	todayStr := today.Format(registry.DateLayout)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.Loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, entity string, conds ...repository.Cond) {
		g.Go(func() error {
			n, err := s.Repo.Count(gctx, entity, conds...)
			*dst = n
			return err
		})
	}
	sum := func(dst *float64, entity, column string, conds ...repository.Cond) {
		g.Go(func() error {
			v, err := s.Repo.Sum(gctx, entity, column, conds...)
			*dst = v
			return err
		})
	}

	count(&out.TotalSantri, registry.EntitySantri)
	count(&out.TotalUstadz, registry.EntityUstadz)
	count(&out.TotalPengurus, registry.EntityPengurus)
	count(&out.TotalKamar, registry.EntityKamar)
	count(&out.TotalAlumni, registry.EntityAlumni)
	sum(&out.TotalPemasukan, registry.EntityKeuangan, "nominal",
		repository.Cond{Column: "jenis", Op: "=", Value: JenisPemasukan, Fold: true})
	sum(&out.TotalPengeluaran, registry.EntityKeuangan, "nominal",
		repository.Cond{Column: "jenis", Op: "=", Value: JenisPengeluaran, Fold: true})
	count(&out.PerizinanAktif, registry.EntityPerizinan,
		repository.Cond{Column: "status", Op: "=", Value: StatusIzinAktif, Fold: true})
	count(&out.PelanggaranBulanIni, registry.EntityPelanggaran,
		repository.Cond{Column: "tanggal", Op: ">=", Value: monthStart.Format(registry.DateLayout)},
		repository.Cond{Column: "tanggal", Op: "<", Value: nextMonth.Format(registry.DateLayout)})
	count(&out.AbsensiHariIni, registry.EntityAbsensi,
		repository.Cond{Column: "tanggal", Op: "=", Value: todayStr})

	if err := g.Wait(); err != nil {
		return dto.QuickStats{}, err
	}
	out.Saldo = out.TotalPemasukan - out.TotalPengeluaran
	return out, nil
}
