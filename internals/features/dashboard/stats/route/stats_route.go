package route

import (
	"time"

	"gorm.io/gorm"

	"pesantren_backend/internals/features/dashboard/stats/controller"
	"pesantren_backend/internals/features/dashboard/stats/service"
	"pesantren_backend/internals/features/records/repository"
	"pesantren_backend/internals/route/action"
)

func StatsRoutes(r *action.Router, db *gorm.DB, loc *time.Location) {
	ctrl := controller.NewQuickStatsController(
		service.NewQuickStatsService(repository.NewRecordRepository(db), loc),
	)

	r.Get("getQuickStats", ctrl.GetQuickStats)
}
