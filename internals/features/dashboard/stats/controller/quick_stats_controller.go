package controller

import (
	"github.com/gofiber/fiber/v2"

	"pesantren_backend/internals/features/dashboard/stats/service"
	helper "pesantren_backend/internals/helpers"
)

type QuickStatsController struct {
	Service *service.QuickStatsService
}

func NewQuickStatsController(svc *service.QuickStatsService) *QuickStatsController {
	return &QuickStatsController{Service: svc}
}

// GET /api?action=getQuickStats
func (qc *QuickStatsController) GetQuickStats(c *fiber.Ctx) error {
	stats, err := qc.Service.Get(c.UserContext())
	if err != nil {
		return err
	}
	return helper.JsonData(c, stats)
}
