package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ontrakhq/ontrak/internal/middleware"
	"github.com/ontrakhq/ontrak/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetTrainerStats GET /v1/stats/trainer
func (h *StatsHandler) GetTrainerStats(c *fiber.Ctx) error {
	stats, err := h.statsService.GetTrainerStats(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
