package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ontrakhq/ontrak/internal/middleware"
	"github.com/ontrakhq/ontrak/internal/service"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// StartSchedule POST /v1/schedules
func (h *ScheduleHandler) StartSchedule(c *fiber.Ctx) error {
	var req struct {
		TemplateID string `json:"template_id"`
		Name       string `json:"name"`
		StartDate  string `json:"start_date"` // YYYY-MM-DD, defaults to today
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	var startDate time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
		}
		startDate = parsed
	}

	schedule, err := h.scheduleService.StartSchedule(c.Context(), req.TemplateID, middleware.UserID(c), req.Name, startDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

// ListSchedules GET /v1/schedules?status=active,completed
func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				statuses = append(statuses, trimmed)
			}
		}
	}

	schedules, err := h.scheduleService.ListSchedules(c.Context(), middleware.UserID(c), statuses)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedules)
}

// GetSchedule GET /v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *fiber.Ctx) error {
	schedule, err := h.scheduleService.GetSchedule(c.Context(), c.Params("id"), middleware.UserID(c), middleware.Timezone(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

// GetLiveStatus GET /v1/schedules/:id/live
func (h *ScheduleHandler) GetLiveStatus(c *fiber.Ctx) error {
	status, err := h.scheduleService.GetLiveStatus(c.Context(), c.Params("id"), middleware.UserID(c), middleware.Timezone(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// StartActivity POST /v1/schedules/:id/activities/:activityID/start
func (h *ScheduleHandler) StartActivity(c *fiber.Ctx) error {
	activity, err := h.scheduleService.StartActivity(c.Context(), c.Params("id"), middleware.UserID(c), c.Params("activityID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(activity)
}

// CompleteActivity POST /v1/schedules/:id/activities/:activityID/complete
func (h *ScheduleHandler) CompleteActivity(c *fiber.Ctx) error {
	activity, err := h.scheduleService.CompleteActivity(c.Context(), c.Params("id"), middleware.UserID(c), c.Params("activityID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(activity)
}

// CompleteSchedule POST /v1/schedules/:id/complete
func (h *ScheduleHandler) CompleteSchedule(c *fiber.Ctx) error {
	if err := h.scheduleService.CompleteSchedule(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "completed"})
}

// CancelSchedule POST /v1/schedules/:id/cancel
func (h *ScheduleHandler) CancelSchedule(c *fiber.Ctx) error {
	if err := h.scheduleService.CancelSchedule(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cancelled"})
}
