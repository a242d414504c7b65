package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ontrakhq/ontrak/internal/domain"
	"github.com/ontrakhq/ontrak/internal/middleware"
	"github.com/ontrakhq/ontrak/internal/service"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// ListTemplates GET /v1/templates
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	roles, _ := c.Locals(middleware.RolesKey).([]string)
	isAdmin := false
	for _, r := range roles {
		if r == domain.RoleAdmin {
			isAdmin = true
		}
	}

	templates, err := h.templateService.ListTemplates(c.Context(), middleware.UserID(c), isAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(templates)
}

// CreateTemplate POST /v1/templates
func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Days        int    `json:"days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	tmpl, err := h.templateService.CreateTemplate(c.Context(), req.Name, req.Description, req.Days, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tmpl)
}

// GetTemplate GET /v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	tmpl, err := h.templateService.GetTemplate(c.Context(), c.Params("id"), middleware.Timezone(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tmpl)
}

// UpdateTemplate PUT /v1/templates/:id
func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Days        int    `json:"days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	tmpl, err := h.templateService.UpdateTemplate(c.Context(), c.Params("id"), req.Name, req.Description, req.Days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tmpl)
}

// DeleteTemplate DELETE /v1/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	if err := h.templateService.DeleteTemplate(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// AddActivity POST /v1/templates/:id/activities?force=true
func (h *TemplateHandler) AddActivity(c *fiber.Ctx) error {
	var req domain.Activity
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	activity, err := h.templateService.AddActivity(c.Context(), c.Params("id"), &req, middleware.Timezone(c), c.QueryBool("force"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

// AddActivities POST /v1/templates/:id/activities/batch?force=true
func (h *TemplateHandler) AddActivities(c *fiber.Ctx) error {
	var req struct {
		Activities []*domain.Activity `json:"activities"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	activities, err := h.templateService.AddActivities(c.Context(), c.Params("id"), req.Activities, middleware.Timezone(c), c.QueryBool("force"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activities)
}

// UpdateActivity PUT /v1/templates/:id/activities/:activityID?force=true
func (h *TemplateHandler) UpdateActivity(c *fiber.Ctx) error {
	var req domain.Activity
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	req.ID = c.Params("activityID")

	activity, err := h.templateService.UpdateActivity(c.Context(), c.Params("id"), &req, middleware.Timezone(c), c.QueryBool("force"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(activity)
}

// RemoveActivity DELETE /v1/templates/:id/activities/:activityID
func (h *TemplateHandler) RemoveActivity(c *fiber.Ctx) error {
	if err := h.templateService.RemoveActivity(c.Context(), c.Params("id"), c.Params("activityID")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// CheckConflicts POST /v1/templates/:id/conflicts
// Dry-run detector over the posted activity list, nothing persisted.
func (h *TemplateHandler) CheckConflicts(c *fiber.Ctx) error {
	var req struct {
		Activities []*domain.Activity `json:"activities"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	conflicts, err := h.templateService.CheckConflicts(c.Context(), req.Activities)
	if err != nil {
		return respondError(c, err)
	}

	messages := make([]string, len(conflicts))
	for i, conflict := range conflicts {
		messages[i] = conflict.Message()
	}
	return c.JSON(fiber.Map{
		"has_conflicts": len(conflicts) > 0,
		"conflicts":     conflicts,
		"messages":      messages,
	})
}
