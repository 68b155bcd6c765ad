package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-triage/internal/service"
)

// AnalyticsHandler serves reporting endpoints.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Overview GET /analytics/overview.
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.service.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Tags GET /analytics/tags.
func (h *AnalyticsHandler) Tags(c *fiber.Ctx) error {
	distribution, err := h.service.TagDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": distribution})
}

// ResponseTimes GET /analytics/response-times.
func (h *AnalyticsHandler) ResponseTimes(c *fiber.Ctx) error {
	stats, err := h.service.ResponseTimes(c.UserContext(), c.QueryInt("period"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Trends GET /analytics/trends.
func (h *AnalyticsHandler) Trends(c *fiber.Ctx) error {
	buckets, err := h.service.Trends(c.UserContext(), c.QueryInt("period"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": buckets})
}

// Teams GET /analytics/teams.
func (h *AnalyticsHandler) Teams(c *fiber.Ctx) error {
	result, err := h.service.TeamPerformance(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
