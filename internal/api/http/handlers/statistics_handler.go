package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/service"
)

// StatisticsHandler exposes admin statistics and CSV exports.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(statsService *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: statsService}
}

// Get handles GET /statistics.
func (h *StatisticsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.stats.GetTaskStatistics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ExportUserStatistics handles GET /statistics/export.
func (h *StatisticsHandler) ExportUserStatistics(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="task_list_statistics.csv"`)
	return h.stats.WriteUserStatisticsCSV(c.Context(), c.Response().BodyWriter())
}

// ExportSortedTasks handles GET /statistics/export-sorted.
func (h *StatisticsHandler) ExportSortedTasks(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sorted_tasks.csv"`)
	return h.stats.WriteTasksByDeadlineCSV(c.Context(), c.Response().BodyWriter())
}
