package handlers

import (
	"time"

	"github.com/courtdesk/courtboard-backend/services"
	"github.com/gofiber/fiber/v2"
)

type CauseListHandler struct {
	Courts *services.CourtService
}

func NewCauseListHandler(courts *services.CourtService) *CauseListHandler {
	return &CauseListHandler{Courts: courts}
}

// GetCauseList returns the caller's hearings for a date (default today),
// ordered by hearing time. This is the read the display board viewer uses
// to decide which court rooms matter to it.
func (h *CauseListHandler) GetCauseList(c *fiber.Ctx) error {
	userID, err := userIDFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing or invalid X-User-Id header",
		})
	}

	day := time.Now()
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid date, expected YYYY-MM-DD",
			})
		}
		day = parsed
	}

	hearings, err := h.Courts.HearingsOn(c.Context(), userID, day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"date":     day.Format("2006-01-02"),
		"hearings": hearings,
		"total":    len(hearings),
	})
}
