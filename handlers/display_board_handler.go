package handlers

import (
	"github.com/courtdesk/courtboard-backend/models"
	"github.com/courtdesk/courtboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DisplayBoardHandler struct {
	Cache  *services.DisplayCacheService
	Courts *services.CourtService
}

func NewDisplayBoardHandler(cache *services.DisplayCacheService, courts *services.CourtService) *DisplayBoardHandler {
	return &DisplayBoardHandler{Cache: cache, Courts: courts}
}

// userIDFromHeader reads the authenticated user's id. Authentication itself
// is handled upstream of this service; the gateway forwards the identity.
func userIDFromHeader(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Get("X-User-Id"))
}

// GetDisplayBoard serves cached board state. With courtId it returns that
// court's entries; without, it derives the caller's relevant courts from
// today's hearings and returns the matched entries alongside the full
// boards for those courts.
func (h *DisplayBoardHandler) GetDisplayBoard(c *fiber.Ctx) error {
	courtIDParam := c.Query("courtId")
	courtNumber := c.Query("courtNumber")

	if courtIDParam != "" {
		courtID, err := uuid.Parse(courtIDParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid courtId",
			})
		}

		entries, err := h.Cache.GetEntries(c.Context(), courtID, courtNumber)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"displayData": entries,
		})
	}

	userID, err := userIDFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing or invalid X-User-Id header",
		})
	}

	hearings, err := h.Courts.TodaysHearings(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	userHearings := services.HearingRefs(hearings)
	courtIDs := services.DistinctCourtIDs(hearings)

	allCourtData, err := h.Cache.GetEntriesForCourts(c.Context(), courtIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	// Entries that line up with one of the user's own hearings today.
	var displayData []models.DisplayBoardCacheRecord
	for _, record := range allCourtData {
		for _, ref := range userHearings {
			if ref.CourtID == record.CourtID && ref.CourtNumber == record.CourtNumber {
				displayData = append(displayData, record)
				break
			}
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"displayData":  displayData,
		"userHearings": userHearings,
		"allCourtData": allCourtData,
	})
}

type updateDisplayBoardRequest struct {
	CourtID string                     `json:"courtId"`
	Entries []models.DisplayBoardEntry `json:"entries"`
}

// UpdateDisplayBoard upserts externally supplied entries straight into the
// cache, bypassing scraping. Used for manual corrections and webhooks.
func (h *DisplayBoardHandler) UpdateDisplayBoard(c *fiber.Ctx) error {
	var request updateDisplayBoardRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if request.CourtID == "" || request.Entries == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "courtId and entries array are required",
		})
	}

	courtID, err := uuid.Parse(request.CourtID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid courtId",
		})
	}

	court, err := h.Courts.GetCourtByID(c.Context(), courtID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	if court == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Court not found",
		})
	}

	for _, entry := range request.Entries {
		if err := h.Cache.Upsert(c.Context(), courtID, entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"updated": len(request.Entries),
	})
}
