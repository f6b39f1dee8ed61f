package handlers

import (
	"fmt"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/courtdesk/courtboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScrapeHandler struct {
	Orchestrator *services.ScrapeOrchestrator
	Cache        *services.DisplayCacheService
	Courts       *services.CourtService
	Probe        *services.BoardProbe
}

func NewScrapeHandler(orchestrator *services.ScrapeOrchestrator, cache *services.DisplayCacheService, courts *services.CourtService, probe *services.BoardProbe) *ScrapeHandler {
	return &ScrapeHandler{
		Orchestrator: orchestrator,
		Cache:        cache,
		Courts:       courts,
		Probe:        probe,
	}
}

// GetScrapeStatus lists scrapeable courts and their cache freshness, or
// one court's cached entries when courtId is given.
func (h *ScrapeHandler) GetScrapeStatus(c *fiber.Ctx) error {
	courtIDParam := c.Query("courtId")

	if courtIDParam != "" {
		courtID, err := uuid.Parse(courtIDParam)
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

		entries, err := h.Cache.GetEntries(c.Context(), courtID, "")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}

		var lastUpdated *time.Time
		if len(entries) > 0 {
			lastUpdated = &entries[0].LastUpdated
			for i := range entries {
				if entries[i].LastUpdated.After(*lastUpdated) {
					lastUpdated = &entries[i].LastUpdated
				}
			}
		}

		return c.JSON(fiber.Map{
			"success":     true,
			"court":       court,
			"entries":     entries,
			"lastUpdated": lastUpdated,
		})
	}

	courts, err := h.Courts.ListCourtsWithBoardURL(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	now := time.Now()
	statuses := make([]models.CourtBoardStatus, 0, len(courts))
	for _, court := range courts {
		count, err := h.Cache.CountEntries(c.Context(), court.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		lastUpdated, err := h.Cache.LatestUpdate(c.Context(), court.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		statuses = append(statuses, models.CourtBoardStatus{
			ID:              court.ID,
			CourtName:       court.CourtName,
			CourtType:       court.CourtType,
			City:            court.City,
			DisplayBoardURL: court.DisplayBoardURL,
			CachedEntries:   count,
			LastUpdated:     lastUpdated,
			Freshness:       models.ClassifyFreshness(lastUpdated, now),
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"courts":      statuses,
		"totalCourts": len(statuses),
	})
}

type triggerScrapeRequest struct {
	CourtID   string `json:"courtId"`
	ScrapeAll bool   `json:"scrapeAll"`
	URL       string `json:"url"`
}

// TriggerScrape runs the orchestrator for one court or every configured
// court. Per-court failures are data in the response, not HTTP errors:
// the endpoint answers 200 with a summary even when every court failed.
func (h *ScrapeHandler) TriggerScrape(c *fiber.Ctx) error {
	var request triggerScrapeRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	var results []models.ScrapingResult

	switch {
	case request.ScrapeAll:
		courts, err := h.Courts.ListCourtsWithBoardURL(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		if len(courts) == 0 {
			return c.JSON(fiber.Map{
				"success": true,
				"message": "No courts with display board URLs found",
				"results": []models.ScrapingResult{},
			})
		}
		results = h.Orchestrator.ScrapeMany(c.Context(), courts)

	case request.CourtID != "":
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
		if request.URL == "" && (court.DisplayBoardURL == nil || *court.DisplayBoardURL == "") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "No display board URL configured for this court",
			})
		}
		results = []models.ScrapingResult{h.Orchestrator.ScrapeOne(c.Context(), *court, request.URL)}

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Either courtId or scrapeAll is required",
		})
	}

	summary := models.SummarizeResults(results)

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Scraped %d/%d courts successfully", summary.Successful, summary.Total),
		"summary": summary,
		"results": results,
	})
}

type probeRequest struct {
	URL string `json:"url"`
}

// ProbeBoardURL checks a candidate display board URL before it is saved on
// a court, reporting the detected layout and its row yield.
func (h *ScrapeHandler) ProbeBoardURL(c *fiber.Ctx) error {
	var request probeRequest
	if err := c.BodyParser(&request); err != nil || request.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "url is required",
		})
	}

	result := h.Probe.Check(request.URL)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
