package jobs

import (
	"context"
	"time"

	"github.com/courtdesk/courtboard-backend/models"
	"github.com/courtdesk/courtboard-backend/services"
	"github.com/sirupsen/logrus"
)

// DisplayBoardRefreshJob rescrapes every court configured with a display
// board URL. Successful scrapes land in the cache and are pushed to live
// subscribers through the orchestrator's publisher; failed courts stay
// failed until the next cycle.
type DisplayBoardRefreshJob struct {
	Orchestrator *services.ScrapeOrchestrator
	Courts       *services.CourtService
}

func NewDisplayBoardRefreshJob(orchestrator *services.ScrapeOrchestrator, courts *services.CourtService) *DisplayBoardRefreshJob {
	return &DisplayBoardRefreshJob{
		Orchestrator: orchestrator,
		Courts:       courts,
	}
}

func (j *DisplayBoardRefreshJob) Run() {
	logrus.Info("Starting display board refresh job")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	courts, err := j.Courts.ListCourtsWithBoardURL(ctx)
	if err != nil {
		logrus.Errorf("Failed to run display board refresh job: failed to list courts: %v", err)
		return
	}

	if len(courts) == 0 {
		logrus.Info("No courts configured with display board URLs, nothing to refresh")
		return
	}

	results := j.Orchestrator.ScrapeMany(ctx, courts)
	summary := models.SummarizeResults(results)

	logrus.WithFields(logrus.Fields{
		"total":         summary.Total,
		"successful":    summary.Successful,
		"failed":        summary.Failed,
		"total_entries": summary.TotalEntries,
	}).Info("Display board refresh job completed")

	for _, result := range results {
		if !result.Success {
			logrus.WithFields(logrus.Fields{
				"court_id":   result.CourtID,
				"court_name": result.CourtName,
			}).Warnf("Court board refresh failed: %s", result.Error)
		}
	}
}
