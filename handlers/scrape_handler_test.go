package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// newScrapeTestApp mounts the handler's routes the way main does. Only the
// validation paths run here, so the handler needs no live services.
func newScrapeTestApp(handler *ScrapeHandler) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/display-board/scrape", handler.TriggerScrape)
	app.Post("/api/v1/display-board/probe", handler.ProbeBoardURL)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return response, payload
}

func TestTriggerScrapeRequiresTarget(t *testing.T) {
	app := newScrapeTestApp(&ScrapeHandler{})

	response, payload := postJSON(t, app, "/api/v1/display-board/scrape", `{}`)

	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
	if payload["success"] != false {
		t.Errorf("expected success=false, got %v", payload["success"])
	}
	if payload["error"] != "Either courtId or scrapeAll is required" {
		t.Errorf("unexpected error message: %v", payload["error"])
	}
}

func TestTriggerScrapeRejectsMalformedCourtID(t *testing.T) {
	app := newScrapeTestApp(&ScrapeHandler{})

	response, payload := postJSON(t, app, "/api/v1/display-board/scrape", `{"courtId":"not-a-uuid"}`)

	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
	if payload["error"] != "Invalid courtId" {
		t.Errorf("unexpected error message: %v", payload["error"])
	}
}

func TestTriggerScrapeRejectsMalformedBody(t *testing.T) {
	app := newScrapeTestApp(&ScrapeHandler{})

	response, payload := postJSON(t, app, "/api/v1/display-board/scrape", `{"courtId":`)

	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
	if payload["error"] != "Invalid request body" {
		t.Errorf("unexpected error message: %v", payload["error"])
	}
}

func TestProbeRequiresURL(t *testing.T) {
	app := newScrapeTestApp(&ScrapeHandler{})

	response, payload := postJSON(t, app, "/api/v1/display-board/probe", `{}`)

	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", response.StatusCode)
	}
	if payload["error"] != "url is required" {
		t.Errorf("unexpected error message: %v", payload["error"])
	}
}
