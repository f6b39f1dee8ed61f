package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

// ProbeResult reports what a candidate display board URL would yield if a
// court were configured with it.
type ProbeResult struct {
	URL        string     `json:"url"`
	Reachable  bool       `json:"reachable"`
	ParserType ParserType `json:"parserType"`
	RowCount   int        `json:"rowCount"`
	TableCount int        `json:"tableCount"`
	RequiresJS bool       `json:"requiresJs"`
	Error      string     `json:"error,omitempty"`
	CheckedAt  time.Time  `json:"checkedAt"`
}

// BoardProbe validates a display board URL before it is saved on a court:
// it visits the page once and counts how many data rows the detected
// strategy would extract, so a typo or an unsupported layout surfaces at
// configuration time instead of on the first scheduled scrape.
type BoardProbe struct {
	detector *FormatDetector
	timeout  time.Duration
}

// NewBoardProbe creates a probe using the given detector.
func NewBoardProbe(detector *FormatDetector, timeout time.Duration) *BoardProbe {
	return &BoardProbe{detector: detector, timeout: timeout}
}

// Check visits the URL and reports reachability plus the row yield of the
// detected parser strategy. JS-rendered boards are reported as such; their
// row count reflects the unrendered document and may legitimately be zero.
func (p *BoardProbe) Check(url string) ProbeResult {
	config := p.detector.Detect(url)
	result := ProbeResult{
		URL:        url,
		ParserType: config.Type,
		RequiresJS: config.RequiresJS,
		CheckedAt:  time.Now(),
	}

	collector := colly.NewCollector()
	collector.SetRequestTimeout(p.timeout)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		result.Reachable = true
		result.TableCount = e.DOM.Find("table").Length()
		result.RowCount = countDataRows(e.DOM, config)
	})

	collector.OnError(func(r *colly.Response, err error) {
		result.Error = err.Error()
		if r != nil && r.StatusCode > 0 {
			result.Error = fmt.Sprintf("HTTP %d: %v", r.StatusCode, err)
		}
	})

	if err := collector.Visit(url); err != nil && result.Error == "" {
		result.Error = err.Error()
	}
	collector.Wait()

	logrus.WithFields(logrus.Fields{
		"component":   "BoardProbe",
		"url":         url,
		"parser_type": result.ParserType,
		"reachable":   result.Reachable,
		"row_count":   result.RowCount,
	}).Info("Probed display board URL")

	return result
}

// countDataRows applies the strategy's row filter the same way the parser
// does: rows with at least 4 cells and a non-header court cell.
func countDataRows(dom *goquery.Selection, config ParserConfig) int {
	count := 0
	dom.Find(config.TableSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		courtCell := ""
		if config.ColumnMapping.Court != nil && *config.ColumnMapping.Court < cells.Length() {
			courtCell = strings.TrimSpace(cells.Eq(*config.ColumnMapping.Court).Text())
		}
		if isHeaderRow(courtCell) {
			return
		}
		count++
	})
	return count
}
