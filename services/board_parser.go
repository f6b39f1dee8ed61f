package services

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/courtdesk/courtboard-backend/models"
	"github.com/sirupsen/logrus"
)

// nullSentinels are the placeholder cell values court websites use for
// "no data". Item numbers additionally treat "*" as empty.
var nullSentinels = map[string]struct{}{
	"*":  {},
	"-":  {},
	"NA": {},
	"":   {},
}

// normalizeSentinel maps a placeholder cell value to nil, everything else
// to a pointer to the trimmed text.
func normalizeSentinel(text string) *string {
	if _, isSentinel := nullSentinels[text]; isSentinel {
		return nil
	}
	return &text
}

// normalizeCourtNumber strips all non-digit characters from a courtroom
// label and keeps the remainder when non-empty, else the raw text. Two
// distinct non-numeric labels can collapse to the same digits here; the
// cache key inherits that collision.
func normalizeCourtNumber(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() > 0 {
		return digits.String()
	}
	return raw
}

// isHeaderRow reports whether a court-number cell belongs to a header or
// filler row rather than a data row.
func isHeaderRow(courtNumber string) bool {
	if courtNumber == "" {
		return true
	}
	if strings.Contains(strings.ToLower(courtNumber), "court") {
		return true
	}
	return courtNumber == "S.No"
}

// BoardParser extracts normalized display board entries from raw court
// website HTML using a detected parser config.
type BoardParser struct{}

// NewBoardParser creates a stateless board parser.
func NewBoardParser() *BoardParser {
	return &BoardParser{}
}

// Parse extracts entries from the page. Rows that cannot be read are
// skipped rather than failing the whole page: court websites routinely mix
// header rows, decorative rows and short rows into the same table.
func (p *BoardParser) Parse(html string, config ParserConfig) []models.DisplayBoardEntry {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"component": "BoardParser",
			"error":     err,
		}).Warn("Failed to build document from HTML, returning no entries")
		return nil
	}

	mapping := config.ColumnMapping
	var entries []models.DisplayBoardEntry

	document.Find(config.TableSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		courtCell := cellText(cells, mapping.Court)
		if isHeaderRow(courtCell) {
			return
		}

		itemText := cellText(cells, mapping.Item)
		itemNumber := normalizeSentinel(itemText)

		status := models.EntryStatusWaiting
		if itemNumber != nil {
			status = models.EntryStatusInProgress
		}

		entries = append(entries, models.DisplayBoardEntry{
			CourtNumber: normalizeCourtNumber(courtCell),
			ItemNumber:  itemNumber,
			CaseNumber:  normalizeSentinel(cellText(cells, mapping.CaseNo)),
			CaseTitle:   normalizeSentinel(cellText(cells, mapping.Title)),
			JudgeName:   normalizeSentinel(cellText(cells, mapping.Judge)),
			VCLink:      cellLink(cells, mapping.VCLink),
			Status:      status,
		})
	})

	return entries
}

// cellText returns the trimmed text of the indexed cell, or "" when the
// column is unmapped or the index is out of range.
func cellText(cells *goquery.Selection, index *int) string {
	if index == nil || *index >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(*index).Text())
}

// cellLink returns the href of the first anchor inside the indexed cell.
// A literal "NA" link is treated as absent.
func cellLink(cells *goquery.Selection, index *int) *string {
	if index == nil || *index >= cells.Length() {
		return nil
	}
	href, exists := cells.Eq(*index).Find("a").Attr("href")
	if !exists || href == "NA" {
		return nil
	}
	return &href
}
