package services

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// ParserType tags which parsing strategy produced a config. Informational
// only; parsing is driven entirely by the selector and column mapping.
type ParserType string

const (
	ParserTypeDelhiHC      ParserType = "delhi_hc"
	ParserTypeGenericTable ParserType = "generic_table"
)

// ColumnMapping holds positional cell indices for the logical columns of a
// display board table. A nil index means the column is absent from that
// court's layout.
type ColumnMapping struct {
	Court  *int
	Item   *int
	Judge  *int
	CaseNo *int
	Title  *int
	VCLink *int
}

// ParserConfig describes how to locate and read data rows on one court
// website's display board page.
type ParserConfig struct {
	Type          ParserType
	TableSelector string
	ColumnMapping ColumnMapping
	// RequiresJS marks boards that render their table client-side and need
	// a headless browser pass before the HTML contains any rows.
	RequiresJS bool
}

func colIndex(i int) *int { return &i }

// courtPattern pairs a URL predicate with the parser config to use when it
// matches. Kept as an ordered table so supporting a new court is one
// appended entry, not another branch in parsing code.
type courtPattern struct {
	match  func(url string) bool
	config ParserConfig
}

func hostContains(fragments ...string) func(string) bool {
	return func(url string) bool {
		for _, fragment := range fragments {
			if strings.Contains(url, fragment) {
				return true
			}
		}
		return false
	}
}

var genericColumns = ColumnMapping{
	Court:  colIndex(0),
	Item:   colIndex(1),
	CaseNo: colIndex(2),
	Title:  colIndex(3),
	Judge:  colIndex(4),
}

// knownCourtPatterns is evaluated in order; the first match wins.
var knownCourtPatterns = []courtPattern{
	{
		match: hostContains("delhihighcourt.nic.in"),
		config: ParserConfig{
			Type:          ParserTypeDelhiHC,
			TableSelector: "table tbody tr",
			ColumnMapping: ColumnMapping{
				Court:  colIndex(0),
				Item:   colIndex(1),
				Judge:  colIndex(2),
				CaseNo: colIndex(3),
				Title:  colIndex(4),
				VCLink: colIndex(5),
			},
		},
	},
	{
		match: hostContains("bombayhighcourt."),
		config: ParserConfig{
			Type:          ParserTypeGenericTable,
			TableSelector: "table.display-board tbody tr",
			ColumnMapping: genericColumns,
		},
	},
	{
		match: hostContains("mhc.gov.in", "hcmadras."),
		config: ParserConfig{
			Type:          ParserTypeGenericTable,
			TableSelector: "table tbody tr",
			ColumnMapping: genericColumns,
		},
	},
	{
		match: hostContains("karnatakajudiciary.", "hckarnataka."),
		config: ParserConfig{
			Type:          ParserTypeGenericTable,
			TableSelector: "table tbody tr",
			ColumnMapping: genericColumns,
		},
	},
	{
		// eCourts display boards draw the table with client-side scripts, so
		// the raw HTML is empty until a browser has run them.
		match: hostContains("ecourts.gov.in"),
		config: ParserConfig{
			Type:          ParserTypeGenericTable,
			TableSelector: "table tbody tr",
			ColumnMapping: genericColumns,
			RequiresJS:    true,
		},
	},
}

// defaultParserConfig is the fallback when no known pattern matches.
var defaultParserConfig = ParserConfig{
	Type:          ParserTypeGenericTable,
	TableSelector: "table tbody tr",
	ColumnMapping: genericColumns,
}

// FormatDetector maps a display board URL to the parsing strategy for that
// court website. Pure and total: it always returns a usable config.
type FormatDetector struct {
	patterns []courtPattern
	fallback ParserConfig
}

// NewFormatDetector creates a detector with the built-in court patterns.
func NewFormatDetector() *FormatDetector {
	return &FormatDetector{
		patterns: knownCourtPatterns,
		fallback: defaultParserConfig,
	}
}

// Detect returns the parser config for the given URL. The first matching
// pattern wins; unknown hosts get the generic table config.
func (d *FormatDetector) Detect(url string) ParserConfig {
	for _, pattern := range d.patterns {
		if pattern.match(url) {
			return pattern.config
		}
	}

	logrus.WithFields(logrus.Fields{
		"component": "FormatDetector",
		"url":       url,
	}).Debug("No known court pattern matched, using generic table config")

	return d.fallback
}
