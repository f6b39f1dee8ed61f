package services

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDetectDelhiHighCourt(t *testing.T) {
	detector := NewFormatDetector()

	config := detector.Detect("https://delhihighcourt.nic.in/app/display-board")

	if config.Type != ParserTypeDelhiHC {
		t.Fatalf("expected parser type %q, got %q", ParserTypeDelhiHC, config.Type)
	}
	if config.TableSelector != "table tbody tr" {
		t.Errorf("unexpected table selector: %q", config.TableSelector)
	}
	if config.ColumnMapping.Judge == nil || *config.ColumnMapping.Judge != 2 {
		t.Errorf("Delhi HC layout should map judge to column 2")
	}
	if config.ColumnMapping.VCLink == nil || *config.ColumnMapping.VCLink != 5 {
		t.Errorf("Delhi HC layout should map vc link to column 5")
	}
}

func TestDetectBombayHighCourtSelector(t *testing.T) {
	detector := NewFormatDetector()

	config := detector.Detect("https://bombayhighcourt.example.org/board")

	if config.Type != ParserTypeGenericTable {
		t.Fatalf("expected generic table parser, got %q", config.Type)
	}
	if config.TableSelector != "table.display-board tbody tr" {
		t.Errorf("unexpected table selector: %q", config.TableSelector)
	}
}

func TestDetectFallsBackToGeneric(t *testing.T) {
	detector := NewFormatDetector()

	config := detector.Detect("https://some-unknown-court.example.com/board")

	if config.Type != ParserTypeGenericTable {
		t.Fatalf("expected generic fallback, got %q", config.Type)
	}
	if config.TableSelector != "table tbody tr" {
		t.Errorf("unexpected fallback selector: %q", config.TableSelector)
	}
	expected := ColumnMapping{
		Court:  colIndex(0),
		Item:   colIndex(1),
		CaseNo: colIndex(2),
		Title:  colIndex(3),
		Judge:  colIndex(4),
	}
	if *config.ColumnMapping.Court != *expected.Court ||
		*config.ColumnMapping.Item != *expected.Item ||
		*config.ColumnMapping.CaseNo != *expected.CaseNo ||
		*config.ColumnMapping.Title != *expected.Title ||
		*config.ColumnMapping.Judge != *expected.Judge {
		t.Errorf("fallback column mapping does not match the generic layout")
	}
	if config.RequiresJS {
		t.Errorf("generic fallback must not require headless rendering")
	}
}

func TestDetectECourtRequiresJS(t *testing.T) {
	detector := NewFormatDetector()

	config := detector.Detect("https://services.ecourts.gov.in/display")

	if !config.RequiresJS {
		t.Fatalf("eCourts boards render client-side and must be flagged RequiresJS")
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	detector := NewFormatDetector()
	properties := gopter.NewProperties(nil)

	properties.Property("calling Detect twice with the same URL yields structurally equal configs", prop.ForAll(
		func(url string) bool {
			first := detector.Detect(url)
			second := detector.Detect(url)
			return reflect.DeepEqual(first, second)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
