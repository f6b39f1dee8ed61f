package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassifyFreshnessBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"just written", 0, FreshnessFresh},
		{"under five minutes", 4*time.Minute + 59*time.Second, FreshnessFresh},
		{"exactly five minutes", 5 * time.Minute, FreshnessStale},
		{"under thirty minutes", 29 * time.Minute, FreshnessStale},
		{"exactly thirty minutes", 30 * time.Minute, FreshnessOutdated},
		{"hours old", 6 * time.Hour, FreshnessOutdated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := now.Add(-tc.age)
			if got := ClassifyFreshness(&ts, now); got != tc.want {
				t.Errorf("age %v: got %q, want %q", tc.age, got, tc.want)
			}
		})
	}
}

func TestClassifyFreshnessNeverSynced(t *testing.T) {
	if got := ClassifyFreshness(nil, time.Now()); got != FreshnessNeverSynced {
		t.Errorf("nil timestamp must classify as %q, got %q", FreshnessNeverSynced, got)
	}
}

func TestSummarizeResults(t *testing.T) {
	results := []ScrapingResult{
		{CourtID: uuid.New(), Success: true, EntriesCount: 4},
		{CourtID: uuid.New(), Success: false, Error: "connection refused"},
		{CourtID: uuid.New(), Success: true, EntriesCount: 2},
	}

	summary := SummarizeResults(results)

	if summary.Total != 3 {
		t.Errorf("total: got %d, want 3", summary.Total)
	}
	if summary.Successful != 2 || summary.Failed != 1 {
		t.Errorf("success/failure split wrong: %+v", summary)
	}
	if summary.TotalEntries != 6 {
		t.Errorf("total entries: got %d, want 6", summary.TotalEntries)
	}
}

func TestSummarizeResultsEmpty(t *testing.T) {
	summary := SummarizeResults(nil)
	if summary.Total != 0 || summary.Successful != 0 || summary.Failed != 0 || summary.TotalEntries != 0 {
		t.Errorf("empty input must yield a zero summary: %+v", summary)
	}
}

func TestSummaryCountsAlwaysBalance(t *testing.T) {
	properties := gopter.NewProperties(nil)

	resultGen := gen.Struct(
		reflect.TypeOf(ScrapingResult{}),
		map[string]gopter.Gen{
			"Success":      gen.Bool(),
			"EntriesCount": gen.IntRange(0, 50),
		},
	)

	properties.Property("successful + failed equals total", prop.ForAll(
		func(results []ScrapingResult) bool {
			summary := SummarizeResults(results)
			return summary.Successful+summary.Failed == summary.Total &&
				summary.Total == len(results)
		},
		gen.SliceOf(resultGen),
	))

	properties.Property("failed results never contribute entries", prop.ForAll(
		func(results []ScrapingResult) bool {
			summary := SummarizeResults(results)
			wantEntries := 0
			for _, r := range results {
				if r.Success {
					wantEntries += r.EntriesCount
				}
			}
			return summary.TotalEntries == wantEntries
		},
		gen.SliceOf(resultGen),
	))

	properties.TestingRun(t)
}
