//go:build ignore

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtdesk/courtboard-backend/config"
	"github.com/courtdesk/courtboard-backend/database"
	"github.com/courtdesk/courtboard-backend/services"
)

func main() {
	fmt.Printf("Display Board Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	healthScore := 0
	totalTests := 3

	// Test 1: Database
	fmt.Print("Database: ")
	cfg := config.LoadConfig()
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		fmt.Printf("FAILED (%v)\n", err)
	} else {
		fmt.Println("OK")
		healthScore++

		ctx := context.Background()

		// Test 2: Court registry
		fmt.Print("Court registry: ")
		courtService := services.NewCourtService(database.DB)
		if courts, err := courtService.ListCourtsWithBoardURL(ctx); err != nil {
			fmt.Printf("FAILED (%v)\n", err)
		} else {
			fmt.Printf("OK (%d scrapeable courts)\n", len(courts))
			healthScore++

			// Test 3: Cache freshness of the first scrapeable court
			fmt.Print("Display cache: ")
			if len(courts) == 0 {
				fmt.Println("SKIPPED (no courts configured)")
				totalTests--
			} else {
				cacheService := services.NewDisplayCacheService(database.DB)
				if latest, err := cacheService.LatestUpdate(ctx, courts[0].ID); err != nil {
					fmt.Printf("FAILED (%v)\n", err)
				} else if latest == nil {
					fmt.Println("OK (never synced)")
					healthScore++
				} else {
					fmt.Printf("OK (last update %s ago)\n", time.Since(*latest).Round(time.Second))
					healthScore++
				}
			}
		}
		database.Close()
	}

	fmt.Println(strings.Repeat("-", 50))
	if healthScore == totalTests {
		fmt.Printf("SYSTEM HEALTHY: %d/%d tests passed\n", healthScore, totalTests)
	} else if healthScore >= totalTests/2 {
		fmt.Printf("SYSTEM DEGRADED: %d/%d tests passed\n", healthScore, totalTests)
	} else {
		fmt.Printf("SYSTEM UNHEALTHY: %d/%d tests passed\n", healthScore, totalTests)
	}
}
