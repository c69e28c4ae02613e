package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Inspect search analytics (admin)",
	Long:  "Commands for inspecting search analytics: top queries, zero-result queries and totals.",
}

var topQueriesCmd = &cobra.Command{
	Use:   "top-queries",
	Short: "Show the most-searched queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		body, err := adminGet("/api/v1/admin/analytics/search/top-queries?limit=" + strconv.Itoa(limit))
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
			return nil
		}

		var payload struct {
			Queries []struct {
				Query       string  `json:"query"`
				SearchCount int     `json:"search_count"`
				ClickCount  int     `json:"click_count"`
				ClickRate   float64 `json:"click_rate"`
				AvgResults  float64 `json:"avg_results"`
			} `json:"queries"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		fmt.Printf("%-30s %10s %10s %10s %12s\n", "QUERY", "SEARCHES", "CLICKS", "CTR", "AVG RESULTS")
		for _, q := range payload.Queries {
			fmt.Printf("%-30s %10d %10d %9.1f%% %12.1f\n",
				q.Query, q.SearchCount, q.ClickCount, q.ClickRate, q.AvgResults)
		}
		return nil
	},
}

var zeroResultsCmd = &cobra.Command{
	Use:   "zero-results",
	Short: "Show queries whose latest search found nothing",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		body, err := adminGet("/api/v1/admin/analytics/search/zero-results?limit=" + strconv.Itoa(limit))
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
			return nil
		}

		var payload struct {
			Queries []struct {
				Query        string    `json:"query"`
				LastSearched time.Time `json:"last_searched"`
			} `json:"queries"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if len(payload.Queries) == 0 {
			fmt.Println("No zero-result queries. Every search found something.")
			return nil
		}
		fmt.Printf("%-40s %s\n", "QUERY", "LAST SEARCHED")
		for _, q := range payload.Queries {
			fmt.Printf("%-40s %s\n", q.Query, q.LastSearched.Format(time.RFC3339))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show overall search totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := adminGet("/api/v1/admin/analytics/search?top=5")
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
			return nil
		}

		var payload struct {
			TotalSearches   int64   `json:"total_searches"`
			TotalClicks     int64   `json:"total_clicks"`
			DistinctQueries int64   `json:"distinct_queries"`
			AverageCTR      float64 `json:"average_ctr"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		fmt.Printf("Total searches:   %d\n", payload.TotalSearches)
		fmt.Printf("Total clicks:     %d\n", payload.TotalClicks)
		fmt.Printf("Distinct queries: %d\n", payload.DistinctQueries)
		fmt.Printf("Average CTR:      %.1f%%\n", payload.AverageCTR)
		return nil
	},
}

func init() {
	topQueriesCmd.Flags().Int("limit", 10, "Number of queries to show")
	zeroResultsCmd.Flags().Int("limit", 20, "Number of queries to show")

	analyticsCmd.AddCommand(topQueriesCmd)
	analyticsCmd.AddCommand(zeroResultsCmd)
	analyticsCmd.AddCommand(statsCmd)
}

// adminGet performs an authenticated GET against the API
func adminGet(path string) ([]byte, error) {
	token, err := requireToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
