package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search projects, blogs, images and tags",
	Long: `Run a search against the public API.

Examples:
  atelier search "go concurrency"
  atelier search "postgres" --category blogs --sort views --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		sortMode, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		return runSearch(args[0], category, sortMode, page, limit)
	},
}

func init() {
	searchCmd.Flags().String("category", "all", "Category: all, projects, blogs, images, tags")
	searchCmd.Flags().String("sort", "relevance", "Sort: relevance, recent, views")
	searchCmd.Flags().Int("page", 1, "Page number")
	searchCmd.Flags().Int("limit", 20, "Results per page")
}

type searchResult struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Views int    `json:"views"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Results struct {
		Projects []searchResult `json:"projects"`
		Blogs    []searchResult `json:"blogs"`
		Images   []searchResult `json:"images"`
		Tags     []searchResult `json:"tags"`
	} `json:"results"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func runSearch(query, category, sortMode string, page, limit int) error {
	params := url.Values{}
	params.Set("q", query)
	params.Set("category", category)
	params.Set("sort", sortMode)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	resp, err := http.Get(apiURL + "/api/v1/search?" + params.Encode())
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("%d results for %q (%d pages)\n\n", sr.Total, sr.Query, sr.TotalPages)
	printGroup("Projects", sr.Results.Projects)
	printGroup("Blogs", sr.Results.Blogs)
	printGroup("Images", sr.Results.Images)
	printGroup("Tags", sr.Results.Tags)
	return nil
}

func printGroup(name string, results []searchResult) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("%s:\n", name)
	for _, r := range results {
		if r.Views > 0 {
			fmt.Printf("  %-50s %s (%d views)\n", r.Title, r.URL, r.Views)
		} else {
			fmt.Printf("  %-50s %s\n", r.Title, r.URL)
		}
	}
	fmt.Println()
}
