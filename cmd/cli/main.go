package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8686"
	output    string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "Atelier CLI - query the portfolio API and its search analytics",
	Long: `Atelier CLI provides command-line access to the portfolio API.
Run searches from the terminal and inspect search analytics without
opening the admin dashboard.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Admin token (defaults to ATELIER_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(analyticsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// requireToken resolves the admin token for protected commands
func requireToken() (string, error) {
	token := authToken
	if token == "" {
		token = os.Getenv("ATELIER_TOKEN")
	}
	if token == "" {
		return "", fmt.Errorf("admin token required: pass --token or set ATELIER_TOKEN")
	}
	return token, nil
}
