// Package main provides the cv_templater command line: parse CVs, fill templates and serve the upload API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cv_templater",
	Short: "Fill DOCX CV templates from PDF resumes",
	Long: `cv_templater extracts the text of a PDF (or plain-text) resume, parses it into a structured record
and fills one of the configured Word templates with it, optionally printing a PDF copy.

Configuration is read from --config (JSON or YAML), then CVT_* environment variables, then built-in defaults.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config and CVT_LOG_LEVEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
