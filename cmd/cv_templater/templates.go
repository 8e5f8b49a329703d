package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-templater/internal/rendering"
	"github.com/jonathan/cv-templater/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the configured templates and the placeholders they use",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadRuntime()
	if err != nil {
		return err
	}

	registry, err := templates.NewRegistry(cfg.TemplatesDir, cfg.Templates)
	if err != nil {
		return fmt.Errorf("invalid template registry: %w", err)
	}
	return listTemplates(registry, cmd.OutOrStdout())
}

// listTemplates prints one line per template: id, file and either its placeholders or why it is unusable.
func listTemplates(registry *templates.Registry, w io.Writer) error {
	for _, t := range registry.List() {
		status := "missing"
		if t.Exists {
			status = describeTemplate(t.Path)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.File, status); err != nil {
			return err
		}
	}
	return nil
}

func describeTemplate(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unreadable: " + err.Error()
	}
	keys, err := rendering.TemplatePlaceholders(data)
	if err != nil {
		return "invalid: " + err.Error()
	}
	if len(keys) == 0 {
		return "no placeholders"
	}
	return strings.Join(keys, ", ")
}
