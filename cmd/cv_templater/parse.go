package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-templater/internal/generator"
	"github.com/jonathan/cv-templater/internal/schemas"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse resumes into structured JSON",
	Long: `Parses each PDF or text resume into the structured CV record.
With --out, each record is written to <out>/<name>.cv.json; otherwise records are printed to stdout in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseOutDir      string
	parseValidate    bool
	parseConcurrency int
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutDir, "out", "o", "", "Directory for <name>.cv.json files (default: stdout)")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Fail when a record does not match the CV schema")
	parseCmd.Flags().IntVarP(&parseConcurrency, "concurrency", "c", 4, "Number of files parsed in parallel")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if _, _, err := loadRuntime(); err != nil {
		return err
	}
	return parseFiles(cmd.Context(), args, parseOptions{
		outDir:      parseOutDir,
		validate:    parseValidate,
		concurrency: parseConcurrency,
	}, cmd.OutOrStdout())
}

type parseOptions struct {
	outDir      string
	validate    bool
	concurrency int
}

// parseFiles parses paths concurrently. Output order follows paths regardless of completion order.
func parseFiles(ctx context.Context, paths []string, opts parseOptions, w io.Writer) error {
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	outputs := make([][]byte, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.concurrency))

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			cv, _, err := generator.ParseFile(path)
			if err != nil {
				return err
			}
			if opts.validate {
				if err := schemas.ValidateParsedCV(cv); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}

			jsonBytes, err := json.MarshalIndent(cv, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}

			if opts.outDir == "" {
				outputs[i] = jsonBytes
				return nil
			}
			target := filepath.Join(opts.outDir, recordFileName(path))
			if err := os.WriteFile(target, jsonBytes, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			outputs[i] = []byte(target)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, out := range outputs {
		if _, err := fmt.Fprintln(w, string(out)); err != nil {
			return err
		}
	}
	return nil
}

// recordFileName maps cv/jane.pdf to jane.cv.json
func recordFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".cv.json"
}
