package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-templater/internal/generator"
	"github.com/jonathan/cv-templater/internal/observability"
	"github.com/jonathan/cv-templater/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill a template from a PDF or text resume",
	Long: `Reads the resume given with --in, parses it and writes CV_FINAL_<name>_<id>.docx to the output directory.
A PDF copy is printed with headless Chrome unless --no-pdf is set or rendering is disabled in the config.`,
	RunE: runGenerate,
}

var (
	generateInput    string
	generateTemplate string
	generateOutDir   string
	generateNoPDF    bool
	generateJSON     bool
	generateVerbose  bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "in", "i", "", "Path to the resume (PDF or UTF-8 text)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Template identifier (see the templates command)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", "", "Output directory (overrides output_dir)")
	generateCmd.Flags().BoolVar(&generateNoPDF, "no-pdf", false, "Skip the PDF copy")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the full result as JSON")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print a summary of the parsed CV to stderr")

	_ = generateCmd.MarkFlagRequired("in")
	_ = generateCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	gen, err := newGenerator(cfg, logger, generatorSetup{
		outputDir: generateOutDir,
		renderPDF: !generateNoPDF,
		store:     store,
	})
	if err != nil {
		return err
	}

	var printer *observability.Printer
	if generateVerbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
	}

	return generateCV(ctx, gen, types.GenerateRequest{
		SourcePath: generateInput,
		TemplateID: generateTemplate,
		SkipPDF:    generateNoPDF,
	}, generateJSON, printer, cmd.OutOrStdout())
}

// generateCV runs one generation and reports the produced files on w.
// A non-nil printer also receives the parsed CV and a summary of the result.
func generateCV(ctx context.Context, gen *generator.Generator, req types.GenerateRequest, asJSON bool, printer *observability.Printer, w io.Writer) error {
	var onProgress generator.ProgressCallback
	if printer != nil {
		onProgress = func(event generator.ProgressEvent) {
			if cv, ok := event.Content.(*types.ParsedCV); ok {
				printer.PrintParsedCV(cv)
			}
		}
	}

	result, err := gen.Generate(ctx, req, onProgress)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if printer != nil {
		printer.PrintGeneration(result)
	}

	if asJSON {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonBytes))
		return err
	}

	_, _ = fmt.Fprintf(w, "Candidate: %s\n", result.CV.Nombre)
	_, _ = fmt.Fprintf(w, "DOCX: %s\n", result.DocxPath)
	if result.PDFPath != "" {
		_, _ = fmt.Fprintf(w, "PDF: %s\n", result.PDFPath)
	}
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}
