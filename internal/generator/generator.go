package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/cv-templater/internal/ingestion"
	"github.com/jonathan/cv-templater/internal/parsing"
	"github.com/jonathan/cv-templater/internal/rendering"
	"github.com/jonathan/cv-templater/internal/schemas"
	"github.com/jonathan/cv-templater/internal/templates"
	"github.com/jonathan/cv-templater/internal/types"
)

// Generation steps reported through ProgressEvent and Error.
const (
	StepTemplate = "template"
	StepIngest   = "ingest"
	StepParse    = "parse"
	StepFill     = "fill"
	StepRender   = "render"
	StepStore    = "store"
)

// ProgressEvent represents a progress update during a generation
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// Store persists finished generations.
type Store interface {
	SaveGeneration(ctx context.Context, result *types.GenerateResult) error
}

// Options holds the collaborators of a Generator.
// Renderer and Store are optional.
type Options struct {
	Registry   *templates.Registry
	OutputDir  string
	EmptyValue string
	Renderer   rendering.PDFRenderer
	Store      Store
	Logger     zerolog.Logger
}

// Generator produces populated templates from CV sources. It is safe for concurrent use.
type Generator struct {
	registry   *templates.Registry
	outputDir  string
	emptyValue string
	renderer   rendering.PDFRenderer
	store      Store
	logger     zerolog.Logger
	now        func() time.Time
	newID      func() uuid.UUID
}

// New creates a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("generator requires a template registry")
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("generator requires an output directory")
	}
	return &Generator{
		registry:   opts.Registry,
		outputDir:  opts.OutputDir,
		emptyValue: opts.EmptyValue,
		renderer:   opts.Renderer,
		store:      opts.Store,
		logger:     opts.Logger.With().Str("component", "generator").Logger(),
		now:        time.Now,
		newID:      uuid.New,
	}, nil
}

// Registry returns the template registry the generator resolves against.
func (g *Generator) Registry() *templates.Registry {
	return g.registry
}

// OutputDir returns the directory generated files are written to.
func (g *Generator) OutputDir() string {
	return g.outputDir
}

// Generate reads the source document, parses it and fills the requested template.
// The template is resolved before the source is read so that an unknown identifier fails fast.
func (g *Generator) Generate(ctx context.Context, req types.GenerateRequest, onProgress ProgressCallback) (*types.GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Step: StepTemplate, Message: "invalid request", Cause: err}
	}

	templatePath, err := g.registry.Resolve(req.TemplateID)
	if err != nil {
		return nil, err
	}

	emit(onProgress, StepIngest, "reading source document", nil)
	text, meta, err := ingestion.IngestFromFile(req.SourcePath)
	if err != nil {
		return nil, err
	}

	return g.generate(ctx, req.TemplateID, templatePath, text, meta, req.SkipPDF, onProgress)
}

// GenerateFromText fills the requested template from already extracted CV text.
func (g *Generator) GenerateFromText(ctx context.Context, templateID, text string, skipPDF bool, onProgress ProgressCallback) (*types.GenerateResult, error) {
	templatePath, err := g.registry.Resolve(templateID)
	if err != nil {
		return nil, err
	}
	meta := ingestion.NewMetadata("", []byte(text), 1, text)
	return g.generate(ctx, templateID, templatePath, text, meta, skipPDF, onProgress)
}

func (g *Generator) generate(ctx context.Context, templateID, templatePath, text string, meta *ingestion.Metadata, skipPDF bool, onProgress ProgressCallback) (*types.GenerateResult, error) {
	start := g.now()
	id := g.newID()
	logger := g.logger.With().
		Str("generation_id", id.String()).
		Str("template_id", templateID).
		Str("source", meta.Path).
		Logger()

	result := &types.GenerateResult{
		ID:         id,
		TemplateID: templateID,
		Source:     meta.SourceInfo(),
		CreatedAt:  start.UTC(),
	}

	emit(onProgress, StepParse, "parsing CV text", nil)
	result.CV = parsing.ParseCV(text)
	if err := schemas.ValidateParsedCV(result.CV); err != nil {
		logger.Warn().Err(err).Msg("parsed CV does not match schema")
		result.Warnings = append(result.Warnings, fmt.Sprintf("parsed CV does not match schema: %v", err))
	}
	emit(onProgress, StepParse, "CV parsed", result.CV)

	if err := ctx.Err(); err != nil {
		return nil, &Error{Step: StepFill, Message: "generation cancelled", Cause: err}
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, &Error{Step: StepFill, Message: "failed to create output directory", Cause: err}
	}
	base := OutputBaseName(result.CV.Nombre, id.String()[:8])
	result.DocxPath = filepath.Join(g.outputDir, base+".docx")

	emit(onProgress, StepFill, "filling template", nil)
	values := rendering.BuildPlaceholders(result.CV)
	if err := rendering.FillDOCX(templatePath, result.DocxPath, values, g.emptyValue); err != nil {
		return nil, err
	}

	if g.renderer != nil && !skipPDF {
		emit(onProgress, StepRender, "rendering PDF", nil)
		pdfPath := filepath.Join(g.outputDir, base+".pdf")
		if err := g.renderer.RenderPDF(ctx, result.DocxPath, pdfPath); err != nil {
			logger.Warn().Err(err).Msg("PDF rendering failed; returning DOCX only")
			result.Warnings = append(result.Warnings, fmt.Sprintf("PDF rendering failed: %v", err))
		} else {
			result.PDFPath = pdfPath
		}
	}

	if g.store != nil {
		emit(onProgress, StepStore, "saving generation", nil)
		if err := g.store.SaveGeneration(ctx, result); err != nil {
			logger.Error().Err(err).Msg("failed to save generation")
			result.Warnings = append(result.Warnings, fmt.Sprintf("generation not saved: %v", err))
		}
	}

	logger.Info().
		Str("docx", result.DocxPath).
		Str("pdf", result.PDFPath).
		Bool("name_detected", result.CV.NameDetected()).
		Dur("duration", g.now().Sub(start)).
		Msg("CV generated")

	return result, nil
}

func emit(onProgress ProgressCallback, step, message string, content any) {
	if onProgress != nil {
		onProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}
