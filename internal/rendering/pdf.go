package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// DefaultPDFTimeout bounds one fixed-layout rendering
const DefaultPDFTimeout = 60 * time.Second

// A4 in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

var browserCandidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
}

// PDFRenderer produces the fixed-layout rendering of a populated DOCX
type PDFRenderer interface {
	RenderPDF(ctx context.Context, docxPath, pdfPath string) error
}

// ChromePDFRenderer prints the HTML rendering of a DOCX to PDF with headless Chrome.
type ChromePDFRenderer struct {
	ExecPath string
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// NewChromePDFRenderer creates a renderer. An empty execPath searches PATH for a Chrome
// or Chromium binary; a zero timeout means DefaultPDFTimeout.
func NewChromePDFRenderer(execPath string, timeout time.Duration, logger zerolog.Logger) *ChromePDFRenderer {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &ChromePDFRenderer{
		ExecPath: execPath,
		Timeout:  timeout,
		Logger:   logger.With().Str("component", "pdf_renderer").Logger(),
	}
}

// FindBrowser resolves the browser binary to run. It returns ErrRendererUnavailable when
// execPath does not exist or, with no execPath, when no known browser is on PATH.
func FindBrowser(execPath string) (string, error) {
	if execPath != "" {
		if _, err := os.Stat(execPath); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrRendererUnavailable, execPath, err)
		}
		return execPath, nil
	}
	for _, name := range browserCandidates {
		if found, err := exec.LookPath(name); err == nil {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium binary on PATH", ErrRendererUnavailable)
}

// RenderPDF converts the DOCX at docxPath to HTML and prints it to pdfPath.
// The browser runs on its own goroutine; RenderPDF returns when it finishes or when the
// timeout or ctx expires, whichever comes first.
func (r *ChromePDFRenderer) RenderPDF(ctx context.Context, docxPath, pdfPath string) error {
	start := time.Now()

	browser, err := FindBrowser(r.ExecPath)
	if err != nil {
		return err
	}

	docx, err := os.ReadFile(docxPath)
	if err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to read %s", docxPath), Cause: err}
	}
	htmlDoc, err := DOCXToHTML(docx)
	if err != nil {
		return err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	pdfBytes, err := runWithTimeout(ctx, timeout, func(ctx context.Context) ([]byte, error) {
		return printHTMLToPDF(ctx, browser, htmlDoc)
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(pdfPath, pdfBytes, 0644); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to write %s", pdfPath), Cause: err}
	}

	r.Logger.Debug().
		Str("pdf", pdfPath).
		Int("bytes", len(pdfBytes)).
		Dur("duration", time.Since(start)).
		Msg("rendered PDF")
	return nil
}

type renderResult struct {
	data []byte
	err  error
}

// runWithTimeout runs fn on a separate goroutine and waits for it, for ctx, or for timeout.
func runWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan renderResult, 1)
	go func() {
		data, err := fn(ctx)
		done <- renderResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, &RenderError{Message: "PDF rendering failed", Cause: res.err}
		}
		return res.data, nil
	case <-ctx.Done():
		return nil, &RenderError{Message: "PDF rendering did not finish in time", Cause: ctx.Err()}
	}
}

func printHTMLToPDF(ctx context.Context, browser, htmlDoc string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browser),
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "cv-templater-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(htmlDoc), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}
	return pdfBuf, nil
}
