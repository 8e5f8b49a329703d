package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-templater/internal/generator"
)

// SSEWriter streams the progress of one generation as Server-Sent Events.
// A stream is a sequence of "step" events closed by exactly one "complete" or "error" event.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sets the event-stream headers on w. It fails when w cannot flush,
// since a buffered stream would deliver every step only after the DOCX is written.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes one named event with a JSON payload and flushes it
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteProgress forwards a generator step (ingest, parse, fill, render, store)
func (s *SSEWriter) WriteProgress(event generator.ProgressEvent) error {
	return s.WriteEvent("step", event)
}

// WriteError ends the stream with the client-safe message of a failed generation
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete ends the stream with the GenerateResponse of the finished generation
func (s *SSEWriter) WriteComplete(result any) {
	s.WriteEvent("complete", result) //nolint:errcheck
}
