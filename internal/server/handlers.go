package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/cv-templater/internal/db"
	"github.com/jonathan/cv-templater/internal/generator"
	"github.com/jonathan/cv-templater/internal/types"
)

const (
	uploadField = "cv_pdf"
	docxMIME    = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var acceptedUploads = map[string]bool{".pdf": true, ".txt": true}

var downloadTypes = map[string]string{
	".docx": docxMIME,
	".pdf":  "application/pdf",
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	ID       uuid.UUID        `json:"id"`
	Template string           `json:"template_id"`
	Docx     string           `json:"docx"`
	PDF      string           `json:"pdf"`
	DocxURL  string           `json:"docx_url"`
	PDFURL   string           `json:"pdf_url,omitempty"`
	Source   types.SourceInfo `json:"source"`
	CV       *types.ParsedCV  `json:"cv"`
	Warnings []string         `json:"warnings,omitempty"`
}

// ParseResponse is the body of a successful parse.
type ParseResponse struct {
	CV     *types.ParsedCV  `json:"cv"`
	Source types.SourceInfo `json:"source"`
}

type uploadRequest struct {
	path       string
	templateID string
	skipPDF    bool
}

func newGenerateResponse(result *types.GenerateResult) GenerateResponse {
	resp := GenerateResponse{
		ID:       result.ID,
		Template: result.TemplateID,
		Docx:     filepath.Base(result.DocxPath),
		DocxURL:  "/download/" + filepath.Base(result.DocxPath),
		Source:   result.Source,
		CV:       result.CV,
		Warnings: result.Warnings,
	}
	resp.Source.Path = filepath.Base(resp.Source.Path)
	if result.PDFPath != "" {
		resp.PDF = filepath.Base(result.PDFPath)
		resp.PDFURL = "/download/" + resp.PDF
	}
	return resp
}

// handleGenerate accepts a multipart upload (cv_pdf + plantilla) and returns the generated files
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	upload, err := s.receiveUpload(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}
	defer s.removeUpload(upload.path)

	result, err := s.generator.Generate(r.Context(), types.GenerateRequest{
		SourcePath: upload.path,
		TemplateID: upload.templateID,
		SkipPDF:    upload.skipPDF,
	}, nil)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, newGenerateResponse(result))
}

// handleGenerateStream runs a generation and streams its progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	upload, err := s.receiveUpload(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}
	defer s.removeUpload(upload.path)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.generator.Generate(r.Context(), types.GenerateRequest{
		SourcePath: upload.path,
		TemplateID: upload.templateID,
		SkipPDF:    upload.skipPDF,
	}, func(event generator.ProgressEvent) {
		if err := sse.WriteProgress(event); err != nil {
			s.logger.Warn().Err(err).Msg("error writing SSE event")
		}
	})
	if err != nil {
		status := HTTPStatus(err)
		s.logFailure(err, status)
		sse.WriteError(errorMessage(err, status))
		return
	}

	sse.WriteComplete(newGenerateResponse(result))
}

// handleParse parses an uploaded CV without generating anything
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := s.uploadedFile(r)
	if err != nil {
		s.failure(w, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.failure(w, err)
		return
	}

	cv, meta, err := generator.ParseBytes(filepath.Base(header.Filename), data)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ParseResponse{CV: cv, Source: meta.SourceInfo()})
}

// handleDownload serves a generated file from the output directory as an attachment
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		s.errorResponse(w, http.StatusBadRequest, "invalid file name")
		return
	}
	contentType, ok := downloadTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "only .docx and .pdf files can be downloaded")
		return
	}

	f, err := os.Open(filepath.Join(s.generator.OutputDir(), filename))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "file not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.errorResponse(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

type templateInfo struct {
	ID        string `json:"id"`
	File      string `json:"file"`
	Available bool   `json:"available"`
}

// handleTemplates lists the registered templates
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": s.templateInfos()})
}

func (s *Server) templateInfos() []templateInfo {
	list := s.generator.Registry().List()
	infos := make([]templateInfo, 0, len(list))
	for _, t := range list {
		infos = append(infos, templateInfo{ID: t.ID, File: t.File, Available: t.Exists})
	}
	return infos
}

// handleListGenerations lists stored generations, optionally filtered by source hash
func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotFound, "generation history is not enabled")
		return
	}

	var (
		rows []db.Generation
		err  error
	)
	if hash := r.URL.Query().Get("hash"); hash != "" {
		rows, err = s.store.FindBySourceHash(r.Context(), hash)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err = s.store.ListGenerations(r.Context(), limit)
	}
	if err != nil {
		s.failure(w, err)
		return
	}
	if rows == nil {
		rows = []db.Generation{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"generations": rows})
}

// handleGetGeneration returns a stored generation with its parsed CV
func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusNotFound, "generation history is not enabled")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid generation ID")
		return
	}

	row, err := s.store.GetGeneration(r.Context(), id)
	if err != nil {
		s.failure(w, err)
		return
	}
	result, err := row.Result()
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, newGenerateResponse(result))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// receiveUpload validates the multipart form, resolves the template and stores the upload.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (*uploadRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := s.uploadedFile(r)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	templateID := strings.TrimSpace(r.FormValue("plantilla"))
	if templateID == "" {
		templateID = strings.TrimSpace(r.FormValue("template_id"))
	}
	if templateID == "" {
		return nil, &ErrValidation{Field: "plantilla", Message: "template identifier is required"}
	}
	if _, err := s.generator.Registry().Resolve(templateID); err != nil {
		return nil, err
	}
	skipPDF, _ := strconv.ParseBool(r.FormValue("skip_pdf"))

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &uploadRequest{path: path, templateID: templateID, skipPDF: skipPDF}, nil
}

func (s *Server) uploadedFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, nil, err
		}
		return nil, nil, &ErrValidation{Field: "body", Message: "expected a multipart/form-data upload"}
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, nil, &ErrValidation{Field: uploadField, Message: "a CV file is required"}
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); !acceptedUploads[ext] {
		file.Close()
		return nil, nil, &ErrValidation{Field: uploadField, Message: "only .pdf and .txt files are accepted"}
	}
	return file, header, nil
}

func (s *Server) removeUpload(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove upload")
	}
}

func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	s.logFailure(err, status)
	s.errorResponse(w, status, errorMessage(err, status))
}

func (s *Server) logFailure(err error, status int) {
	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).Int("status", status).Msg("request failed")
}
