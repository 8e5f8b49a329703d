package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-templater/internal/db"
	"github.com/jonathan/cv-templater/internal/generator"
	"github.com/jonathan/cv-templater/internal/ingestion/pdftest"
	"github.com/jonathan/cv-templater/internal/rendering/docxtest"
	"github.com/jonathan/cv-templater/internal/templates"
	"github.com/jonathan/cv-templater/internal/types"
)

const sampleCV = "JANE DOE\nBackend Engineer\njane.doe@example.com\nIDIOMAS\nInglés: B2"

type fakeStore struct {
	rows   []db.Generation
	byHash map[string][]db.Generation
	limit  int
}

func (f *fakeStore) GetGeneration(_ context.Context, id uuid.UUID) (*db.Generation, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ListGenerations(_ context.Context, limit int) ([]db.Generation, error) {
	f.limit = limit
	return f.rows, nil
}

func (f *fakeStore) FindBySourceHash(_ context.Context, hash string) ([]db.Generation, error) {
	return f.byHash[hash], nil
}

type testServer struct {
	srv       *Server
	uploadDir string
	outputDir string
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	templatesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "Plantilla1.docx"),
		docxtest.Build("{{NOMBRE}}", "Email: {{EMAIL}}", "{{IDIOMAS}}"), 0644))
	registry, err := templates.NewRegistry(templatesDir, nil)
	require.NoError(t, err)

	ts := &testServer{
		uploadDir: filepath.Join(t.TempDir(), "uploads"),
		outputDir: filepath.Join(t.TempDir(), "output"),
	}
	gen, err := generator.New(generator.Options{
		Registry:   registry,
		OutputDir:  ts.outputDir,
		EmptyValue: "N/A",
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	opts.Generator = gen
	opts.UploadDir = ts.uploadDir
	opts.Logger = zerolog.Nop()
	ts.srv, err = New(opts)
	require.NoError(t, err)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func newUploadRequest(t *testing.T, path string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("cv_pdf", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestNew_RequiresGeneratorAndUploadDir(t *testing.T) {
	_, err := New(Options{UploadDir: "uploads"})
	assert.Error(t, err)

	registry, err := templates.NewRegistry(t.TempDir(), nil)
	require.NoError(t, err)
	gen, err := generator.New(generator.Options{Registry: registry, OutputDir: t.TempDir()})
	require.NoError(t, err)

	_, err = New(Options{Generator: gen})
	assert.Error(t, err)
}

func TestHandleGenerate(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(newUploadRequest(t, "/generate", map[string]string{"plantilla": "1"}, "cv.txt", []byte(sampleCV)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "1", resp.Template)
	assert.True(t, strings.HasPrefix(resp.Docx, "CV_FINAL_JANE_DOE_"), resp.Docx)
	assert.Equal(t, "/download/"+resp.Docx, resp.DocxURL)
	assert.Empty(t, resp.PDF)
	assert.Empty(t, resp.PDFURL)
	require.NotNil(t, resp.CV)
	assert.Equal(t, "JANE DOE", resp.CV.Nombre)
	assert.Equal(t, 1, resp.Source.Pages)
	assert.NotContains(t, resp.Source.Path, string(filepath.Separator))

	assert.FileExists(t, filepath.Join(ts.outputDir, resp.Docx))
	entries, err := os.ReadDir(ts.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads are removed after generation")

	download := ts.do(httptest.NewRequest(http.MethodGet, resp.DocxURL, nil))
	require.Equal(t, http.StatusOK, download.Code)
	assert.Equal(t, docxMIME, download.Header().Get("Content-Type"))
	assert.Contains(t, download.Header().Get("Content-Disposition"), "attachment")
	text, err := docxtest.Text(download.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\nEmail: jane.doe@example.com\nIngles: B2", text)
}

func TestHandleGenerate_PDFUpload(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(newUploadRequest(t, "/generate", map[string]string{"template_id": "1"}, "cv.pdf",
		pdftest.Build("JANE DOE\nBackend Engineer")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Source.Pages)
	assert.Len(t, resp.Source.Hash, 64)
}

func TestHandleGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		filename   string
		content    []byte
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file",
			fields:     map[string]string{"plantilla": "1"},
			wantStatus: http.StatusBadRequest,
			wantError:  "cv_pdf",
		},
		{
			name:       "missing template",
			filename:   "cv.txt",
			content:    []byte(sampleCV),
			wantStatus: http.StatusBadRequest,
			wantError:  "plantilla",
		},
		{
			name:       "unknown template",
			fields:     map[string]string{"plantilla": "9"},
			filename:   "cv.txt",
			content:    []byte(sampleCV),
			wantStatus: http.StatusBadRequest,
			wantError:  `unknown template "9"`,
		},
		{
			name:       "template file missing",
			fields:     map[string]string{"plantilla": "2"},
			filename:   "cv.txt",
			content:    []byte(sampleCV),
			wantStatus: http.StatusBadRequest,
			wantError:  `unknown template "2"`,
		},
		{
			name:       "unsupported extension",
			fields:     map[string]string{"plantilla": "1"},
			filename:   "cv.docx",
			content:    []byte("PK"),
			wantStatus: http.StatusBadRequest,
			wantError:  ".pdf and .txt",
		},
		{
			name:       "broken PDF",
			fields:     map[string]string{"plantilla": "1"},
			filename:   "cv.pdf",
			content:    []byte("%PDF-1.4\nbroken"),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "unreadable source",
		},
		{
			name:       "empty file",
			fields:     map[string]string{"plantilla": "1"},
			filename:   "cv.txt",
			content:    []byte{},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Options{})

			rec := ts.do(newUploadRequest(t, "/generate", tt.fields, tt.filename, tt.content))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantError)
			assert.NoDirExists(t, ts.outputDir)
		})
	}
}

func TestHandleGenerate_NotMultipart(t *testing.T) {
	ts := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"plantilla":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "multipart")
}

func TestHandleGenerate_TooLarge(t *testing.T) {
	ts := newTestServer(t, Options{MaxUploadBytes: 1024})

	rec := ts.do(newUploadRequest(t, "/generate", map[string]string{"plantilla": "1"}, "cv.txt",
		bytes.Repeat([]byte("a"), 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleGenerateStream(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(newUploadRequest(t, "/generate/stream", map[string]string{"plantilla": "1"}, "cv.txt", []byte(sampleCV)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: step\ndata: {\"step\":\"ingest\"")
	assert.Contains(t, body, "event: step\ndata: {\"step\":\"fill\"")
	assert.NotContains(t, body, "event: error")

	idx := strings.Index(body, "event: complete\ndata: ")
	require.GreaterOrEqual(t, idx, 0)
	payload := strings.TrimSpace(body[idx+len("event: complete\ndata: "):])
	var resp GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	assert.Equal(t, "JANE DOE", resp.CV.Nombre)
}

func TestHandleGenerateStream_ErrorEvent(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(newUploadRequest(t, "/generate/stream", map[string]string{"plantilla": "1"}, "cv.pdf", []byte("%PDF-1.4\nbroken")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error\ndata: {\"error\":\"unreadable source")
	assert.NotContains(t, rec.Body.String(), "event: complete")
}

func TestHandleParse(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(newUploadRequest(t, "/parse", nil, "cv.txt", []byte(sampleCV)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "JANE DOE", resp.CV.Nombre)
	assert.Equal(t, "jane.doe@example.com", resp.CV.Contacto.Email)
	assert.Equal(t, map[string]string{"Ingles": "B2"}, resp.CV.Idiomas)
	assert.Equal(t, "cv.txt", resp.Source.Path)
	assert.NoDirExists(t, ts.outputDir)
}

func TestHandleDownload(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, os.MkdirAll(ts.outputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ts.outputDir, "CV_FINAL_x.pdf"), []byte("%PDF-1.4"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(ts.outputDir, "notes.txt"), []byte("secret"), 0644))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing pdf", "/download/CV_FINAL_x.pdf", http.StatusOK},
		{"missing file", "/download/CV_FINAL_missing.docx", http.StatusNotFound},
		{"other extension", "/download/notes.txt", http.StatusBadRequest},
		{"hidden file", "/download/.env.pdf", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/download/CV_FINAL_x.pdf", nil))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="CV_FINAL_x.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestHandleTemplates(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Templates []templateInfo `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []templateInfo{
		{ID: "1", File: "Plantilla1.docx", Available: true},
		{ID: "2", File: "Plantilla2.docx", Available: false},
		{ID: "3", File: "Plantilla3.docx", Available: false},
	}, resp.Templates)
}

func TestHandleIndex(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `name="cv_pdf"`)
	assert.Contains(t, body, `name="plantilla"`)
	assert.Contains(t, body, `<option value="1">1 - Plantilla1.docx</option>`)
	assert.Contains(t, body, `<option value="2" disabled>`)

	notFound := ts.do(httptest.NewRequest(http.MethodGet, "/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(httptest.NewRequest(http.MethodOptions, "/generate", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Options{RateLimitPerMinute: 1})

	first := ts.do(newUploadRequest(t, "/parse", nil, "cv.txt", []byte(sampleCV)))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := ts.do(newUploadRequest(t, "/parse", nil, "cv.txt", []byte(sampleCV)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeError(t, second))

	health := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestGenerations_Disabled(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{"/generations", "/generations/" + uuid.NewString()} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestGenerations(t *testing.T) {
	cv, err := json.Marshal(types.ParsedCV{Nombre: "JANE DOE"})
	require.NoError(t, err)
	row := db.Generation{
		ID:         uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000"),
		TemplateID: "1",
		SourcePath: "/srv/uploads/abc.pdf",
		SourceHash: "deadbeef",
		Candidate:  "JANE DOE",
		ParsedCV:   cv,
		DocxPath:   "/srv/output/CV_FINAL_JANE_DOE_1a2b3c4d.docx",
		Warnings:   []string{},
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	store := &fakeStore{
		rows:   []db.Generation{row},
		byHash: map[string][]db.Generation{"deadbeef": {row}},
	}
	ts := newTestServer(t, Options{Store: store})

	t.Run("list", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/generations?limit=5", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, store.limit)

		var resp struct {
			Generations []db.Generation `json:"generations"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Generations, 1)
		assert.Equal(t, "JANE DOE", resp.Generations[0].Candidate)
	})

	t.Run("by hash", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/generations?hash=deadbeef", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), row.ID.String())

		rec = ts.do(httptest.NewRequest(http.MethodGet, "/generations?hash=other", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"generations":[]}`, rec.Body.String())
	})

	t.Run("get", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/generations/"+row.ID.String(), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, row.ID, resp.ID)
		assert.Equal(t, "CV_FINAL_JANE_DOE_1a2b3c4d.docx", resp.Docx)
		assert.Equal(t, "abc.pdf", resp.Source.Path)
		assert.Equal(t, "2024-05-01T12:00:00Z", resp.Source.Timestamp)
		assert.Equal(t, "JANE DOE", resp.CV.Nombre)
	})

	t.Run("not found", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/generations/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := ts.do(httptest.NewRequest(http.MethodGet, "/generations/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
