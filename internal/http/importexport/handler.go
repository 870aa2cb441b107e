package importexport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/centsperpoint/internal/encoding"
	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
	"github.com/MrJamesThe3rd/centsperpoint/internal/http/respond"
	"github.com/MrJamesThe3rd/centsperpoint/internal/importer"
)

// multipart framing on top of the file itself
const formOverhead = 1 << 20

var (
	errNoFile   = errors.New("No CSV file provided")
	errNotCSV   = errors.New("Only CSV files are allowed")
	errTooLarge = errors.New("CSV file is too large")
)

type Handler struct {
	importSvc *importer.Service
	exportSvc *export.Service
	maxBytes  int64
}

func NewHandler(importSvc *importer.Service, exportSvc *export.Service, maxBytes int64) *Handler {
	return &Handler{
		importSvc: importSvc,
		exportSvc: exportSvc,
		maxBytes:  maxBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.export)
	r.Get("/template", h.template)
	r.Post("/analyze", h.analyze)
	r.Post("/import", h.importCSV)
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write csv response", "error", err)
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	n, err := h.exportSvc.Export(r.Context(), &buf)
	if err != nil {
		slog.Error("failed to export redemptions", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to export CSV")

		return
	}

	slog.Info("exported redemptions", "count", n)
	writeCSV(w, export.ExportFilename, buf.Bytes())
}

func (h *Handler) template(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.exportSvc.WriteTemplate(&buf); err != nil {
		slog.Error("failed to write template", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to generate template")

		return
	}

	writeCSV(w, export.TemplateFilename, buf.Bytes())
}

// upload returns the CSV part of a multipart request, rewound to its start.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errTooLarge
		}

		return nil, errNoFile
	}

	file, fh, err := r.FormFile("csvFile")
	if err != nil {
		file, fh, err = r.FormFile("file")
	}

	if err != nil {
		return nil, errNoFile
	}

	if fh.Size > h.maxBytes {
		file.Close()
		return nil, errTooLarge
	}

	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") && fh.Header.Get("Content-Type") != "text/csv" {
		file.Close()
		return nil, errNotCSV
	}

	mt, err := mimetype.DetectReader(file)
	if err != nil || !isText(mt) {
		file.Close()
		return nil, errNotCSV
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("rewinding upload: %w", err)
	}

	return file, nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}

	return false
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNoFile), errors.Is(err, errNotCSV), errors.Is(err, errTooLarge):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, encoding.ErrBinary):
		respond.Error(w, http.StatusBadRequest, errNotCSV.Error())
	case errors.Is(err, importer.ErrEmptyFile):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to read csv upload", "error", err)
		respond.JSON(w, http.StatusInternalServerError, failureResponse{
			Error:   "Failed to import CSV",
			Message: err.Error(),
		})
	}
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*importer.Analysis
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	file, err := h.upload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer file.Close()

	analysis, err := h.importSvc.Analyze(file)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, analyzeResponse{Success: true, Analysis: analysis})
}

type importResponse struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

type missingMappingsResponse struct {
	Error         string           `json:"error"`
	MissingFields []importer.Field `json:"missingFields"`
	Message       string           `json:"message"`
}

type validationResponse struct {
	Error    string   `json:"error"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message"`
}

type failureResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	file, err := h.upload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer file.Close()

	raw := r.FormValue("columnMappings")
	if strings.TrimSpace(raw) == "" {
		respond.Error(w, http.StatusBadRequest, "Column mappings are required")
		return
	}

	mappings, err := importer.ParseMappings(raw)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.importSvc.Import(r.Context(), file, mappings)

	var (
		missing *importer.MissingMappingsError
		invalid *importer.ValidationError
	)

	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, importResponse{
			Success:  true,
			Imported: res.Imported,
			Skipped:  res.Skipped,
			Total:    res.Total,
			Message:  successMessage(res),
			Warnings: res.Warnings,
		})
	case errors.As(err, &missing):
		respond.JSON(w, http.StatusBadRequest, missingMappingsResponse{
			Error:         "Missing required field mappings",
			MissingFields: missing.Fields,
			Message:       "Please map columns for: " + joinFields(missing.Fields),
		})
	case errors.As(err, &invalid):
		respond.JSON(w, http.StatusBadRequest, validationResponse{
			Error:    "Validation failed",
			Errors:   invalid.Errors,
			Warnings: invalid.Warnings,
			Message:  fmt.Sprintf("Found %d validation error(s). Please fix these issues and try again.", len(invalid.Errors)),
		})
	default:
		writeUploadError(w, err)
	}
}

func successMessage(res *importer.Result) string {
	msg := fmt.Sprintf("Successfully imported %d redemptions", res.Imported)
	if res.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d due to errors", res.Skipped)
	}

	return msg + "."
}

func joinFields(fields []importer.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}

	return strings.Join(names, ", ")
}
