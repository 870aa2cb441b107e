package trip

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centsperpoint/internal/http/respond"
	"github.com/MrJamesThe3rd/centsperpoint/internal/trip"
)

const maxImageBytes = 5 << 20

type Handler struct {
	svc       *trip.Service
	uploadDir string
}

// NewHandler stores uploaded images in uploadDir; they are expected to be served
// under /uploads/.
func NewHandler(svc *trip.Service, uploadDir string) *Handler {
	return &Handler{svc: svc, uploadDir: uploadDir}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/stats", h.stats)
	r.Delete("/{id}/redemptions", h.deleteRedemptions)
	r.Patch("/{id}/redemptions/remove-association", h.detachRedemptions)
	r.Post("/{id}/upload-image", h.uploadImage)
}

type tripRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image"`
	StartDate   string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return &t
}

func decode(w http.ResponseWriter, r *http.Request) (trip.Params, bool) {
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return trip.Params{}, false
	}

	if err := respond.Validate.Struct(req); err != nil {
		respond.Invalid(w, respond.Problems(err))
		return trip.Params{}, false
	}

	return trip.Params{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseDate(req.EndDate),
	}, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	trips, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(trips))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, ok := decode(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	params, ok := decode(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	mode, err := trip.ParseDeleteMode(r.URL.Query().Get("mode"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id, mode); err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	s, err := h.svc.Stats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toStatsResponse(s))
}

type affectedResponse struct {
	Message  string `json:"message"`
	Affected int64  `json:"affected"`
}

func (h *Handler) deleteRedemptions(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := h.svc.DeleteRedemptions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, affectedResponse{
		Message:  fmt.Sprintf("Deleted %d redemptions", n),
		Affected: n,
	})
}

func (h *Handler) detachRedemptions(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := h.svc.DetachRedemptions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, affectedResponse{
		Message:  fmt.Sprintf("Removed trip association from %d redemptions", n),
		Affected: n,
	})
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1<<20)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	file, fh, err := r.FormFile("image")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	if fh.Size > maxImageBytes {
		respond.Error(w, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	mt, err := mimetype.DetectReader(file)
	if err != nil || !strings.HasPrefix(mt.String(), "image/") {
		respond.Error(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, fmt.Errorf("rewinding upload: %w", err))
		return
	}

	name := fmt.Sprintf("trip_%d_%s%s", id, uuid.NewString(), mt.Extension())
	if err := h.save(file, name); err != nil {
		writeError(w, err)
		return
	}

	url := "/uploads/" + name
	if err := h.svc.SetImage(r.Context(), id, url); err != nil {
		writeError(w, err)
		return
	}

	t.Image = url

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) save(src io.Reader, name string) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("writing image file: %w", err)
	}

	return dst.Close()
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "trip not found")
	case errors.Is(err, trip.ErrNameRequired):
		respond.Invalid(w, []string{err.Error()})
	case errors.Is(err, trip.ErrHasRedemptions):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		slog.Error("trip request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
