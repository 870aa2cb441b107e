package redemption

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centsperpoint/internal/http/respond"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

type Handler struct {
	svc *redemption.Service
}

func NewHandler(svc *redemption.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type redemptionRequest struct {
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	Source         string          `json:"source" validate:"required"`
	Points         int64           `json:"points" validate:"gte=0"`
	Value          decimal.Decimal `json:"value"`
	Taxes          decimal.Decimal `json:"taxes"`
	Notes          string          `json:"notes" validate:"max=2000"`
	IsTravelCredit bool            `json:"is_travel_credit"`
	TripID         *int64          `json:"trip_id" validate:"omitempty,gt=0"`
}

func (req redemptionRequest) params() (redemption.CreateParams, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return redemption.CreateParams{}, err
	}

	return redemption.CreateParams{
		Date:           date,
		Source:         req.Source,
		Points:         req.Points,
		Value:          req.Value,
		Taxes:          req.Taxes,
		Notes:          req.Notes,
		IsTravelCredit: req.IsTravelCredit,
		TripID:         req.TripID,
	}, nil
}

// decode reads and validates the body. It writes the error response itself and
// reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request) (redemption.CreateParams, bool) {
	var req redemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return redemption.CreateParams{}, false
	}

	if err := respond.Validate.Struct(req); err != nil {
		respond.Invalid(w, respond.Problems(err))
		return redemption.CreateParams{}, false
	}

	params, err := req.params()
	if err != nil {
		respond.Invalid(w, []string{"Date: " + err.Error()})
		return redemption.CreateParams{}, false
	}

	return params, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, ok := decode(w, r)
	if !ok {
		return
	}

	red, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(red))
}

func parseFilter(r *http.Request) (redemption.ListFilter, error) {
	q := r.URL.Query()
	filter := redemption.ListFilter{}

	if s := q.Get("trip_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filter, errors.New("trip_id must be an integer")
		}

		filter.TripID = new(id)
	}

	if s := strings.TrimSpace(q.Get("source")); s != "" {
		filter.Source = new(s)
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("start_date must be YYYY-MM-DD")
		}

		filter.StartDate = new(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, errors.New("end_date must be YYYY-MM-DD")
		}

		filter.EndDate = new(t)
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(rs))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := h.svc.Summary(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	red, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(red))
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

	red, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(red))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *redemption.ValidationError

	switch {
	case errors.As(err, &verr):
		respond.Invalid(w, verr.Problems)
	case errors.Is(err, redemption.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "redemption not found")
	default:
		slog.Error("redemption request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
