package calculator

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centsperpoint/internal/calculator"
	"github.com/MrJamesThe3rd/centsperpoint/internal/http/respond"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/programs", h.programs)
	r.Post("/", h.calculate)
}

func (h *Handler) programs(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, calculator.Programs)
}

type calculateRequest struct {
	Program   string          `json:"program" validate:"max=50"`
	Points    int64           `json:"points" validate:"gte=0"`
	CashValue decimal.Decimal `json:"cash_value"`
	Taxes     decimal.Decimal `json:"taxes"`
}

type calculateResponse struct {
	CPP       json.Number `json:"cpp"`
	Program   string      `json:"program,omitempty"`
	Reference json.Number `json:"reference,omitempty"`
	Verdict   string      `json:"verdict,omitempty"`
	Summary   string      `json:"summary"`
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := respond.Validate.Struct(req); err != nil {
		respond.Invalid(w, respond.Problems(err))
		return
	}

	res, err := calculator.Calculate(calculator.Input{
		Program:   req.Program,
		Points:    req.Points,
		CashValue: req.CashValue,
		Taxes:     req.Taxes,
	})
	if err != nil {
		respond.Invalid(w, []string{err.Error()})
		return
	}

	resp := calculateResponse{
		CPP:     json.Number(res.CPP.StringFixed(2)),
		Verdict: string(res.Verdict),
		Summary: res.Describe(),
	}

	if res.Program != nil {
		resp.Program = res.Program.Label
		resp.Reference = json.Number(res.Program.Reference.String())
	}

	respond.JSON(w, http.StatusOK, resp)
}
