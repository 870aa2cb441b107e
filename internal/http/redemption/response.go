package redemption

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

type redemptionResponse struct {
	ID             int64        `json:"id"`
	Date           string       `json:"date"`
	Source         string       `json:"source"`
	Points         int64        `json:"points"`
	Value          json.Number  `json:"value"`
	Taxes          json.Number  `json:"taxes"`
	Notes          string       `json:"notes"`
	IsTravelCredit bool         `json:"is_travel_credit"`
	TripID         *int64       `json:"trip_id"`
	CPP            *json.Number `json:"cpp"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func toResponse(r *redemption.Redemption) redemptionResponse {
	resp := redemptionResponse{
		ID:             r.ID,
		Date:           r.Date.Format(time.DateOnly),
		Source:         r.Source,
		Points:         r.Points,
		Value:          json.Number(r.Value.StringFixed(2)),
		Taxes:          json.Number(r.Taxes.StringFixed(2)),
		Notes:          r.Notes,
		IsTravelCredit: r.IsTravelCredit,
		TripID:         r.TripID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}

	if cpp, ok := r.CPP(); ok {
		resp.CPP = new(json.Number(cpp.StringFixed(2)))
	}

	return resp
}

func toResponseList(rs []*redemption.Redemption) []redemptionResponse {
	resp := make([]redemptionResponse, len(rs))
	for i, r := range rs {
		resp[i] = toResponse(r)
	}

	return resp
}

type sourceSummaryResponse struct {
	Source      string       `json:"source"`
	Count       int64        `json:"count"`
	TotalPoints int64        `json:"total_points"`
	TotalValue  json.Number  `json:"total_value"`
	AverageCPP  *json.Number `json:"average_cpp"`
}

type summaryResponse struct {
	Count         int64                   `json:"count"`
	TravelCredits int64                   `json:"travel_credits"`
	TotalPoints   int64                   `json:"total_points"`
	TotalValue    json.Number             `json:"total_value"`
	TotalTaxes    json.Number             `json:"total_taxes"`
	AverageCPP    *json.Number            `json:"average_cpp"`
	BySource      []sourceSummaryResponse `json:"by_source"`
}

func toSummaryResponse(s *redemption.Summary) summaryResponse {
	resp := summaryResponse{
		Count:         s.Count,
		TravelCredits: s.TravelCredits,
		TotalPoints:   s.TotalPoints,
		TotalValue:    json.Number(s.TotalValue.StringFixed(2)),
		TotalTaxes:    json.Number(s.TotalTaxes.StringFixed(2)),
		BySource:      make([]sourceSummaryResponse, len(s.BySource)),
	}

	if s.AverageCPP != nil {
		resp.AverageCPP = new(json.Number(s.AverageCPP.StringFixed(2)))
	}

	for i, src := range s.BySource {
		resp.BySource[i] = sourceSummaryResponse{
			Source:      src.Source,
			Count:       src.Count,
			TotalPoints: src.TotalPoints,
			TotalValue:  json.Number(src.TotalValue.StringFixed(2)),
		}

		if src.AverageCPP != nil {
			resp.BySource[i].AverageCPP = new(json.Number(src.AverageCPP.StringFixed(2)))
		}
	}

	return resp
}
