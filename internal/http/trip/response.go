package trip

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/centsperpoint/internal/trip"
)

type tripResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	StartDate   *string   `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type statsResponse struct {
	TotalRedemptions int64        `json:"total_redemptions"`
	TotalPoints      int64        `json:"total_points"`
	TotalValue       json.Number  `json:"total_value"`
	AverageCPP       *json.Number `json:"average_cpp"`
}

type tripWithStatsResponse struct {
	tripResponse
	statsResponse
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	return new(t.Format(time.DateOnly))
}

func toResponse(t *trip.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Image:       t.Image,
		StartDate:   formatDate(t.StartDate),
		EndDate:     formatDate(t.EndDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toStatsResponse(s trip.Stats) statsResponse {
	resp := statsResponse{
		TotalRedemptions: s.TotalRedemptions,
		TotalPoints:      s.TotalPoints,
		TotalValue:       json.Number(s.TotalValue.StringFixed(2)),
	}

	if s.AverageCPP != nil {
		resp.AverageCPP = new(json.Number(s.AverageCPP.StringFixed(2)))
	}

	return resp
}

func toResponseList(ts []trip.WithStats) []tripWithStatsResponse {
	resp := make([]tripWithStatsResponse, len(ts))
	for i, t := range ts {
		resp[i] = tripWithStatsResponse{
			tripResponse:  toResponse(t.Trip),
			statsResponse: toStatsResponse(t.Stats),
		}
	}

	return resp
}
