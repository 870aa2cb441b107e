package redemption

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Redemption is a single use of loyalty points (or a travel credit).
type Redemption struct {
	ID             int64
	Date           time.Time
	Source         string
	Points         int64
	Value          decimal.Decimal // USD
	Taxes          decimal.Decimal // USD paid on top of the points
	Notes          string
	IsTravelCredit bool
	TripID         *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CPP returns the cents-per-point of the redemption. The second value is false when
// the metric does not apply: travel credits and zero-point rows.
func (r *Redemption) CPP() (decimal.Decimal, bool) {
	return CentsPerPoint(r.Value, r.Taxes, r.Points, r.IsTravelCredit)
}

// CentsPerPoint computes (value - taxes) / points * 100.
func CentsPerPoint(value, taxes decimal.Decimal, points int64, travelCredit bool) (decimal.Decimal, bool) {
	if travelCredit || points <= 0 {
		return decimal.Zero, false
	}

	return value.Sub(taxes).Div(decimal.NewFromInt(points)).Mul(hundred), true
}

// SourceSummary aggregates the redemptions of a single source.
type SourceSummary struct {
	Source      string
	Count       int64
	TotalPoints int64
	TotalValue  decimal.Decimal
	AverageCPP  *decimal.Decimal
}

// Summary aggregates a set of redemptions.
type Summary struct {
	Count         int64
	TravelCredits int64
	TotalPoints   int64
	TotalValue    decimal.Decimal
	TotalTaxes    decimal.Decimal
	// AverageCPP is weighted by points and only covers rows where CPP applies.
	AverageCPP *decimal.Decimal
	BySource   []SourceSummary
}
