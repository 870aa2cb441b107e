package redemption

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=redemption
type Repository interface {
	CreateRedemption(ctx context.Context, r *Redemption) error
	GetRedemption(ctx context.Context, id int64) (*Redemption, error)
	UpdateRedemption(ctx context.Context, r *Redemption) error
	DeleteRedemption(ctx context.Context, id int64) error
	ListRedemptions(ctx context.Context, filter ListFilter) ([]*Redemption, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx inserts rows one by one inside a single transaction. A failing Insert
// leaves the transaction usable for the following rows.
type ImportTx interface {
	Insert(ctx context.Context, r *Redemption) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MaxPoints is the largest points value the points column can hold.
const MaxPoints = math.MaxInt32

type CreateParams struct {
	Date           time.Time
	Source         string
	Points         int64
	Value          decimal.Decimal
	Taxes          decimal.Decimal
	Notes          string
	IsTravelCredit bool
	TripID         *int64
}

// Validate checks the invariants every stored redemption must satisfy.
func (p CreateParams) Validate() error {
	var problems []string

	if p.Date.IsZero() {
		problems = append(problems, "date is required")
	}

	if strings.TrimSpace(p.Source) == "" {
		problems = append(problems, "source is required")
	}

	if p.Points < 0 {
		problems = append(problems, "points must be >= 0")
	}

	if p.Points > MaxPoints {
		problems = append(problems, fmt.Sprintf("points must be <= %d", MaxPoints))
	}

	if p.Points == 0 && !p.IsTravelCredit {
		problems = append(problems, "points must be greater than 0 unless this is a travel credit")
	}

	if p.Value.IsNegative() {
		problems = append(problems, "value must be >= 0")
	}

	if p.Taxes.IsNegative() {
		problems = append(problems, "taxes must be >= 0")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}

func (p CreateParams) toRedemption() *Redemption {
	return &Redemption{
		Date:           p.Date,
		Source:         strings.TrimSpace(p.Source),
		Points:         p.Points,
		Value:          p.Value,
		Taxes:          p.Taxes,
		Notes:          strings.TrimSpace(p.Notes),
		IsTravelCredit: p.IsTravelCredit,
		TripID:         p.TripID,
	}
}

type ListFilter struct {
	TripID    *int64
	Source    *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Redemption, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := params.toRedemption()
	if err := s.repo.CreateRedemption(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Redemption, error) {
	return s.repo.GetRedemption(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Redemption, error) {
	return s.repo.ListRedemptions(ctx, filter)
}

// Update replaces every mutable field of the redemption.
func (s *Service) Update(ctx context.Context, id int64, params CreateParams) (*Redemption, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := params.toRedemption()
	r.ID = id

	if err := s.repo.UpdateRedemption(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteRedemption(ctx, id)
}

func (s *Service) Summary(ctx context.Context, filter ListFilter) (*Summary, error) {
	rs, err := s.repo.ListRedemptions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing redemptions: %w", err)
	}

	return Summarize(rs), nil
}

type ImportResult struct {
	Imported []*Redemption
	Skipped  int
}

// ImportBatch inserts already validated params in order, in one transaction. Rows the
// store rejects are skipped and counted; the rest are committed.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	result := &ImportResult{Imported: make([]*Redemption, 0, len(params))}

	for i, p := range params {
		if err := p.Validate(); err != nil {
			slog.Warn("skipping invalid redemption during import", "index", i, "source", p.Source, "error", err)
			result.Skipped++

			continue
		}

		r := p.toRedemption()
		if err := itx.Insert(ctx, r); err != nil {
			slog.Warn("skipping redemption during import", "index", i, "source", r.Source, "error", err)
			result.Skipped++

			continue
		}

		result.Imported = append(result.Imported, r)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}

// Summarize aggregates redemptions overall and per source, sources sorted by name.
func Summarize(rs []*Redemption) *Summary {
	sum := &Summary{TotalValue: decimal.Zero, TotalTaxes: decimal.Zero}

	type acc struct {
		summary   SourceSummary
		netValue  decimal.Decimal
		cppPoints int64
	}

	var (
		bySource  = make(map[string]*acc)
		netValue  = decimal.Zero
		cppPoints int64
	)

	for _, r := range rs {
		sum.Count++
		sum.TotalPoints += r.Points
		sum.TotalValue = sum.TotalValue.Add(r.Value)
		sum.TotalTaxes = sum.TotalTaxes.Add(r.Taxes)

		if r.IsTravelCredit {
			sum.TravelCredits++
		}

		a, ok := bySource[r.Source]
		if !ok {
			a = &acc{summary: SourceSummary{Source: r.Source, TotalValue: decimal.Zero}, netValue: decimal.Zero}
			bySource[r.Source] = a
		}

		a.summary.Count++
		a.summary.TotalPoints += r.Points
		a.summary.TotalValue = a.summary.TotalValue.Add(r.Value)

		if _, ok := r.CPP(); ok {
			net := r.Value.Sub(r.Taxes)
			netValue = netValue.Add(net)
			cppPoints += r.Points
			a.netValue = a.netValue.Add(net)
			a.cppPoints += r.Points
		}
	}

	if avg, ok := CentsPerPoint(netValue, decimal.Zero, cppPoints, false); ok {
		avg = avg.Round(2)
		sum.AverageCPP = &avg
	}

	for _, a := range bySource {
		if avg, ok := CentsPerPoint(a.netValue, decimal.Zero, a.cppPoints, false); ok {
			avg = avg.Round(2)
			a.summary.AverageCPP = &avg
		}

		sum.BySource = append(sum.BySource, a.summary)
	}

	sort.Slice(sum.BySource, func(i, j int) bool {
		return sum.BySource[i].Source < sum.BySource[j].Source
	})

	return sum
}
