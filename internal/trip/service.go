package trip

import (
	"context"
	"strings"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=trip
type Repository interface {
	CreateTrip(ctx context.Context, t *Trip) error
	GetTrip(ctx context.Context, id int64) (*Trip, error)
	ListTrips(ctx context.Context) ([]*Trip, error)
	UpdateTrip(ctx context.Context, t *Trip) error
	SetImage(ctx context.Context, id int64, imageURL string) error

	// DeleteTrip removes the trip and applies mode to its redemptions atomically.
	DeleteTrip(ctx context.Context, id int64, mode DeleteMode) error
	DeleteRedemptions(ctx context.Context, id int64) (int64, error)
	DetachRedemptions(ctx context.Context, id int64) (int64, error)

	Stats(ctx context.Context, id int64) (Stats, error)
	AllStats(ctx context.Context) (map[int64]Stats, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Name        string
	Description string
	Image       string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (p Params) apply(t *Trip) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrNameRequired
	}

	t.Name = name
	t.Description = p.Description
	t.Image = p.Image
	t.StartDate = p.StartDate
	t.EndDate = p.EndDate

	return nil
}

func (s *Service) Create(ctx context.Context, params Params) (*Trip, error) {
	var t Trip
	if err := params.apply(&t); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTrip(ctx, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Trip, error) {
	return s.repo.GetTrip(ctx, id)
}

// List returns every trip, ordered by name, with its aggregates.
func (s *Service) List(ctx context.Context) ([]WithStats, error) {
	trips, err := s.repo.ListTrips(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.AllStats(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]WithStats, 0, len(trips))
	for _, t := range trips {
		out = append(out, WithStats{Trip: t, Stats: stats[t.ID]})
	}

	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, params Params) (*Trip, error) {
	t := &Trip{ID: id}
	if err := params.apply(t); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTrip(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64, mode DeleteMode) error {
	return s.repo.DeleteTrip(ctx, id, mode)
}

func (s *Service) Stats(ctx context.Context, id int64) (Stats, error) {
	if _, err := s.repo.GetTrip(ctx, id); err != nil {
		return Stats{}, err
	}

	return s.repo.Stats(ctx, id)
}

func (s *Service) DeleteRedemptions(ctx context.Context, id int64) (int64, error) {
	return s.repo.DeleteRedemptions(ctx, id)
}

func (s *Service) DetachRedemptions(ctx context.Context, id int64) (int64, error) {
	return s.repo.DetachRedemptions(ctx, id)
}

func (s *Service) SetImage(ctx context.Context, id int64, imageURL string) error {
	return s.repo.SetImage(ctx, id, imageURL)
}
