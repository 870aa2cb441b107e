package trip

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("trip not found")
	ErrNameRequired   = errors.New("trip name is required")
	ErrHasRedemptions = errors.New("cannot delete trip that has associated redemptions, reassign or delete the redemptions first")
)

// Trip groups redemptions, e.g. a vacation.
type Trip struct {
	ID          int64
	Name        string
	Description string
	Image       string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats aggregates the redemptions of a trip.
type Stats struct {
	TotalRedemptions int64
	TotalPoints      int64
	TotalValue       decimal.Decimal
	// AverageCPP is nil when the trip has no points-based redemptions.
	AverageCPP *decimal.Decimal
}

// WithStats is a trip together with its aggregates.
type WithStats struct {
	*Trip
	Stats Stats
}

// DeleteMode decides what happens to a trip's redemptions when the trip is deleted.
type DeleteMode string

const (
	DeleteReject  DeleteMode = "reject"
	DeleteCascade DeleteMode = "cascade"
	DeleteDetach  DeleteMode = "detach"
)

func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(s) {
	case "", DeleteReject:
		return DeleteReject, nil
	case DeleteCascade, DeleteDetach:
		return DeleteMode(s), nil
	}

	return "", fmt.Errorf("unknown delete mode %q", s)
}
