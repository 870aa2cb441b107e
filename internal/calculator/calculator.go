package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrPointsRequired = errors.New("points must be greater than 0")
	ErrCashRequired   = errors.New("cash value must be greater than 0")
)

// Program is a points currency with the value per point it is commonly quoted at.
type Program struct {
	Key       string          `json:"value"`
	Label     string          `json:"label"`
	Reference decimal.Decimal `json:"ref"`
}

func program(key, label, ref string) Program {
	return Program{Key: key, Label: label, Reference: decimal.RequireFromString(ref)}
}

var Programs = []Program{
	program("chase", "Chase", "0.02"),
	program("amex", "Amex", "0.02"),
	program("capitalone", "Capital One", "0.018"),
	program("bilt", "Bilt", "0.015"),
	program("citi", "Citi", "0.018"),
	program("hyatt", "World of Hyatt", "0.023"),
	program("marriott", "Marriott Bonvoy", "0.007"),
	program("hilton", "Hilton Honors", "0.006"),
	program("ihg", "IHG One Rewards", "0.009"),
	program("delta", "Delta SkyMiles", "0.011"),
	program("southwest", "Southwest Rapid Rewards", "0.015"),
	program("united", "United MileagePlus", "0.012"),
	program("alaska", "Alaska Airlines", "0.014"),
	program("hawaiian", "Hawaiian Airlines", "0.009"),
}

func Lookup(key string) (Program, bool) {
	for _, p := range Programs {
		if p.Key == key {
			return p, true
		}
	}

	return Program{}, false
}

type Verdict string

const (
	VerdictGreat     Verdict = "Great use of points!"
	VerdictPotential Verdict = "Potentially worth it."
	VerdictCash      Verdict = "Consider booking with cash."
)

type Input struct {
	Program   string
	Points    int64
	CashValue decimal.Decimal
	Taxes     decimal.Decimal
}

type Result struct {
	CPP     decimal.Decimal
	Program *Program
	Verdict Verdict
}

// Calculate returns the cents per point of paying with points instead of cash.
// The verdict compares it against the program's reference value and is empty for
// unknown programs.
func Calculate(in Input) (Result, error) {
	if in.Points <= 0 {
		return Result{}, ErrPointsRequired
	}

	if !in.CashValue.IsPositive() {
		return Result{}, ErrCashRequired
	}

	cpp := in.CashValue.Sub(in.Taxes).
		Div(decimal.NewFromInt(in.Points)).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	res := Result{CPP: cpp}

	p, ok := Lookup(in.Program)
	if !ok {
		return res, nil
	}

	res.Program = &p
	res.Verdict = verdict(cpp.Div(decimal.NewFromInt(100)), p.Reference)

	return res, nil
}

func verdict(perPoint, ref decimal.Decimal) Verdict {
	switch {
	case perPoint.GreaterThanOrEqual(ref):
		return VerdictGreat
	case perPoint.GreaterThanOrEqual(ref.Mul(decimal.RequireFromString("0.9"))):
		return VerdictPotential
	}

	return VerdictCash
}

// Describe renders a one-line summary, e.g. for terminal output.
func (r Result) Describe() string {
	s := fmt.Sprintf("%s¢ per point", r.CPP.StringFixed(2))
	if r.Program == nil {
		return s
	}

	return fmt.Sprintf("%s. %s (%s is commonly valued around %s¢/pt)",
		s, r.Verdict, r.Program.Label, r.Program.Reference.Mul(decimal.NewFromInt(100)).StringFixed(1))
}
