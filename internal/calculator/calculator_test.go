package calculator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centsperpoint/internal/calculator"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		in          calculator.Input
		wantCPP     string
		wantVerdict calculator.Verdict
		wantErr     error
	}{
		{
			name:        "GreatAtReference",
			in:          calculator.Input{Program: "chase", Points: 50000, CashValue: decimal.NewFromInt(1050), Taxes: decimal.NewFromInt(50)},
			wantCPP:     "2.00",
			wantVerdict: calculator.VerdictGreat,
		},
		{
			name:        "PotentiallyWithinTenPercent",
			in:          calculator.Input{Program: "chase", Points: 10000, CashValue: decimal.NewFromInt(185)},
			wantCPP:     "1.85",
			wantVerdict: calculator.VerdictPotential,
		},
		{
			name:        "BookWithCash",
			in:          calculator.Input{Program: "hyatt", Points: 30000, CashValue: decimal.NewFromInt(300)},
			wantCPP:     "1.00",
			wantVerdict: calculator.VerdictCash,
		},
		{
			name:    "UnknownProgramHasNoVerdict",
			in:      calculator.Input{Program: "acme", Points: 3, CashValue: decimal.NewFromInt(1)},
			wantCPP: "33.33",
		},
		{
			name:    "ZeroPoints",
			in:      calculator.Input{Program: "chase", CashValue: decimal.NewFromInt(1)},
			wantErr: calculator.ErrPointsRequired,
		},
		{
			name:    "ZeroCash",
			in:      calculator.Input{Program: "chase", Points: 1},
			wantErr: calculator.ErrCashRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calculator.Calculate(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCPP, got.CPP.StringFixed(2))
			assert.Equal(t, tt.wantVerdict, got.Verdict)
		})
	}
}

func TestLookup(t *testing.T) {
	p, ok := calculator.Lookup("hyatt")
	require.True(t, ok)
	assert.Equal(t, "World of Hyatt", p.Label)
	assert.Equal(t, "0.023", p.Reference.String())

	_, ok = calculator.Lookup("nope")
	assert.False(t, ok)
	assert.Len(t, calculator.Programs, 14)
}

func TestResult_Describe(t *testing.T) {
	got, err := calculator.Calculate(calculator.Input{Program: "chase", Points: 50000, CashValue: decimal.NewFromInt(1050), Taxes: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, "2.00¢ per point. Great use of points! (Chase is commonly valued around 2.0¢/pt)", got.Describe())
}
