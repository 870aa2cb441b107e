package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "Plain", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "Trimmed", line: " a , b ,c ", want: []string{"a", "b", "c"}},
		{name: "QuotedComma", line: `2024-01-15,"Chase, UR",100`, want: []string{"2024-01-15", "Chase, UR", "100"}},
		{name: "EscapedQuote", line: `"say ""hi""",x`, want: []string{`say "hi"`, "x"}},
		{name: "EmptyCells", line: "a,,c,", want: []string{"a", "", "c", ""}},
		{name: "Single", line: "only", want: []string{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestReconstructCurrency(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  []string
	}{
		{
			name:  "Merged",
			cells: []string{"2024-01-15", "Chase", "$1", "234.56", "x"},
			want:  []string{"2024-01-15", "Chase", "$1,234.56", "x"},
		},
		{
			name:  "QuotedDollarsThenCents",
			cells: SplitLine(`2024-01-01,Chase,"$3",455.00,0,,false`),
			want:  []string{"2024-01-01", "Chase", "$3,455.00", "0", "", "false"},
		},
		{
			name:  "CentsNeedTwoDigits",
			cells: []string{"$1", "234.5"},
			want:  []string{"$1", "234.5"},
		},
		{
			name:  "NoDollarSign",
			cells: []string{"1", "234.56"},
			want:  []string{"1", "234.56"},
		},
		{
			name:  "TrailingDollar",
			cells: []string{"a", "$5"},
			want:  []string{"a", "$5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructCurrency(tt.cells))
		})
	}
}
