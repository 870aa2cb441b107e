package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

const (
	ExportFilename   = "redemptions-export.csv"
	TemplateFilename = "redemptions-template.csv"
)

// Header is shared by the export and the template so that an export can be
// imported again with the suggested mapping.
var Header = []string{"date", "source", "points", "value", "taxes", "notes", "is_travel_credit"}

const templateRow = "2024-01-15,Chase Ultimate Rewards,50000,750.00,50.00,Flight to Tokyo,false"

// Lister lists redemptions. *redemption.Service satisfies it.
type Lister interface {
	List(ctx context.Context, filter redemption.ListFilter) ([]*redemption.Redemption, error)
}

type Service struct {
	redemptions Lister
}

func NewService(redemptions Lister) *Service {
	return &Service{redemptions: redemptions}
}

// WriteTemplate writes the header and one example row.
func (s *Service) WriteTemplate(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", strings.Join(Header, ","), templateRow)
	return err
}

// Export writes every redemption, newest first, and returns how many rows were written.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	rs, err := s.redemptions.List(ctx, redemption.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing redemptions: %w", err)
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return 0, err
	}

	for _, r := range rs {
		if _, err := bw.WriteString(formatRow(r) + "\n"); err != nil {
			return 0, err
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}

	return len(rs), nil
}

// formatRow always quotes source and notes, unlike encoding/csv. Line breaks in
// notes are flattened since the importer reads one record per line.
func formatRow(r *redemption.Redemption) string {
	return strings.Join([]string{
		r.Date.Format("2006-01-02"),
		quote(r.Source),
		strconv.FormatInt(r.Points, 10),
		r.Value.String(),
		r.Taxes.String(),
		quote(strings.NewReplacer("\r", "", "\n", " ").Replace(r.Notes)),
		strconv.FormatBool(r.IsTravelCredit),
	}, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
