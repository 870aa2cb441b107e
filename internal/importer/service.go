package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/centsperpoint/internal/encoding"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

const sampleSize = 5

// Batcher persists validated rows. *redemption.Service satisfies it.
type Batcher interface {
	ImportBatch(ctx context.Context, params []redemption.CreateParams) (*redemption.ImportResult, error)
}

type Service struct {
	batcher Batcher
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used for defaulted dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(batcher Batcher, opts ...Option) *Service {
	s := &Service{batcher: batcher, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Analysis struct {
	Headers           []string         `json:"headers"`
	SampleRows        [][]string       `json:"sampleRows"`
	FieldDefinitions  FieldDefinitions `json:"fieldDefinitions"`
	SuggestedMappings Mappings         `json:"suggestedMappings"`
	TotalRows         int              `json:"totalRows"`
}

// Analyze reads the header and the first rows and proposes a column mapping.
func (s *Service) Analyze(r io.Reader) (*Analysis, error) {
	lines, err := encoding.Lines(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	headers := splitRow(lines[0])

	samples := make([][]string, 0, sampleSize)
	for _, line := range lines[1:min(len(lines), sampleSize+1)] {
		samples = append(samples, pad(splitRow(line), len(headers)))
	}

	return &Analysis{
		Headers:           headers,
		SampleRows:        samples,
		FieldDefinitions:  Catalog,
		SuggestedMappings: SuggestMappings(headers),
		TotalRows:         len(lines) - 1,
	}, nil
}

type Result struct {
	Imported int
	Skipped  int
	Total    int
	Warnings []string
}

// Import validates every row first and inserts nothing if any row has an error.
// Rows the store rejects afterwards are skipped, not fatal.
func (s *Service) Import(ctx context.Context, r io.Reader, mappings Mappings) (*Result, error) {
	if missing := mappings.Missing(); len(missing) > 0 {
		return nil, &MissingMappingsError{Fields: missing}
	}

	lines, err := encoding.Lines(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	headers := splitRow(lines[0])
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		params   []redemption.CreateParams
		errs     []string
		warnings []string
	)

	for i, line := range lines[1:] {
		rowNum := i + 2
		cells := extract(pad(splitRow(line), len(headers)), mappings)

		res := validateRow(rowNum, cells, today)
		warnings = append(warnings, res.warnings...)

		if len(res.errs) > 0 {
			errs = append(errs, res.errs...)
			continue
		}

		params = append(params, res.params)
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs, Warnings: warnings}
	}

	batch, err := s.batcher.ImportBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("importing redemptions: %w", err)
	}

	slog.Info("csv import finished",
		"imported", len(batch.Imported),
		"skipped", batch.Skipped,
		"warnings", len(warnings),
	)

	return &Result{
		Imported: len(batch.Imported),
		Skipped:  batch.Skipped,
		Total:    len(params),
		Warnings: warnings,
	}, nil
}
