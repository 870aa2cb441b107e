package view

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

type staticLister []*redemption.Redemption

func (l staticLister) List(context.Context, redemption.ListFilter) ([]*redemption.Redemption, error) {
	return l, nil
}

func TestWriteExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	svc := export.NewService(staticLister{{
		Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Source: "Chase",
		Points: 100,
		Value:  decimal.NewFromInt(2),
		Taxes:  decimal.Zero,
	}})

	path, n, err := writeExport(context.Background(), svc, dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, filepath.Join(dir, export.ExportFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `2024-01-15,"Chase",100,`)

	path, _, err = writeExport(context.Background(), svc, dir, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, export.TemplateFilename), path)
}
