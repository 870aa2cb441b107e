package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

type stubLister struct {
	rs  []*redemption.Redemption
	err error
}

func (s *stubLister) List(_ context.Context, _ redemption.ListFilter) ([]*redemption.Redemption, error) {
	return s.rs, s.err
}

func TestService_WriteTemplate(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.NewService(&stubLister{}).WriteTemplate(&buf))

	assert.Equal(t,
		"date,source,points,value,taxes,notes,is_travel_credit\n"+
			"2024-01-15,Chase Ultimate Rewards,50000,750.00,50.00,Flight to Tokyo,false\n",
		buf.String())
}

func TestService_Export(t *testing.T) {
	lister := &stubLister{rs: []*redemption.Redemption{
		{
			Date:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Source: `Chase "UR", Sapphire`,
			Points: 50000,
			Value:  decimal.RequireFromString("750.50"),
			Taxes:  decimal.RequireFromString("50"),
			Notes:  "line one\nline two",
		},
		{
			Date:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Source:         "Amex",
			Value:          decimal.NewFromInt(200),
			IsTravelCredit: true,
		},
	}}

	var buf bytes.Buffer

	n, err := export.NewService(lister).Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t,
		"date,source,points,value,taxes,notes,is_travel_credit\n"+
			`2024-03-02,"Chase ""UR"", Sapphire",50000,750.5,50,"line one line two",false`+"\n"+
			`2024-01-01,"Amex",0,200,0,"",true`+"\n",
		buf.String())
}

func TestService_Export_ListError(t *testing.T) {
	var buf bytes.Buffer

	_, err := export.NewService(&stubLister{err: errors.New("db down")}).Export(context.Background(), &buf)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
