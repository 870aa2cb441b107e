package redemption_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/centsperpoint/internal/http/redemption"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

func newServer(t *testing.T) (*redemption.MockRepository, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := redemption.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/redemptions", handler.NewHandler(redemption.NewService(repo)).Routes)

	return repo, r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *redemption.MockRepository)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name: "Created",
			body: `{"date":"2024-01-15","source":"Chase","points":50000,"value":"750.00","taxes":50}`,
			setupMock: func(m *redemption.MockRepository) {
				m.EXPECT().CreateRedemption(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *redemption.Redemption) error {
						r.ID = 12
						return nil
					})
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.EqualValues(t, 12, body["id"])
				assert.Equal(t, "2024-01-15", body["date"])
				assert.EqualValues(t, 750, body["value"])
				assert.EqualValues(t, 1.4, body["cpp"])
			},
		},
		{
			name: "TravelCreditWithoutPoints",
			body: `{"date":"2024-01-15","source":"Amex","points":0,"value":200,"is_travel_credit":true}`,
			setupMock: func(m *redemption.MockRepository) {
				m.EXPECT().CreateRedemption(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.Nil(t, body["cpp"])
				assert.Equal(t, true, body["is_travel_credit"])
			},
		},
		{
			name:       "MissingSource",
			body:       `{"date":"2024-01-15","points":1}`,
			setupMock:  func(m *redemption.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Validation failed", body["error"])
				assert.Contains(t, body["details"], "Source: required")
			},
		},
		{
			name:       "BadDate",
			body:       `{"date":"15/01/2024","source":"Chase","points":1}`,
			setupMock:  func(m *redemption.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ZeroPointsNotTravelCredit",
			body:       `{"date":"2024-01-15","source":"Chase","points":0}`,
			setupMock:  func(m *redemption.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body["details"], "points must be greater than 0 unless this is a travel credit")
			},
		},
		{
			name:       "MalformedJSON",
			body:       `{`,
			setupMock:  func(m *redemption.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "StoreFailure",
			body: `{"date":"2024-01-15","source":"Chase","points":1}`,
			setupMock: func(m *redemption.MockRepository) {
				m.EXPECT().CreateRedemption(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t)
			tt.setupMock(repo)

			rec := do(t, srv, http.MethodPost, "/redemptions", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.check != nil {
				tt.check(t, decodeBody(t, rec))
			}
		})
	}
}

func TestHandler_List_Filters(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().ListRedemptions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f redemption.ListFilter) ([]*redemption.Redemption, error) {
			require.NotNil(t, f.TripID)
			assert.Equal(t, int64(3), *f.TripID)
			require.NotNil(t, f.Source)
			assert.Equal(t, "Chase", *f.Source)
			require.NotNil(t, f.StartDate)
			assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
			assert.Nil(t, f.EndDate)

			return []*redemption.Redemption{
				{ID: 1, Source: "Chase", Points: 100, Value: decimal.NewFromInt(2), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			}, nil
		})

	rec := do(t, srv, http.MethodGet, "/redemptions?trip_id=3&source=Chase&start_date=2024-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "2024-02-01", body[0]["date"])

	bad := do(t, srv, http.MethodGet, "/redemptions?trip_id=x", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHandler_Get(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().GetRedemption(gomock.Any(), int64(9)).Return(nil, redemption.ErrNotFound)

	rec := do(t, srv, http.MethodGet, "/redemptions/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "redemption not found", decodeBody(t, rec)["error"])

	bad := do(t, srv, http.MethodGet, "/redemptions/abc", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHandler_Update(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().UpdateRedemption(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *redemption.Redemption) error {
			assert.Equal(t, int64(4), r.ID)
			assert.Equal(t, "Amex", r.Source)
			return nil
		})

	rec := do(t, srv, http.MethodPut, "/redemptions/4", `{"date":"2024-03-01","source":" Amex ","points":10}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	repo, srv := newServer(t)

	gomock.InOrder(
		repo.EXPECT().DeleteRedemption(gomock.Any(), int64(4)).Return(nil),
		repo.EXPECT().DeleteRedemption(gomock.Any(), int64(5)).Return(redemption.ErrNotFound),
	)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/redemptions/4", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/redemptions/5", "").Code)
}

func TestHandler_Summary(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().ListRedemptions(gomock.Any(), gomock.Any()).Return([]*redemption.Redemption{
		{Source: "Chase", Points: 10000, Value: decimal.NewFromInt(200), Taxes: decimal.Zero},
		{Source: "Amex", Points: 0, Value: decimal.NewFromInt(100), Taxes: decimal.Zero, IsTravelCredit: true},
	}, nil)

	rec := do(t, srv, http.MethodGet, "/redemptions/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["count"])
	assert.EqualValues(t, 1, body["travel_credits"])
	assert.EqualValues(t, 300, body["total_value"])
	assert.EqualValues(t, 2, body["average_cpp"])

	bySource, ok := body["by_source"].([]any)
	require.True(t, ok)
	require.Len(t, bySource, 2)
	assert.Equal(t, "Amex", bySource[0].(map[string]any)["source"])
	assert.Nil(t, bySource[0].(map[string]any)["average_cpp"])
}
