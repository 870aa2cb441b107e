package trip_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/centsperpoint/internal/http/trip"
	"github.com/MrJamesThe3rd/centsperpoint/internal/trip"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func newServer(t *testing.T, uploadDir string) (*trip.MockRepository, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := trip.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/trips", handler.NewHandler(trip.NewService(repo), uploadDir).Routes)

	return repo, r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	repo, srv := newServer(t, t.TempDir())

	repo.EXPECT().CreateTrip(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *trip.Trip) error {
			tr.ID = 3
			assert.Equal(t, "Tokyo", tr.Name)
			require.NotNil(t, tr.StartDate)
			assert.Nil(t, tr.EndDate)
			return nil
		})

	rec := do(srv, http.MethodPost, "/trips", `{"name":" Tokyo ","start_date":"2024-04-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body["id"])
	assert.Equal(t, "2024-04-01", body["start_date"])
	assert.Nil(t, body["end_date"])

	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPost, "/trips", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPost, "/trips", `{"name":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(srv, http.MethodPost, "/trips", `{"name":"x","end_date":"tomorrow"}`).Code)
}

func TestHandler_List(t *testing.T) {
	repo, srv := newServer(t, t.TempDir())

	avg := decimal.RequireFromString("1.5")

	repo.EXPECT().ListTrips(gomock.Any()).Return([]*trip.Trip{{ID: 1, Name: "Paris"}, {ID: 2, Name: "Rome"}}, nil)
	repo.EXPECT().AllStats(gomock.Any()).Return(map[int64]trip.Stats{
		1: {TotalRedemptions: 2, TotalPoints: 1000, TotalValue: decimal.NewFromInt(15), AverageCPP: &avg},
	}, nil)

	rec := do(srv, http.MethodGet, "/trips", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Paris", body[0]["name"])
	assert.EqualValues(t, 2, body[0]["total_redemptions"])
	assert.EqualValues(t, 1.5, body[0]["average_cpp"])
	assert.EqualValues(t, 0, body[1]["total_redemptions"])
	assert.Nil(t, body[1]["average_cpp"])
}

func TestHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(m *trip.MockRepository)
		wantStatus int
	}{
		{
			name:   "DefaultRejects",
			target: "/trips/1",
			setupMock: func(m *trip.MockRepository) {
				m.EXPECT().DeleteTrip(gomock.Any(), int64(1), trip.DeleteReject).Return(trip.ErrHasRedemptions)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "Cascade",
			target: "/trips/1?mode=cascade",
			setupMock: func(m *trip.MockRepository) {
				m.EXPECT().DeleteTrip(gomock.Any(), int64(1), trip.DeleteCascade).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "DetachMissingTrip",
			target: "/trips/8?mode=detach",
			setupMock: func(m *trip.MockRepository) {
				m.EXPECT().DeleteTrip(gomock.Any(), int64(8), trip.DeleteDetach).Return(trip.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "UnknownMode",
			target:     "/trips/1?mode=shred",
			setupMock:  func(m *trip.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, srv := newServer(t, t.TempDir())
			tt.setupMock(repo)

			assert.Equal(t, tt.wantStatus, do(srv, http.MethodDelete, tt.target, "").Code)
		})
	}
}

func TestHandler_RedemptionBulkOps(t *testing.T) {
	repo, srv := newServer(t, t.TempDir())

	repo.EXPECT().DeleteRedemptions(gomock.Any(), int64(2)).Return(int64(3), nil)
	repo.EXPECT().DetachRedemptions(gomock.Any(), int64(2)).Return(int64(4), nil)

	rec := do(srv, http.MethodDelete, "/trips/2/redemptions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"affected":3`)

	rec = do(srv, http.MethodPatch, "/trips/2/redemptions/remove-association", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"affected":4`)
}

func TestHandler_Stats(t *testing.T) {
	repo, srv := newServer(t, t.TempDir())

	repo.EXPECT().GetTrip(gomock.Any(), int64(5)).Return(nil, trip.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/trips/5/stats", "").Code)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHandler_UploadImage(t *testing.T) {
	t.Run("StoresPNG", func(t *testing.T) {
		dir := t.TempDir()
		repo, srv := newServer(t, dir)

		var url string

		repo.EXPECT().GetTrip(gomock.Any(), int64(7)).Return(&trip.Trip{ID: 7, Name: "Oslo"}, nil)
		repo.EXPECT().SetImage(gomock.Any(), int64(7), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, u string) error {
				url = u
				return nil
			})

		body, ct := multipartBody(t, "image", "pic.png", pngPixel)
		req := httptest.NewRequest(http.MethodPost, "/trips/7/upload-image", body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, strings.HasPrefix(url, "/uploads/trip_7_"))
		assert.True(t, strings.HasSuffix(url, ".png"))

		stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
		require.NoError(t, err)
		assert.Equal(t, pngPixel, stored)
	})

	t.Run("RejectsText", func(t *testing.T) {
		repo, srv := newServer(t, t.TempDir())

		repo.EXPECT().GetTrip(gomock.Any(), int64(7)).Return(&trip.Trip{ID: 7}, nil)

		body, ct := multipartBody(t, "image", "pic.png", []byte("hello, not an image"))
		req := httptest.NewRequest(http.MethodPost, "/trips/7/upload-image", body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Only image files are allowed")
	})

	t.Run("MissingField", func(t *testing.T) {
		repo, srv := newServer(t, t.TempDir())

		repo.EXPECT().GetTrip(gomock.Any(), int64(7)).Return(&trip.Trip{ID: 7}, nil)

		body, ct := multipartBody(t, "photo", "pic.png", pngPixel)
		req := httptest.NewRequest(http.MethodPost, "/trips/7/upload-image", body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No image file provided")
	})
}
