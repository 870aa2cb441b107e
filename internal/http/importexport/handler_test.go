package importexport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
	"github.com/MrJamesThe3rd/centsperpoint/internal/http/importexport"
	"github.com/MrJamesThe3rd/centsperpoint/internal/importer"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

const sampleCSV = "Date,Card,Points Used,Value,Taxes,Notes,Travel Credit\n" +
	"2024-01-15,Chase,50000,750,50,Tokyo,false\n" +
	"2024-02-01,Amex,0,200,0,,true\n"

func newServer(t *testing.T) (*redemption.MockRepository, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := redemption.NewMockRepository(ctrl)
	svc := redemption.NewService(repo)

	h := importexport.NewHandler(importer.NewService(svc), export.NewService(svc), 5<<20)

	r := chi.NewRouter()
	r.Route("/import-export", h.Routes)

	return repo, r
}

type part struct {
	field, filename, content string
}

func upload(t *testing.T, h http.Handler, target string, file *part, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if file != nil {
		fw, err := mw.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(file.content))
		require.NoError(t, err)
	}

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

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

func TestHandler_Analyze(t *testing.T) {
	_, srv := newServer(t)

	rec := upload(t, srv, "/import-export/analyze", &part{"csvFile", "data.csv", sampleCSV}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["totalRows"])
	assert.Len(t, body["headers"], 7)
	assert.Len(t, body["sampleRows"], 2)

	suggested, ok := body["suggestedMappings"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, suggested["points"])
	assert.EqualValues(t, 1, suggested["source"])
}

func TestHandler_Analyze_UploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    *part
		wantErr string
	}{
		{name: "NoFile", file: nil, wantErr: "No CSV file provided"},
		{name: "WrongField", file: &part{"upload", "data.csv", sampleCSV}, wantErr: "No CSV file provided"},
		{name: "WrongExtension", file: &part{"csvFile", "data.xlsx", sampleCSV}, wantErr: "Only CSV files are allowed"},
		{name: "Binary", file: &part{"csvFile", "data.csv", "PK\x03\x04\x00\x00\x00binary"}, wantErr: "Only CSV files are allowed"},
		{name: "Empty", file: &part{"file", "data.csv", ""}, wantErr: importer.ErrEmptyFile.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newServer(t)

			rec := upload(t, srv, "/import-export/analyze", tt.file, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, decodeBody(t, rec)["error"])
		})
	}
}

func TestHandler_Import(t *testing.T) {
	mappings := `{"date":0,"source":1,"points":2,"value":3,"taxes":4,"notes":5,"is_travel_credit":6}`

	t.Run("Success", func(t *testing.T) {
		repo, srv := newServer(t)

		ctrl := gomock.NewController(t)
		itx := redemption.NewMockImportTx(ctrl)

		repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
		gomock.InOrder(
			itx.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil),
			itx.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("duplicate")),
		)
		itx.EXPECT().Commit().Return(nil)
		itx.EXPECT().Rollback().Return(nil)

		rec := upload(t, srv, "/import-export/import", &part{"csvFile", "data.csv", sampleCSV},
			map[string]string{"columnMappings": mappings})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.EqualValues(t, 1, body["imported"])
		assert.EqualValues(t, 1, body["skipped"])
		assert.EqualValues(t, 2, body["total"])
		assert.Equal(t, "Successfully imported 1 redemptions, skipped 1 due to errors.", body["message"])
		assert.NotContains(t, body, "warnings")
	})

	t.Run("MissingMappings", func(t *testing.T) {
		_, srv := newServer(t)

		rec := upload(t, srv, "/import-export/import", &part{"csvFile", "data.csv", sampleCSV},
			map[string]string{"columnMappings": `{"date":0}`})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Missing required field mappings", body["error"])
		assert.Equal(t, []any{"source", "points"}, body["missingFields"])
	})

	t.Run("NoMappings", func(t *testing.T) {
		_, srv := newServer(t)

		rec := upload(t, srv, "/import-export/import", &part{"csvFile", "data.csv", sampleCSV}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Column mappings are required", decodeBody(t, rec)["error"])
	})

	t.Run("ValidationFailsWholeFile", func(t *testing.T) {
		_, srv := newServer(t)

		csv := "source,points\nChase,abc\nAmex,100\n"
		rec := upload(t, srv, "/import-export/import", &part{"csvFile", "data.csv", csv},
			map[string]string{"columnMappings": `{"source":0,"points":"1"}`})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "Validation failed", body["error"])
		assert.Equal(t, "Found 1 validation error(s). Please fix these issues and try again.", body["message"])

		errs, ok := body["errors"].([]any)
		require.True(t, ok)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "Row 2")
		assert.Contains(t, errs[0], "Points")
	})

	t.Run("StoreFailure", func(t *testing.T) {
		repo, srv := newServer(t)

		repo.EXPECT().BeginImport(gomock.Any()).Return(nil, errors.New("connection refused"))

		rec := upload(t, srv, "/import-export/import", &part{"csvFile", "data.csv", sampleCSV},
			map[string]string{"columnMappings": mappings})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to import CSV", decodeBody(t, rec)["error"])
	})
}

func TestHandler_ExportAndTemplate(t *testing.T) {
	repo, srv := newServer(t)

	repo.EXPECT().ListRedemptions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, redemption.ListFilter) ([]*redemption.Redemption, error) {
			return []*redemption.Redemption{{
				Date:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Source: "Chase",
				Points: 100,
				Value:  decimal.NewFromInt(2),
				Taxes:  decimal.Zero,
			}}, nil
		})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/import-export/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="redemptions-export.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), `"Chase"`)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/import-export/template", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="redemptions-template.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "date,source,points,value,taxes,notes,is_travel_credit\n")
}
