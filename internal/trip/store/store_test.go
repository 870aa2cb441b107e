package store_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centsperpoint/internal/trip"
	"github.com/MrJamesThe3rd/centsperpoint/internal/trip/store"
)

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

const countQuery = "SELECT COUNT(*) FROM redemptions WHERE trip_id = $1"

func TestStore_DeleteTrip(t *testing.T) {
	tests := []struct {
		name    string
		mode    trip.DeleteMode
		linked  int64
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "RejectWithRedemptions",
			mode:   trip.DeleteReject,
			linked: 2,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectRollback()
			},
			wantErr: trip.ErrHasRedemptions,
		},
		{
			name:   "RejectWithoutRedemptions",
			mode:   trip.DeleteReject,
			linked: 0,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trips WHERE id = $1")).
					WithArgs(int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "Cascade",
			mode:   trip.DeleteCascade,
			linked: 3,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM redemptions WHERE trip_id = $1")).
					WithArgs(int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trips WHERE id = $1")).
					WithArgs(int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "Detach",
			mode:   trip.DeleteDetach,
			linked: 3,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE redemptions SET trip_id = NULL")).
					WithArgs(int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trips WHERE id = $1")).
					WithArgs(int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "MissingTrip",
			mode:   trip.DeleteCascade,
			linked: 0,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trips WHERE id = $1")).
					WithArgs(int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: trip.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
				WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.linked))
			tt.setup(mock)

			err := s.DeleteTrip(context.Background(), 1, tt.mode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_Stats(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("FROM redemptions WHERE trip_id = \\$1").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "points", "value", "net", "eligible"}).
			AddRow(int64(3), int64(60000), "1270.00", "820.00", int64(60000)))

	st, err := s.Stats(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, int64(3), st.TotalRedemptions)
	assert.Equal(t, int64(60000), st.TotalPoints)
	assert.Equal(t, "1270", st.TotalValue.String())
	require.NotNil(t, st.AverageCPP)
	assert.Equal(t, "1.37", st.AverageCPP.StringFixed(2))
}

func TestStore_Stats_NoEligibleRows(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("FROM redemptions WHERE trip_id = \\$1").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "points", "value", "net", "eligible"}).
			AddRow(int64(1), int64(0), "300", "0", int64(0)))

	st, err := s.Stats(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, st.AverageCPP)
}

func TestStore_AllStats(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("GROUP BY trip_id").
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "count", "points", "value", "net", "eligible"}).
			AddRow(int64(1), int64(1), int64(10000), "150", "150", int64(10000)).
			AddRow(int64(5), int64(2), int64(0), "400", "0", int64(0)))

	all, err := s.AllStats(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1.50", all[1].AverageCPP.StringFixed(2))
	assert.Nil(t, all[5].AverageCPP)
}

func TestStore_GetTrip_NotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("FROM trips WHERE id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetTrip(context.Background(), 7)
	assert.ErrorIs(t, err, trip.ErrNotFound)
}

func TestStore_SetImage(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trips SET image = $1")).
		WithArgs("/uploads/trip_1_x.png", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trips SET image = $1")).
		WithArgs("/uploads/trip_2_x.png", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.SetImage(context.Background(), 1, "/uploads/trip_1_x.png"))
	assert.ErrorIs(t, s.SetImage(context.Background(), 2, "/uploads/trip_2_x.png"), trip.ErrNotFound)
}

func TestStore_DetachRedemptions(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE redemptions SET trip_id = NULL")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.DetachRedemptions(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
