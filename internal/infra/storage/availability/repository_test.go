package availability

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestUpsertWeekly_CheckViolationIsInvalidHours(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO business_availability") + ".*" + regexp.QuoteMeta("ON CONFLICT (business_id, day_of_week)")).
		WithArgs(int64(10), int(time.Monday), true, "18:00", "09:00").
		WillReturnError(&pq.Error{Code: pgerrors.CheckViolation, Constraint: "business_availability_hours_check"})

	_, err := repo.UpsertWeekly(context.Background(), &domain.BusinessAvailability{
		BusinessID: 10,
		DayOfWeek:  time.Monday,
		IsOpen:     true,
		OpenTime:   types.MustTimeString("18:00"),
		CloseTime:  types.MustTimeString("09:00"),
	})
	require.ErrorIs(t, err, ErrInvalidHours)
	assert.Contains(t, err.Error(), "business_availability_hours_check")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSpecialDay_Missing(t *testing.T) {
	repo, mock := newRepo(t)
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM special_day_availability WHERE business_id = $1 AND special_date = $2")).
		WithArgs(int64(10), date).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSpecialDay(context.Background(), 10, date)
	assert.ErrorIs(t, err, ErrSpecialDayNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
