package book_bundle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bundleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/bundle"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/usecasetest"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// nopTx транзакция без базы: фиксация и откат ничего не делают
type nopTx struct{}

func (nopTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (nopTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (nopTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type countingBeginner struct {
	mu     sync.Mutex
	begins int
}

func (b *countingBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.begins++
	return nopTx{}, nil
}

func (b *countingBeginner) Begins() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.begins
}

// serializationFailure ошибка репозитория в том виде, в каком ее отдает lib/pq под SERIALIZABLE
func serializationFailure(sentinel error, op string) error {
	return fmt.Errorf("%w: %s: %w", sentinel, op, &pq.Error{Code: pgerrors.SerializationFailure})
}

// flakyBundles отдает ошибку сериализации на первых failures чтениях пакета
type flakyBundles struct {
	*usecasetest.Bundles
	failures int
	calls    int
}

func (b *flakyBundles) GetByID(ctx context.Context, id int64) (*domain.Bundle, error) {
	b.calls++
	if b.calls <= b.failures {
		return nil, serializationFailure(bundleRepo.ErrScanRow, "GetByID - scan bundle")
	}
	return b.Bundles.GetByID(ctx, id)
}

type retryEnv struct {
	store *usecasetest.Store
	db    *countingBeginner
	uc    *UseCase
}

// newRetryEnv собирает use case поверх настоящего менеджера транзакций
func newRetryEnv(t *testing.T, bundles func(*usecasetest.Bundles) BundleRepository, reservations func(*usecasetest.Reservations) ReservationRepository) *retryEnv {
	t.Helper()

	store := usecasetest.NewStore(now)
	store.OpenEveryDay(businessID, "09:00", "18:00")
	repo := store.ReservationRepo()

	var (
		b BundleRepository      = store.BundleRepo()
		r ReservationRepository = repo
	)
	if bundles != nil {
		b = bundles(store.BundleRepo())
	}
	if reservations != nil {
		r = reservations(repo)
	}

	e := &retryEnv{store: store, db: &countingBeginner{}}
	e.uc = NewUseCase(
		r,
		b,
		scheduling.NewDetector(repo),
		scheduling.NewResolver(store.AvailabilityRepo()),
		txmanager.NewTransactionManager(e.db).WithMaxRetries(3),
		&usecasetest.Notifier{},
		usecasetest.NewCache(),
		usecasetest.NewMetrics(),
		clock.Fixed{At: now},
		logger.NewNop(),
	)
	return e
}

func TestExecute_RetriesSerializationFailure(t *testing.T) {
	flaky := &flakyBundles{failures: 1}
	e := newRetryEnv(t, func(b *usecasetest.Bundles) BundleRepository {
		flaky.Bundles = b
		return flaky
	}, nil)
	bundleID := e.store.AddBundle(fullDetail())

	resp, err := e.uc.Execute(context.Background(), bookRequest(bundleID, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, 2, e.db.Begins())
	assert.Equal(t, 2, flaky.calls)
	assert.Equal(t, bundleID, resp.BundleID)
	assert.Equal(t, 1, e.store.Bundle(bundleID).CurrentRedemptions)
	assert.Len(t, e.store.Reservations(), 1)
}

func TestExecute_SerializationRetriesExhausted(t *testing.T) {
	flaky := &flakyBundles{failures: 10}
	e := newRetryEnv(t, func(b *usecasetest.Bundles) BundleRepository {
		flaky.Bundles = b
		return flaky
	}, nil)
	bundleID := e.store.AddBundle(fullDetail())

	_, err := e.uc.Execute(context.Background(), bookRequest(bundleID, "10:00"))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, domain.OutcomeConflict, domain.Outcome(err))
	assert.Equal(t, 3, e.db.Begins())
	assert.Equal(t, 3, flaky.calls)
	assert.Equal(t, 0, e.store.Bundle(bundleID).CurrentRedemptions)
}

func TestExecute_RetriesSerializationFailureOnInsert(t *testing.T) {
	e := newRetryEnv(t, nil, func(r *usecasetest.Reservations) ReservationRepository {
		r.CreateErr = serializationFailure(reservationRepo.ErrExecQuery, "Create - insert reservation")
		return r
	})
	bundleID := e.store.AddBundle(fullDetail())

	_, err := e.uc.Execute(context.Background(), bookRequest(bundleID, "10:00"))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, 3, e.db.Begins())
}

func TestExecute_OtherDatabaseErrorsNotRetried(t *testing.T) {
	e := newRetryEnv(t, nil, func(r *usecasetest.Reservations) ReservationRepository {
		r.CreateErr = fmt.Errorf("%w: Create - insert reservation: %w", reservationRepo.ErrExecQuery, errors.New("connection reset"))
		return r
	})
	bundleID := e.store.AddBundle(fullDetail())

	_, err := e.uc.Execute(context.Background(), bookRequest(bundleID, "10:00"))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.OutcomeError, domain.Outcome(err))
	assert.Equal(t, 1, e.db.Begins())
}
