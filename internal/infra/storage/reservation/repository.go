package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"customer_id",
	"staff_id",
	"vehicle_id",
	"business_id",
	"bundle_id",
	"reservation_date",
	"start_time",
	"end_time",
	"service_descriptor",
	"status",
	"price",
	"notes",
	"customer_name",
	"customer_phone",
	"customer_email",
	"reschedule_history",
	"reminder_sent",
	"follow_up_sent",
	"follow_up_due_at",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование
// Если пересечение поймано ограничением исключения в БД, возвращает ErrOverlap
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	history, err := encodeHistory(res.RescheduleHistory)
	if err != nil {
		return nil, err
	}
	name, phone, email := contactColumns(res.CustomerInfo)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"customer_id",
			"staff_id",
			"vehicle_id",
			"business_id",
			"bundle_id",
			"reservation_date",
			"start_time",
			"end_time",
			"service_descriptor",
			"status",
			"price",
			"notes",
			"customer_name",
			"customer_phone",
			"customer_email",
			"reschedule_history",
		).
		Values(
			res.CustomerID,
			res.StaffID,
			res.VehicleID,
			res.BusinessID,
			res.BundleID,
			res.Date,
			res.StartTime,
			res.EndTime,
			res.ServiceDescriptor,
			res.Status,
			res.Price,
			res.Notes,
			name,
			phone,
			email,
			string(history),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("Create", err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// Update перезаписывает изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	history, err := encodeHistory(res.RescheduleHistory)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Update(table).
		Set("staff_id", res.StaffID).
		Set("vehicle_id", res.VehicleID).
		Set("reservation_date", res.Date).
		Set("start_time", res.StartTime).
		Set("end_time", res.EndTime).
		Set("service_descriptor", res.ServiceDescriptor).
		Set("status", res.Status).
		Set("price", res.Price).
		Set("notes", res.Notes).
		Set("reschedule_history", string(history)).
		Set("follow_up_due_at", res.FollowUpDueAt).
		Set("cancelled_at", res.CancelledAt).
		Set("completed_at", res.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, mapWriteError("Update", err)
	}

	return res, nil
}

// ListActiveInScope возвращает неотмененные бронирования области на дату
// Область сотрудника включает бронирования бизнеса без сотрудника
// Внутри транзакции прочитанные строки блокируются (FOR UPDATE)
func (r *Repository) ListActiveInScope(ctx context.Context, scope domain.ConflictScope, date time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled})

	switch scope.Kind {
	case domain.ScopeStaff:
		byStaff := squirrel.Or{squirrel.Eq{"staff_id": *scope.StaffID}}
		if scope.BusinessID != nil {
			byStaff = append(byStaff, squirrel.And{
				squirrel.Eq{"business_id": *scope.BusinessID},
				squirrel.Eq{"staff_id": nil},
			})
		}
		builder = builder.Where(byStaff)
	case domain.ScopeBusiness:
		builder = builder.Where(squirrel.Eq{"business_id": *scope.BusinessID})
	default:
		return nil, fmt.Errorf("%w: ListActiveInScope - unknown scope %q", ErrBuildQuery, scope.Kind)
	}

	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeID})
	}

	builder = builder.OrderBy("start_time ASC")
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, executor, builder, "ListActiveInScope")
}

// ListByCustomer получает бронирования клиента, опционально по статусу
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("reservation_date DESC, start_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	return r.list(ctx, executor, builder, "ListByCustomer")
}

// ListByFilter получает бронирования бизнеса за период
// Без явного статуса отмененные исключаются, если не указан IncludeCancelled
func (r *Repository) ListByFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"reservation_date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"reservation_date": *filter.To})
	}

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		builder = builder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	builder = builder.OrderBy("reservation_date ASC, start_time ASC")

	return r.list(ctx, executor, builder, "ListByFilter")
}

// ListDueReminders бронирования на дату, по которым еще не отправлено напоминание
func (r *Repository) ListDueReminders(ctx context.Context, date time.Time, limit int) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"status": domain.UpcomingStatuses}).
		Where(squirrel.Eq{"reminder_sent": false}).
		OrderBy("start_time ASC").
		Limit(uint64(limit))

	return r.list(ctx, executor, builder, "ListDueReminders")
}

// ListDueFollowUps завершенные бронирования, у которых наступил срок follow-up
func (r *Repository) ListDueFollowUps(ctx context.Context, now time.Time, limit int) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.StatusCompleted}).
		Where(squirrel.Eq{"follow_up_sent": false}).
		Where(squirrel.LtOrEq{"follow_up_due_at": now}).
		OrderBy("follow_up_due_at ASC").
		Limit(uint64(limit))

	return r.list(ctx, executor, builder, "ListDueFollowUps")
}

// MarkReminderSent отмечает отправку напоминания
func (r *Repository) MarkReminderSent(ctx context.Context, id int64) error {
	return r.setFlag(ctx, id, "reminder_sent", "MarkReminderSent")
}

// MarkFollowUpSent отмечает отправку запроса отзыва
func (r *Repository) MarkFollowUpSent(ctx context.Context, id int64) error {
	return r.setFlag(ctx, id, "follow_up_sent", "MarkFollowUpSent")
}

func (r *Repository) setFlag(ctx context.Context, id int64, column, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set(column, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %w", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, executor DBExecutor, builder squirrel.SelectBuilder, op string) ([]*domain.Reservation, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrScanRow, op, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                  domain.Reservation
		price                decimal.NullDecimal
		name, phone, email   sql.NullString
		history              []byte
		followUpDue          sql.NullTime
		cancelledAt, doneAt  sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.CustomerID,
		&res.StaffID,
		&res.VehicleID,
		&res.BusinessID,
		&res.BundleID,
		&res.Date,
		&res.StartTime,
		&res.EndTime,
		&res.ServiceDescriptor,
		&res.Status,
		&price,
		&res.Notes,
		&name,
		&phone,
		&email,
		&history,
		&res.ReminderSent,
		&res.FollowUpSent,
		&followUpDue,
		&cancelledAt,
		&doneAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		res.Price = &price.Decimal
	}
	if name.Valid || phone.Valid || email.Valid {
		res.CustomerInfo = &domain.CustomerContact{Name: name.String, Phone: phone.String, Email: email.String}
	}
	if followUpDue.Valid {
		res.FollowUpDueAt = &followUpDue.Time
	}
	if cancelledAt.Valid {
		res.CancelledAt = &cancelledAt.Time
	}
	if doneAt.Valid {
		res.CompletedAt = &doneAt.Time
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	res.RescheduleHistory, err = decodeHistory(history)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func contactColumns(c *domain.CustomerContact) (name, phone, email *string) {
	if c == nil {
		return nil, nil, nil
	}
	nonEmpty := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return nonEmpty(c.Name), nonEmpty(c.Phone), nonEmpty(c.Email)
}

// mapWriteError превращает нарушение ограничения исключения в ErrOverlap
// Ошибка сериализации сохраняется в цепочке, чтобы менеджер транзакций мог повторить попытку
func mapWriteError(op string, err error) error {
	if pgerrors.IsExclusionViolation(err) {
		return fmt.Errorf("%w: %s - constraint %s", ErrOverlap, op, pgerrors.Constraint(err))
	}
	return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
}
