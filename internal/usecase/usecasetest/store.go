// Package usecasetest содержит in-memory реализации репозиториев и инфраструктуры
// для тестов use case'ов. Транзакции сериализуются мьютексом и откатываются снимком
package usecasetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bundleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/bundle"
	completionRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/completion"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/scheduling"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type weeklyKey struct {
	businessID int64
	day        time.Weekday
}

type specialKey struct {
	businessID int64
	date       string
}

type state struct {
	nextID         int64
	reservations   map[int64]domain.Reservation
	weekly         map[weeklyKey]domain.BusinessAvailability
	special        map[specialKey]domain.SpecialDayAvailability
	bundles        map[int64]domain.Bundle
	serviceRecords map[int64][]domain.BundleServiceRecord
	history        map[int64]domain.ServiceHistoryRecord
	stock          map[int64]int
	usage          []domain.InventoryUsage
}

func (s *state) clone() *state {
	c := &state{
		nextID:         s.nextID,
		reservations:   make(map[int64]domain.Reservation, len(s.reservations)),
		weekly:         make(map[weeklyKey]domain.BusinessAvailability, len(s.weekly)),
		special:        make(map[specialKey]domain.SpecialDayAvailability, len(s.special)),
		bundles:        make(map[int64]domain.Bundle, len(s.bundles)),
		serviceRecords: make(map[int64][]domain.BundleServiceRecord, len(s.serviceRecords)),
		history:        make(map[int64]domain.ServiceHistoryRecord, len(s.history)),
		stock:          make(map[int64]int, len(s.stock)),
		usage:          append([]domain.InventoryUsage(nil), s.usage...),
	}
	for k, v := range s.reservations {
		c.reservations[k] = copyReservation(v)
	}
	for k, v := range s.weekly {
		c.weekly[k] = v
	}
	for k, v := range s.special {
		c.special[k] = v
	}
	for k, v := range s.bundles {
		c.bundles[k] = v
	}
	for k, v := range s.serviceRecords {
		c.serviceRecords[k] = append([]domain.BundleServiceRecord(nil), v...)
	}
	for k, v := range s.history {
		c.history[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	return c
}

func copyReservation(r domain.Reservation) domain.Reservation {
	r.RescheduleHistory = append([]domain.RescheduleEntry(nil), r.RescheduleHistory...)
	return r
}

// Store общее in-memory хранилище
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *state
	now  time.Time
}

// NewStore создает пустое хранилище; now используется для служебных меток времени
func NewStore(now time.Time) *Store {
	return &Store{
		data: (&state{}).clone(),
		now:  now,
	}
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

// SetWeekly задает недельный шаблон дня
func (s *Store) SetWeekly(a domain.BusinessAvailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.weekly[weeklyKey{a.BusinessID, a.DayOfWeek}] = a
}

// SetSpecialDay задает особый день
func (s *Store) SetSpecialDay(d domain.SpecialDayAvailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.special[specialKey{d.BusinessID, d.Date.Format(domain.DateFormat)}] = d
}

// AddBundle сохраняет пакет и возвращает его ID
func (s *Store) AddBundle(b domain.Bundle) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.id()
	}
	s.data.bundles[b.ID] = b
	return b.ID
}

// Bundle возвращает текущее состояние пакета
func (s *Store) Bundle(id int64) domain.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.bundles[id]
}

// SetStock задает остаток товара
func (s *Store) SetStock(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.stock[productID] = quantity
}

// Stock возвращает остаток товара
func (s *Store) Stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.stock[productID]
}

// Usage возвращает записи расхода товаров
func (s *Store) Usage() []domain.InventoryUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InventoryUsage(nil), s.data.usage...)
}

// Put сохраняет бронирование напрямую (подготовка данных теста)
func (s *Store) Put(r domain.Reservation) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	if r.Status == "" {
		r.Status = domain.StatusScheduled
	}
	s.data.reservations[r.ID] = copyReservation(r)
	return r.ID
}

// Reservation возвращает бронирование по ID
func (s *Store) Reservation(id int64) (domain.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.reservations[id]
	return copyReservation(r), ok
}

// Reservations возвращает все бронирования в порядке ID
func (s *Store) Reservations() []domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reservation, 0, len(s.data.reservations))
	for _, r := range s.data.reservations {
		out = append(out, copyReservation(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ServiceRecords возвращает записи услуг пакета для бронирования
func (s *Store) ServiceRecords(reservationID int64) []domain.BundleServiceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BundleServiceRecord(nil), s.data.serviceRecords[reservationID]...)
}

// History возвращает запись истории обслуживания бронирования
func (s *Store) History(reservationID int64) (domain.ServiceHistoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.data.history[reservationID]
	return h, ok
}

// TxManager сериализует транзакции и откатывает состояние при ошибке
type TxManager struct {
	store *Store
}

// TxManager возвращает менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// DoSerializable выполняет fn атомарно
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// Do выполняет fn атомарно
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.Lock()
	snapshot := m.store.data.clone()
	m.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.store.mu.Lock()
		m.store.data = snapshot
		m.store.mu.Unlock()
		return err
	}
	return nil
}

// Reservations репозиторий бронирований
type Reservations struct {
	store *Store
	// CreateErr если задан, возвращается из Create
	CreateErr error
}

// ReservationRepo возвращает репозиторий бронирований
func (s *Store) ReservationRepo() *Reservations {
	return &Reservations{store: s}
}

func (r *Reservations) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	created := copyReservation(*res)
	created.ID = s.id()
	created.CreatedAt = s.now
	created.UpdatedAt = s.now
	s.data.reservations[created.ID] = created

	out := copyReservation(created)
	return &out, nil
}

func (r *Reservations) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.data.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	out := copyReservation(res)
	return &out, nil
}

func (r *Reservations) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data.reservations[res.ID]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	updated := copyReservation(*res)
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.now
	s.data.reservations[res.ID] = updated

	out := copyReservation(updated)
	return &out, nil
}

func (r *Reservations) ListActiveInScope(ctx context.Context, scope domain.ConflictScope, date time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Reservation, 0)
	for _, res := range s.data.reservations {
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		if !res.IsActive() || !scheduling.IsSameDay(res.Date, date) || !scope.Covers(&res) {
			continue
		}
		c := copyReservation(res)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.IsBefore(out[j].StartTime) })
	return out, nil
}

// Availability источник часов работы
type Availability struct {
	store *Store
}

// AvailabilityRepo возвращает источник часов работы
func (s *Store) AvailabilityRepo() *Availability {
	return &Availability{store: s}
}

func (a *Availability) FindSpecialDay(ctx context.Context, businessID int64, date time.Time) (*domain.SpecialDayAvailability, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	d, ok := a.store.data.special[specialKey{businessID, date.Format(domain.DateFormat)}]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (a *Availability) FindWeekly(ctx context.Context, businessID int64, day time.Weekday) (*domain.BusinessAvailability, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	w, ok := a.store.data.weekly[weeklyKey{businessID, day}]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// Bundles репозиторий пакетов
type Bundles struct {
	store *Store
}

// BundleRepo возвращает репозиторий пакетов
func (s *Store) BundleRepo() *Bundles {
	return &Bundles{store: s}
}

func (b *Bundles) GetByID(ctx context.Context, id int64) (*domain.Bundle, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	bundle, ok := b.store.data.bundles[id]
	if !ok {
		return nil, bundleRepo.ErrBundleNotFound
	}
	bundle.Items = append([]domain.BundleItem(nil), bundle.Items...)
	return &bundle, nil
}

func (b *Bundles) IncrementRedemptions(ctx context.Context, bundleID int64) (int, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	bundle, ok := b.store.data.bundles[bundleID]
	if !ok {
		return 0, bundleRepo.ErrBundleNotFound
	}
	if !bundle.HasCapacity() {
		return 0, bundleRepo.ErrSoldOut
	}
	bundle.CurrentRedemptions++
	b.store.data.bundles[bundleID] = bundle
	return bundle.CurrentRedemptions, nil
}

func (b *Bundles) DecrementRedemptions(ctx context.Context, bundleID int64) (int, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	bundle, ok := b.store.data.bundles[bundleID]
	if !ok {
		return 0, bundleRepo.ErrBundleNotFound
	}
	if bundle.CurrentRedemptions > 0 {
		bundle.CurrentRedemptions--
	}
	b.store.data.bundles[bundleID] = bundle
	return bundle.CurrentRedemptions, nil
}

func (b *Bundles) CreateServiceRecords(ctx context.Context, reservationID int64, bundle *domain.Bundle) ([]domain.BundleServiceRecord, error) {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]domain.BundleServiceRecord, 0, len(bundle.Items))
	for _, item := range bundle.Items {
		records = append(records, domain.BundleServiceRecord{
			ID:            s.id(),
			ReservationID: reservationID,
			BundleID:      bundle.ID,
			ServiceID:     item.ServiceID,
			ServiceName:   item.ServiceName,
			Status:        domain.BundleServicePending,
			CreatedAt:     s.now,
		})
	}
	s.data.serviceRecords[reservationID] = records
	return append([]domain.BundleServiceRecord(nil), records...), nil
}

func (b *Bundles) CancelServiceRecords(ctx context.Context, reservationID int64) (int64, error) {
	return b.setRecordStatus(reservationID, domain.BundleServiceCancelled)
}

func (b *Bundles) CompleteServiceRecords(ctx context.Context, reservationID int64) (int64, error) {
	return b.setRecordStatus(reservationID, domain.BundleServiceCompleted)
}

func (b *Bundles) setRecordStatus(reservationID int64, status domain.BundleServiceStatus) (int64, error) {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	records := s.data.serviceRecords[reservationID]
	for i := range records {
		if records[i].Status == domain.BundleServiceCompleted || records[i].Status == domain.BundleServiceCancelled {
			continue
		}
		records[i].Status = status
		if status == domain.BundleServiceCompleted {
			at := s.now
			records[i].CompletedAt = &at
		}
		n++
	}
	return n, nil
}

// Completion репозиторий истории обслуживания и склада
type Completion struct {
	store *Store
}

// CompletionRepo возвращает репозиторий завершения
func (s *Store) CompletionRepo() *Completion {
	return &Completion{store: s}
}

func (c *Completion) CreateHistory(ctx context.Context, rec *domain.ServiceHistoryRecord) (*domain.ServiceHistoryRecord, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.history[rec.ReservationID]; exists {
		return nil, completionRepo.ErrHistoryExists
	}
	created := *rec
	created.ID = s.id()
	created.CreatedAt = s.now
	s.data.history[rec.ReservationID] = created
	return &created, nil
}

func (c *Completion) ConsumeProduct(ctx context.Context, usage domain.ProductUsage, reservationID int64, historyID *int64) (*domain.InventoryUsage, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	left, ok := s.data.stock[usage.ProductID]
	if !ok {
		return nil, completionRepo.ErrProductNotFound
	}
	if left < usage.Quantity {
		return nil, fmt.Errorf("%w: product id=%d", completionRepo.ErrInsufficientStock, usage.ProductID)
	}
	s.data.stock[usage.ProductID] = left - usage.Quantity

	entry := domain.InventoryUsage{
		ID:               s.id(),
		ProductID:        usage.ProductID,
		ReservationID:    reservationID,
		HistoryRecordID:  historyID,
		Quantity:         usage.Quantity,
		RemainingInStock: left - usage.Quantity,
		CreatedAt:        s.now,
	}
	s.data.usage = append(s.data.usage, entry)
	return &entry, nil
}

// OpenEveryDay задает одинаковые часы работы на всю неделю
func (s *Store) OpenEveryDay(businessID int64, open, close string) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		s.SetWeekly(domain.BusinessAvailability{
			BusinessID: businessID,
			DayOfWeek:  day,
			IsOpen:     true,
			OpenTime:   types.MustTimeString(open),
			CloseTime:  types.MustTimeString(close),
		})
	}
}
