package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reservations/models"
)

// Service чтение бронирований
type Service struct {
	reservationRepo ReservationRepository
	bundleRepo      BundleRepository
	access          AccessChecker
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	bundleRepo BundleRepository,
	access AccessChecker,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		bundleRepo:      bundleRepo,
		access:          access,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Видят клиент бронирования и владелец/сотрудники бизнеса
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	r, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainReservation(r), nil
}

// ListServiceRecords возвращает прогресс услуг пакетного бронирования
func (s *Service) ListServiceRecords(ctx context.Context, id, userID int64) ([]models.BundleServiceRecordResponse, error) {
	r, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !r.IsBundle() {
		return []models.BundleServiceRecordResponse{}, nil
	}

	records, err := s.bundleRepo.ListServiceRecords(ctx, id)
	if err != nil {
		s.logger.Error("ListServiceRecords: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ListServiceRecords - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainServiceRecords(records), nil
}

// ListByCustomer возвращает бронирования пользователя как клиента
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListByCustomerRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByCustomer: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var status *domain.ReservationStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByCustomer: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &st
	}

	list, err := s.reservationRepo.ListByCustomer(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainReservationList(list), nil
}

// ListByBusiness возвращает бронирования бизнеса с фильтрацией
// Доступно только владельцу и сотрудникам бизнеса
func (s *Service) ListByBusiness(ctx context.Context, req *models.ListByBusinessRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByBusiness: fetching reservations for business=%d by user=%d", req.BusinessID, req.UserID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByBusiness: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.access.RequireMember(ctx, req.UserID, req.BusinessID); err != nil {
		return nil, err
	}

	list, err := s.reservationRepo.ListByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainReservationList(list), nil
}

func (s *Service) get(ctx context.Context, id, userID int64) (*domain.Reservation, error) {
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if _, err := s.access.ActorFor(ctx, userID, r); err != nil {
		return nil, err
	}
	return r, nil
}
