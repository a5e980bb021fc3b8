package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessdirectory"
)

// Service определяет, от чьего имени пользователь действует над бронированием
type Service struct {
	directory BusinessDirectory
	logger    Logger
}

// NewService создает новый экземпляр сервиса доступа
func NewService(directory BusinessDirectory, logger Logger) *Service {
	return &Service{directory: directory, logger: logger}
}

// ActorFor возвращает роль пользователя относительно бронирования:
// клиент бронирования либо владелец/сотрудник бизнеса. Иначе ErrAccessDenied
func (s *Service) ActorFor(ctx context.Context, userID int64, r *domain.Reservation) (domain.Actor, error) {
	if r.CustomerID == userID {
		return domain.ActorCustomer, nil
	}

	if r.BusinessID == nil {
		s.logger.Warn("ActorFor: user=%d is not the customer of reservation id=%d", userID, r.ID)
		return "", ErrAccessDenied
	}

	err := s.RequireMember(ctx, userID, *r.BusinessID)
	if errors.Is(err, ErrBusinessNotFound) {
		// Бизнес исчез из справочника - подтвердить права некому
		return "", ErrAccessDenied
	}
	if err != nil {
		return "", err
	}

	return domain.ActorBusiness, nil
}

// RequireMember проверяет, что пользователь владелец или сотрудник бизнеса
func (s *Service) RequireMember(ctx context.Context, userID, businessID int64) error {
	business, err := s.directory.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessdirectory.ErrBusinessNotFound) {
			s.logger.Warn("RequireMember: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("RequireMember: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %w", ErrInternal, err)
	}

	if !business.IsMember(userID) {
		s.logger.Warn("RequireMember: user=%d is not a member of business id=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}
