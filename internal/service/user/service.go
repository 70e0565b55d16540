package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
)

// Service is the admin user-management surface.
type Service struct {
	userRepo repository.UserRepository
	logger   *zerolog.Logger
}

func NewService(userRepo repository.UserRepository, logger *zerolog.Logger) *Service {
	return &Service{userRepo: userRepo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	if filters != nil && filters.Role != "" && !filters.Role.Valid() {
		return nil, apperrors.Validation("invalid role filter", nil)
	}
	return s.userRepo.List(ctx, filters)
}

// Deactivate soft-disables the account instead of removing it, so historic
// appointments keep resolving.
func (s *Service) Deactivate(ctx context.Context, id, actorID uuid.UUID) (*model.User, error) {
	if id == actorID {
		return nil, apperrors.Validation("you cannot deactivate your own account", nil)
	}

	u, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	if u.Status == model.UserStatusInactive {
		return u, nil
	}

	u.Status = model.UserStatusInactive
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

// Delete removes the account entirely. Appointment history keeps its snapshot
// fields, so past records stay readable.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return apperrors.Validation("you cannot delete your own account", nil)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
