package hospital

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
)

// Service is the admin-facing management surface for the hospital reference
// entities: departments, rooms and services.
type Service struct {
	deptRepo repository.DepartmentRepository
	roomRepo repository.RoomRepository
	svcRepo  repository.ServiceRepository
	userRepo repository.UserRepository
	logger   *zerolog.Logger
}

func NewService(deptRepo repository.DepartmentRepository, roomRepo repository.RoomRepository,
	svcRepo repository.ServiceRepository, userRepo repository.UserRepository,
	logger *zerolog.Logger) *Service {
	return &Service{
		deptRepo: deptRepo,
		roomRepo: roomRepo,
		svcRepo:  svcRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *Service) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	if err := s.checkHeadDoctor(ctx, req.HeadDoctorID); err != nil {
		return nil, err
	}

	d := &model.Department{
		Name:         req.Name,
		Description:  req.Description,
		HeadDoctorID: req.HeadDoctorID,
		Status:       model.DepartmentStatusActive,
	}
	if err := s.deptRepo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a department with this name already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id uuid.UUID, req *model.UpdateDepartmentRequest) (*model.Department, error) {
	d, err := s.deptRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("department", err)
	}

	if req.HeadDoctorID != nil {
		if err := s.checkHeadDoctor(ctx, req.HeadDoctorID); err != nil {
			return nil, err
		}
		d.HeadDoctorID = req.HeadDoctorID
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Status != nil {
		d.Status = *req.Status
	}

	if err := s.deptRepo.Update(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a department with this name already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return d, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if err := s.deptRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("department", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	return s.deptRepo.List(ctx, "")
}

func (s *Service) checkHeadDoctor(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	u, err := s.userRepo.Get(ctx, *id)
	if err != nil {
		return apperrors.NotFound("head doctor", err)
	}
	if u.Role != model.RoleDoctor {
		return apperrors.Validation("head doctor must have the doctor role", nil)
	}
	return nil
}

func (s *Service) CreateRoom(ctx context.Context, req *model.CreateRoomRequest) (*model.Room, error) {
	r := &model.Room{
		RoomNumber: req.RoomNumber,
		Type:       req.Type,
		Capacity:   req.Capacity,
		Occupancy:  0,
		Status:     model.RoomStatusAvailable,
	}
	if err := s.roomRepo.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a room with this number already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return r, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id uuid.UUID, req *model.UpdateRoomRequest) (*model.Room, error) {
	r, err := s.roomRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("room", err)
	}

	if req.Capacity != nil {
		if *req.Capacity < r.Occupancy {
			return nil, apperrors.Validation("capacity cannot drop below current occupancy", nil)
		}
		r.Capacity = *req.Capacity
	}
	if req.Type != nil {
		r.Type = *req.Type
	}
	if req.Status != nil {
		r.Status = *req.Status
	}

	if err := s.roomRepo.Update(ctx, r); err != nil {
		return nil, apperrors.Internal(err)
	}
	return r, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	r, err := s.roomRepo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("room", err)
	}
	if r.Occupancy > 0 {
		return apperrors.Conflict("room is still occupied", nil)
	}
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return s.roomRepo.List(ctx)
}

// AssignBed increments the room's occupancy. The guard lives in the store, so
// two concurrent assigns can never exceed capacity.
func (s *Service) AssignBed(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	return s.adjustOccupancy(ctx, id, 1, "room is at full capacity or unavailable")
}

// ReleaseBed decrements the room's occupancy.
func (s *Service) ReleaseBed(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	return s.adjustOccupancy(ctx, id, -1, "room is already empty")
}

func (s *Service) adjustOccupancy(ctx context.Context, id uuid.UUID, delta int, conflictMsg string) (*model.Room, error) {
	r, err := s.roomRepo.AdjustOccupancy(ctx, id, delta)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("room", err)
		case errors.Is(err, repository.ErrConflict):
			return nil, apperrors.Conflict(conflictMsg, err)
		}
		return nil, apperrors.Internal(err)
	}
	return r, nil
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	if req.DepartmentID != nil {
		if _, err := s.deptRepo.Get(ctx, *req.DepartmentID); err != nil {
			return nil, apperrors.NotFound("department", err)
		}
	}

	svc := &model.Service{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		Price:        req.Price,
		Status:       model.ServiceStatusActive,
		Available:    true,
	}
	if err := s.svcRepo.Create(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a service with this name already exists", err)
		}
		return nil, apperrors.Internal(err)
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.svcRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("service", err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}
	if req.Available != nil {
		svc.Available = *req.Available
	}

	if err := s.svcRepo.Update(ctx, svc); err != nil {
		return nil, apperrors.Internal(err)
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.svcRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("service", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.svcRepo.List(ctx, false)
}
