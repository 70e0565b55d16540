package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/hospital-api/internal/email"
	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	"github.com/medicore/hospital-api/pkg/auth"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
	"github.com/medicore/hospital-api/pkg/security"
	"github.com/rs/zerolog"
)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	emailSvc email.Service
	logger   *zerolog.Logger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService,
	hasher security.PasswordHasher, emailSvc email.Service, logger *zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// Register creates a user with the role-specific payload selected by the role
// tag. Role-required fields are enforced only for the matching role.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if !req.Role.Valid() {
		return nil, apperrors.Validation("invalid role", nil)
	}
	if err := validateRoleFields(req); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashed,
		Role:         req.Role,
		Status:       model.UserStatusActive,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	switch req.Role {
	case model.RoleDoctor:
		user.Doctor = &model.DoctorProfile{
			Specialization:  req.Specialization,
			ConsultationFee: req.ConsultationFee,
			ExperienceYears: req.ExperienceYears,
			DepartmentID:    req.DepartmentID,
		}
	case model.RolePatient:
		user.Patient = &model.PatientProfile{
			Age:            req.Age,
			Gender:         req.Gender,
			BloodGroup:     req.BloodGroup,
			MedicalHistory: req.MedicalHistory,
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(user.Email, user.Name); err != nil {
			s.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
		}
	}

	return s.issueToken(user)
}

// Login resolves credentials to a token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid credentials", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthenticated("invalid credentials", err)
	}

	// Login is the enforcement point for deactivation: there is no token
	// revocation list, so an inactive account must not receive a fresh token.
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Unauthenticated("account is deactivated", nil)
	}

	return s.issueToken(user)
}

func (s *Service) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return &model.TokenResponse{
		Token: token,
		User:  user,
	}, nil
}

func validateRoleFields(req *model.RegisterRequest) error {
	switch req.Role {
	case model.RoleDoctor:
		if req.Specialization == "" {
			return apperrors.Validation("specialization is required for doctors", nil)
		}
		if req.ConsultationFee < 0 {
			return apperrors.Validation("consultation fee cannot be negative", nil)
		}
	case model.RolePatient:
		if req.Age <= 0 {
			return apperrors.Validation("age is required for patients", nil)
		}
		if req.Gender == "" {
			return apperrors.Validation("gender is required for patients", nil)
		}
	}
	return nil
}
