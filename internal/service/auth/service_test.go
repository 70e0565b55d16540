package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository/memory"
	"github.com/medicore/hospital-api/pkg/auth"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
	"github.com/medicore/hospital-api/pkg/security"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(4) // min cost keeps the tests fast
	svc := NewService(store.Users(), jwtSvc, hasher, nil, &log)
	return svc, store
}

func patientRequest(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:     "Alice",
		Email:    email,
		Password: "s3cret-pass",
		Role:     model.RolePatient,
		Age:      30,
		Gender:   "female",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, patientRequest("alice@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, registered.Token)
	assert.Equal(t, model.RolePatient, registered.User.Role)
	require.NotNil(t, registered.User.Patient)
	assert.Equal(t, 30, registered.User.Patient.Age)
	assert.Nil(t, registered.User.Doctor)

	logged, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)
	assert.Equal(t, registered.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, patientRequest("alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, patientRequest("alice@example.com"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestRegisterDoctorRequiresSpecialization(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Dr. Bob",
		Email:    "bob@example.com",
		Password: "s3cret-pass",
		Role:     model.RoleDoctor,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRegisterDoctorSetsProfile(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:            "Dr. Bob",
		Email:           "bob@example.com",
		Password:        "s3cret-pass",
		Role:            model.RoleDoctor,
		Specialization:  "Cardiology",
		ConsultationFee: 150,
		ExperienceYears: 8,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User.Doctor)
	assert.Equal(t, "Cardiology", resp.User.Doctor.Specialization)
	assert.Nil(t, resp.User.Patient)
}

func TestRegisterPatientRequiresAgeAndGender(t *testing.T) {
	svc, _ := newTestService(t)

	req := patientRequest("alice@example.com")
	req.Age = 0
	_, err := svc.Register(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	req = patientRequest("alice@example.com")
	req.Gender = ""
	_, err = svc.Register(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _ := newTestService(t)

	req := patientRequest("alice@example.com")
	req.Role = model.Role("superuser")
	_, err := svc.Register(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, patientRequest("alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}

func TestLoginDeactivatedUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, patientRequest("alice@example.com"))
	require.NoError(t, err)

	user, err := store.Users().Get(ctx, registered.User.ID)
	require.NoError(t, err)
	user.Status = model.UserStatusInactive
	require.NoError(t, store.Users().Update(ctx, user))

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "account is deactivated", appErr.Message)
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestPasswordHashNeverEchoed(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, patientRequest("alice@example.com"))
	require.NoError(t, err)

	stored, err := store.Users().Get(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
}
