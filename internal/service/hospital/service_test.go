package hospital

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository/memory"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	svc := NewService(store.Departments(), store.Rooms(), store.Services(), store.Users(), &log)
	return svc, store
}

func TestAssignAndReleaseBed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, &model.CreateRoomRequest{
		RoomNumber: "101", Type: "general", Capacity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, room.Occupancy)
	assert.True(t, room.Available())

	room, err = svc.AssignBed(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, room.Occupancy)

	room, err = svc.AssignBed(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, room.Occupancy)
	assert.False(t, room.Available())

	// Full room rejects the third assign.
	_, err = svc.AssignBed(ctx, room.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	room, err = svc.ReleaseBed(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, room.Occupancy)
}

func TestReleaseEmptyRoom(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, &model.CreateRoomRequest{
		RoomNumber: "101", Type: "general", Capacity: 2,
	})
	require.NoError(t, err)

	_, err = svc.ReleaseBed(ctx, room.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestDuplicateRoomNumber(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, &model.CreateRoomRequest{
		RoomNumber: "101", Type: "general", Capacity: 2,
	})
	require.NoError(t, err)

	_, err = svc.CreateRoom(ctx, &model.CreateRoomRequest{
		RoomNumber: "101", Type: "icu", Capacity: 1,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestDeleteOccupiedRoom(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, &model.CreateRoomRequest{
		RoomNumber: "101", Type: "general", Capacity: 2,
	})
	require.NoError(t, err)

	_, err = svc.AssignBed(ctx, room.ID)
	require.NoError(t, err)

	err = svc.DeleteRoom(ctx, room.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestUpdateRoomCapacityBelowOccupancy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, &model.CreateRoomRequest{
		RoomNumber: "101", Type: "general", Capacity: 3,
	})
	require.NoError(t, err)

	_, err = svc.AssignBed(ctx, room.ID)
	require.NoError(t, err)
	_, err = svc.AssignBed(ctx, room.ID)
	require.NoError(t, err)

	one := 1
	_, err = svc.UpdateRoom(ctx, room.ID, &model.UpdateRoomRequest{Capacity: &one})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestDepartmentHeadMustBeDoctor(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	patient := &model.User{
		Email: "alice@example.com", Name: "Alice",
		Role: model.RolePatient, Status: model.UserStatusActive,
	}
	require.NoError(t, store.Users().Create(ctx, patient))

	_, err := svc.CreateDepartment(ctx, &model.CreateDepartmentRequest{
		Name:         "Cardiology",
		HeadDoctorID: &patient.ID,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestDuplicateDepartmentName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDepartment(ctx, &model.CreateDepartmentRequest{Name: "Cardiology"})
	require.NoError(t, err)

	_, err = svc.CreateDepartment(ctx, &model.CreateDepartmentRequest{Name: "Cardiology"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestServiceLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, &model.CreateServiceRequest{
		Name: "ECG", Price: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ServiceStatusActive, created.Status)
	assert.True(t, created.Available)

	unavailable := false
	updated, err := svc.UpdateService(ctx, created.ID, &model.UpdateServiceRequest{
		Available: &unavailable,
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)

	require.NoError(t, svc.DeleteService(ctx, created.ID))
	err = svc.DeleteService(ctx, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
