package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository/memory"
)

func newTestService(store *memory.Store) *Service {
	return NewService(store.Users(), store.Appointments(), store.Reports(),
		store.Departments(), store.Rooms(), store.Services())
}

func seedUser(t *testing.T, store *memory.Store, u *model.User) *model.User {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0, OccupancyRate(0, 0))
	assert.Equal(t, 0, OccupancyRate(3, 0))
	assert.Equal(t, 75, OccupancyRate(3, 4))
	assert.Equal(t, 100, OccupancyRate(4, 4))
	assert.Equal(t, 33, OccupancyRate(1, 3))
	assert.Equal(t, 67, OccupancyRate(2, 3))
}

func TestPatientDashboardEmptyStore(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	patient := seedUser(t, store, &model.User{
		Email: "alice@example.com", Name: "Alice",
		Role: model.RolePatient, Status: model.UserStatusActive,
		Patient: &model.PatientProfile{Age: 30, Gender: "female"},
	})

	view, err := svc.PatientDashboard(ctx, patient.ID)
	require.NoError(t, err)

	assert.Equal(t, model.PatientStats{}, view.Stats)
	assert.NotNil(t, view.Appointments)
	assert.Empty(t, view.Appointments)
	assert.NotNil(t, view.Reports)
	assert.Empty(t, view.Reports)
	assert.NotNil(t, view.UpcomingAppointments)
}

func TestPatientDashboardUnknownPatient(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)

	_, err := svc.PatientDashboard(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestPatientDashboardCounts(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	patient := seedUser(t, store, &model.User{
		Email: "alice@example.com", Name: "Alice",
		Role: model.RolePatient, Status: model.UserStatusActive,
		Patient: &model.PatientProfile{Age: 30, Gender: "female"},
	})
	doctor := seedUser(t, store, &model.User{
		Email: "bob@example.com", Name: "Dr. Bob",
		Role: model.RoleDoctor, Status: model.UserStatusActive,
		Doctor: &model.DoctorProfile{Specialization: "Cardiology"},
	})

	seed := []struct {
		date   time.Time
		slot   string
		status model.AppointmentStatus
	}{
		{now.AddDate(0, 0, -7), "10:00", model.AppointmentStatusCompleted},
		{now.AddDate(0, 0, -3), "10:00", model.AppointmentStatusCancelled},
		{now.AddDate(0, 0, 2), "10:00", model.AppointmentStatusConfirmed},
		{now.AddDate(0, 0, 5), "10:00", model.AppointmentStatusPending},
	}
	for _, s := range seed {
		apt := &model.Appointment{
			PatientID:       patient.ID,
			DoctorID:        doctor.ID,
			AppointmentDate: s.date,
			AppointmentTime: s.slot,
			Status:          s.status,
		}
		require.NoError(t, store.Appointments().Create(ctx, apt))
	}

	view, err := svc.PatientDashboard(ctx, patient.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, view.Stats.TotalAppointments)
	assert.Equal(t, 1, view.Stats.CompletedAppointments)
	assert.Equal(t, 2, view.Stats.UpcomingAppointments)
	assert.Len(t, view.Appointments, 4)

	// Upcoming sorted soonest first.
	require.Len(t, view.UpcomingAppointments, 2)
	assert.Equal(t, model.AppointmentStatusConfirmed, view.UpcomingAppointments[0].Status)
}

func TestDoctorDashboardCounts(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	doctor := seedUser(t, store, &model.User{
		Email: "bob@example.com", Name: "Dr. Bob",
		Role: model.RoleDoctor, Status: model.UserStatusActive,
		Doctor: &model.DoctorProfile{Specialization: "Cardiology"},
	})
	alice := seedUser(t, store, &model.User{
		Email: "alice@example.com", Name: "Alice",
		Role: model.RolePatient, Status: model.UserStatusActive,
		Patient: &model.PatientProfile{Age: 30, Gender: "female"},
	})
	carol := seedUser(t, store, &model.User{
		Email: "carol@example.com", Name: "Carol",
		Role: model.RolePatient, Status: model.UserStatusActive,
		Patient: &model.PatientProfile{Age: 41, Gender: "female"},
	})

	today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	seed := []struct {
		patient *model.User
		date    time.Time
		slot    string
		status  model.AppointmentStatus
		created time.Time
	}{
		{alice, today, "09:00", model.AppointmentStatusCompleted, now.Add(-72 * time.Hour)},
		{carol, today, "10:00", model.AppointmentStatusConfirmed, now.Add(-48 * time.Hour)},
		// Pending requests: alice asked first for the nearer date, carol asked
		// later for a date further out.
		{alice, today.AddDate(0, 0, 1), "09:00", model.AppointmentStatusPending, now.Add(-2 * time.Hour)},
		{carol, today.AddDate(0, 0, 3), "09:00", model.AppointmentStatusPending, now.Add(-1 * time.Hour)},
		{carol, today.AddDate(0, 0, -10), "09:00", model.AppointmentStatusCompleted, now.Add(-240 * time.Hour)},
	}
	for _, s := range seed {
		apt := &model.Appointment{
			PatientID:       s.patient.ID,
			DoctorID:        doctor.ID,
			AppointmentDate: s.date,
			AppointmentTime: s.slot,
			Status:          s.status,
			PatientName:     s.patient.Name,
		}
		apt.CreatedAt = s.created
		require.NoError(t, store.Appointments().Create(ctx, apt))
	}

	view, err := svc.DoctorDashboard(ctx, doctor.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, view.Stats.TotalAppointments)
	assert.Equal(t, 2, view.Stats.TodayAppointments)
	assert.Equal(t, 2, view.Stats.PendingRequests)
	assert.Equal(t, 1, view.Stats.CompletedToday)
	// Alice and Carol both have completed appointments.
	assert.Equal(t, 2, view.Stats.TotalPatients)
	assert.Len(t, view.TodaysAppointments, 2)

	// Pending requests are listed most recently filed first, regardless of
	// appointment date.
	require.Len(t, view.PendingAppointments, 2)
	assert.Equal(t, carol.ID, view.PendingAppointments[0].PatientID)
	assert.Equal(t, alice.ID, view.PendingAppointments[1].PatientID)
	assert.True(t, view.PendingAppointments[0].CreatedAt.After(view.PendingAppointments[1].CreatedAt))
}

func TestAdminDashboardOccupancy(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	admin := seedUser(t, store, &model.User{
		Email: "root@example.com", Name: "Root",
		Role: model.RoleAdmin, Status: model.UserStatusActive,
	})

	rooms := []*model.Room{
		{RoomNumber: "101", Type: "general", Capacity: 2, Occupancy: 1, Status: model.RoomStatusAvailable},
		{RoomNumber: "102", Type: "general", Capacity: 2, Occupancy: 2, Status: model.RoomStatusAvailable},
		{RoomNumber: "201", Type: "icu", Capacity: 1, Occupancy: 1, Status: model.RoomStatusAvailable},
		{RoomNumber: "202", Type: "icu", Capacity: 1, Occupancy: 0, Status: model.RoomStatusAvailable},
	}
	for _, room := range rooms {
		require.NoError(t, store.Rooms().Create(ctx, room))
	}

	view, err := svc.AdminDashboard(ctx, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, view.Stats.Overview.TotalRooms)
	assert.Equal(t, 3, view.Stats.Overview.OccupiedRooms)
	assert.Equal(t, 1, view.Stats.Overview.AvailableRooms)
	assert.Equal(t, 75, view.Stats.Overview.OccupancyRate)

	require.Len(t, view.Stats.RoomStats, 2)
	assert.Equal(t, "general", view.Stats.RoomStats[0].Type)
	assert.Equal(t, 2, view.Stats.RoomStats[0].Occupied)
}

func TestAdminDashboardEmptyStore(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	admin := seedUser(t, store, &model.User{
		Email: "root@example.com", Name: "Root",
		Role: model.RoleAdmin, Status: model.UserStatusActive,
	})

	view, err := svc.AdminDashboard(ctx, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, view.Stats.Overview.TotalAppointments)
	assert.Equal(t, 0, view.Stats.Overview.OccupancyRate)
	assert.NotNil(t, view.Stats.DepartmentStats)
	assert.NotNil(t, view.Stats.RoomStats)
	assert.NotNil(t, view.Stats.AppointmentTrends)
	assert.NotNil(t, view.RecentAppointments)
	// The lone admin does not count as patient or doctor.
	assert.Equal(t, 0, view.Stats.Overview.ActivePatients)
	assert.Equal(t, 0, view.Stats.Overview.ActiveDoctors)
}

func TestHospitalOverview(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	cardio := &model.Department{Name: "Cardiology", Status: model.DepartmentStatusActive}
	require.NoError(t, store.Departments().Create(ctx, cardio))
	closed := &model.Department{Name: "Old Wing", Status: model.DepartmentStatusInactive}
	require.NoError(t, store.Departments().Create(ctx, closed))

	seedUser(t, store, &model.User{
		Email: "bob@example.com", Name: "Dr. Bob",
		Role: model.RoleDoctor, Status: model.UserStatusActive,
		Doctor: &model.DoctorProfile{
			Specialization: "Cardiology",
			DepartmentID:   &cardio.ID,
		},
	})

	require.NoError(t, store.Services().Create(ctx, &model.Service{
		Name: "ECG", Status: model.ServiceStatusActive, Available: true,
	}))
	require.NoError(t, store.Services().Create(ctx, &model.Service{
		Name: "Legacy scan", Status: model.ServiceStatusInactive, Available: true,
	}))

	require.NoError(t, store.Rooms().Create(ctx, &model.Room{
		RoomNumber: "101", Type: "general", Capacity: 4, Status: model.RoomStatusAvailable,
	}))

	view, err := svc.HospitalOverview(ctx)
	require.NoError(t, err)

	// Only active departments and services are listed publicly.
	require.Len(t, view.Departments, 1)
	assert.Equal(t, "Cardiology", view.Departments[0].Name)
	require.Len(t, view.Services, 1)
	assert.Equal(t, "ECG", view.Services[0].Name)

	assert.Equal(t, 1, view.HospitalStats.TotalDoctors)
	assert.Equal(t, 1, view.HospitalStats.TotalDepartments)
	assert.Equal(t, 1, view.HospitalStats.TotalServices)
	assert.Equal(t, 4, view.HospitalStats.TotalBedCapacity)

	require.Contains(t, view.DoctorsByDepartment, "Cardiology")
	assert.Len(t, view.DoctorsByDepartment["Cardiology"], 1)
}

func TestHospitalOverviewEmptyStore(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)

	view, err := svc.HospitalOverview(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, view.Departments)
	assert.Empty(t, view.Departments)
	assert.NotNil(t, view.Services)
	assert.NotNil(t, view.DoctorsByDepartment)
	assert.Equal(t, model.HospitalStats{}, view.HospitalStats)
}
