package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
)

const (
	recentAppointmentsLimit = 10
	recentReportsLimit      = 5
	upcomingLimit           = 3
	pendingLimit            = 5
	trendMonths             = 6
)

// Service assembles the role-scoped read-models. Every query is read-only;
// cross-entity references are resolved by joins at read time and never cached.
type Service struct {
	userRepo   repository.UserRepository
	aptRepo    repository.AppointmentRepository
	reportRepo repository.ReportRepository
	deptRepo   repository.DepartmentRepository
	roomRepo   repository.RoomRepository
	svcRepo    repository.ServiceRepository

	// now is injectable for tests
	now func() time.Time
}

func NewService(
	userRepo repository.UserRepository,
	aptRepo repository.AppointmentRepository,
	reportRepo repository.ReportRepository,
	deptRepo repository.DepartmentRepository,
	roomRepo repository.RoomRepository,
	svcRepo repository.ServiceRepository,
) *Service {
	return &Service{
		userRepo:   userRepo,
		aptRepo:    aptRepo,
		reportRepo: reportRepo,
		deptRepo:   deptRepo,
		roomRepo:   roomRepo,
		svcRepo:    svcRepo,
		now:        time.Now,
	}
}

func (s *Service) PatientDashboard(ctx context.Context, patientID uuid.UUID) (*model.PatientDashboard, error) {
	patient, err := s.userRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	appointments, err := s.aptRepo.List(ctx, &model.AppointmentFilters{
		PatientID: patientID,
		Limit:     recentAppointmentsLimit,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	reports, err := s.reportRepo.ListForPatient(ctx, patientID, recentReportsLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	startOfDay, _ := s.dayBounds()
	upcoming, err := s.aptRepo.ListUpcomingForPatient(ctx, patientID, startOfDay, upcomingLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	total, err := s.aptRepo.Count(ctx, &model.AppointmentFilters{PatientID: patientID})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	completed, err := s.aptRepo.Count(ctx, &model.AppointmentFilters{
		PatientID: patientID,
		Status:    model.AppointmentStatusCompleted,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	totalReports, err := s.reportRepo.CountForPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.PatientDashboard{
		Patient:              patient,
		Appointments:         appointments,
		Reports:              reports,
		UpcomingAppointments: upcoming,
		Stats: model.PatientStats{
			TotalAppointments:     total,
			CompletedAppointments: completed,
			UpcomingAppointments:  len(upcoming),
			TotalReports:          totalReports,
		},
	}, nil
}

func (s *Service) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*model.DoctorDashboard, error) {
	doctor, err := s.userRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	appointments, err := s.aptRepo.List(ctx, &model.AppointmentFilters{
		DoctorID: doctorID,
		Limit:    recentAppointmentsLimit,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	startOfDay, endOfDay := s.dayBounds()
	todays, err := s.aptRepo.ListForDoctorBetween(ctx, doctorID, startOfDay, endOfDay)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	pending, err := s.aptRepo.ListPendingForDoctor(ctx, doctorID, pendingLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	patients, err := s.aptRepo.ListDistinctPatients(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	total, err := s.aptRepo.Count(ctx, &model.AppointmentFilters{DoctorID: doctorID})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	pendingCount, err := s.aptRepo.Count(ctx, &model.AppointmentFilters{
		DoctorID: doctorID,
		Status:   model.AppointmentStatusPending,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	completedToday, err := s.aptRepo.CountCompletedBetween(ctx, doctorID, startOfDay, endOfDay)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.DoctorDashboard{
		Doctor:              doctor,
		Appointments:        appointments,
		TodaysAppointments:  todays,
		PendingAppointments: pending,
		Patients:            patients,
		Stats: model.DoctorStats{
			TotalPatients:     len(patients),
			TotalAppointments: total,
			TodayAppointments: len(todays),
			PendingRequests:   pendingCount,
			CompletedToday:    completedToday,
		},
	}, nil
}

func (s *Service) AdminDashboard(ctx context.Context, adminID uuid.UUID) (*model.AdminDashboard, error) {
	admin, err := s.userRepo.Get(ctx, adminID)
	if err != nil {
		return nil, apperrors.NotFound("admin", err)
	}

	overview, err := s.adminOverview(ctx)
	if err != nil {
		return nil, err
	}

	deptStats, err := s.userRepo.CountDoctorsPerDepartment(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	roomStats, err := s.roomRepo.StatsByType(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	since := s.monthStart().AddDate(0, -(trendMonths - 1), 0)
	trends, err := s.aptRepo.MonthlyCounts(ctx, since)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	recent, err := s.aptRepo.List(ctx, &model.AppointmentFilters{Limit: recentAppointmentsLimit})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.AdminDashboard{
		Admin: admin,
		Stats: model.AdminStats{
			Overview:          *overview,
			DepartmentStats:   deptStats,
			RoomStats:         roomStats,
			AppointmentTrends: trends,
		},
		RecentAppointments: recent,
	}, nil
}

func (s *Service) adminOverview(ctx context.Context) (*model.AdminOverview, error) {
	activePatients, err := s.userRepo.CountByRole(ctx, model.RolePatient, model.UserStatusActive)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	activeDoctors, err := s.userRepo.CountByRole(ctx, model.RoleDoctor, model.UserStatusActive)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	totalAppointments, err := s.aptRepo.Count(ctx, nil)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	activeDepartments, err := s.deptRepo.Count(ctx, model.DepartmentStatusActive)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	totalRooms, occupiedRooms, err := s.roomRepo.Counts(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	startOfDay, endOfDay := s.dayBounds()
	todayCount, err := s.aptRepo.CountBetween(ctx, nil, startOfDay, endOfDay)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.AdminOverview{
		ActivePatients:    activePatients,
		ActiveDoctors:     activeDoctors,
		TotalAppointments: totalAppointments,
		ActiveDepartments: activeDepartments,
		TotalRooms:        totalRooms,
		OccupiedRooms:     occupiedRooms,
		AvailableRooms:    totalRooms - occupiedRooms,
		TodayAppointments: todayCount,
		OccupancyRate:     OccupancyRate(occupiedRooms, totalRooms),
	}, nil
}

// HospitalOverview is the public, unauthenticated read-model.
func (s *Service) HospitalOverview(ctx context.Context) (*model.HospitalOverview, error) {
	departments, err := s.deptRepo.ListWithHeadDoctor(ctx, model.DepartmentStatusActive)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	services, err := s.svcRepo.List(ctx, true)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	doctorsByDept, err := s.userRepo.ListDoctorsByDepartment(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	totalDoctors, err := s.userRepo.CountByRole(ctx, model.RoleDoctor, model.UserStatusActive)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	totalCapacity, err := s.roomRepo.TotalCapacity(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.HospitalOverview{
		Departments:         departments,
		Services:            services,
		DoctorsByDepartment: doctorsByDept,
		HospitalStats: model.HospitalStats{
			TotalDoctors:     totalDoctors,
			TotalDepartments: len(departments),
			TotalServices:    len(services),
			TotalBedCapacity: totalCapacity,
		},
	}, nil
}

// OccupancyRate is round(occupied/total*100), or 0 when there are no rooms.
func OccupancyRate(occupied, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(occupied) / float64(total) * 100))
}

func (s *Service) dayBounds() (time.Time, time.Time) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}

func (s *Service) monthStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
