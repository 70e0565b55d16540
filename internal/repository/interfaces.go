package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
)

// Sentinel errors surfaced by all repositories so services can map them onto
// the HTTP error taxonomy without knowing the storage engine.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrConflict  = errors.New("conflicting update")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		CountByRole(ctx context.Context, role model.Role, status string) (int, error)
		ListDoctorsByDepartment(ctx context.Context) (map[string][]*model.DoctorListing, error)
		CountDoctorsPerDepartment(ctx context.Context) ([]*model.DepartmentDoctorCount, error)
	}

	AppointmentRepository interface {
		// Create inserts the appointment; a non-cancelled appointment already
		// occupying the (doctor, date, time) slot makes it fail with
		// ErrDuplicate. The store enforces this atomically.
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error)
		ListUpcomingForPatient(ctx context.Context, patientID uuid.UUID, from time.Time, limit int) ([]*model.AppointmentDetail, error)
		ListForDoctorBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.AppointmentDetail, error)
		ListPendingForDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.AppointmentDetail, error)
		ListDistinctPatients(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientSummary, error)
		Count(ctx context.Context, filters *model.AppointmentFilters) (int, error)
		CountBetween(ctx context.Context, doctorID *uuid.UUID, start, end time.Time) (int, error)
		CountCompletedBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int, error)
		MonthlyCounts(ctx context.Context, since time.Time) ([]*model.MonthlyAppointmentCount, error)
	}

	ReportRepository interface {
		// Create assigns report_id exactly once; the yearly sequence is
		// derived inside the insert so the identifier is never re-issued.
		Create(ctx context.Context, report *model.Report) error
		Get(ctx context.Context, id uuid.UUID) (*model.Report, error)
		Update(ctx context.Context, report *model.Report) error
		ListForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Report, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.Report, error)
		CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, p *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, d *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		Update(ctx context.Context, d *model.Department) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, status string) ([]*model.Department, error)
		ListWithHeadDoctor(ctx context.Context, status string) ([]*model.DepartmentOverview, error)
		Count(ctx context.Context, status string) (int, error)
	}

	RoomRepository interface {
		Create(ctx context.Context, r *model.Room) error
		Get(ctx context.Context, id uuid.UUID) (*model.Room, error)
		Update(ctx context.Context, r *model.Room) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Room, error)
		// AdjustOccupancy changes occupancy by delta, guarded in SQL so the
		// value never drops below zero or exceeds capacity.
		AdjustOccupancy(ctx context.Context, id uuid.UUID, delta int) (*model.Room, error)
		Counts(ctx context.Context) (total, occupied int, err error)
		StatsByType(ctx context.Context) ([]*model.RoomTypeStats, error)
		TotalCapacity(ctx context.Context) (int, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, s *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, s *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, onlyActiveAvailable bool) ([]*model.Service, error)
		Count(ctx context.Context, status string) (int, error)
	}
)
