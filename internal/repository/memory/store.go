// Package memory holds an in-memory implementation of the repository
// interfaces. It mirrors the Postgres semantics closely enough to back the
// service tests, including the slot uniqueness guard and the occupancy
// bounds check.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*model.User
	appointments  map[uuid.UUID]*model.Appointment
	reports       map[uuid.UUID]*model.Report
	prescriptions map[uuid.UUID]*model.Prescription
	departments   map[uuid.UUID]*model.Department
	rooms         map[uuid.UUID]*model.Room
	services      map[uuid.UUID]*model.Service
	reportSeq     map[int]int
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*model.User),
		appointments:  make(map[uuid.UUID]*model.Appointment),
		reports:       make(map[uuid.UUID]*model.Report),
		prescriptions: make(map[uuid.UUID]*model.Prescription),
		departments:   make(map[uuid.UUID]*model.Department),
		rooms:         make(map[uuid.UUID]*model.Room),
		services:      make(map[uuid.UUID]*model.Service),
		reportSeq:     make(map[int]int),
	}
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository   { return &appointmentRepo{s} }
func (s *Store) Reports() repository.ReportRepository             { return &reportRepo{s} }
func (s *Store) Prescriptions() repository.PrescriptionRepository { return &prescriptionRepo{s} }
func (s *Store) Departments() repository.DepartmentRepository     { return &departmentRepo{s} }
func (s *Store) Rooms() repository.RoomRepository                 { return &roomRepo{s} }
func (s *Store) Services() repository.ServiceRepository           { return &serviceRepo{s} }

func stamp(b *model.Base) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func copyUser(u *model.User) *model.User {
	cp := *u
	if u.Doctor != nil {
		d := *u.Doctor
		cp.Doctor = &d
	}
	if u.Patient != nil {
		p := *u.Patient
		cp.Patient = &p
	}
	return &cp
}

func copyAppointment(a *model.Appointment) *model.Appointment {
	cp := *a
	return &cp
}
