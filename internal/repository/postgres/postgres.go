package postgres

import (
	"github.com/medicore/hospital-api/internal/repository"
)

type userRepository struct {
	db *DB
}

type appointmentRepository struct {
	db *DB
}

type reportRepository struct {
	db *DB
}

type prescriptionRepository struct {
	db *DB
}

type departmentRepository struct {
	db *DB
}

type roomRepository struct {
	db *DB
}

type serviceRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewAppointmentRepository(db *DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewReportRepository(db *DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func NewPrescriptionRepository(db *DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func NewDepartmentRepository(db *DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func NewRoomRepository(db *DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func NewServiceRepository(db *DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}
