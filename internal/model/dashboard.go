package model

import (
	"github.com/google/uuid"
)

// Role-scoped read-models. All of these are pure aggregations over the store;
// an empty store yields zero counts and empty (non-nil) lists.

type PatientStats struct {
	TotalAppointments     int `json:"totalAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	UpcomingAppointments  int `json:"upcomingAppointments"`
	TotalReports          int `json:"totalReports"`
}

type PatientDashboard struct {
	Patient              *User                `json:"patient"`
	Appointments         []*AppointmentDetail `json:"appointments"`
	Reports              []*Report            `json:"reports"`
	UpcomingAppointments []*AppointmentDetail `json:"upcomingAppointments"`
	Stats                PatientStats         `json:"stats"`
}

type DoctorStats struct {
	TotalPatients     int `json:"totalPatients"`
	TotalAppointments int `json:"totalAppointments"`
	TodayAppointments int `json:"todayAppointments"`
	PendingRequests   int `json:"pendingRequests"`
	CompletedToday    int `json:"completedToday"`
}

// PatientSummary is one distinct patient drawn from a doctor's completed
// appointments.
type PatientSummary struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Email  string    `json:"email" db:"email"`
	Age    *int      `json:"age,omitempty" db:"age"`
	Gender *string   `json:"gender,omitempty" db:"gender"`
}

type DoctorDashboard struct {
	Doctor              *User                `json:"doctor"`
	Appointments        []*AppointmentDetail `json:"appointments"`
	TodaysAppointments  []*AppointmentDetail `json:"todaysAppointments"`
	PendingAppointments []*AppointmentDetail `json:"pendingAppointments"`
	Patients            []*PatientSummary    `json:"patients"`
	Stats               DoctorStats          `json:"stats"`
}

type AdminOverview struct {
	ActivePatients    int `json:"activePatients"`
	ActiveDoctors     int `json:"activeDoctors"`
	TotalAppointments int `json:"totalAppointments"`
	ActiveDepartments int `json:"activeDepartments"`
	TotalRooms        int `json:"totalRooms"`
	OccupiedRooms     int `json:"occupiedRooms"`
	AvailableRooms    int `json:"availableRooms"`
	TodayAppointments int `json:"todayAppointments"`
	OccupancyRate     int `json:"occupancyRate"`
}

// DepartmentDoctorCount is a group-by over doctors per department.
type DepartmentDoctorCount struct {
	Department string `json:"department" db:"department"`
	Doctors    int    `json:"doctors" db:"doctors"`
}

// RoomTypeStats splits rooms of one type by occupancy.
type RoomTypeStats struct {
	Type      string `json:"type" db:"type"`
	Occupied  int    `json:"occupied" db:"occupied"`
	Available int    `json:"available" db:"available"`
}

// MonthlyAppointmentCount is one bucket of the trailing 6-month trend.
type MonthlyAppointmentCount struct {
	Year  int `json:"year" db:"year"`
	Month int `json:"month" db:"month"`
	Count int `json:"count" db:"count"`
}

type AdminStats struct {
	Overview          AdminOverview              `json:"overview"`
	DepartmentStats   []*DepartmentDoctorCount   `json:"departmentStats"`
	RoomStats         []*RoomTypeStats           `json:"roomStats"`
	AppointmentTrends []*MonthlyAppointmentCount `json:"appointmentTrends"`
}

type AdminDashboard struct {
	Admin              *User                `json:"admin"`
	Stats              AdminStats           `json:"stats"`
	RecentAppointments []*AppointmentDetail `json:"recentAppointments"`
}

// Public hospital overview.

type DepartmentOverview struct {
	Department
	HeadDoctorName *string `json:"head_doctor_name,omitempty" db:"head_doctor_name"`
}

// DoctorListing is one roster entry in the public overview.
type DoctorListing struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Specialization  string    `json:"specialization" db:"specialization"`
	ExperienceYears int       `json:"experience_years" db:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee" db:"consultation_fee"`
}

type HospitalStats struct {
	TotalDoctors     int `json:"totalDoctors"`
	TotalDepartments int `json:"totalDepartments"`
	TotalServices    int `json:"totalServices"`
	TotalBedCapacity int `json:"totalBedCapacity"`
}

type HospitalOverview struct {
	Departments         []*DepartmentOverview       `json:"departments"`
	Services            []*Service                  `json:"services"`
	DoctorsByDepartment map[string][]*DoctorListing `json:"doctorsByDepartment"`
	HospitalStats       HospitalStats               `json:"hospitalStats"`
}
