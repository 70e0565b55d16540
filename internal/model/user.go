package model

import (
	"github.com/google/uuid"
)

// Role identifies the kind of user. It is fixed at registration.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is a tagged union: the common profile plus exactly one role-specific
// payload selected by Role. The other payloads stay nil.
type User struct {
	Base
	Email        string  `json:"email" db:"email"`
	Name         string  `json:"name" db:"name"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Role         Role    `json:"role" db:"role"`
	Status       string  `json:"status" db:"status"`
	Phone        *string `json:"phone,omitempty" db:"phone"`

	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
	Patient *PatientProfile `json:"patient,omitempty"`
}

// DoctorProfile holds the doctor-only fields.
type DoctorProfile struct {
	Specialization  string     `json:"specialization"`
	ConsultationFee float64    `json:"consultation_fee"`
	ExperienceYears int        `json:"experience_years"`
	DepartmentID    *uuid.UUID `json:"department_id,omitempty"`
}

// PatientProfile holds the patient-only fields.
type PatientProfile struct {
	Age            int         `json:"age"`
	Gender         string      `json:"gender"`
	BloodGroup     string      `json:"blood_group,omitempty"`
	MedicalHistory StringSlice `json:"medical_history"`
}

// RegisterRequest covers all roles; role-specific fields are validated in the
// auth service for the matching role only.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,oneof=admin doctor patient"`
	Phone    string `json:"phone"`

	// doctor fields
	Specialization  string     `json:"specialization"`
	ConsultationFee float64    `json:"consultation_fee"`
	ExperienceYears int        `json:"experience_years"`
	DepartmentID    *uuid.UUID `json:"department_id"`

	// patient fields
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	BloodGroup     string   `json:"blood_group"`
	MedicalHistory []string `json:"medical_history"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UserFilters struct {
	Role   Role
	Status string
}
