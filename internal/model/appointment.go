package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the single canonical status vocabulary. Legacy clients
// sent both upper-case PENDING-style values and a lowercase set including
// "scheduled"; NormalizeStatus folds all of them onto this enum.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted
}

// CanTransitionTo encodes the allowed transitions:
// pending -> confirmed | cancelled, confirmed -> completed | cancelled.
// Completed is final; re-cancelling a cancelled appointment is permitted as an
// idempotent no-op and handled by the caller.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

// NormalizeStatus maps legacy vocabularies onto the canonical enum.
func NormalizeStatus(raw string) (AppointmentStatus, bool) {
	switch AppointmentStatus(strings.ToLower(raw)) {
	case "scheduled", AppointmentStatusPending:
		return AppointmentStatusPending, true
	case AppointmentStatusConfirmed:
		return AppointmentStatusConfirmed, true
	case AppointmentStatusCancelled:
		return AppointmentStatusCancelled, true
	case AppointmentStatusCompleted:
		return AppointmentStatusCompleted, true
	}
	return "", false
}

// Appointment occupies a slot: the (doctor, date, time) triple. Name,
// specialization and fee are snapshots captured at booking time and are not
// kept in sync with later profile edits.
type Appointment struct {
	Base
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID        uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	AppointmentTime string            `json:"appointment_time" db:"appointment_time"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Reason          string            `json:"reason" db:"reason"`
	Symptoms        StringSlice       `json:"symptoms,omitempty" db:"symptoms"`
	Notes           string            `json:"notes,omitempty" db:"notes"`

	PatientName     string  `json:"patient_name" db:"patient_name"`
	DoctorName      string  `json:"doctor_name" db:"doctor_name"`
	Specialization  string  `json:"specialization" db:"specialization"`
	ConsultationFee float64 `json:"consultation_fee" db:"consultation_fee"`
}

// AppointmentDetail is an appointment with counterpart contact fields resolved
// at read time (denormalized join, never cached).
type AppointmentDetail struct {
	Appointment
	PatientEmail *string `json:"patient_email,omitempty" db:"patient_email"`
	DoctorEmail  *string `json:"doctor_email,omitempty" db:"doctor_email"`
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctorId" binding:"required"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	AppointmentTime string    `json:"appointmentTime" binding:"required,timeslot"`
	Reason          string    `json:"reason" binding:"required,max=1000"`
	Symptoms        []string  `json:"symptoms"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"max=1000"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	Limit     int
}
