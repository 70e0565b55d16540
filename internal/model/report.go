package model

import (
	"github.com/google/uuid"
)

// ReportType is a closed diagnosis category enum.
type ReportType string

const (
	ReportTypeLab        ReportType = "lab"
	ReportTypeRadiology  ReportType = "radiology"
	ReportTypeGeneral    ReportType = "general"
	ReportTypeCardiology ReportType = "cardiology"
	ReportTypePathology  ReportType = "pathology"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeLab, ReportTypeRadiology, ReportTypeGeneral,
		ReportTypeCardiology, ReportTypePathology:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusDraft    ReportStatus = "draft"
	ReportStatusFinal    ReportStatus = "final"
	ReportStatusReviewed ReportStatus = "reviewed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusFinal, ReportStatusReviewed:
		return true
	}
	return false
}

// Report belongs to one patient and is authored by one doctor. ReportID is the
// human-readable identifier (RPT-<year>-<NNN>), assigned exactly once at
// creation and unique across the store.
type Report struct {
	Base
	ReportID      string       `json:"report_id" db:"report_id"`
	PatientID     uuid.UUID    `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID    `json:"doctor_id" db:"doctor_id"`
	AppointmentID *uuid.UUID   `json:"appointment_id,omitempty" db:"appointment_id"`
	Type          ReportType   `json:"type" db:"type"`
	Title         string       `json:"title" db:"title"`
	Diagnosis     string       `json:"diagnosis" db:"diagnosis"`
	Status        ReportStatus `json:"status" db:"status"`
	Vitals        JSONMap      `json:"vitals,omitempty" db:"vitals"`
	TestResults   JSONMap      `json:"test_results,omitempty" db:"test_results"`
}

type CreateReportRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Type          ReportType `json:"type" binding:"required"`
	Title         string     `json:"title" binding:"required,max=200"`
	Diagnosis     string     `json:"diagnosis" binding:"max=5000"`
	Vitals        JSONMap    `json:"vitals"`
	TestResults   JSONMap    `json:"test_results"`
}

type UpdateReportRequest struct {
	Title       *string       `json:"title"`
	Diagnosis   *string       `json:"diagnosis"`
	Status      *ReportStatus `json:"status"`
	Vitals      JSONMap       `json:"vitals"`
	TestResults JSONMap       `json:"test_results"`
}
