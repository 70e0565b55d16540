package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Medicine is a single entry in a prescription's ordered medicine list.
type Medicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// Medicines is stored as a JSONB array to keep entry order.
type Medicines []Medicine

func (m Medicines) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal([]Medicine{})
	}
	return json.Marshal([]Medicine(m))
}

func (m *Medicines) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Medicines", src)
	}
	return json.Unmarshal(b, m)
}

// Prescription belongs to one patient, is authored by one doctor and linked to
// one appointment.
type Prescription struct {
	Base
	PatientID     uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id" db:"doctor_id"`
	AppointmentID uuid.UUID `json:"appointment_id" db:"appointment_id"`
	Medicines     Medicines `json:"medicines" db:"medicines"`
	Notes         string    `json:"notes" db:"notes"`
}

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID uuid.UUID  `json:"appointment_id" binding:"required"`
	Medicines     []Medicine `json:"medicines" binding:"required,min=1,dive"`
	Notes         string     `json:"notes" binding:"max=2000"`
}
