package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

const appointmentColumns = `
	a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
	a.status, a.reason, a.symptoms, a.notes,
	a.patient_name, a.doctor_name, a.specialization, a.consultation_fee,
	a.created_at, a.updated_at
`

// detailColumns joins current counterpart contact fields at read time.
const detailColumns = appointmentColumns + `,
	p.email AS patient_email, d.email AS doctor_email
`

const detailJoins = `
	LEFT JOIN users p ON p.id = a.patient_id
	LEFT JOIN users d ON d.id = a.doctor_id
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, appointment_time,
			status, reason, symptoms, notes,
			patient_name, doctor_name, specialization, consultation_fee,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID, apt.PatientID, apt.DoctorID, apt.AppointmentDate, apt.AppointmentTime,
		apt.Status, apt.Reason, apt.Symptoms, apt.Notes,
		apt.PatientName, apt.DoctorName, apt.Specialization, apt.ConsultationFee,
		apt.CreatedAt, apt.UpdatedAt,
	)
	if err != nil {
		// The partial unique index on (doctor_id, appointment_date,
		// appointment_time) WHERE status <> 'cancelled' makes the conflict
		// check atomic with the insert.
		return fmt.Errorf("failed to create appointment: %w", mapError(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = $1`

	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", mapError(err))
	}
	return &apt, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = COALESCE($2, notes), updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + ` FROM appointments a ` + detailJoins + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND a.doctor_id = $%d", argCount)
			args = append(args, filters.DoctorID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND a.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	query += " ORDER BY a.appointment_date DESC, a.appointment_time DESC"

	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	appointments := []*model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingForPatient(ctx context.Context, patientID uuid.UUID, from time.Time, limit int) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM appointments a ` + detailJoins + `
		WHERE a.patient_id = $1
		AND a.appointment_date >= $2
		AND a.status IN ('pending', 'confirmed')
		ORDER BY a.appointment_date ASC, a.appointment_time ASC
		LIMIT $3
	`
	appointments := []*model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, from, limit); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctorBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM appointments a ` + detailJoins + `
		WHERE a.doctor_id = $1
		AND a.appointment_date >= $2 AND a.appointment_date < $3
		ORDER BY a.appointment_time ASC
	`
	appointments := []*model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListPendingForDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM appointments a ` + detailJoins + `
		WHERE a.doctor_id = $1 AND a.status = 'pending'
		ORDER BY a.created_at DESC
		LIMIT $2
	`
	appointments := []*model.AppointmentDetail{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, limit); err != nil {
		return nil, fmt.Errorf("failed to list pending appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListDistinctPatients(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientSummary, error) {
	query := `
		SELECT DISTINCT ON (u.id) u.id, u.name, u.email, u.age, u.gender
		FROM appointments a
		JOIN users u ON u.id = a.patient_id
		WHERE a.doctor_id = $1 AND a.status = 'completed'
		ORDER BY u.id, u.name
	`
	patients := []*model.PatientSummary{}
	if err := r.db.SelectContext(ctx, &patients, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list distinct patients: %w", err)
	}
	return patients, nil
}

func (r *appointmentRepository) Count(ctx context.Context, filters *model.AppointmentFilters) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
			args = append(args, filters.DoctorID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountBetween(ctx context.Context, doctorID *uuid.UUID, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2
	`
	args := []interface{}{start, end}
	if doctorID != nil {
		query += ` AND doctor_id = $3`
		args = append(args, *doctorID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count appointments in range: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountCompletedBetween(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1
		AND status = 'completed'
		AND appointment_date >= $2 AND appointment_date < $3
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, doctorID, start, end); err != nil {
		return 0, fmt.Errorf("failed to count completed appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]*model.MonthlyAppointmentCount, error) {
	query := `
		SELECT EXTRACT(YEAR FROM appointment_date)::int AS year,
			   EXTRACT(MONTH FROM appointment_date)::int AS month,
			   COUNT(*)::int AS count
		FROM appointments
		WHERE appointment_date >= $1
		GROUP BY year, month
		ORDER BY year ASC, month ASC
	`
	counts := []*model.MonthlyAppointmentCount{}
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly counts: %w", err)
	}
	return counts, nil
}
