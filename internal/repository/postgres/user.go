package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

// userRow is the flat storage shape; role-specific columns are nullable and
// folded into the tagged User union on the way out.
type userRow struct {
	model.Base
	Email        string  `db:"email"`
	Name         string  `db:"name"`
	PasswordHash string  `db:"password_hash"`
	Role         string  `db:"role"`
	Status       string  `db:"status"`
	Phone        *string `db:"phone"`

	Specialization  *string            `db:"specialization"`
	ConsultationFee *float64           `db:"consultation_fee"`
	ExperienceYears *int               `db:"experience_years"`
	DepartmentID    *uuid.UUID         `db:"department_id"`
	Age             *int               `db:"age"`
	Gender          *string            `db:"gender"`
	BloodGroup      *string            `db:"blood_group"`
	MedicalHistory  *model.StringSlice `db:"medical_history"`
}

func (r userRow) toModel() *model.User {
	u := &model.User{
		Base:         r.Base,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         model.Role(r.Role),
		Status:       r.Status,
		Phone:        r.Phone,
	}

	switch u.Role {
	case model.RoleDoctor:
		p := &model.DoctorProfile{DepartmentID: r.DepartmentID}
		if r.Specialization != nil {
			p.Specialization = *r.Specialization
		}
		if r.ConsultationFee != nil {
			p.ConsultationFee = *r.ConsultationFee
		}
		if r.ExperienceYears != nil {
			p.ExperienceYears = *r.ExperienceYears
		}
		u.Doctor = p
	case model.RolePatient:
		p := &model.PatientProfile{}
		if r.Age != nil {
			p.Age = *r.Age
		}
		if r.Gender != nil {
			p.Gender = *r.Gender
		}
		if r.BloodGroup != nil {
			p.BloodGroup = *r.BloodGroup
		}
		if r.MedicalHistory != nil {
			p.MedicalHistory = *r.MedicalHistory
		}
		u.Patient = p
	}
	return u
}

const userColumns = `
	id, email, name, password_hash, role, status, phone,
	specialization, consultation_fee, experience_years, department_id,
	age, gender, blood_group, medical_history,
	created_at, updated_at
`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, name, password_hash, role, status, phone,
			specialization, consultation_fee, experience_years, department_id,
			age, gender, blood_group, medical_history,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	var (
		specialization  *string
		consultationFee *float64
		experienceYears *int
		departmentID    *uuid.UUID
		age             *int
		gender          *string
		bloodGroup      *string
		medicalHistory  *model.StringSlice
	)
	if d := user.Doctor; d != nil {
		specialization = &d.Specialization
		consultationFee = &d.ConsultationFee
		experienceYears = &d.ExperienceYears
		departmentID = d.DepartmentID
	}
	if p := user.Patient; p != nil {
		age = &p.Age
		gender = &p.Gender
		bloodGroup = &p.BloodGroup
		medicalHistory = &p.MedicalHistory
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role,
		user.Status, user.Phone,
		specialization, consultationFee, experienceYears, departmentID,
		age, gender, bloodGroup, medicalHistory,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapError(err))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", mapError(err))
	}
	return row.toModel(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", mapError(err))
	}
	return row.toModel(), nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, status = $3,
			specialization = $4, consultation_fee = $5, experience_years = $6, department_id = $7,
			age = $8, gender = $9, blood_group = $10, medical_history = $11,
			updated_at = $12
		WHERE id = $13
	`
	user.UpdatedAt = time.Now()

	var (
		specialization  *string
		consultationFee *float64
		experienceYears *int
		departmentID    *uuid.UUID
		age             *int
		gender          *string
		bloodGroup      *string
		medicalHistory  *model.StringSlice
	)
	if d := user.Doctor; d != nil {
		specialization = &d.Specialization
		consultationFee = &d.ConsultationFee
		experienceYears = &d.ExperienceYears
		departmentID = d.DepartmentID
	}
	if p := user.Patient; p != nil {
		age = &p.Age
		gender = &p.Gender
		bloodGroup = &p.BloodGroup
		medicalHistory = &p.MedicalHistory
	}

	result, err := r.db.ExecContext(ctx, query,
		user.Name, user.Phone, user.Status,
		specialization, consultationFee, experienceYears, departmentID,
		age, gender, bloodGroup, medicalHistory,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapError(err))
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

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.Role != "" {
		query += fmt.Sprintf(" AND role = $%d", argCount)
		args = append(args, filters.Role)
		argCount++
	}
	if filters != nil && filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	query += " ORDER BY created_at DESC"

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role model.Role, status string) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`
	args := []interface{}{role}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) ListDoctorsByDepartment(ctx context.Context) (map[string][]*model.DoctorListing, error) {
	query := `
		SELECT d.name AS department,
			   u.id, u.name,
			   COALESCE(u.specialization, '') AS specialization,
			   COALESCE(u.experience_years, 0) AS experience_years,
			   COALESCE(u.consultation_fee, 0) AS consultation_fee
		FROM users u
		JOIN departments d ON d.id = u.department_id
		WHERE u.role = 'doctor' AND u.status = 'active'
		ORDER BY d.name, u.name
	`
	var rows []struct {
		Department string `db:"department"`
		model.DoctorListing
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors by department: %w", err)
	}

	result := make(map[string][]*model.DoctorListing)
	for i := range rows {
		listing := rows[i].DoctorListing
		result[rows[i].Department] = append(result[rows[i].Department], &listing)
	}
	return result, nil
}

func (r *userRepository) CountDoctorsPerDepartment(ctx context.Context) ([]*model.DepartmentDoctorCount, error) {
	query := `
		SELECT d.name AS department, COUNT(u.id) AS doctors
		FROM departments d
		LEFT JOIN users u ON u.department_id = d.id AND u.role = 'doctor' AND u.status = 'active'
		WHERE d.status = 'active'
		GROUP BY d.name
		ORDER BY d.name
	`
	counts := []*model.DepartmentDoctorCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count doctors per department: %w", err)
	}
	return counts, nil
}
