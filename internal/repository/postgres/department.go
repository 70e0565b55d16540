package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

const departmentColumns = `
	id, name, description, head_doctor_id, status, created_at, updated_at
`

func (r *departmentRepository) Create(ctx context.Context, d *model.Department) error {
	query := `
		INSERT INTO departments (
			id, name, description, head_doctor_id, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	if d.Status == "" {
		d.Status = model.DepartmentStatusActive
	}

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Description, d.HeadDoctorID, d.Status,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", mapError(err))
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`

	var d model.Department
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, fmt.Errorf("failed to get department: %w", mapError(err))
	}
	return &d, nil
}

func (r *departmentRepository) Update(ctx context.Context, d *model.Department) error {
	query := `
		UPDATE departments
		SET name = $1, description = $2, head_doctor_id = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	d.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		d.Name, d.Description, d.HeadDoctorID, d.Status, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", mapError(err))
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

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
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

func (r *departmentRepository) List(ctx context.Context, status string) ([]*model.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY name`

	departments := []*model.Department{}
	if err := r.db.SelectContext(ctx, &departments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) ListWithHeadDoctor(ctx context.Context, status string) ([]*model.DepartmentOverview, error) {
	query := `
		SELECT d.id, d.name, d.description, d.head_doctor_id, d.status,
			   d.created_at, d.updated_at,
			   u.name AS head_doctor_name
		FROM departments d
		LEFT JOIN users u ON u.id = d.head_doctor_id
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE d.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY d.name`

	departments := []*model.DepartmentOverview{}
	if err := r.db.SelectContext(ctx, &departments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list departments with head doctor: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) Count(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM departments`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count departments: %w", err)
	}
	return count, nil
}
