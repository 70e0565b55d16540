package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

const serviceColumns = `
	id, name, description, department_id, price, status, available,
	created_at, updated_at
`

func (r *serviceRepository) Create(ctx context.Context, s *model.Service) error {
	query := `
		INSERT INTO services (
			id, name, description, department_id, price, status, available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	if s.Status == "" {
		s.Status = model.ServiceStatusActive
	}

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Description, s.DepartmentID, s.Price,
		s.Status, s.Available, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", mapError(err))
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var s model.Service
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", mapError(err))
	}
	return &s, nil
}

func (r *serviceRepository) Update(ctx context.Context, s *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price = $3, status = $4,
			available = $5, updated_at = $6
		WHERE id = $7
	`
	s.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		s.Name, s.Description, s.Price, s.Status, s.Available, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
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

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
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

func (r *serviceRepository) List(ctx context.Context, onlyActiveAvailable bool) ([]*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if onlyActiveAvailable {
		query += ` WHERE status = 'active' AND available = true`
	}
	query += ` ORDER BY name`

	services := []*model.Service{}
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) Count(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM services`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}
