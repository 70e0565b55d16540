package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

const roomColumns = `
	id, room_number, type, capacity, occupancy, status, created_at, updated_at
`

func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (
			id, room_number, type, capacity, occupancy, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	room.CreatedAt = time.Now()
	room.UpdatedAt = time.Now()
	if room.Status == "" {
		room.Status = model.RoomStatusAvailable
	}

	_, err := r.db.ExecContext(ctx, query,
		room.ID, room.RoomNumber, room.Type, room.Capacity, room.Occupancy,
		room.Status, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", mapError(err))
	}
	return nil
}

func (r *roomRepository) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	var room model.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, fmt.Errorf("failed to get room: %w", mapError(err))
	}
	return &room, nil
}

func (r *roomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET type = $1, capacity = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	room.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		room.Type, room.Capacity, room.Status, room.UpdatedAt, room.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", mapError(err))
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

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
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

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY room_number`

	rooms := []*model.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) AdjustOccupancy(ctx context.Context, id uuid.UUID, delta int) (*model.Room, error) {
	// Guarded in SQL so concurrent assigns cannot push occupancy out of
	// [0, capacity].
	query := `
		UPDATE rooms
		SET occupancy = occupancy + $1, updated_at = $2
		WHERE id = $3
		AND occupancy + $1 >= 0
		AND occupancy + $1 <= capacity
		RETURNING ` + roomColumns + `
	`
	var room model.Room
	err := r.db.GetContext(ctx, &room, query, delta, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the room does not exist or the adjustment is out of
			// range; disambiguate for the caller.
			if _, getErr := r.Get(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("occupancy adjustment out of range: %w", repository.ErrConflict)
		}
		return nil, fmt.Errorf("failed to adjust room occupancy: %w", err)
	}
	return &room, nil
}

func (r *roomRepository) Counts(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*) AS total,
			   COUNT(*) FILTER (WHERE occupancy > 0) AS occupied
		FROM rooms
	`
	var row struct {
		Total    int `db:"total"`
		Occupied int `db:"occupied"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return row.Total, row.Occupied, nil
}

func (r *roomRepository) StatsByType(ctx context.Context) ([]*model.RoomTypeStats, error) {
	query := `
		SELECT type,
			   COUNT(*) FILTER (WHERE occupancy > 0)::int AS occupied,
			   COUNT(*) FILTER (WHERE occupancy < capacity AND status = 'available')::int AS available
		FROM rooms
		GROUP BY type
		ORDER BY type
	`
	stats := []*model.RoomTypeStats{}
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate room stats: %w", err)
	}
	return stats, nil
}

func (r *roomRepository) TotalCapacity(ctx context.Context) (int, error) {
	var capacity int
	err := r.db.GetContext(ctx, &capacity, `SELECT COALESCE(SUM(capacity), 0) FROM rooms`)
	if err != nil {
		return 0, fmt.Errorf("failed to sum room capacity: %w", err)
	}
	return capacity, nil
}
