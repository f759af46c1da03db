package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateRoomStaffRequirement(requirement *domain.RoomStaffRequirement) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO room_staff_requirements (room_id, role, count)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{requirement.RoomID, requirement.Role, requirement.Count}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&requirement.ID, &requirement.CreatedAt, &requirement.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllRoomStaffRequirements() ([]*domain.RoomStaffRequirement, error) {
	query := `
		SELECT id, room_id, role, count, created_at, version
		FROM room_staff_requirements ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requirements := make([]*domain.RoomStaffRequirement, 0)
	for rows.Next() {
		requirement := &domain.RoomStaffRequirement{}
		dst := []any{&requirement.ID, &requirement.RoomID, &requirement.Role, &requirement.Count, &requirement.CreatedAt, &requirement.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requirements = append(requirements, requirement)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}

func (r *Repository) DeleteRoomStaffRequirement(id int64) error {
	query := `
		DELETE FROM room_staff_requirements WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
