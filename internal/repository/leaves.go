package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateLeave(leave *domain.Leave) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO leaves (staff_id, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	args := []any{leave.StaffID, leave.StartDate, leave.EndDate}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&leave.ID, &leave.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetLeavesByStaff(staffID int64) ([]*domain.Leave, error) {
	query := `
		SELECT id, start_date, end_date, created_at
		FROM leaves WHERE staff_id = $1 ORDER BY start_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaves := make([]*domain.Leave, 0)
	for rows.Next() {
		leave := &domain.Leave{
			StaffID: staffID,
		}
		dst := []any{&leave.ID, &leave.StartDate, &leave.EndDate, &leave.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		leaves = append(leaves, leave)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return leaves, nil
}

func (r *Repository) DeleteLeave(id int64) error {
	query := `
		DELETE FROM leaves WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
