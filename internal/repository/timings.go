package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateShiftTiming(timing *domain.ShiftTiming) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shift_timings (staff_id, day, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	args := []any{timing.StaffID, timing.Day, timing.StartTime, timing.EndTime, timing.IsAvailable}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&timing.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftTimingsByStaff(staffID int64) ([]*domain.ShiftTiming, error) {
	query := `
		SELECT id, day, start_time, end_time, is_available
		FROM shift_timings WHERE staff_id = $1 ORDER BY day, start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timings := make([]*domain.ShiftTiming, 0)
	for rows.Next() {
		timing := &domain.ShiftTiming{
			StaffID: staffID,
		}
		dst := []any{&timing.ID, &timing.Day, &timing.StartTime, &timing.EndTime, &timing.IsAvailable}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		timings = append(timings, timing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return timings, nil
}

func (r *Repository) DeleteShiftTiming(id int64) error {
	query := `
		DELETE FROM shift_timings WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
