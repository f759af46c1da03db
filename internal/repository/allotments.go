package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateAllotmentRequest(req *domain.AllotmentRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO allotment_requests (room_id, role, total_minutes, remaining_minutes, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{req.RoomID, req.Role, req.TotalMinutes, req.RemainingMinutes, req.Active}
	dst := []any{&req.ID, &req.CreatedAt, &req.UpdatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllotmentRequestByID(id int64) (*domain.AllotmentRequest, error) {
	query := `
		SELECT room_id, role, total_minutes, remaining_minutes, active, created_at, updated_at, version
		FROM allotment_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.AllotmentRequest{
		ID: id,
	}

	dst := []any{&req.RoomID, &req.Role, &req.TotalMinutes, &req.RemainingMinutes, &req.Active, &req.CreatedAt, &req.UpdatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *Repository) GetActiveAllotmentRequests() ([]*domain.AllotmentRequest, error) {
	query := `
		SELECT id, room_id, role, total_minutes, remaining_minutes, active, created_at, updated_at, version
		FROM allotment_requests
		WHERE active = TRUE AND remaining_minutes > 0
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.AllotmentRequest, 0)
	for rows.Next() {
		req := &domain.AllotmentRequest{}
		dst := []any{&req.ID, &req.RoomID, &req.Role, &req.TotalMinutes, &req.RemainingMinutes, &req.Active, &req.CreatedAt, &req.UpdatedAt, &req.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

// UpdateAllotmentRequest 只允许调度器修改 remaining_minutes 和 active，
// 通过 version 做乐观锁防止并发扫描互相覆盖
func (r *Repository) UpdateAllotmentRequest(req *domain.AllotmentRequest) error {
	query := `
		UPDATE allotment_requests
		SET
			remaining_minutes = $1,
			active = $2,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{req.RemainingMinutes, req.Active, req.ID, req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.UpdatedAt, &req.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateAssignment(assignment *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO assignments (staff_id, room_id, role, request_id, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	args := []any{assignment.StaffID, assignment.RoomID, assignment.Role, assignment.RequestID, assignment.StartAt, assignment.EndAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) getAssignments(query string, args ...any) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		assignment := &domain.Assignment{}
		dst := []any{&assignment.ID, &assignment.StaffID, &assignment.RoomID, &assignment.Role, &assignment.RequestID, &assignment.StartAt, &assignment.EndAt, &assignment.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetAssignmentsByRequest(requestID int64) ([]*domain.Assignment, error) {
	query := `
		SELECT id, staff_id, room_id, role, request_id, start_at, end_at, created_at
		FROM assignments WHERE request_id = $1 ORDER BY start_at DESC
	`
	return r.getAssignments(query, requestID)
}

func (r *Repository) GetAssignmentsByStaff(staffID int64) ([]*domain.Assignment, error) {
	query := `
		SELECT id, staff_id, room_id, role, request_id, start_at, end_at, created_at
		FROM assignments WHERE staff_id = $1 ORDER BY start_at DESC
	`
	return r.getAssignments(query, staffID)
}

func (r *Repository) GetAssignmentsByRoom(roomID int64) ([]*domain.Assignment, error) {
	query := `
		SELECT id, staff_id, room_id, role, request_id, start_at, end_at, created_at
		FROM assignments WHERE room_id = $1 ORDER BY start_at DESC
	`
	return r.getAssignments(query, roomID)
}

// ReleaseStaffAssignments 把某个员工在 at 时刻生效中的分配的结束时间截断到 at，
// roomID 为 0 时释放该员工在所有房间的分配，返回被释放的分配数量
// 恰好在 at 时刻开始的分配不截断，保证截断后 start_at 仍然严格早于 end_at
func (r *Repository) ReleaseStaffAssignments(staffID int64, roomID int64, at time.Time) (int64, error) {
	query := `
		UPDATE assignments
		SET end_at = $1
		WHERE staff_id = $2 AND start_at < $1 AND end_at > $1 AND ($3 = 0 OR room_id = $3)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, at, staffID, roomID)
	if err != nil {
		return 0, err
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return released, nil
}
