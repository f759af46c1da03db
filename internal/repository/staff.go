package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateStaff(staff *domain.Staff) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO staff (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	args := []any{staff.Username, staff.PasswordHash, staff.FullName, staff.Email, staff.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &staff.IsActive, &staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStaffByID(id int64) (*domain.Staff, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, is_active, created_at, version
		FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	staff := &domain.Staff{
		ID: id,
	}

	dst := []any{&staff.Username, &staff.PasswordHash, &staff.FullName, &staff.Email, &staff.Role, &staff.IsActive, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) GetStaffByUsername(username string) (*domain.Staff, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, is_active, created_at, version
		FROM staff WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	staff := &domain.Staff{
		Username: username,
	}

	dst := []any{&staff.ID, &staff.PasswordHash, &staff.FullName, &staff.Email, &staff.Role, &staff.IsActive, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) GetAllStaff() ([]*domain.Staff, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, is_active, created_at, version
		FROM staff ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.Username, &staff.PasswordHash, &staff.FullName, &staff.Email, &staff.Role, &staff.IsActive, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffList = append(staffList, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffList, nil
}

// GetStaffByRole 按 id 升序返回某个岗位的所有员工，稳定的顺序是轮转选择的前提
func (r *Repository) GetStaffByRole(role domain.Role) ([]*domain.Staff, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, is_active, created_at, version
		FROM staff WHERE role = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.Username, &staff.PasswordHash, &staff.FullName, &staff.Email, &staff.Role, &staff.IsActive, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffList = append(staffList, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffList, nil
}

func (r *Repository) UpdateStaff(staff *domain.Staff) error {
	query := `
		UPDATE staff
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{staff.PasswordHash, staff.Email, staff.Role, staff.IsActive, staff.ID, staff.Version}
	dst := []any{&staff.Username, &staff.FullName, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStaff(id int64) error {
	query := `
		DELETE FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM staff WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
