package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateRoom(room *domain.Room) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO rooms (number, name, type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{room.Number, room.Name, room.Type, room.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&room.ID, &room.CreatedAt, &room.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRoomByID(id int64) (*domain.Room, error) {
	query := `
		SELECT number, name, type, status, created_at, version
		FROM rooms WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	room := &domain.Room{
		ID: id,
	}

	dst := []any{&room.Number, &room.Name, &room.Type, &room.Status, &room.CreatedAt, &room.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return room, nil
}

func (r *Repository) GetAllRooms() ([]*domain.Room, error) {
	query := `
		SELECT id, number, name, type, status, created_at, version
		FROM rooms ORDER BY number
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room := &domain.Room{}
		dst := []any{&room.ID, &room.Number, &room.Name, &room.Type, &room.Status, &room.CreatedAt, &room.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *Repository) UpdateRoom(room *domain.Room) error {
	query := `
		UPDATE rooms
		SET
			name = $1,
			type = $2,
			status = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{room.Name, room.Type, room.Status, room.ID, room.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&room.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRoom(id int64) error {
	query := `
		DELETE FROM rooms WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
