package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreatePatient(patient *domain.Patient) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO patients (full_name, gender, birth_date, contact, blood_group, room_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{patient.FullName, patient.Gender, patient.BirthDate, patient.Contact, patient.BloodGroup, patient.RoomID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&patient.ID, &patient.CreatedAt, &patient.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPatientByID(id int64) (*domain.Patient, error) {
	query := `
		SELECT full_name, gender, birth_date, contact, blood_group, room_id, created_at, version
		FROM patients WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	patient := &domain.Patient{
		ID: id,
	}

	dst := []any{&patient.FullName, &patient.Gender, &patient.BirthDate, &patient.Contact, &patient.BloodGroup, &patient.RoomID, &patient.CreatedAt, &patient.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return patient, nil
}

func (r *Repository) GetAllPatients() ([]*domain.Patient, error) {
	query := `
		SELECT id, full_name, gender, birth_date, contact, blood_group, room_id, created_at, version
		FROM patients ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]*domain.Patient, 0)
	for rows.Next() {
		patient := &domain.Patient{}
		dst := []any{&patient.ID, &patient.FullName, &patient.Gender, &patient.BirthDate, &patient.Contact, &patient.BloodGroup, &patient.RoomID, &patient.CreatedAt, &patient.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patients, nil
}

func (r *Repository) UpdatePatient(patient *domain.Patient) error {
	query := `
		UPDATE patients
		SET
			contact = $1,
			blood_group = $2,
			room_id = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{patient.Contact, patient.BloodGroup, patient.RoomID, patient.ID, patient.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&patient.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeletePatient(id int64) error {
	query := `
		DELETE FROM patients WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
