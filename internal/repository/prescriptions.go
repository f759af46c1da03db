package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreatePrescription(prescription *domain.Prescription) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO prescriptions (patient_id, doctor_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	args := []any{prescription.PatientID, prescription.DoctorID, prescription.Content}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&prescription.ID, &prescription.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPrescriptionsByPatient(patientID int64) ([]*domain.Prescription, error) {
	query := `
		SELECT id, doctor_id, content, created_at
		FROM prescriptions WHERE patient_id = $1 ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prescriptions := make([]*domain.Prescription, 0)
	for rows.Next() {
		prescription := &domain.Prescription{
			PatientID: patientID,
		}
		dst := []any{&prescription.ID, &prescription.DoctorID, &prescription.Content, &prescription.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		prescriptions = append(prescriptions, prescription)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prescriptions, nil
}
