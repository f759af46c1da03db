package domain

import (
	"time"
)

type Prescription struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patientId"`
	DoctorID  int64     `json:"doctorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
