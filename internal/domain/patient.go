package domain

import (
	"time"
)

type Patient struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"fullName"`
	Gender     string    `json:"gender"`
	BirthDate  time.Time `json:"birthDate"`
	Contact    string    `json:"contact"`
	BloodGroup string    `json:"bloodGroup"`
	RoomID     *int64    `json:"roomId"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
