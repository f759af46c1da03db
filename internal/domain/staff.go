package domain

import (
	"time"
)

type Role string

const (
	RoleDoctor     Role = "医生"
	RoleNurse      Role = "护士"
	RoleTechnician Role = "技师"
	RoleAdmin      Role = "管理员"
)

type Staff struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
