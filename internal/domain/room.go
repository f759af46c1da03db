package domain

import (
	"time"
)

type RoomStatus string

const (
	RoomStatusVacant   RoomStatus = "空闲"
	RoomStatusOccupied RoomStatus = "使用中"
	RoomStatusCleaning RoomStatus = "清洁中"
)

type Room struct {
	ID        int64      `json:"id"`
	Number    int32      `json:"number"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Status    RoomStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	Version   int32      `json:"-"`
}
