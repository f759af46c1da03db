package domain

import (
	"time"
)

type InventoryKind string

const (
	InventoryKindMedicine  InventoryKind = "药品"
	InventoryKindEquipment InventoryKind = "器械"
	InventoryKindBlood     InventoryKind = "血液制品"
)

type InventoryItem struct {
	ID           int64         `json:"id"`
	Kind         InventoryKind `json:"kind"`
	Name         string        `json:"name"`
	Manufacturer string        `json:"manufacturer"`
	Quantity     int32         `json:"quantity"`
	CreatedAt    time.Time     `json:"createdAt"`
	Version      int32         `json:"-"`
}
