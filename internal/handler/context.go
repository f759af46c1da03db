package handler

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	StaffInfoCtx     ContextKey = "staffInfo"
	RoomCtx          ContextKey = "room"
	PatientCtx       ContextKey = "patient"
	InventoryItemCtx ContextKey = "inventoryItem"
)
