package domain

import (
	"time"
)

// AllotmentRequest 表示对某个房间、某个岗位的人力需求
// 不变量: 0 <= RemainingMinutes <= TotalMinutes，且 Active 当且仅当 RemainingMinutes > 0
// 一旦 RemainingMinutes 减到 0，请求关闭且不会重新打开；记录只增不删，便于审计
type AllotmentRequest struct {
	ID               int64     `json:"id"`
	RoomID           int64     `json:"roomId"`
	Role             Role      `json:"role"`
	TotalMinutes     int32     `json:"totalMinutes"`
	RemainingMinutes int32     `json:"remainingMinutes"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Version          int32     `json:"-"`
}

// Assignment 表示一段确定的排班承诺，占用区间为左闭右开 [StartAt, EndAt)
// RequestID 为 nil 表示这是由房间常驻人力要求产生的分配，而不是由请求产生的
// 分配记录创建后不允许原地修改，提前释放只会把 EndAt 截断到当前时刻
type Assignment struct {
	ID        int64     `json:"id"`
	StaffID   int64     `json:"staffId"`
	RoomID    int64     `json:"roomId"`
	Role      Role      `json:"role"`
	RequestID *int64    `json:"requestId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// InForceAt 判断分配在 at 时刻是否生效
func (a *Assignment) InForceAt(at time.Time) bool {
	return !a.StartAt.After(at) && a.EndAt.After(at)
}

// RoomStaffRequirement 表示房间的常驻人力要求：任意时刻该房间该岗位
// 至少要有 Count 个生效中的分配
type RoomStaffRequirement struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"roomId"`
	Role      Role      `json:"role"`
	Count     int32     `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
