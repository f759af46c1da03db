package domain

import (
	"time"
)

// Leave 表示员工的请假记录，开始日期和结束日期都是闭区间（按天计算）
type Leave struct {
	ID        int64     `json:"id"`
	StaffID   int64     `json:"staffId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
}
