package domain

// ShiftTiming 表示某个员工在一周中某一天的固定上班时间段
// Day 的取值为 1-7（1 表示周一，7 表示周日）
// StartTime 和 EndTime 的格式为 "15:04:05"，以 UTC 墙钟时间解释
type ShiftTiming struct {
	ID          int64  `json:"id"`
	StaffID     int64  `json:"staffId"`
	Day         int32  `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}
