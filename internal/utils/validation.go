package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

// ValidateShiftWindow 检查单个上班时段的起止时间格式及先后关系
func ValidateShiftWindow(startTime string, endTime string) error {
	start, err := time.Parse("15:04:05", startTime)
	if err != nil {
		return errors.New("开始时间格式错误")
	}
	end, err := time.Parse("15:04:05", endTime)
	if err != nil {
		return errors.New("结束时间格式错误")
	}
	if !end.After(start) {
		return errors.New("结束时间必须晚于开始时间")
	}
	return nil
}

// ValidateShiftTimings 检查某个员工同一天的各个上班时段之间是否冲突
func ValidateShiftTimings(timings []*domain.ShiftTiming) error {
	for i := 0; i < len(timings); i++ {
		iStartTime, _ := time.Parse("15:04:05", timings[i].StartTime)
		iEndTime, _ := time.Parse("15:04:05", timings[i].EndTime)

		for j := i + 1; j < len(timings); j++ {
			if timings[i].Day != timings[j].Day {
				continue
			}

			jStartTime, _ := time.Parse("15:04:05", timings[j].StartTime)
			jEndTime, _ := time.Parse("15:04:05", timings[j].EndTime)

			if !(jStartTime.After(iEndTime) || jStartTime.Equal(iEndTime) || iStartTime.After(jEndTime) || iStartTime.Equal(jEndTime)) {
				return fmt.Errorf("时段 %d 和时段 %d 之间的时间冲突", i, j)
			}
		}
	}
	return nil
}
