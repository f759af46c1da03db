package allotment

import "time"

// isOnLeave 判断员工在 at 时刻是否在休假中，休假按天计算且首尾两天都包含在内
func (e *Engine) isOnLeave(staffID int64, at time.Time) (bool, error) {
	leaves, err := e.store.GetLeavesByStaff(staffID)
	if err != nil {
		return false, err
	}

	day := truncateToDate(at)
	for _, leave := range leaves {
		start := truncateToDate(leave.StartDate)
		end := truncateToDate(leave.EndDate)
		if !day.Before(start) && !day.After(end) {
			return true, nil
		}
	}

	return false, nil
}

// isBusy 判断员工在 at 时刻是否已经有生效中的分配
// 占用区间是左闭右开的，恰好在 at 时刻结束的分配不算占用
func (e *Engine) isBusy(staffID int64, at time.Time) (bool, error) {
	assignments, err := e.store.GetAssignmentsByStaff(staffID)
	if err != nil {
		return false, err
	}

	for _, assignment := range assignments {
		if assignment.InForceAt(at) {
			return true, nil
		}
	}

	return false, nil
}

// remainingShiftMinutes 返回员工当前班次距离下班还剩多少完整分钟
// 取第一条符合条件的班次记录：星期与 at 相同、is_available 为真、且时间窗口包含 at
// 班次的结束时刻按 at 当天的日历日期计算，因此跨午夜的班次（如 22:00-06:00）
// 只在 [22:00, 24:00) 区间内被识别，这里刻意保留了这种按天截断的解释
func (e *Engine) remainingShiftMinutes(staffID int64, at time.Time) (int32, error) {
	timings, err := e.store.GetShiftTimingsByStaff(staffID)
	if err != nil {
		return 0, err
	}

	u := at.UTC()
	day := isoWeekday(u)

	for _, timing := range timings {
		if timing.Day != day || !timing.IsAvailable {
			continue
		}

		start, err := time.Parse("15:04:05", timing.StartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse("15:04:05", timing.EndTime)
		if err != nil {
			continue
		}

		startAt := clockOnDate(u, start)
		endAt := clockOnDate(u, end)
		if !endAt.After(startAt) {
			continue
		}

		if u.Before(startAt) || !u.Before(endAt) {
			continue
		}

		return int32(endAt.Sub(u) / time.Minute), nil
	}

	return 0, nil
}

// isoWeekday 把 time.Weekday 转成 1-7（1 表示周一）
func isoWeekday(t time.Time) int32 {
	return int32((int(t.Weekday())+6)%7 + 1)
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// clockOnDate 把墙钟时间放到 date 当天的日历日期上
func clockOnDate(date time.Time, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}
