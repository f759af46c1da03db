package allotment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func TestIsOnLeaveInclusiveOnBothEnds(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	// 休假从周一到周三
	store.addLeave(nurse.ID, mondayAt(9, 0), mondayAt(9, 0).Add(48*time.Hour))

	engine, _ := newTestEngine(store, mondayAt(0, 0))

	cases := []struct {
		name    string
		at      time.Time
		onLeave bool
	}{
		{"休假首日凌晨", mondayAt(0, 0), true},
		{"休假末日深夜", mondayAt(23, 0).Add(48 * time.Hour), true},
		{"休假结束次日", mondayAt(0, 0).Add(72 * time.Hour), false},
		{"休假开始前一日", mondayAt(23, 0).Add(-24 * time.Hour), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			onLeave, err := engine.isOnLeave(nurse.ID, c.at)
			require.NoError(t, err)
			assert.Equal(t, c.onLeave, onLeave)
		})
	}
}

func TestIsBusyIntervalIsHalfOpen(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	require.NoError(t, store.CreateAssignment(&domain.Assignment{
		StaffID: nurse.ID,
		RoomID:  1,
		Role:    domain.RoleNurse,
		StartAt: mondayAt(10, 0),
		EndAt:   mondayAt(11, 0),
	}))

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	busy, err := engine.isBusy(nurse.ID, mondayAt(10, 0))
	require.NoError(t, err)
	assert.True(t, busy)

	busy, err = engine.isBusy(nurse.ID, mondayAt(10, 59))
	require.NoError(t, err)
	assert.True(t, busy)

	// 恰好在结束时刻不算占用
	busy, err = engine.isBusy(nurse.ID, mondayAt(11, 0))
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestRemainingShiftMinutesFloorsToWholeMinutes(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "11:00:00")

	engine, _ := newTestEngine(store, mondayAt(0, 0))

	// 10:30:30 距离 11:00:00 还有 29.5 分钟，向下取整为 29
	at := time.Date(2025, 3, 3, 10, 30, 30, 0, time.UTC)
	minutes, err := engine.remainingShiftMinutes(nurse.ID, at)
	require.NoError(t, err)
	assert.EqualValues(t, 29, minutes)
}

func TestRemainingShiftMinutesOutsideWindow(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "11:00:00")

	engine, _ := newTestEngine(store, mondayAt(0, 0))

	// 班次开始前
	minutes, err := engine.remainingShiftMinutes(nurse.ID, mondayAt(8, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)

	// 班次结束后
	minutes, err = engine.remainingShiftMinutes(nurse.ID, mondayAt(11, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)

	// 星期不匹配
	minutes, err = engine.remainingShiftMinutes(nurse.ID, mondayAt(10, 0).Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)
}

func TestRemainingShiftMinutesSkipsUnavailableTiming(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "11:00:00")
	store.timings[nurse.ID][0].IsAvailable = false

	engine, _ := newTestEngine(store, mondayAt(0, 0))

	minutes, err := engine.remainingShiftMinutes(nurse.ID, mondayAt(10, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)
}

// 跨午夜的班次按天截断：结束时间不晚于开始时间的记录会被整条跳过，
// 因此 22:00-06:00 的班次在任何时刻都不会产生剩余时间，这里固定住这个边界行为
func TestRemainingShiftMinutesIgnoresOvernightShift(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "22:00:00", "06:00:00")

	engine, _ := newTestEngine(store, mondayAt(0, 0))

	minutes, err := engine.remainingShiftMinutes(nurse.ID, mondayAt(23, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)

	minutes, err = engine.remainingShiftMinutes(nurse.ID, mondayAt(5, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)
}

// 拆分班次只取第一条包含当前时刻的记录
func TestRemainingShiftMinutesUsesFirstMatchingWindow(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "12:00:00")
	store.addTiming(nurse.ID, 1, "14:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(0, 0))

	minutes, err := engine.remainingShiftMinutes(nurse.ID, mondayAt(11, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 60, minutes)

	// 午休时间两个窗口都不包含当前时刻
	minutes, err = engine.remainingShiftMinutes(nurse.ID, mondayAt(13, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, minutes)

	minutes, err = engine.remainingShiftMinutes(nurse.ID, mondayAt(14, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 240, minutes)
}

func TestIsoWeekday(t *testing.T) {
	assert.EqualValues(t, 1, isoWeekday(mondayAt(0, 0)))
	assert.EqualValues(t, 7, isoWeekday(mondayAt(0, 0).Add(6*24*time.Hour)))
}
