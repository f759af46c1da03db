package allotment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

// 2025-03-03 是周一
func mondayAt(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestEngine(store *memStore, at time.Time) (*Engine, *fakeClock) {
	clock := &fakeClock{now: at}
	return New(store, WithClock(clock.Now)), clock
}

func TestRequestAllocatesFirstShift(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "10:40:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(7, domain.RoleNurse, 90)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.EqualValues(t, 90, req.TotalMinutes)

	// 护士的班次只剩 40 分钟，第一次只能分配 40 分钟
	saved, err := store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, saved.RemainingMinutes)
	assert.True(t, saved.Active)

	assignments, err := store.GetAssignmentsByRequest(req.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, nurse.ID, assignments[0].StaffID)
	assert.Equal(t, mondayAt(10, 0), assignments[0].StartAt)
	assert.Equal(t, mondayAt(10, 40), assignments[0].EndAt)
}

func TestRequestRelayAcrossShifts(t *testing.T) {
	store := newMemStore()
	nurseA := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseA.ID, 1, "09:00:00", "10:40:00")
	nurseB := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseB.ID, 1, "09:00:00", "11:40:00")

	engine, clock := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(7, domain.RoleNurse, 90)
	require.NoError(t, err)

	// 第一段分配在 10:40 到期，此时 A 已经另有安排
	clock.now = mondayAt(10, 40)
	require.NoError(t, store.CreateAssignment(&domain.Assignment{
		StaffID: nurseA.ID,
		RoomID:  99,
		Role:    domain.RoleNurse,
		StartAt: mondayAt(10, 40),
		EndAt:   mondayAt(12, 0),
	}))

	engine.ProcessPendingRequests()

	// B 还剩 60 分钟，但只需要再分配 50 分钟，请求随之关闭
	saved, err := store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, saved.RemainingMinutes)
	assert.False(t, saved.Active)

	assignments, err := store.GetAssignmentsByRequest(req.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	var second *domain.Assignment
	for _, assignment := range assignments {
		if assignment.StaffID == nurseB.ID {
			second = assignment
		}
	}
	require.NotNil(t, second)
	assert.Equal(t, mondayAt(10, 40), second.StartAt)
	assert.Equal(t, mondayAt(11, 30), second.EndAt)
}

func TestRequestRelayChainClosesOnce(t *testing.T) {
	store := newMemStore()
	nurseA := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseA.ID, 1, "09:00:00", "10:40:00")
	nurseB := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseB.ID, 1, "09:00:00", "18:00:00")

	engine, clock := newTestEngine(store, mondayAt(10, 0))

	// 90 分钟的需求：A 的班次只剩 40 分钟，剩下 50 分钟由 B 接力
	req, err := engine.Request(7, domain.RoleNurse, 90)
	require.NoError(t, err)

	saved, err := store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	require.EqualValues(t, 50, saved.RemainingMinutes)
	require.True(t, saved.Active)

	clock.now = mondayAt(10, 40)
	engine.ProcessPendingRequests()

	saved, err = store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, saved.RemainingMinutes)
	assert.False(t, saved.Active)

	// 请求关闭后继续扫描，分配记录数量和剩余分钟数都不再变化
	clock.now = mondayAt(12, 0)
	engine.ProcessPendingRequests()
	engine.ProcessPendingRequests()

	saved, err = store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, saved.RemainingMinutes)
	assert.False(t, saved.Active)

	assignments, err := store.GetAssignmentsByRequest(req.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, nurseA.ID, assignments[0].StaffID)
	assert.Equal(t, mondayAt(10, 40), assignments[0].EndAt)
	assert.Equal(t, nurseB.ID, assignments[1].StaffID)
	assert.Equal(t, mondayAt(11, 30), assignments[1].EndAt)
}

func TestRemainingMinutesNeverExceedsBounds(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "00:00:00", "23:59:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(3, domain.RoleNurse, 30)
	require.NoError(t, err)

	saved, err := store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, saved.RemainingMinutes, int32(0))
	assert.LessOrEqual(t, saved.RemainingMinutes, saved.TotalMinutes)
	// 班次剩余时间充足时一次就能分配完
	assert.EqualValues(t, 0, saved.RemainingMinutes)
	assert.False(t, saved.Active)
}

func TestGuardPreventsDuplicateInForceAssignment(t *testing.T) {
	store := newMemStore()
	nurseA := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseA.ID, 1, "09:00:00", "18:00:00")
	nurseB := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseB.ID, 1, "09:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(7, domain.RoleNurse, 600)
	require.NoError(t, err)

	// 已有生效中的分配时，重复调用不会产生新的分配
	assignment, err := engine.AllocateNext(req.ID)
	require.NoError(t, err)
	assert.Nil(t, assignment)

	engine.ProcessPendingRequests()
	engine.ProcessPendingRequests()

	assignments, err := store.GetAssignmentsByRequest(req.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestClosedRequestNeverReopens(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")

	engine, clock := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(7, domain.RoleNurse, 60)
	require.NoError(t, err)

	saved, err := store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	require.False(t, saved.Active)

	// 分配到期之后请求也不会被重新打开
	clock.now = mondayAt(12, 0)
	engine.ProcessPendingRequests()

	saved, err = store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.False(t, saved.Active)
	assert.EqualValues(t, 0, saved.RemainingMinutes)

	assignments, err := store.GetAssignmentsByRequest(req.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestNoCandidateKeepsRequestOpen(t *testing.T) {
	store := newMemStore()
	// 这个技师今天没有任何班次
	store.addStaff(domain.RoleTechnician)

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(2, domain.RoleTechnician, 120)
	require.NoError(t, err)

	engine.ProcessPendingRequests()
	engine.ProcessPendingRequests()

	saved, err := store.GetAllotmentRequestByID(req.ID)
	require.NoError(t, err)
	assert.True(t, saved.Active)
	assert.EqualValues(t, 120, saved.RemainingMinutes)
	assert.Empty(t, store.assignments)
}

func TestStaffOnLeaveIsExcluded(t *testing.T) {
	store := newMemStore()
	nurseA := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseA.ID, 1, "09:00:00", "18:00:00")
	store.addLeave(nurseA.ID, mondayAt(0, 0), mondayAt(0, 0).Add(48*time.Hour))
	nurseB := store.addStaff(domain.RoleNurse)
	store.addTiming(nurseB.ID, 1, "09:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	req, err := engine.Request(7, domain.RoleNurse, 60)
	require.NoError(t, err)

	assignments, err := store.GetAssignmentsByRequest(req.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, nurseB.ID, assignments[0].StaffID)
}

func TestInactiveStaffIsExcluded(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")
	nurse.IsActive = false

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	_, err := engine.Request(7, domain.RoleNurse, 60)
	require.NoError(t, err)
	assert.Empty(t, store.assignments)
}

func TestRequestRejectsInvalidMinutes(t *testing.T) {
	store := newMemStore()
	engine, _ := newTestEngine(store, mondayAt(10, 0))

	_, err := engine.Request(7, domain.RoleNurse, 0)
	assert.ErrorIs(t, err, ErrInvalidMinutes)
}

func TestStaffNeverHoldsOverlappingAssignments(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	_, err := engine.Request(1, domain.RoleNurse, 60)
	require.NoError(t, err)
	// 唯一的护士已经被占用，第二个请求分配不到人
	second, err := engine.Request(2, domain.RoleNurse, 60)
	require.NoError(t, err)

	assignments, err := store.GetAssignmentsByStaff(nurse.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	saved, err := store.GetAllotmentRequestByID(second.ID)
	require.NoError(t, err)
	assert.True(t, saved.Active)
}

func TestRotationCursorIsScopedPerRole(t *testing.T) {
	store := newMemStore()
	nurse1 := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse1.ID, 1, "09:00:00", "18:00:00")
	nurse2 := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse2.ID, 1, "09:00:00", "18:00:00")
	tech1 := store.addStaff(domain.RoleTechnician)
	store.addTiming(tech1.ID, 1, "09:00:00", "18:00:00")
	tech2 := store.addStaff(domain.RoleTechnician)
	store.addTiming(tech2.ID, 1, "09:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	_, err := engine.Request(1, domain.RoleNurse, 60)
	require.NoError(t, err)
	_, err = engine.Request(2, domain.RoleTechnician, 60)
	require.NoError(t, err)

	// 护士岗位的轮转不影响技师岗位的游标，两个岗位都从第一个候选人开始
	nurseAssignments, err := store.GetAssignmentsByStaff(nurse1.ID)
	require.NoError(t, err)
	assert.Len(t, nurseAssignments, 1)

	techAssignments, err := store.GetAssignmentsByStaff(tech1.ID)
	require.NoError(t, err)
	assert.Len(t, techAssignments, 1)
}

func TestSweepIsolatesPerRequestFailures(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	broken := &domain.AllotmentRequest{RoomID: 1, Role: domain.RoleNurse, TotalMinutes: 60, RemainingMinutes: 60, Active: true}
	require.NoError(t, store.CreateAllotmentRequest(broken))
	healthy := &domain.AllotmentRequest{RoomID: 2, Role: domain.RoleNurse, TotalMinutes: 60, RemainingMinutes: 60, Active: true}
	require.NoError(t, store.CreateAllotmentRequest(healthy))

	store.failOnRequestID = broken.ID

	engine.ProcessPendingRequests()

	// 第一个请求的存储故障不影响第二个请求被处理
	assignments, err := store.GetAssignmentsByRequest(healthy.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestRoomRequirementTopUp(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 3; i++ {
		nurse := store.addStaff(domain.RoleNurse)
		store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")
	}
	store.requirements = append(store.requirements, &domain.RoomStaffRequirement{
		ID:     store.id(),
		RoomID: 5,
		Role:   domain.RoleNurse,
		Count:  2,
	})

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	engine.ProcessRoomRequirements()

	assignments, err := store.GetAssignmentsByRoom(5)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	for _, assignment := range assignments {
		assert.Nil(t, assignment.RequestID)
		assert.Equal(t, mondayAt(18, 0), assignment.EndAt)
	}

	// 人数已经满足要求时不会重复补人
	engine.ProcessRoomRequirements()
	assignments, err = store.GetAssignmentsByRoom(5)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
}

func TestReleaseStaffTruncatesInForceAssignments(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")

	engine, clock := newTestEngine(store, mondayAt(10, 0))

	_, err := engine.Request(7, domain.RoleNurse, 120)
	require.NoError(t, err)

	clock.now = mondayAt(10, 30)
	released, err := engine.ReleaseStaff(nurse.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, released)

	assignments, err := store.GetAssignmentsByStaff(nurse.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, mondayAt(10, 30), assignments[0].EndAt)
}

func TestReleaseStaffSkipsAssignmentStartingNow(t *testing.T) {
	store := newMemStore()
	nurse := store.addStaff(domain.RoleNurse)
	store.addTiming(nurse.ID, 1, "09:00:00", "18:00:00")

	engine, _ := newTestEngine(store, mondayAt(10, 0))

	_, err := engine.Request(7, domain.RoleNurse, 120)
	require.NoError(t, err)

	// 在分配开始的同一时刻释放不会把记录截断成零长度
	released, err := engine.ReleaseStaff(nurse.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, released)

	assignments, err := store.GetAssignmentsByStaff(nurse.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, mondayAt(12, 0), assignments[0].EndAt)
	assert.True(t, assignments[0].EndAt.After(assignments[0].StartAt))
}
