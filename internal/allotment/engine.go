package allotment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

var ErrInvalidMinutes = errors.New("申请的分钟数必须不小于 1")

// Engine 负责把符合条件的员工分配到有人力需求的房间
// 一个需求可能跨越多个班次，由一连串员工先后接力完成：
// 每次分配的时长受员工剩余班次时间限制，请求的剩余分钟数逐次递减，归零后关闭
type Engine struct {
	store     Store
	newPolicy func() Policy
	now       func() time.Time

	// mu 串行化所有的分配决策，保证同一请求在任意时刻至多只有一个生效中的分配，
	// 即使 API 调用和后台扫描同时触发分配也不会重复满足同一个需求
	mu      sync.Mutex
	cursors map[domain.Role]Policy
}

type Option func(e *Engine)

// WithPolicyFactory 替换默认的轮转策略，每个岗位会各自持有一个策略实例
func WithPolicyFactory(f func() Policy) Option {
	return func(e *Engine) {
		e.newPolicy = f
	}
}

// WithClock 替换引擎的时钟，测试时用来固定"现在"
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		newPolicy: NewRoundRobin,
		now:       time.Now,
		cursors:   make(map[domain.Role]Policy),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Request 创建一个人力请求并立即尝试做一次分配
// 即使当前没有符合条件的员工，请求记录也会被创建，等待后台扫描继续推进；
// 只有首次分配过程中的存储错误会和已创建的请求一起返回给调用者
func (e *Engine) Request(roomID int64, role domain.Role, minutes int32) (*domain.AllotmentRequest, error) {
	if minutes < 1 {
		return nil, ErrInvalidMinutes
	}

	req := &domain.AllotmentRequest{
		RoomID:           roomID,
		Role:             role,
		TotalMinutes:     minutes,
		RemainingMinutes: minutes,
		Active:           true,
	}

	if err := e.store.CreateAllotmentRequest(req); err != nil {
		return nil, err
	}

	if _, err := e.AllocateNext(req.ID); err != nil {
		return req, fmt.Errorf("请求创建后的首次分配失败: %w", err)
	}

	return req, nil
}

// AllocateNext 为某个请求做一次分配决策
// 返回 (nil, nil) 表示这次调用没有产生新的分配（请求不存在、已关闭、
// 已有生效中的分配、或者当前没有符合条件的员工），留给下一次扫描重试
func (e *Engine) AllocateNext(requestID int64) (*domain.Assignment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	req, err := e.store.GetAllotmentRequestByID(requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if !req.Active || req.RemainingMinutes <= 0 {
		return nil, nil
	}

	// 同一请求在任意时刻至多只能有一个生效中的分配
	existing, err := e.store.GetAssignmentsByRequest(req.ID)
	if err != nil {
		return nil, err
	}
	for _, assignment := range existing {
		if assignment.InForceAt(now) {
			return nil, nil
		}
	}

	candidates, err := e.eligibleCandidates(req.Role, now)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(candidates))
	for i, candidate := range candidates {
		ids[i] = candidate.staffID
	}

	chosenID, ok := e.policyFor(req.Role).Allot(ids)
	if !ok {
		return nil, nil
	}

	var shiftMinutes int32
	for _, candidate := range candidates {
		if candidate.staffID == chosenID {
			shiftMinutes = candidate.shiftMinutes
			break
		}
	}

	duration := min(req.RemainingMinutes, shiftMinutes)
	if duration <= 0 {
		return nil, nil
	}

	assignment := &domain.Assignment{
		StaffID:   chosenID,
		RoomID:    req.RoomID,
		Role:      req.Role,
		RequestID: &req.ID,
		StartAt:   now,
		EndAt:     now.Add(time.Duration(duration) * time.Minute),
	}
	if err := e.store.CreateAssignment(assignment); err != nil {
		return nil, err
	}

	req.RemainingMinutes -= duration
	if req.RemainingMinutes <= 0 {
		req.RemainingMinutes = 0
		req.Active = false
	}
	if err := e.store.UpdateAllotmentRequest(req); err != nil {
		return nil, err
	}

	return assignment, nil
}

type candidate struct {
	staffID      int64
	shiftMinutes int32
}

// eligibleCandidates 返回在 at 时刻可以被分配的员工：
// 岗位匹配、在职、不在休假中、没有生效中的分配、且当前班次还有剩余时间
// 候选人顺序与存储层返回的顺序一致（按 id 升序），轮转策略依赖这个稳定顺序
func (e *Engine) eligibleCandidates(role domain.Role, at time.Time) ([]candidate, error) {
	staffList, err := e.store.GetStaffByRole(role)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(staffList))
	for _, staff := range staffList {
		if !staff.IsActive {
			continue
		}

		onLeave, err := e.isOnLeave(staff.ID, at)
		if err != nil {
			return nil, err
		}
		if onLeave {
			continue
		}

		busy, err := e.isBusy(staff.ID, at)
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}

		shiftMinutes, err := e.remainingShiftMinutes(staff.ID, at)
		if err != nil {
			return nil, err
		}
		if shiftMinutes <= 0 {
			continue
		}

		candidates = append(candidates, candidate{staffID: staff.ID, shiftMinutes: shiftMinutes})
	}

	return candidates, nil
}

// policyFor 返回某个岗位的轮转策略，每个岗位各自持有一个游标，
// 这样多个岗位并发调度时不会互相干扰轮转的公平性
func (e *Engine) policyFor(role domain.Role) Policy {
	policy, exists := e.cursors[role]
	if !exists {
		policy = e.newPolicy()
		e.cursors[role] = policy
	}
	return policy
}

// ProcessPendingRequests 推进所有未关闭的请求
// 单个请求的失败只记录日志，不影响其他请求的处理
func (e *Engine) ProcessPendingRequests() {
	reqs, err := e.store.GetActiveAllotmentRequests()
	if err != nil {
		slog.Error("无法获取待处理的人力请求", "error", err)
		return
	}

	for _, req := range reqs {
		if _, err := e.AllocateNext(req.ID); err != nil {
			slog.Error("处理人力请求失败", "requestId", req.ID, "error", err)
		}
	}
}

// ProcessRoomRequirements 检查所有房间的常驻人力要求，
// 把每个房间、每个岗位生效中的分配数量补足到要求的数量
func (e *Engine) ProcessRoomRequirements() {
	requirements, err := e.store.GetAllRoomStaffRequirements()
	if err != nil {
		slog.Error("无法获取房间常驻人力要求", "error", err)
		return
	}

	for _, requirement := range requirements {
		if err := e.topUpRequirement(requirement); err != nil {
			slog.Error("补足房间常驻人力失败", "requirementId", requirement.ID, "error", err)
		}
	}
}

func (e *Engine) topUpRequirement(requirement *domain.RoomStaffRequirement) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	assignments, err := e.store.GetAssignmentsByRoom(requirement.RoomID)
	if err != nil {
		return err
	}

	inForce := 0
	for _, assignment := range assignments {
		if assignment.Role == requirement.Role && assignment.InForceAt(now) {
			inForce++
		}
	}

	needed := int(requirement.Count) - inForce
	for i := 0; i < needed; i++ {
		// 每补一个人都重新计算候选人，刚被分配的员工会因为"已占用"而被排除
		candidates, err := e.eligibleCandidates(requirement.Role, now)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			break
		}

		ids := make([]int64, len(candidates))
		for j, candidate := range candidates {
			ids[j] = candidate.staffID
		}

		chosenID, ok := e.policyFor(requirement.Role).Allot(ids)
		if !ok {
			break
		}

		var shiftMinutes int32
		for _, candidate := range candidates {
			if candidate.staffID == chosenID {
				shiftMinutes = candidate.shiftMinutes
				break
			}
		}

		// 常驻分配不关联请求，一直排到员工下班为止
		assignment := &domain.Assignment{
			StaffID: chosenID,
			RoomID:  requirement.RoomID,
			Role:    requirement.Role,
			StartAt: now,
			EndAt:   now.Add(time.Duration(shiftMinutes) * time.Minute),
		}
		if err := e.store.CreateAssignment(assignment); err != nil {
			return err
		}
	}

	return nil
}

// ReleaseStaff 立即释放某个员工生效中的分配，roomID 为 0 时释放所有房间的分配
// 返回被释放的分配数量
func (e *Engine) ReleaseStaff(staffID int64, roomID int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.ReleaseStaffAssignments(staffID, roomID, e.now())
}

func (e *Engine) ListAssignmentsForStaff(staffID int64) ([]*domain.Assignment, error) {
	return e.store.GetAssignmentsByStaff(staffID)
}

func (e *Engine) ListAssignmentsForRoom(roomID int64) ([]*domain.Assignment, error) {
	return e.store.GetAssignmentsByRoom(roomID)
}

// RunSweeper 按固定间隔推进所有请求和常驻人力要求，直到 ctx 被取消
// 上一次分配到期后，下一次扫描会为同一请求安排新的员工接力
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("人力调度扫描已启动", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("人力调度扫描已停止")
			return
		case <-ticker.C:
			e.ProcessPendingRequests()
			e.ProcessRoomRequirements()
		}
	}
}
