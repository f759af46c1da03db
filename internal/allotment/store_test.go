package allotment

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

// memStore 是存储接口的内存实现，测试时代替数据库
type memStore struct {
	staff        []*domain.Staff
	leaves       map[int64][]*domain.Leave
	timings      map[int64][]*domain.ShiftTiming
	requests     map[int64]*domain.AllotmentRequest
	assignments  []*domain.Assignment
	requirements []*domain.RoomStaffRequirement
	nextID       int64

	// failOnRequestID 用来模拟某个请求的存储故障
	failOnRequestID int64
}

func newMemStore() *memStore {
	return &memStore{
		leaves:   make(map[int64][]*domain.Leave),
		timings:  make(map[int64][]*domain.ShiftTiming),
		requests: make(map[int64]*domain.AllotmentRequest),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addStaff(role domain.Role) *domain.Staff {
	staff := &domain.Staff{
		ID:       s.id(),
		Role:     role,
		IsActive: true,
	}
	s.staff = append(s.staff, staff)
	return staff
}

func (s *memStore) addTiming(staffID int64, day int32, start, end string) {
	s.timings[staffID] = append(s.timings[staffID], &domain.ShiftTiming{
		ID:          s.id(),
		StaffID:     staffID,
		Day:         day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	})
}

func (s *memStore) addLeave(staffID int64, start, end time.Time) {
	s.leaves[staffID] = append(s.leaves[staffID], &domain.Leave{
		ID:        s.id(),
		StaffID:   staffID,
		StartDate: start,
		EndDate:   end,
	})
}

func (s *memStore) GetStaffByRole(role domain.Role) ([]*domain.Staff, error) {
	result := make([]*domain.Staff, 0)
	for _, staff := range s.staff {
		if staff.Role == role {
			result = append(result, staff)
		}
	}
	return result, nil
}

func (s *memStore) GetLeavesByStaff(staffID int64) ([]*domain.Leave, error) {
	return s.leaves[staffID], nil
}

func (s *memStore) GetShiftTimingsByStaff(staffID int64) ([]*domain.ShiftTiming, error) {
	return s.timings[staffID], nil
}

func (s *memStore) CreateAssignment(assignment *domain.Assignment) error {
	assignment.ID = s.id()
	copied := *assignment
	s.assignments = append(s.assignments, &copied)
	return nil
}

func (s *memStore) GetAssignmentsByRequest(requestID int64) ([]*domain.Assignment, error) {
	if s.failOnRequestID != 0 && s.failOnRequestID == requestID {
		return nil, fmt.Errorf("存储故障")
	}

	result := make([]*domain.Assignment, 0)
	for _, assignment := range s.assignments {
		if assignment.RequestID != nil && *assignment.RequestID == requestID {
			result = append(result, assignment)
		}
	}
	return result, nil
}

func (s *memStore) GetAssignmentsByStaff(staffID int64) ([]*domain.Assignment, error) {
	result := make([]*domain.Assignment, 0)
	for _, assignment := range s.assignments {
		if assignment.StaffID == staffID {
			result = append(result, assignment)
		}
	}
	return result, nil
}

func (s *memStore) GetAssignmentsByRoom(roomID int64) ([]*domain.Assignment, error) {
	result := make([]*domain.Assignment, 0)
	for _, assignment := range s.assignments {
		if assignment.RoomID == roomID {
			result = append(result, assignment)
		}
	}
	return result, nil
}

func (s *memStore) ReleaseStaffAssignments(staffID int64, roomID int64, at time.Time) (int64, error) {
	released := int64(0)
	for _, assignment := range s.assignments {
		if assignment.StaffID != staffID || !assignment.InForceAt(at) {
			continue
		}
		// 恰好在 at 时刻开始的分配不截断，避免产生零长度的记录
		if !assignment.StartAt.Before(at) {
			continue
		}
		if roomID != 0 && assignment.RoomID != roomID {
			continue
		}
		assignment.EndAt = at
		released++
	}
	return released, nil
}

func (s *memStore) CreateAllotmentRequest(req *domain.AllotmentRequest) error {
	req.ID = s.id()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *memStore) GetAllotmentRequestByID(id int64) (*domain.AllotmentRequest, error) {
	req, exists := s.requests[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (s *memStore) GetActiveAllotmentRequests() ([]*domain.AllotmentRequest, error) {
	result := make([]*domain.AllotmentRequest, 0)
	for id := int64(1); id <= s.nextID; id++ {
		req, exists := s.requests[id]
		if exists && req.Active && req.RemainingMinutes > 0 {
			copied := *req
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memStore) UpdateAllotmentRequest(req *domain.AllotmentRequest) error {
	stored, exists := s.requests[req.ID]
	if !exists {
		return sql.ErrNoRows
	}
	if stored.Version != req.Version {
		return sql.ErrNoRows
	}
	req.Version++
	req.UpdatedAt = time.Now()
	copied := *req
	s.requests[req.ID] = &copied
	return nil
}

func (s *memStore) GetAllRoomStaffRequirements() ([]*domain.RoomStaffRequirement, error) {
	return s.requirements, nil
}
