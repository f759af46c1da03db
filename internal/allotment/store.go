package allotment

import (
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

// 调度引擎只通过下面这些接口访问存储层，
// internal/repository 的 Repository 实现了所有接口，测试时可以用内存实现替代

type StaffDirectory interface {
	GetStaffByRole(role domain.Role) ([]*domain.Staff, error)
}

type LeaveStore interface {
	GetLeavesByStaff(staffID int64) ([]*domain.Leave, error)
}

type TimingStore interface {
	GetShiftTimingsByStaff(staffID int64) ([]*domain.ShiftTiming, error)
}

type AssignmentStore interface {
	CreateAssignment(assignment *domain.Assignment) error
	GetAssignmentsByRequest(requestID int64) ([]*domain.Assignment, error)
	GetAssignmentsByStaff(staffID int64) ([]*domain.Assignment, error)
	GetAssignmentsByRoom(roomID int64) ([]*domain.Assignment, error)
	ReleaseStaffAssignments(staffID int64, roomID int64, at time.Time) (int64, error)
}

type RequestStore interface {
	CreateAllotmentRequest(req *domain.AllotmentRequest) error
	GetAllotmentRequestByID(id int64) (*domain.AllotmentRequest, error)
	GetActiveAllotmentRequests() ([]*domain.AllotmentRequest, error)
	UpdateAllotmentRequest(req *domain.AllotmentRequest) error
}

type RequirementStore interface {
	GetAllRoomStaffRequirements() ([]*domain.RoomStaffRequirement, error)
}

type Store interface {
	StaffDirectory
	LeaveStore
	TimingStore
	AssignmentStore
	RequestStore
	RequirementStore
}
