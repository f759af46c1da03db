package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllStaffInfo(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", staff)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required,oneof=医生 护士 技师 管理员"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewStaff.PasswordLength)

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 插入员工到数据库中
	staff := &domain.Staff{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
	}

	if err := h.repository.CreateStaff(staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "staff_username_key":
				h.badRequest(w, r, errors.New("工号已存在"))
			case pgErr.ConstraintName == "staff_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: "create_staff",
		To:   staff.Email,
		Data: domain.CreateStaffMailData{
			FullName: req.FullName,
			Username: req.Username,
			Password: password,
		},
	}

	// 对邮件进行序列化
	emailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将邮件发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        emailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 成功响应
	h.successResponse(w, r, "员工创建成功", staff)
}

func (h *Handler) GetStaffInfo(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)
	h.successResponse(w, r, "获取员工信息成功", staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"fullName"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Role     *string `json:"role" validate:"omitempty,oneof=医生 护士 技师 管理员"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	if req.FullName != nil {
		staff.FullName = *req.FullName
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Role != nil {
		staff.Role = domain.Role(*req.Role)
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateStaff(staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "staff_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			case pgErr.ConstraintName == "staff_username_key":
				h.badRequest(w, r, errors.New("工号已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新员工信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", staff)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	if err := h.repository.DeleteStaff(staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

func (h *Handler) UpdateStaffPassword(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	staff.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdateStaff(staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "修改密码成功", nil)
}

func (h *Handler) GetStaffTimings(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	timings, err := h.repository.GetShiftTimingsByStaff(staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班时段成功", timings)
}

func (h *Handler) CreateStaffTiming(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		Day         int32  `json:"day" validate:"required,min=1,max=7"`
		StartTime   string `json:"startTime" validate:"required"`
		EndTime     string `json:"endTime" validate:"required"`
		IsAvailable *bool  `json:"isAvailable" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateShiftWindow(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	timing := &domain.ShiftTiming{
		StaffID:     staff.ID,
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: *req.IsAvailable,
	}

	// 新时段不能和该员工已有的时段冲突
	existing, err := h.repository.GetShiftTimingsByStaff(staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateShiftTimings(append(existing, timing)); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftTiming(timing); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建排班时段成功", timing)
}

func (h *Handler) DeleteStaffTiming(w http.ResponseWriter, r *http.Request) {
	timingIDParam := chi.URLParam(r, "timingID")
	timingID, err := strconv.ParseInt(timingIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "时段ID无效")
		return
	}

	if err := h.repository.DeleteShiftTiming(timingID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班时段成功", nil)
}

func (h *Handler) GetStaffLeaves(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	leaves, err := h.repository.GetLeavesByStaff(staff.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假记录成功", leaves)
}

func (h *Handler) CreateStaffLeave(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.Staff)

	var req struct {
		StartDate time.Time `json:"startDate" validate:"required"`
		EndDate   time.Time `json:"endDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.EndDate.Before(req.StartDate) {
		h.badRequest(w, r, errors.New("结束日期不能早于开始日期"))
		return
	}

	leave := &domain.Leave{
		StaffID:   staff.ID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := h.repository.CreateLeave(leave); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建请假记录成功", leave)
}

func (h *Handler) DeleteStaffLeave(w http.ResponseWriter, r *http.Request) {
	leaveIDParam := chi.URLParam(r, "leaveID")
	leaveID, err := strconv.ParseInt(leaveIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "请假记录ID无效")
		return
	}

	if err := h.repository.DeleteLeave(leaveID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除请假记录成功", nil)
}
