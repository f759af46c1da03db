package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/allotment"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/config"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	engine      *allotment.Engine
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, engine *allotment.Engine, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		engine:      engine,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/staff", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaffInfo) // 所有员工都有权限获取其他人的基本信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaffInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateStaff)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateStaffPassword)
				r.Route("/timings", func(r chi.Router) {
					r.Get("/", h.GetStaffTimings)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStaffTiming)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/{timingID}", h.DeleteStaffTiming)
				})
				r.Route("/leaves", func(r chi.Router) {
					r.Get("/", h.GetStaffLeaves)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStaffLeave)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/{leaveID}", h.DeleteStaffLeave)
				})
			})
		})

		r.Route("/rooms", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateRoom)
			r.Get("/", h.GetAllRooms)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.roomInfo)
				r.Get("/", h.GetRoom)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateRoom)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteRoom)
			})
		})

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", h.CreatePatient)
			r.Get("/", h.GetAllPatients)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.patientInfo)
				r.Get("/", h.GetPatient)
				r.Patch("/", h.UpdatePatient)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeletePatient)
				r.Route("/prescriptions", func(r chi.Router) {
					r.Get("/", h.GetPatientPrescriptions)
					r.With(h.RequiredRole([]domain.Role{domain.RoleDoctor})).Post("/", h.CreatePrescription)
				})
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateInventoryItem)
			r.Get("/", h.GetAllInventoryItems)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.inventoryItem)
				r.Get("/", h.GetInventoryItem)
				r.Post("/adjust", h.AdjustInventoryQuantity)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteInventoryItem)
			})
		})

		r.Route("/allotments", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/requests", h.CreateAllotmentRequest)
			r.Get("/requests/{id}", h.GetAllotmentRequest)
			r.Get("/requests/{id}/assignments", h.GetRequestAssignments)
			r.Get("/assignments/staff/{id}", h.GetStaffAssignments)
			r.Get("/assignments/room/{id}", h.GetRoomAssignments)
			r.Post("/release", h.ReleaseStaff)
			r.Route("/requirements", func(r chi.Router) {
				r.Post("/", h.CreateRoomStaffRequirement)
				r.Get("/", h.GetAllRoomStaffRequirements)
				r.Delete("/{id}", h.DeleteRoomStaffRequirement)
			})
			r.Post("/process/pending", h.ProcessPendingRequests)
			r.Post("/process/requirements", h.ProcessRoomRequirements)
		})
	})
}
