package app

import (
	"context"

	"github.com/fenan-yosef/hrms-backend/internal/analytics"
	"github.com/fenan-yosef/hrms-backend/internal/attendance"
	"github.com/fenan-yosef/hrms-backend/internal/audit"
	"github.com/fenan-yosef/hrms-backend/internal/auth"
	"github.com/fenan-yosef/hrms-backend/internal/complaint"
	"github.com/fenan-yosef/hrms-backend/internal/config"
	"github.com/fenan-yosef/hrms-backend/internal/department"
	"github.com/fenan-yosef/hrms-backend/internal/leave"
	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/performance"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/rbac/infra"
	"github.com/fenan-yosef/hrms-backend/internal/report"
	"github.com/fenan-yosef/hrms-backend/internal/systemsetting"
	"github.com/fenan-yosef/hrms-backend/internal/task"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
) (*audit.Recorder, error) {
	// --- Repositories ---
	analyticsRepo := analytics.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	complaintRepo := complaint.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	leaveTypeRepo := leave.NewTypeRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	performanceRepo := performance.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	settingRepo := systemsetting.NewRepository(gormDB)
	taskRepo := task.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	settingService := systemsetting.NewService(settingRepo)
	analyticsService := analytics.NewService(analyticsRepo)
	attendanceService := attendance.NewService(attendanceRepo, settingService)
	authService := auth.NewService(userRepo, rdb, auth.Options{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	complaintService := complaint.NewService(complaintRepo, userRepo)
	departmentService := department.NewService(departmentRepo, userRepo)
	leaveService := leave.NewService(gormDB, leaveRepo, leaveTypeRepo, userRepo, settingService)
	performanceService := performance.NewService(gormDB, performanceRepo, userRepo)
	reportService := report.NewService(gormDB, reportRepo, outboxRepo)
	taskService := task.NewService(gormDB, taskRepo, userRepo)
	userService := user.NewService(gormDB, userRepo, outboxRepo)

	// --- Handlers ---
	analyticsHandler := analytics.NewHandler(analyticsService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	auditHandler := audit.NewHandler(auditRepo)
	authHandler := auth.NewHandler(authService)
	complaintHandler := complaint.NewHandler(complaintService)
	departmentHandler := department.NewHandler(departmentService)
	leaveHandler := leave.NewHandler(leaveService)
	performanceHandler := performance.NewHandler(performanceService)
	reportHandler := report.NewHandler(reportService)
	settingHandler := systemsetting.NewHandler(settingService)
	taskHandler := task.NewHandler(taskService)
	userHandler := user.NewHandler(userService)

	authMW := middleware.AuthMiddleware(cfg.JWTSecret)

	// The stored setting wins over the environment so operators can
	// change the mode without a redeploy. It is read once at startup.
	recorder := audit.NewRecorder(auditRepo, 256)
	auditMode := settingService.GetText(context.Background(), systemsetting.KeyAuditLogMode, cfg.AuditLogMode)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(audit.Trail(recorder, auditMode))
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		analytics.RegisterRoutes(api, analyticsHandler, rbacService, authMW)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, authMW)
		audit.RegisterRoutes(api, auditHandler, rbacService, authMW)
		complaint.RegisterRoutes(api, complaintHandler, rbacService, authMW)
		department.RegisterRoutes(api, departmentHandler, rbacService, authMW)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authMW)
		performance.RegisterRoutes(api, performanceHandler, rbacService, authMW)
		report.RegisterRoutes(api, reportHandler, rbacService, authMW, rdb)
		systemsetting.RegisterRoutes(api, settingHandler, rbacService, authMW)
		task.RegisterRoutes(api, taskHandler, rbacService, authMW)
		user.RegisterRoutes(api, userHandler, rbacService, authMW)
	}

	return recorder, nil
}
