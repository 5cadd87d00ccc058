package app

import (
	"github.com/fenan-yosef/hrms-backend/internal/audit"
	"github.com/fenan-yosef/hrms-backend/internal/config"
	"github.com/fenan-yosef/hrms-backend/internal/middleware"
	"github.com/fenan-yosef/hrms-backend/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and wires every module onto the
// router. The returned recorder must be closed on shutdown so buffered
// audit entries are flushed.
func BuildApp(router *gin.Engine, cfg config.Config) (*audit.Recorder, error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DSN(), 5)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, gormDB, rdb, cfg)
}
