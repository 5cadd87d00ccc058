package main

import (
	"github.com/fenan-yosef/hrms-backend/internal/app"
	"github.com/fenan-yosef/hrms-backend/internal/bootstrap"
	"github.com/fenan-yosef/hrms-backend/internal/config"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	cfg := config.Load()
	r := gin.Default()

	// build dependency + routes
	recorder, err := app.BuildApp(r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		recorder.Close,
	)
}
