package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenan-yosef/hrms-backend/internal/config"
	"github.com/fenan-yosef/hrms-backend/internal/events"
	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"
	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka/consumer"
	"github.com/fenan-yosef/hrms-backend/internal/report"
	"github.com/fenan-yosef/hrms-backend/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer builds requested leave summary reports from the report
// request topic until interrupted.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
	cfg := config.Load()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DSN(), 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reportRepo := report.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	reportService := report.NewService(gormDB, reportRepo, outboxRepo)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.LeaveSummaryReportRequestedTopic,
		GroupID:        "hrms-report-builder",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveSummaryRequests(ctx, reader, reportService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
