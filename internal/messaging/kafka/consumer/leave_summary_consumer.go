package consumer

import (
	"context"
	"encoding/json"

	"github.com/fenan-yosef/hrms-backend/internal/events"
	"github.com/fenan-yosef/hrms-backend/internal/report"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveSummaryRequests generates the requested PDF and stores it
// on the report row. Undecodable messages are committed and dropped;
// generation failures leave the message uncommitted so it is retried.
func ConsumeLeaveSummaryRequests(
	ctx context.Context,
	reader *kafkago.Reader,
	reportService report.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_summary")
	log.Info("leave summary consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave summary consumer stopped")
				return
			}
			log.Error("fetch leave summary message failed", zap.Error(err))
			continue
		}

		var event events.LeaveSummaryReportRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave summary event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reportService.GenerateLeaveSummary(ctx, event.ReportID, event.Year); err != nil {
			log.Error("generate leave summary failed",
				zap.String("report_id", event.ReportID),
				zap.Int("year", event.Year),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave summary message failed", zap.Error(err))
			continue
		}

		log.Info("leave summary report stored",
			zap.String("report_id", event.ReportID),
			zap.Int("year", event.Year),
		)
	}
}
