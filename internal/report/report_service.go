package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/events"
	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	reporterrors "github.com/fenan-yosef/hrms-backend/internal/report/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	RequestLeaveSummary(ctx context.Context, actor rbac.Actor, req RequestLeaveSummaryRequest) (ReportResponse, error)
	GetByID(ctx context.Context, actor rbac.Actor, id string) (ReportResponse, error)
	Download(ctx context.Context, actor rbac.Actor, id string) (string, []byte, error)

	// GenerateLeaveSummary runs on the consumer side when a requested
	// event arrives.
	GenerateLeaveSummary(ctx context.Context, reportID string, year int) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

// RequestLeaveSummary records the report row and its outbox event in
// one transaction, so the event exists exactly when the row does.
func (s *service) RequestLeaveSummary(ctx context.Context, actor rbac.Actor, req RequestLeaveSummaryRequest) (ReportResponse, error) {
	rep := GeneratedReport{
		ID:          uuid.New(),
		ReportType:  TypeLeaveSummary,
		RequestedBy: uuid.MustParse(actor.ID),
		Status:      StatusPending,
	}

	event := events.LeaveSummaryReportRequestedEvent{
		EventType:   "leave_summary_requested",
		ReportID:    rep.ID.String(),
		Year:        req.Year,
		RequestedBy: actor.ID,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return ReportResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &rep); err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			AggregateType: "report",
			AggregateID:   rep.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveSummaryReportRequestedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	})
	if err != nil {
		s.logger.Error("request leave summary failed", zap.Error(err))
		return ReportResponse{}, err
	}

	s.logger.Info("leave summary report requested",
		zap.String("report_id", rep.ID.String()),
		zap.Int("year", req.Year),
		zap.String("requested_by", actor.ID),
	)
	return toResponse(rep), nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Actor, id string) (ReportResponse, error) {
	rep, err := s.load(ctx, id)
	if err != nil {
		return ReportResponse{}, err
	}
	return toResponse(*rep), nil
}

func (s *service) Download(ctx context.Context, actor rbac.Actor, id string) (string, []byte, error) {
	rep, err := s.load(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if rep.Status != StatusReady {
		return "", nil, reporterrors.ErrReportNotReady
	}
	return rep.FileName, rep.Content, nil
}

func (s *service) GenerateLeaveSummary(ctx context.Context, reportID string, year int) error {
	if year < 2000 || year > 2100 {
		return reporterrors.ErrInvalidYear
	}

	totals, err := s.repo.DepartmentLeaveTotals(ctx, year)
	if err != nil {
		if mfErr := s.repo.MarkFailed(ctx, reportID, err.Error()); mfErr != nil {
			s.logger.Error("mark report failed errored", zap.String("report_id", reportID), zap.Error(mfErr))
		}
		return err
	}

	lines := make([]string, 0, len(totals)+3)
	lines = append(lines, fmt.Sprintf("Leave Summary %d", year), "")
	if len(totals) == 0 {
		lines = append(lines, "No approved leave recorded.")
	}
	for _, row := range totals {
		lines = append(lines, fmt.Sprintf("%s: %.1f days across %d employees",
			row.DepartmentName, row.TotalDays, row.EmployeeCount))
	}

	content, err := buildLeaveSummaryPDF(lines)
	if err != nil {
		if mfErr := s.repo.MarkFailed(ctx, reportID, err.Error()); mfErr != nil {
			s.logger.Error("mark report failed errored", zap.String("report_id", reportID), zap.Error(mfErr))
		}
		return err
	}

	fileName := fmt.Sprintf("leave-summary-%d.pdf", year)
	if err := s.repo.MarkReady(ctx, reportID, fileName, content); err != nil {
		s.logger.Error("mark report ready failed", zap.String("report_id", reportID), zap.Error(err))
		return err
	}

	s.logger.Info("leave summary report generated",
		zap.String("report_id", reportID),
		zap.Int("year", year),
		zap.Int("departments", len(totals)),
	)
	return nil
}

func (s *service) load(ctx context.Context, id string) (*GeneratedReport, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, reporterrors.ErrInvalidReportID
	}
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reporterrors.ErrReportNotFound
		}
		return nil, err
	}
	return rep, nil
}
