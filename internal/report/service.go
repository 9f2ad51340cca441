// File: internal/report/service.go
package report

import (
	"context"
	"strings"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines report business logic.
type Service interface {
	Submit(ctx context.Context, reporterID uuid.UUID, req CreateReportRequest) (*Report, error)
	ListPending(ctx context.Context, page, pageSize int) ([]Report, *common.Pagination, error)
	Dismiss(ctx context.Context, reportID, actorID uuid.UUID) (*Report, error)
	Resolve(ctx context.Context, reportID, actorID uuid.UUID) (*Report, error)
}

type service struct {
	repo        Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

// NewService creates a new report Service.
func NewService(repo Repository, listingRepo listing.Repository, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger.Named("ReportService"),
	}
}

func (s *service) Submit(ctx context.Context, reporterID uuid.UUID, req CreateReportRequest) (*Report, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, common.ErrValidation.WithDetails("A report reason is required.")
	}
	if _, err := s.listingRepo.FindByID(ctx, req.ListingID, false); err != nil {
		return nil, err
	}

	report := &Report{
		ListingID:  req.ListingID,
		ReporterID: reporterID,
		Reason:     reason,
		Details:    strings.TrimSpace(req.Details),
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		s.logger.Error("Failed to submit report", zap.Error(err), zap.String("listingID", req.ListingID.String()))
		return nil, err
	}
	s.logger.Info("Report submitted",
		zap.String("reportID", report.ID.String()),
		zap.String("listingID", req.ListingID.String()))
	return report, nil
}

func (s *service) ListPending(ctx context.Context, page, pageSize int) ([]Report, *common.Pagination, error) {
	return s.repo.FindByStatus(ctx, StatusPending, page, pageSize)
}

// Dismiss closes a report without action against the listing.
func (s *service) Dismiss(ctx context.Context, reportID, actorID uuid.UUID) (*Report, error) {
	return s.handle(ctx, reportID, actorID, StatusDismissed)
}

// Resolve closes a report as acted upon.
func (s *service) Resolve(ctx context.Context, reportID, actorID uuid.UUID) (*Report, error) {
	return s.handle(ctx, reportID, actorID, StatusResolved)
}

func (s *service) handle(ctx context.Context, reportID, actorID uuid.UUID, status ReportStatus) (*Report, error) {
	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != StatusPending {
		return nil, common.ErrInvalidState.WithDetails("Report has already been handled.")
	}

	now := time.Now()
	report.Status = status
	report.HandledBy = &actorID
	report.HandledAt = &now

	if err := s.repo.Update(ctx, report); err != nil {
		s.logger.Error("Failed to handle report", zap.Error(err), zap.String("reportID", reportID.String()))
		return nil, err
	}
	s.logger.Info("Report handled",
		zap.String("reportID", reportID.String()),
		zap.String("status", string(status)))
	return report, nil
}
