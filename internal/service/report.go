package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

// ReportPenalty is the loyalty points a seller loses per resolved report.
const ReportPenalty = 5

type ReportService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func validReportStatus(s string) bool {
	return s == models.StatusPending || s == models.StatusResolved || s == models.StatusDismissed
}

func (s *ReportService) CreateReport(ctx context.Context, userID, flowerID uint, reason, description string) (*models.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}

	f, err := s.Repo.GetFlower(ctx, flowerID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("flower %d: %w", flowerID, ErrNotFound)
		}
		return nil, err
	}

	rep := &models.Report{
		UserID:      userID,
		FlowerID:    flowerID,
		SellerID:    f.SellerID,
		Reason:      reason,
		Description: description,
		Status:      models.StatusPending,
	}
	if err := s.Repo.CreateReport(ctx, rep); err != nil {
		return nil, err
	}

	s.announce(ctx, "report_created", rep)
	return rep, nil
}

// UpdateReportStatus applies an admin decision. Resolving charges the
// seller ReportPenalty points; a report that left Pending stays where it is.
func (s *ReportService) UpdateReportStatus(ctx context.Context, reportID uint, status string) (*models.Report, error) {
	l := logging.FromContext(ctx).With("svc", "report.update_status", "report_id", reportID)

	if !validReportStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	rep, err := s.Repo.GetReport(ctx, reportID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("report %d: %w", reportID, ErrNotFound)
		}
		return nil, err
	}
	if rep.Status == status {
		return rep, nil
	}
	if rep.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: report is already %s", ErrInvalidStatus, rep.Status)
	}

	switch status {
	case models.StatusResolved:
		resolved, info, err := s.Repo.ResolveReport(ctx, reportID, ReportPenalty)
		switch {
		case err == nil:
			l.Info("report_resolved", "seller_id", resolved.SellerID, "points", info.Points)
			rep = resolved
		case errors.Is(err, repo.ErrSellerProfileMissing):
			l.Warn("update_report_error", "status", 404, "reason", "seller profile missing")
			return nil, ErrSellerProfileMissing
		case errors.Is(err, repo.ErrReportClosed):
			return s.settled(ctx, reportID, status)
		case repo.IsNotFound(err):
			return nil, fmt.Errorf("report %d: %w", reportID, ErrNotFound)
		default:
			return nil, err
		}
	case models.StatusDismissed:
		ok, err := s.Repo.TransitionReport(ctx, reportID, models.StatusPending, status)
		if err != nil {
			return nil, err
		}
		if !ok {
			return s.settled(ctx, reportID, status)
		}
		if rep, err = s.Repo.GetReport(ctx, reportID); err != nil {
			return nil, err
		}
	}

	s.announce(ctx, "report_status_changed", rep)
	return rep, nil
}

// settled handles losing a race with another status update.
func (s *ReportService) settled(ctx context.Context, id uint, want string) (*models.Report, error) {
	rep, err := s.Repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status != want {
		return nil, fmt.Errorf("%w: report is already %s", ErrInvalidStatus, rep.Status)
	}
	return rep, nil
}

func (s *ReportService) ListReports(ctx context.Context, status string) ([]models.Report, error) {
	if status != "" && !validReportStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Repo.ListReports(ctx, status)
}

func (s *ReportService) announce(ctx context.Context, typ string, rep *models.Report) {
	publish(ctx, s.Events, events.TopicReport, rep.ID, events.ReportEvent{
		Type: typ, ReportID: rep.ID, SellerID: rep.SellerID, Status: rep.Status, Timestamp: nowFunc(s.Now),
	})
}
