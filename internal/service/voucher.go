package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

type VoucherService struct {
	Repo *repo.GormRepo
}

type VoucherInput struct {
	Code       string
	Discount   decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	UsageLimit int
}

var hundred = decimal.NewFromInt(100)

func (in VoucherInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return fmt.Errorf("%w: code is required", ErrValidation)
	case !in.Discount.IsPositive() || in.Discount.GreaterThan(hundred):
		return fmt.Errorf("%w: discount must be in (0, 100]", ErrValidation)
	case !in.StartDate.Before(in.EndDate):
		return fmt.Errorf("%w: start date must be before end date", ErrValidation)
	case in.UsageLimit < 1:
		return fmt.Errorf("%w: usage limit must be >= 1", ErrValidation)
	}
	return nil
}

// IssueVoucher hands a copy of the shop's code to every active shopper.
func (s *VoucherService) IssueVoucher(ctx context.Context, sellerUserID uint, in VoucherInput) (int, error) {
	l := logging.FromContext(ctx).With("svc", "voucher.issue", "user_id", sellerUserID)

	if err := in.validate(); err != nil {
		return 0, err
	}
	code := strings.TrimSpace(in.Code)

	seller, err := s.Repo.SellerByUserID(ctx, sellerUserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return 0, ErrSellerNotFound
		}
		return 0, err
	}

	exists, err := s.Repo.VoucherCodeExists(ctx, seller.ID, code)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("voucher %q: %w", code, ErrConflict)
	}

	userIDs, err := s.Repo.EligibleVoucherUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	rows := make([]models.UserVoucherStatus, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.UserVoucherStatus{
			UserID:         id,
			SellerID:       seller.ID,
			Code:           code,
			Discount:       in.Discount.Round(2),
			StartDate:      in.StartDate.UTC(),
			EndDate:        in.EndDate.UTC(),
			UsageLimit:     in.UsageLimit,
			RemainingCount: in.UsageLimit,
		})
	}
	if err := s.Repo.CreateVouchers(ctx, rows); err != nil {
		return 0, err
	}

	l.Info("issue_voucher_success", "code", code, "recipients", len(rows))
	return len(rows), nil
}

func (s *VoucherService) ListVouchers(ctx context.Context, userID uint) ([]models.UserVoucherStatus, error) {
	return s.Repo.ListVouchersByUser(ctx, userID)
}

func (s *VoucherService) DeleteVoucher(ctx context.Context, sellerUserID uint, code string) (int64, error) {
	seller, err := s.Repo.SellerByUserID(ctx, sellerUserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return 0, ErrSellerNotFound
		}
		return 0, err
	}
	n, err := s.Repo.DeleteVouchers(ctx, seller.ID, code)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("voucher %q: %w", code, ErrNotFound)
	}
	return n, nil
}
