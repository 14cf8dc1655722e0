package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/internal/repository"
	"github.com/perfumeoud/retailapi/pkg/errors"
)

type reportService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewReportService creates a new gift card report service
func NewReportService(repos *repository.Repositories, logger *zap.Logger) *reportService {
	return &reportService{
		repos:  repos,
		logger: logger,
	}
}

// GenerateReport computes period-bounded gift card statistics. Any
// sub-aggregate failure fails the whole report: no partial report is
// better than a silently wrong one.
func (s *reportService) GenerateReport(ctx context.Context, start, end time.Time) (*Report, error) {
	if !end.After(start) {
		return nil, &errors.ErrValidation{Message: "end date must be after start date"}
	}

	period := domain.Period{Start: start, End: end}

	issued, err := s.repos.Transaction.Aggregate(ctx, domain.TransactionTypeIssued, period)
	if err != nil {
		return nil, err
	}

	redeemed, err := s.repos.Transaction.Aggregate(ctx, domain.TransactionTypeRedeemed, period)
	if err != nil {
		return nil, err
	}

	expired, err := s.repos.Transaction.Aggregate(ctx, domain.TransactionTypeExpired, period)
	if err != nil {
		return nil, err
	}

	active, err := s.repos.GiftCard.AggregateActive(ctx, period)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if issued.Count > 0 {
		rate = float64(redeemed.Count) / float64(issued.Count) * 100
	}

	return &Report{
		Period: period,
		Issued: ReportBucket{
			Count:      issued.Count,
			TotalValue: issued.Sum,
		},
		// Debit sums are sign-normalized to absolute values
		Redeemed: ReportBucket{
			Count:      redeemed.Count,
			TotalValue: redeemed.Sum.Abs(),
		},
		Expired: ReportBucket{
			Count:      expired.Count,
			TotalValue: expired.Sum.Abs(),
		},
		Active: ReportBucket{
			Count:      active.Count,
			TotalValue: active.Sum,
		},
		RedemptionRate: rate,
	}, nil
}
