package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/pkg/errors"
)

func TestGenerateReport(t *testing.T) {
	svc, repos := newTestService(t)
	reports := NewReportService(repos, zap.NewNop())
	ctx := context.Background()

	// Two issued cards, one partially redeemed, one expired
	card := issueCard(t, svc, 100)
	_, err := svc.Redeem(ctx, RedeemRequest{
		Code:        card.Code,
		Amount:      decimal.NewFromInt(40),
		CreatedByID: testStaffID,
	})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = svc.Issue(ctx, IssueRequest{
		Amount:        decimal.NewFromInt(200),
		PurchasedByID: testStaffID,
		ExpiresAt:     &past,
	})
	require.NoError(t, err)

	count, err := svc.ExpireOldGiftCards(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(time.Hour)

	report, err := reports.GenerateReport(ctx, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Issued.Count)
	assert.True(t, report.Issued.TotalValue.Equal(decimal.NewFromInt(300)))

	// Debit buckets report absolute values
	assert.Equal(t, int64(1), report.Redeemed.Count)
	assert.True(t, report.Redeemed.TotalValue.Equal(decimal.NewFromInt(40)))

	assert.Equal(t, int64(1), report.Expired.Count)
	assert.True(t, report.Expired.TotalValue.Equal(decimal.NewFromInt(200)))

	// One card still ACTIVE, carrying its remaining balance
	assert.Equal(t, int64(1), report.Active.Count)
	assert.True(t, report.Active.TotalValue.Equal(decimal.NewFromInt(60)))

	assert.InDelta(t, 50.0, report.RedemptionRate, 1e-9)
}

func TestGenerateReportEmptyPeriod(t *testing.T) {
	_, repos := newTestService(t)
	reports := NewReportService(repos, zap.NewNop())

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now()

	report, err := reports.GenerateReport(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.Issued.Count)
	assert.True(t, report.Issued.TotalValue.IsZero())
	assert.Equal(t, 0.0, report.RedemptionRate)
}

func TestGenerateReportExcludesOutOfPeriodActivity(t *testing.T) {
	svc, repos := newTestService(t)
	reports := NewReportService(repos, zap.NewNop())
	ctx := context.Background()

	issueCard(t, svc, 100)

	// Period entirely in the past sees none of it
	start := time.Now().Add(-48 * time.Hour)
	end := time.Now().Add(-24 * time.Hour)

	report, err := reports.GenerateReport(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Issued.Count)
	assert.Equal(t, int64(0), report.Active.Count)
}

func TestGenerateReportRejectsInvertedPeriod(t *testing.T) {
	_, repos := newTestService(t)
	reports := NewReportService(repos, zap.NewNop())

	now := time.Now()
	_, err := reports.GenerateReport(context.Background(), now, now)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrValidation{}, err)

	_, err = reports.GenerateReport(context.Background(), now, now.Add(-time.Hour))
	require.Error(t, err)
	assert.IsType(t, &errors.ErrValidation{}, err)
}
