package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	"github.com/wapify/credit_ledger_app/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountActivity(ctx context.Context, accountID string) (*domain.AccountStats, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStats), args.Error(1)
}

func (m *MockReportingRepository) GetPlatformTotals(ctx context.Context) (*domain.PlatformSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlatformSummary), args.Error(1)
}

func (m *MockReportingRepository) GetResellerBreakdown(ctx context.Context) ([]domain.ResellerBreakdownRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResellerBreakdownRow), args.Error(1)
}

func TestReportingService_AccountStats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	accountID := uuid.NewString()
	stats := domain.AccountStats{
		AccountID:      accountID,
		Role:           domain.RoleReseller,
		CurrentBalance: 700,
		TotalSent:      300,
		TotalReceived:  1000,
		EntryCount:     5,
	}
	repo.On("GetAccountActivity", ctx, accountID).Return(&stats, nil).Once()

	got, err := svc.AccountStats(ctx, accountID)

	require.NoError(t, err)
	// Balance must reconcile with entry totals: received minus sent
	assert.Equal(t, got.TotalReceived-got.TotalSent, got.CurrentBalance)
	repo.AssertExpectations(t)
}

func TestReportingService_AccountStats_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	repo.On("GetAccountActivity", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.AccountStats(ctx, uuid.NewString())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReportingService_PlatformSummary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	totals := domain.PlatformSummary{
		TotalInCirculation: 10000,
		TotalTransfers:     42,
		TotalVolume:        8000,
		TotalIssued:        10000,
	}
	breakdown := []domain.ResellerBreakdownRow{
		{ResellerAccountID: uuid.NewString(), ResellerName: "Acme", Balance: 2000, TotalDistributed: 8000, TransferCount: 42, BusinessOwnerCount: 3},
	}
	repo.On("GetPlatformTotals", ctx).Return(&totals, nil).Once()
	repo.On("GetResellerBreakdown", ctx).Return(breakdown, nil).Once()

	summary, err := svc.PlatformSummary(ctx)

	require.NoError(t, err)
	// Circulation only ever changes through issuance
	assert.Equal(t, summary.TotalIssued, summary.TotalInCirculation)
	require.Len(t, summary.PerReseller, 1)
	assert.Equal(t, "Acme", summary.PerReseller[0].ResellerName)
	repo.AssertExpectations(t)
}

func TestReportingService_PlatformSummary_TotalsError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	repo.On("GetPlatformTotals", ctx).Return(nil, assert.AnError).Once()

	_, err := svc.PlatformSummary(ctx)

	require.Error(t, err)
	repo.AssertNotCalled(t, "GetResellerBreakdown", mock.Anything)
}
