package services

import (
	"context"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
)

// reportingService is the read-only aggregation layer over the entry log and
// account balances.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// AccountStats aggregates one account's ledger history and current balance.
func (s *reportingService) AccountStats(ctx context.Context, accountID string) (*domain.AccountStats, error) {
	return s.reportingRepo.GetAccountActivity(ctx, accountID)
}

// PlatformSummary aggregates circulation, transfer totals and the
// per-reseller breakdown. Totals and breakdown come from separate reads; the
// totals themselves are snapshot-consistent with each other.
func (s *reportingService) PlatformSummary(ctx context.Context) (*domain.PlatformSummary, error) {
	summary, err := s.reportingRepo.GetPlatformTotals(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.reportingRepo.GetResellerBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	summary.PerReseller = breakdown

	return summary, nil
}
