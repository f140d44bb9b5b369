package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"gstledger/internal/csvexport"
	"gstledger/internal/domain"
	"gstledger/internal/outstanding"
	"gstledger/internal/port"
	"gstledger/internal/report"
)

// ReportService builds the statutory and management reports over full ledger
// snapshots. Builds are memoized; any bill or payment write drops the cache.
type ReportService interface {
	Register(ctx context.Context, f *domain.ReportFilters) ([]domain.RegisterRow, error)
	NetTax(ctx context.Context, f *domain.ReportFilters) (*domain.NetTaxSummary, error)
	HSNSummary(ctx context.Context, f *domain.ReportFilters) ([]domain.HSNRow, error)
	PaymentRegister(ctx context.Context, f *domain.ReportFilters) ([]domain.PaymentRegisterRow, error)
	Aging(ctx context.Context, view domain.ReportView, asOf time.Time) ([]domain.AgingRow, error)
	ExportRegisterCSV(ctx context.Context, f *domain.ReportFilters, w io.Writer) error
	ExportHSNXLSX(ctx context.Context, f *domain.ReportFilters) (*excelize.File, error)
}

type reportService struct {
	billRepo    port.BillRepository
	paymentRepo port.PaymentRepository
	partyRepo   port.PartyRepository
	companyRepo port.CompanyRepository
	cache       *report.Cache
	cacheOn     bool
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	billRepo port.BillRepository,
	paymentRepo port.PaymentRepository,
	partyRepo port.PartyRepository,
	companyRepo port.CompanyRepository,
	cache *report.Cache,
	cacheOn bool,
) ReportService {
	return &reportService{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		partyRepo:   partyRepo,
		companyRepo: companyRepo,
		cache:       cache,
		cacheOn:     cacheOn,
	}
}

// withFilters fills the company scheme into the filters; the net tax report
// changes shape entirely between regular and composition.
func (s *reportService) withScheme(ctx context.Context, f *domain.ReportFilters) (*domain.ReportFilters, error) {
	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService: %w", err)
	}
	out := *f
	out.Scheme = profile.Scheme
	return &out, nil
}

func (s *reportService) partyMap(ctx context.Context) (map[uuid.UUID]domain.Party, error) {
	parties, err := s.partyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.partyMap: %w", err)
	}
	out := make(map[uuid.UUID]domain.Party, len(parties))
	for _, p := range parties {
		out[p.ID] = p
	}
	return out, nil
}

// cacheKey builds the memoization key from the filter period and scheme.
func cacheKey(kind report.Kind, f *domain.ReportFilters) report.CacheKey {
	period := ""
	if f.From != nil {
		period = f.From.Format("2006-01-02")
	}
	period += ".."
	if f.To != nil {
		period += f.To.Format("2006-01-02")
	}
	period += "|" + string(f.View)
	if f.BillType != nil {
		period += "|" + string(*f.BillType)
	}
	if f.PartyID != nil {
		period += "|" + f.PartyID.String()
	}
	return report.CacheKey{Kind: kind, Period: period, Scheme: f.Scheme}
}

func (s *reportService) Register(ctx context.Context, f *domain.ReportFilters) ([]domain.RegisterRow, error) {
	f, err := s.withScheme(ctx, f)
	if err != nil {
		return nil, err
	}
	key := cacheKey(report.KindRegister, f)
	if s.cacheOn {
		if v, ok := s.cache.Get(key); ok {
			return v.([]domain.RegisterRow), nil
		}
	}

	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.Register: %w", err)
	}
	parties, err := s.partyMap(ctx)
	if err != nil {
		return nil, err
	}

	rows := report.BuildRegister(bills, parties, f)
	if s.cacheOn {
		s.cache.Set(key, rows)
	}
	return rows, nil
}

func (s *reportService) NetTax(ctx context.Context, f *domain.ReportFilters) (*domain.NetTaxSummary, error) {
	f, err := s.withScheme(ctx, f)
	if err != nil {
		return nil, err
	}
	key := cacheKey(report.KindNetTax, f)
	if s.cacheOn {
		if v, ok := s.cache.Get(key); ok {
			return v.(*domain.NetTaxSummary), nil
		}
	}

	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.NetTax: %w", err)
	}

	summary := report.BuildNetTax(bills, f)
	if s.cacheOn {
		s.cache.Set(key, &summary)
	}
	return &summary, nil
}

func (s *reportService) HSNSummary(ctx context.Context, f *domain.ReportFilters) ([]domain.HSNRow, error) {
	f, err := s.withScheme(ctx, f)
	if err != nil {
		return nil, err
	}
	key := cacheKey(report.KindHSNSummary, f)
	if s.cacheOn {
		if v, ok := s.cache.Get(key); ok {
			return v.([]domain.HSNRow), nil
		}
	}

	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.HSNSummary: %w", err)
	}

	rows := report.BuildHSNSummary(bills, f)
	if s.cacheOn {
		s.cache.Set(key, rows)
	}
	return rows, nil
}

func (s *reportService) PaymentRegister(ctx context.Context, f *domain.ReportFilters) ([]domain.PaymentRegisterRow, error) {
	f, err := s.withScheme(ctx, f)
	if err != nil {
		return nil, err
	}
	key := cacheKey(report.KindPaymentRegister, f)
	if s.cacheOn {
		if v, ok := s.cache.Get(key); ok {
			return v.([]domain.PaymentRegisterRow), nil
		}
	}

	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.PaymentRegister: %w", err)
	}
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.PaymentRegister: %w", err)
	}
	parties, err := s.partyMap(ctx)
	if err != nil {
		return nil, err
	}

	billNumbers := make(map[uuid.UUID]string, len(bills))
	for _, b := range bills {
		billNumbers[b.ID] = b.Number
	}

	rows := report.BuildPaymentRegister(payments, billNumbers, parties, f)
	if s.cacheOn {
		s.cache.Set(key, rows)
	}
	return rows, nil
}

func (s *reportService) Aging(ctx context.Context, view domain.ReportView, asOf time.Time) ([]domain.AgingRow, error) {
	billType := domain.BillTypeSalesInvoice
	if view == domain.ReportViewPurchase {
		billType = domain.BillTypePurchaseBill
	}
	bills, err := s.billRepo.ListByType(ctx, billType)
	if err != nil {
		return nil, fmt.Errorf("reportService.Aging: %w", err)
	}
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportService.Aging: %w", err)
	}
	parties, err := s.partyMap(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(parties))
	for id, p := range parties {
		names[id] = p.FirmName
	}
	return outstanding.AgingRows(bills, payments, names, asOf), nil
}

func (s *reportService) ExportRegisterCSV(ctx context.Context, f *domain.ReportFilters, w io.Writer) error {
	rows, err := s.Register(ctx, f)
	if err != nil {
		return err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("reportService.ExportRegisterCSV: %w", err)
	}
	if err := cw.WriteRegisterRows(rows); err != nil {
		return fmt.Errorf("reportService.ExportRegisterCSV: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ExportHSNXLSX renders the HSN summary as a spreadsheet, one row per
// (HSN, rate) group with the per-item breakdown indented beneath it.
func (s *reportService) ExportHSNXLSX(ctx context.Context, f *domain.ReportFilters) (*excelize.File, error) {
	rows, err := s.HSNSummary(ctx, f)
	if err != nil {
		return nil, err
	}
	return csvexport.BuildHSNWorkbook(rows)
}
