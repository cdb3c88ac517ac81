package reports

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"supplyspend/internal/core/apperror"
	"supplyspend/internal/core/id"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/category"
	"supplyspend/internal/domain/ledger"
	"supplyspend/internal/domain/period"
	"supplyspend/pkg/logger"
)

var tracer = otel.Tracer("supplyspend/reports")

// BudgetSource produces the budget map of a location.
// Implemented by *budget.Calculator; it never fails, lookup errors yield an empty map.
type BudgetSource interface {
	Budgets(ctx context.Context, locationID id.ID, budgetMonth *period.Period) budget.Result
}

// Service provides report generation operations.
type Service struct {
	ledger        ledger.Repository
	directory     category.Directory
	budgets       BudgetSource
	lookupTimeout time.Duration
	now           func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLookupTimeout bounds all upstream lookups of one report.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) { s.lookupTimeout = d }
}

// WithClock overrides the clock used for period validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new reports service.
func NewService(ledgerRepo ledger.Repository, directory category.Directory, budgets BudgetSource, opts ...Option) *Service {
	s := &Service{
		ledger:    ledgerRepo,
		directory: directory,
		budgets:   budgets,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeCategoryReport nets the selected orders against their refunds and
// reconciles them with the location's category budgets.
// Invalid periods and missing filters are rejected before any lookup.
func (s *Service) ComputeCategoryReport(ctx context.Context, req CategoryReportRequest) (*CategoryReport, error) {
	ctx, span := tracer.Start(ctx, "reports.ComputeCategoryReport")
	defer span.End()

	now := s.now()
	resolved, err := period.Resolve(period.Input{
		Month:       req.Month,
		Year:        req.Year,
		BudgetMonth: req.BudgetMonth,
	}, now)
	if err != nil {
		return nil, err
	}

	filter := ledger.Filter{
		CustomerID:        req.CustomerID,
		LocationID:        req.LocationID,
		CompanyLocationID: req.CompanyLocationID,
		Period:            resolved.Period,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("report.period", resolved.Period.String()),
		attribute.Bool("report.explicit_period", resolved.Explicit),
	)

	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	var (
		lines    []ledger.OrderLine
		refunds  []ledger.RefundLine
		budgets  budget.Result
		location *id.ID
	)

	if loc, ok := filter.BudgetLocation(); ok {
		location = &loc
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		lines, err = s.loadOrderLines(gctx, filter)
		return err
	})

	g.Go(func() error {
		var err error
		refunds, err = s.ledger.RefundLines(gctx, filter)
		if err != nil {
			return s.lookupError(gctx, "refund_lines", filter, err)
		}
		return nil
	})

	g.Go(func() error {
		budgets = s.loadBudgets(gctx, location, resolved)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	netting := ledger.Net(lines, refunds)
	rec := Reconcile(netting.Categories, budgets.Entries)
	report := Assemble(resolved, location, netting, budgets, rec, now)

	if len(report.Warnings) > 0 {
		logger.Warn(ctx, "category report has data quality warnings",
			"period", resolved.Period.String(),
			"location_id", location,
			"warnings", len(report.Warnings),
		)
	}
	if len(rec.Unbudgeted) > 0 {
		logger.Debug(ctx, "unbudgeted categories dropped from report",
			"period", resolved.Period.String(),
			"location_id", location,
			"categories", rec.Unbudgeted,
		)
	}

	span.SetAttributes(
		attribute.Int("report.categories", len(report.Categories)),
		attribute.Int("report.orders", report.Summary.TotalOrders),
	)

	return report, nil
}

// loadOrderLines reads the selected order lines and resolves their category.
func (s *Service) loadOrderLines(ctx context.Context, filter ledger.Filter) ([]ledger.OrderLine, error) {
	lines, err := s.ledger.OrderLines(ctx, filter)
	if err != nil {
		return nil, s.lookupError(ctx, "order_lines", filter, err)
	}
	if len(lines) == 0 {
		return lines, nil
	}

	seen := make(map[id.ID]struct{}, len(lines))
	productIDs := make([]id.ID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		productIDs = append(productIDs, l.ProductID)
	}

	labels, err := s.directory.Labels(ctx, productIDs)
	if err != nil {
		return nil, s.lookupError(ctx, "category_directory", filter, err)
	}

	for i := range lines {
		lines[i].CategoryKey = category.Resolve(labels, lines[i].ProductID)
	}
	return lines, nil
}

// loadBudgets returns the budget map; customer-only reports have no budget location.
func (s *Service) loadBudgets(ctx context.Context, location *id.ID, resolved period.Resolved) budget.Result {
	source := budget.SourceStatic
	var budgetMonth *period.Period
	if resolved.Explicit {
		p := resolved.Period
		budgetMonth = &p
		source = budget.SourceCensus
	}

	if location == nil {
		logger.Info(ctx, "no budget location in filter, report has no budgeted categories",
			"period", resolved.Period.String(),
		)
		return budget.Result{Entries: category.NewIndex[budget.Entry](), Source: source}
	}

	ctx, span := tracer.Start(ctx, "reports.loadBudgets", trace.WithAttributes(
		attribute.String("budget.location_id", location.String()),
		attribute.String("budget.source", string(source)),
	))
	defer span.End()

	return s.budgets.Budgets(ctx, *location, budgetMonth)
}

func (s *Service) lookupError(ctx context.Context, lookup string, filter ledger.Filter, err error) error {
	logger.Error(ctx, "ledger lookup failed",
		"lookup", lookup,
		"period", filter.Period.String(),
		"customer_id", filter.CustomerID,
		"location_id", filter.LocationID,
		"company_location_id", filter.CompanyLocationID,
		"error", err,
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewTimeout(lookup, err)
	}
	return apperror.NewUpstreamLookup(lookup, err)
}
