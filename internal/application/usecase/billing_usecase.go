package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/retry"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

// resourceColumn maps a table header to the field it displays.
type resourceColumn struct {
	Header string
	Value  func(entity.ResourceCost) string
}

var resourceColumns = []resourceColumn{
	{Header: "resource_name", Value: func(r entity.ResourceCost) string { return r.ResourceName }},
	{Header: "rate", Value: func(r entity.ResourceCost) string { return formatNumber(r.Rate) }},
	{Header: "quantity", Value: func(r entity.ResourceCost) string { return formatNumber(r.Quantity) }},
	{Header: "unit", Value: func(r entity.ResourceCost) string { return r.Unit }},
	{Header: "cost", Value: func(r entity.ResourceCost) string { return formatNumber(r.Cost) }},
}

// BillingUseCase fetches invoices and attributes their cost to customers.
type BillingUseCase struct {
	identityRepo repository.IdentityRepository
	billingRepo  repository.BillingRepository
	exportRepo   repository.ExportRepository
	storageRepo  repository.StorageRepository
	console      types.ConsoleInterface
	config       types.Config

	now   func() time.Time
	sleep retry.SleepFunc
}

// NewBillingUseCase creates a new billing use case.
func NewBillingUseCase(
	identityRepo repository.IdentityRepository,
	billingRepo repository.BillingRepository,
	exportRepo repository.ExportRepository,
	storageRepo repository.StorageRepository,
	console types.ConsoleInterface,
	config types.Config,
) *BillingUseCase {
	return &BillingUseCase{
		identityRepo: identityRepo,
		billingRepo:  billingRepo,
		exportRepo:   exportRepo,
		storageRepo:  storageRepo,
		console:      console,
		config:       config.WithDefaults(),
		now:          time.Now,
		sleep:        retry.Sleep,
	}
}

// InvoiceWindow returns the query window covering the current month and the
// lookbackMonths months before it.
func InvoiceWindow(now time.Time, lookbackMonths int) (time.Time, time.Time) {
	if lookbackMonths < 0 {
		lookbackMonths = 0
	}
	start := time.Date(now.Year(), now.Month()-time.Month(lookbackMonths), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

// FetchInvoices lists the detailed invoices between start and end, retrying
// failed calls with a fixed delay.
func (uc *BillingUseCase) FetchInvoices(
	ctx context.Context,
	session entity.Session,
	start, end time.Time,
	projectID string,
) (entity.InvoiceCollection, error) {
	query := repository.InvoiceQuery{
		Start:     start,
		End:       end,
		ProjectID: projectID,
		Detailed:  true,
	}

	policy := retry.Policy{
		Attempts: uc.config.RetryAttempts,
		Delay:    uc.config.RetryDelay(),
		Sleep:    uc.sleep,
	}

	var invoices entity.InvoiceCollection
	err := policy.Do(ctx, func(ctx context.Context) error {
		var err error
		invoices, err = uc.billingRepo.ListInvoices(ctx, session, query)
		return err
	})
	if err != nil {
		return entity.InvoiceCollection{}, fmt.Errorf("failed to list invoices: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Strs("periods", invoices.Periods()).
		Msg("invoices fetched")

	return invoices, nil
}

// AggregateCustomerCost selects every resource of the invoice whose name
// starts with prefix. An empty period means the latest invoice.
func (uc *BillingUseCase) AggregateCustomerCost(
	invoices entity.InvoiceCollection,
	prefix string,
	period string,
) (entity.CustomerCostReport, error) {
	var (
		invoice entity.Invoice
		ok      bool
	)
	if period == "" {
		invoice, ok = invoices.Latest()
		if !ok {
			return entity.CustomerCostReport{}, types.ErrNoInvoices
		}
	} else {
		invoice, ok = invoices.Find(period)
		if !ok {
			return entity.CustomerCostReport{}, fmt.Errorf("%w: %s (available: %s)",
				types.ErrPeriodNotFound, period, strings.Join(invoices.Periods(), ", "))
		}
	}

	resources, total := filterResources(invoice, prefix)

	return entity.CustomerCostReport{
		Prefix:      prefix,
		Period:      invoice.Period,
		Resources:   resources,
		TotalCost:   total,
		GeneratedAt: uc.now(),
	}, nil
}

// filterResources walks category, product and resource in service order.
func filterResources(invoice entity.Invoice, prefix string) ([]entity.ResourceCost, float64) {
	resources := []entity.ResourceCost{}
	total := 0.0

	for _, category := range invoice.Details {
		for _, product := range category.Products {
			for _, resource := range product.Resources {
				if strings.HasPrefix(resource.ResourceName, prefix) {
					resources = append(resources, resource)
					total += resource.Cost
				}
			}
		}
	}

	return resources, total
}

// CustomerCostTrend returns the customer's cost in every invoice of the
// collection, oldest period first.
func CustomerCostTrend(invoices entity.InvoiceCollection, prefix string) []types.PeriodCost {
	trend := make([]types.PeriodCost, 0, invoices.Len())
	for _, invoice := range invoices.Invoices {
		_, total := filterResources(invoice, prefix)
		trend = append(trend, types.PeriodCost{Period: invoice.Period, Cost: total})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Period < trend[j].Period
	})
	return trend
}

// ShowCustomerCost executa o fluxo completo do subcomando show.
func (uc *BillingUseCase) ShowCustomerCost(
	ctx context.Context,
	auth types.AuthArgs,
	args types.ShowArgs,
) error {
	if auth.AuthURL == "" {
		return types.ErrMissingAuthURL
	}

	status := uc.console.Status("Authenticating...")
	session, err := uc.identityRepo.Authenticate(ctx, auth)
	if err != nil {
		status.Stop()
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	lookback := args.LookbackMonths
	if lookback <= 0 {
		lookback = uc.config.LookbackMonths
	}
	start, end := InvoiceWindow(uc.now(), lookback)

	status.Update(fmt.Sprintf("Fetching invoices from %s to %s...",
		start.Format("2006-01-02"), end.Format("2006-01-02")))
	invoices, err := uc.FetchInvoices(ctx, session, start, end, args.ProjectID)
	status.Stop()
	if err != nil {
		return err
	}

	report, err := uc.AggregateCustomerCost(invoices, args.Prefix, args.Period)
	if errors.Is(err, types.ErrNoInvoices) {
		uc.console.LogError("Cannot find any invoice for the last %d months.", lookback)
		return nil
	}
	if err != nil {
		return err
	}

	uc.DisplayCustomerCost(report)

	if args.Trend {
		uc.console.DisplayTrendBars(fmt.Sprintf("Cost trend for customer [%s]", args.Prefix),
			CustomerCostTrend(invoices, args.Prefix))
	}

	if args.ReportName != "" {
		return uc.exportReport(ctx, report, args)
	}
	return nil
}

// DisplayCustomerCost prints the matching resources and the summary line.
func (uc *BillingUseCase) DisplayCustomerCost(report entity.CustomerCostReport) {
	table := uc.console.CreateTable()
	for _, col := range resourceColumns {
		table.AddColumn(col.Header)
	}
	for _, resource := range report.Resources {
		cells := make([]interface{}, 0, len(resourceColumns))
		for _, col := range resourceColumns {
			cells = append(cells, col.Value(resource))
		}
		table.AddRow(cells...)
	}

	uc.console.Println(table.Render())
	uc.console.Println(FormatSummary(report))
}

// FormatSummary renders the one-line total for a report.
func FormatSummary(report entity.CustomerCostReport) string {
	return fmt.Sprintf("Total cost of customer [%s] for the month of [%s] is : %s",
		report.Prefix, report.Period, pterm.FgYellow.Sprintf("$%.2f", report.TotalCost))
}

// exportReport writes the report in every requested format and uploads the
// files when a bucket is configured.
func (uc *BillingUseCase) exportReport(
	ctx context.Context,
	report entity.CustomerCostReport,
	args types.ShowArgs,
) error {
	reportTypes := args.ReportType
	if len(reportTypes) == 0 {
		reportTypes = uc.config.ReportType
	}
	if len(reportTypes) == 0 {
		reportTypes = []string{"csv"}
	}
	dir := args.Dir
	if dir == "" {
		dir = uc.config.Dir
	}

	var result *multierror.Error
	var exported []string

	for _, reportType := range reportTypes {
		var (
			path string
			err  error
		)
		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "csv":
			path, err = uc.exportRepo.ExportCustomerCostToCSV(report, args.ReportName, dir)
		case "json":
			path, err = uc.exportRepo.ExportCustomerCostToJSON(report, args.ReportName, dir)
		case "pdf":
			path, err = uc.exportRepo.ExportCustomerCostToPDF(report, args.ReportName, dir)
		default:
			err = fmt.Errorf("%w: %s", types.ErrUnsupportedReportType, reportType)
		}

		if err != nil {
			uc.console.LogError("Failed to export report (%s): %s", reportType, err)
			result = multierror.Append(result, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported report to %s: %s", strings.ToUpper(reportType), path)
		exported = append(exported, path)
	}

	bucket := args.UploadBucket
	if bucket == "" {
		bucket = uc.config.S3.Bucket
	}
	if bucket != "" && uc.storageRepo != nil {
		for _, path := range exported {
			location, err := uc.storageRepo.UploadFile(ctx, bucket, path)
			if err != nil {
				uc.console.LogError("Failed to upload %s: %s", path, err)
				result = multierror.Append(result, err)
				continue
			}
			uc.console.LogSuccess("Uploaded report to %s", location)
		}
	}

	return result.ErrorOrNil()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
