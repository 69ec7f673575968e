package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

type fakeIdentity struct {
	session entity.Session
	err     error
	calls   int
}

func (f *fakeIdentity) Authenticate(_ context.Context, _ types.AuthArgs) (entity.Session, error) {
	f.calls++
	return f.session, f.err
}

type fakeBilling struct {
	responses []error
	result    entity.InvoiceCollection
	queries   []repository.InvoiceQuery
}

func (f *fakeBilling) ListInvoices(_ context.Context, _ entity.Session, query repository.InvoiceQuery) (entity.InvoiceCollection, error) {
	f.queries = append(f.queries, query)
	idx := len(f.queries) - 1
	if idx < len(f.responses) && f.responses[idx] != nil {
		return entity.InvoiceCollection{}, f.responses[idx]
	}
	return f.result, nil
}

type fakeExport struct {
	formats []string
	failPDF bool
}

func (f *fakeExport) ExportCustomerCostToCSV(_ entity.CustomerCostReport, filename, outputDir string) (string, error) {
	f.formats = append(f.formats, "csv")
	return fmt.Sprintf("%s/%s.csv", outputDir, filename), nil
}

func (f *fakeExport) ExportCustomerCostToJSON(_ entity.CustomerCostReport, filename, outputDir string) (string, error) {
	f.formats = append(f.formats, "json")
	return fmt.Sprintf("%s/%s.json", outputDir, filename), nil
}

func (f *fakeExport) ExportCustomerCostToPDF(_ entity.CustomerCostReport, filename, outputDir string) (string, error) {
	f.formats = append(f.formats, "pdf")
	if f.failPDF {
		return "", errors.New("pdf writer failed")
	}
	return fmt.Sprintf("%s/%s.pdf", outputDir, filename), nil
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, localPath string) (string, error) {
	f.uploads = append(f.uploads, localPath)
	return fmt.Sprintf("s3://%s/%s", bucket, localPath), nil
}

type fakeConsole struct {
	out    strings.Builder
	errors []string
	tables []*fakeTable
	trends [][]types.PeriodCost
}

func (c *fakeConsole) Print(a ...interface{})                 { fmt.Fprint(&c.out, a...) }
func (c *fakeConsole) Printf(format string, a ...interface{}) { fmt.Fprintf(&c.out, format, a...) }
func (c *fakeConsole) Println(a ...interface{})               { fmt.Fprintln(&c.out, a...) }
func (c *fakeConsole) LogInfo(string, ...interface{})         {}
func (c *fakeConsole) LogWarning(string, ...interface{})      {}
func (c *fakeConsole) LogSuccess(string, ...interface{})      {}
func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) DisplayTrendBars(title string, periodCosts []types.PeriodCost) {
	c.trends = append(c.trends, periodCosts)
}
func (c *fakeConsole) Status(string) types.StatusHandle { return fakeStatus{} }
func (c *fakeConsole) CreateTable() types.TableInterface {
	t := &fakeTable{}
	c.tables = append(c.tables, t)
	return t
}

type fakeStatus struct{}

func (fakeStatus) Update(string) {}
func (fakeStatus) Stop()         {}

type fakeTable struct {
	columns []string
	rows    [][]string
}

func (t *fakeTable) AddColumn(name string, _ ...interface{}) { t.columns = append(t.columns, name) }
func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}
func (t *fakeTable) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.columns, "|"))
	for _, row := range t.rows {
		b.WriteString("\n" + strings.Join(row, "|"))
	}
	return b.String()
}

type recordingSleeper struct {
	total time.Duration
	calls int
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.calls++
	r.total += d
	return nil
}
