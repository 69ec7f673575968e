package repository

import (
	"context"
	"time"

	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
)

// InvoiceQuery selects the invoices returned by ListInvoices.
type InvoiceQuery struct {
	Start     time.Time
	End       time.Time
	ProjectID string
	Detailed  bool
}

// BillingRepository defines the interface for the rating/billing service.
type BillingRepository interface {
	ListInvoices(ctx context.Context, session entity.Session, query InvoiceQuery) (entity.InvoiceCollection, error)
}
