package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/httpclient"
	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
)

// queryTimeLayout matches the datetime format the rating API accepts.
const queryTimeLayout = "2006-01-02 15:04:05"

// DistilRepositoryImpl implementa o BillingRepository sobre a API v2 do Distil.
type DistilRepositoryImpl struct {
	client  *resty.Client
	baseURL string
	region  string
}

// NewDistilRepository cria uma nova implementação do BillingRepository.
func NewDistilRepository(client *resty.Client, baseURL, region string) repository.BillingRepository {
	return &DistilRepositoryImpl{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		region:  region,
	}
}

// ListInvoices calls GET /v2/invoices for the query window.
func (r *DistilRepositoryImpl) ListInvoices(
	ctx context.Context,
	session entity.Session,
	query repository.InvoiceQuery,
) (entity.InvoiceCollection, error) {
	params := map[string]string{
		"start":    query.Start.Format(queryTimeLayout),
		"end":      query.End.Format(queryTimeLayout),
		"detailed": pythonBool(query.Detailed),
	}
	if query.ProjectID != "" {
		params["project_id"] = query.ProjectID
	}

	zerolog.Ctx(ctx).Debug().
		Str("region", r.region).
		Str("start", params["start"]).
		Str("end", params["end"]).
		Msg("listing invoices")

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("X-Auth-Token", session.Token).
		SetQueryParams(params).
		Get(r.baseURL + "/v2/invoices")
	if err != nil {
		return entity.InvoiceCollection{}, fmt.Errorf("error contacting billing service: %w", err)
	}
	if resp.IsError() {
		return entity.InvoiceCollection{}, httpclient.NewAPIError("billing", resp)
	}

	var invoices entity.InvoiceCollection
	if err := json.Unmarshal(resp.Body(), &invoices); err != nil {
		return entity.InvoiceCollection{}, fmt.Errorf("error decoding invoices: %w", err)
	}

	return invoices, nil
}

func pythonBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
