package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/resilience"
	"github.com/rendetalje/lead-cli/pkg/billy"
)

const maxBillyPageSize = 1000

// BillingAdapter lists customer contacts from Billy.
type BillingAdapter struct {
	client billy.Client
	cfg    config.BillyConfig
	retry  resilience.RetryConfig
	log    *zap.Logger
}

// NewBillingAdapter creates an adapter reading a single bounded page.
func NewBillingAdapter(client billy.Client, cfg config.BillyConfig, retry resilience.RetryConfig, log *zap.Logger) *BillingAdapter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	if cfg.PageSize > maxBillyPageSize {
		cfg.PageSize = maxBillyPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BillingAdapter{client: client, cfg: cfg, retry: retry, log: log}
}

func (a *BillingAdapter) Origin() model.OriginSource { return model.OriginBilling }

// Fetch reads the first page of customers. Billy contacts carry no activity
// date, so the period does not filter them.
func (a *BillingAdapter) Fetch(ctx context.Context, _ FetchRequest) (*Result, error) {
	listReq := billy.ListContactsRequest{Page: 1, PageSize: a.cfg.PageSize}
	resp, err := resilience.DoVal(ctx, retryFor(a.retry, "billing", "list contacts"), func(ctx context.Context) (*billy.ListContactsResponse, error) {
		r, err := a.client.ListContacts(ctx, listReq)
		return r, classifyHTTP("billing", err)
	})
	if err != nil {
		return &Result{}, &AdapterFetchError{Source: model.OriginBilling, Op: "list contacts", Err: err}
	}

	res := &Result{Pages: 1}
	for i := range resp.Contacts {
		c := &resp.Contacts[i]
		res.Records = append(res.Records, model.RawContact{
			ID:      c.ID,
			Name:    c.Name,
			Phone:   c.Phone,
			Email:   c.PrimaryEmail(),
			Address: c.Address(),
		})
	}
	if resp.Meta.Paging.PageCount > 1 {
		a.log.Warn("billing: more contacts than page_size, later pages not collected",
			zap.Int("total", resp.Meta.Paging.Total))
	}

	a.log.Info("billing: fetch complete", zap.Int("contacts", len(res.Records)))
	return res, nil
}
