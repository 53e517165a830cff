package publish

import (
	"context"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rendetalje/lead-cli/internal/lead"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/pkg/notion"
)

// Notion database property names.
const (
	PropName        = "Navn"
	PropEmail       = "Email"
	PropPhone       = "Telefon"
	PropAddress     = "Adresse"
	PropCompany     = "Firma"
	PropSource      = "Kilde"
	PropStatus      = "Status"
	PropType        = "Type"
	PropService     = "Ydelse"
	PropSize        = "Størrelse"
	PropPrice       = "Pris"
	PropFrequency   = "Frekvens"
	PropTime        = "Tidsestimat"
	PropLastContact = "Sidste kontakt"
	PropSystems     = "Systemer"
	PropKey         = "Nøgle"
)

// DefaultConcurrency bounds in-flight Notion upserts.
const DefaultConcurrency = 3

// NotionPublisher upserts one database page per lead.
type NotionPublisher struct {
	client      notion.Client
	dbID        string
	concurrency int
	log         *zap.Logger
}

// NewNotionPublisher creates a publisher for the lead database dbID.
func NewNotionPublisher(c notion.Client, dbID string, concurrency int, log *zap.Logger) *NotionPublisher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NotionPublisher{client: c, dbID: dbID, concurrency: concurrency, log: log}
}

func (p *NotionPublisher) Target() string { return "notion" }

// Publish upserts every lead. A rejected lead is reported and does not stop
// the others; cancellation does.
func (p *NotionPublisher) Publish(ctx context.Context, leads []model.CanonicalLead) (*Report, error) {
	rep := &Report{Target: p.Target()}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, l := range leads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, created, err := notion.UpsertPage(gctx, p.client, p.dbID, PropKey, l.IdentityKey, NotionProperties(l))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil && gctx.Err() != nil:
				return err
			case err != nil:
				p.log.Warn("publish: notion upsert failed",
					zap.String("key", l.IdentityKey),
					zap.Error(err),
				)
				rep.Failed = append(rep.Failed, Failure{Key: l.IdentityKey, Error: err.Error()})
			case created:
				rep.Created++
			default:
				rep.Updated++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rep, eris.Wrap(err, "publish: notion")
	}
	rep.sortFailures()
	return rep, nil
}

// NotionProperties maps a lead onto the lead database columns. Empty
// fields are left out so they do not clear values edited in Notion.
func NotionProperties(l model.CanonicalLead) notionapi.Properties {
	f := l.Fields
	name := f.Name
	if name == "" {
		name = l.IdentityKey
	}
	props := notionapi.Properties{
		PropName: notion.Title(name),
		PropKey:  notion.Text(l.IdentityKey),
	}

	text := map[string]string{
		PropAddress:   f.Address,
		PropCompany:   f.Company,
		PropService:   f.ServiceType,
		PropSize:      f.PropertySize,
		PropFrequency: f.Frequency,
		PropTime:      lead.FieldValue(f, model.FieldTimeEstimate),
	}
	for prop, v := range text {
		if v != "" {
			props[prop] = notion.Text(v)
		}
	}

	if f.Email != "" {
		props[PropEmail] = notion.Email(f.Email)
	}
	if f.Phone != "" {
		props[PropPhone] = notion.Phone(f.Phone)
	}
	if f.Price != nil {
		props[PropPrice] = notion.Number(*f.Price)
	}
	if l.LeadSource != "" {
		props[PropSource] = notion.Select(l.LeadSource.Label())
	}
	if l.Status != "" {
		props[PropStatus] = notion.Select(string(l.Status))
	}
	if f.Has(model.FieldLeadType) {
		props[PropType] = notion.Select(string(f.LeadType))
	}
	if l.LastContact != nil {
		props[PropLastContact] = notion.Date(l.LastContact.In(time.UTC))
	}
	if len(l.Sources) > 0 {
		names := make([]string, len(l.Sources))
		for i, s := range l.Sources {
			names[i] = string(s)
		}
		props[PropSystems] = notion.MultiSelect(names...)
	}
	return props
}
