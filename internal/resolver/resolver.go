// Package resolver assembles read-time joins. Nothing here is persisted:
// owner display names, referenced company/lead summaries, and resolved
// contact arrays are derived on each fetch from the id references the rows
// actually store.
//
// Every enrichment is best-effort. A dangling reference or a failed lookup
// leaves the joined field empty and never fails the primary fetch — only the
// primary entity's own not-found is fatal, and that's the store's call, not
// ours.
package resolver

import (
	"context"

	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/models"
	"github.com/relato-crm/relato/internal/repository"
	"go.uber.org/zap"
)

// naEmail is the placeholder for contacts with no email on file. The literal
// is part of the read contract — clients render it as-is.
const naEmail = "N/A"

// Summary is the shape a joined reference resolves to.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// CompanyDetail is a company with its owner's display name attached.
type CompanyDetail struct {
	models.Company
	OwnerName string `json:"owner_name,omitempty"`
}

type ContactDetail struct {
	models.Contact
	OwnerName string `json:"owner_name,omitempty"`
}

type LeadDetail struct {
	models.Lead
	OwnerName string `json:"owner_name,omitempty"`
}

// DealDetail is a deal with every reference resolved: owner name, company
// and lead summaries for the single-id references, and the contacts uuid[]
// expanded into summaries. ContactsResolved is always a slice, never nil.
type DealDetail struct {
	models.Deal
	OwnerName        string    `json:"owner_name,omitempty"`
	CompanyRef       *Summary  `json:"company_ref,omitempty"`
	LeadRef          *Summary  `json:"lead_ref,omitempty"`
	ContactsResolved []Summary `json:"contacts_resolved"`
}

// ListDetail is a list with its array expanded into the full rows of the
// entity collection its type names.
type ListDetail struct {
	models.List
	OwnerName   string `json:"owner_name,omitempty"`
	ArrayValues any    `json:"array_values"`
}

type Resolver struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	contacts  repository.ContactRepository
	leads     repository.LeadRepository
	cache     *OwnerNameCache
	logger    *zap.Logger
}

// New builds a resolver. cache may be nil — owner names then always come
// from the user store.
func New(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	contacts repository.ContactRepository,
	leads repository.LeadRepository,
	cache *OwnerNameCache,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		users:     users,
		companies: companies,
		contacts:  contacts,
		leads:     leads,
		cache:     cache,
		logger:    logger,
	}
}

// OwnerName returns the display name of the owning user, or "" if it can't
// be resolved. The redis cache fronts the lookup; a cache failure falls
// through to the store, a store failure degrades to empty.
func (r *Resolver) OwnerName(ctx context.Context, ownerID uuid.UUID) string {
	if r.cache != nil {
		if name, ok := r.cache.Get(ctx, ownerID); ok {
			return name
		}
	}

	user, err := r.users.GetByID(ctx, ownerID)
	if err != nil || user == nil {
		if err != nil {
			r.logger.Debug("owner name resolution failed", zap.Error(err))
		}
		return ""
	}

	if r.cache != nil {
		r.cache.Set(ctx, ownerID, user.Name)
	}
	return user.Name
}

// InvalidateOwner drops the cached display name for an owner. No-op without
// a cache.
func (r *Resolver) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, ownerID)
	}
}

func (r *Resolver) CompanyDetail(ctx context.Context, c *models.Company) *CompanyDetail {
	return &CompanyDetail{Company: *c, OwnerName: r.OwnerName(ctx, c.OwnerID)}
}

func (r *Resolver) ContactDetail(ctx context.Context, c *models.Contact) *ContactDetail {
	return &ContactDetail{Contact: *c, OwnerName: r.OwnerName(ctx, c.OwnerID)}
}

func (r *Resolver) LeadDetail(ctx context.Context, l *models.Lead) *LeadDetail {
	return &LeadDetail{Lead: *l, OwnerName: r.OwnerName(ctx, l.OwnerID)}
}

// DealDetail enriches a deal. Each reference resolves independently: a
// company id pointing at a deleted row just leaves CompanyRef nil, a failed
// contact batch leaves ContactsResolved empty. The deal itself is returned
// regardless.
func (r *Resolver) DealDetail(ctx context.Context, d *models.Deal) *DealDetail {
	detail := &DealDetail{
		Deal:             *d,
		OwnerName:        r.OwnerName(ctx, d.OwnerID),
		ContactsResolved: []Summary{},
	}

	if d.CompanyID != nil {
		company, err := r.companies.GetByID(ctx, d.OwnerID, *d.CompanyID)
		if err != nil {
			r.logger.Debug("deal company resolution failed", zap.Error(err))
		} else {
			detail.CompanyRef = &Summary{ID: company.ID, Name: company.Name}
		}
	}

	if d.LeadID != nil {
		lead, err := r.leads.GetByID(ctx, d.OwnerID, *d.LeadID)
		if err != nil {
			r.logger.Debug("deal lead resolution failed", zap.Error(err))
		} else {
			detail.LeadRef = &Summary{ID: lead.ID, Name: lead.Name, Email: lead.Email}
		}
	}

	detail.ContactsResolved = r.resolveContacts(ctx, d.OwnerID, d.Contacts)
	return detail
}

// resolveContacts expands a contact id array into summaries with one batched
// owner-scoped lookup. Ids that don't resolve are simply absent; a lookup
// failure yields an empty slice, not an error.
func (r *Resolver) resolveContacts(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) []Summary {
	if len(ids) == 0 {
		return []Summary{}
	}

	rows, err := r.contacts.GetByIDs(ctx, ownerID, ids)
	if err != nil {
		r.logger.Debug("deal contacts resolution failed", zap.Error(err))
		return []Summary{}
	}

	summaries := make([]Summary, 0, len(rows))
	for _, c := range rows {
		email := c.Email
		if email == "" {
			email = naEmail
		}
		summaries = append(summaries, Summary{ID: c.ID, Name: c.Name, Email: email})
	}
	return summaries
}

// ListDetail expands a list's array into the rows of the collection its type
// declares. An empty array issues no query. An unknown type (legacy rows
// from before the casing cleanup are normalized at the store, so this should
// not happen) degrades to an empty result.
func (r *Resolver) ListDetail(ctx context.Context, l *models.List) *ListDetail {
	detail := &ListDetail{
		List:      *l,
		OwnerName: r.OwnerName(ctx, l.OwnerID),
	}

	if len(l.Array) == 0 {
		detail.ArrayValues = []any{}
		return detail
	}

	var (
		values any
		err    error
	)
	switch l.Type {
	case models.ListTypeCompany:
		values, err = r.companies.GetByIDs(ctx, l.OwnerID, l.Array)
	case models.ListTypeContact:
		values, err = r.contacts.GetByIDs(ctx, l.OwnerID, l.Array)
	case models.ListTypeLead:
		values, err = r.leads.GetByIDs(ctx, l.OwnerID, l.Array)
	default:
		r.logger.Warn("list has unknown type", zap.String("type", l.Type))
		detail.ArrayValues = []any{}
		return detail
	}
	if err != nil {
		r.logger.Debug("list array resolution failed", zap.Error(err))
		detail.ArrayValues = []any{}
		return detail
	}

	detail.ArrayValues = values
	return detail
}
