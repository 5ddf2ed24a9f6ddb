package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/models"
)

// DealStore wraps the generic CRUD core with the one piece of per-entity
// behavior deals need: their contacts relation is a raw uuid[] on the row,
// and clients routinely send it back rehydrated — a list of contact objects
// rather than ids. The store collapses those to bare ids before the generic
// core ever sees the field, so only ids hit the database.
type DealStore struct {
	crud crudStore[models.Deal]
}

func NewDealStore(pool *pgxpool.Pool) *DealStore {
	return &DealStore{crud: crudStore[models.Deal]{
		pool: pool,
		meta: entityMeta{
			name:       "deal",
			table:      "deals",
			selectCols: "id, owner_id, title, company_id, lead_id, contacts, amount, close_date, deal_type, priority, owner, pipeline, stage, description, created_at",
			writable: []field{
				{"title", "title"},
				{"company_id", "company_id"},
				{"lead_id", "lead_id"},
				{"contacts", "contacts"},
				{"amount", "amount"},
				{"close_date", "close_date"},
				{"deal_type", "deal_type"},
				{"priority", "priority"},
				{"owner", "owner"},
				{"pipeline", "pipeline"},
				{"stage", "stage"},
				{"description", "description"},
			},
			required: []string{"title"},
		},
		scan: scanDeal,
	}}
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.CompanyID,
		&d.LeadID,
		&d.Contacts,
		&d.Amount,
		&d.CloseDate,
		&d.DealType,
		&d.Priority,
		&d.Owner,
		&d.Pipeline,
		&d.Stage,
		&d.Description,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if d.Contacts == nil {
		d.Contacts = []uuid.UUID{}
	}
	return &d, nil
}

func (s *DealStore) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Deal, error) {
	normalized, err := normalizeDealFields(fields)
	if err != nil {
		return nil, err
	}
	return s.crud.create(ctx, ownerID, normalized)
}

func (s *DealStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Deal, error) {
	return s.crud.get(ctx, ownerID, id)
}

func (s *DealStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Deal, error) {
	return s.crud.listByOwner(ctx, ownerID)
}

func (s *DealStore) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Deal, error) {
	normalized, err := normalizeDealFields(fields)
	if err != nil {
		return nil, err
	}
	return s.crud.update(ctx, ownerID, id, normalized)
}

func (s *DealStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.crud.delete(ctx, ownerID, id)
}

// normalizeDealFields coerces the JSON-shaped values for reference fields
// into the types pgx persists: contacts to []uuid.UUID, single references to
// uuid.UUID (or nil to clear), close_date to time.Time. Other keys pass
// through untouched; the generic core's writable table does the stripping.
func normalizeDealFields(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	if v, ok := out["contacts"]; ok && v != nil {
		ids, err := collapseContactIDs(v)
		if err != nil {
			return nil, err
		}
		out["contacts"] = ids
	}
	for _, key := range []string{"company_id", "lead_id"} {
		v, ok := out[key]
		if !ok || v == nil {
			continue
		}
		id, err := coerceID(v)
		if err != nil {
			return nil, apperr.Validation("%s: %v", key, err)
		}
		out[key] = id
	}
	if v, ok := out["close_date"]; ok && v != nil {
		if s, isStr := v.(string); isStr {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, apperr.Validation("close_date: expected RFC3339 timestamp")
			}
			out["close_date"] = t
		}
	}
	return out, nil
}

// collapseContactIDs turns whatever shape the contacts field arrived in —
// id strings, uuids, or rehydrated contact objects carrying an "id" key —
// into a flat id slice, deduplicated. The array holds at most one occurrence
// of each id.
func collapseContactIDs(v any) ([]uuid.UUID, error) {
	var raw []any
	switch vv := v.(type) {
	case []uuid.UUID:
		raw = make([]any, len(vv))
		for i, id := range vv {
			raw[i] = id
		}
	case []string:
		raw = make([]any, len(vv))
		for i, id := range vv {
			raw[i] = id
		}
	case []any:
		raw = vv
	default:
		return nil, apperr.Validation("contacts: expected a list of contact ids")
	}

	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, el := range raw {
		id, err := coerceID(el)
		if err != nil {
			return nil, apperr.Validation("contacts: %v", err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// coerceID accepts a uuid, an id string, or an object with an "id" field.
func coerceID(v any) (uuid.UUID, error) {
	switch vv := v.(type) {
	case uuid.UUID:
		return vv, nil
	case string:
		return uuid.Parse(vv)
	case map[string]any:
		inner, ok := vv["id"]
		if !ok {
			return uuid.Nil, apperr.Validation("object has no id field")
		}
		return coerceID(inner)
	default:
		return uuid.Nil, apperr.Validation("expected an id")
	}
}
