package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/models"
)

// toggleAttempts bounds the CAS retry loop. Contention on a single list row
// is human-scale (two people clicking at once), so three attempts is plenty.
const toggleAttempts = 3

// ListStore persists lists and their membership arrays. Membership lives in
// a uuid[] on the row rather than a join table; the array write carries an
// optimistic version check so a concurrent toggle can't silently overwrite
// another — fetch, compute, compare-and-swap, retry on conflict.
type ListStore struct {
	crud crudStore[models.List]
	pool *pgxpool.Pool
}

func NewListStore(pool *pgxpool.Pool) *ListStore {
	return &ListStore{
		pool: pool,
		crud: crudStore[models.List]{
			pool: pool,
			meta: entityMeta{
				name:       "list",
				table:      "lists",
				// "array" needs quoting: ARRAY is reserved in Postgres.
				selectCols: `id, owner_id, name, type, access, "array", version, created_at`,
				// The array is deliberately not writable through the generic
				// update path: it only changes through ToggleMember, which is
				// what enforces the version check and the no-duplicates rule.
				writable: []field{
					{"name", "name"},
					{"type", "type"},
					{"access", "access"},
				},
				required: []string{"name", "type"},
			},
			scan: scanList,
		},
	}
}

func scanList(row rowScanner) (*models.List, error) {
	var l models.List
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Name,
		&l.Type,
		&l.Access,
		&l.Array,
		&l.Version,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if l.Array == nil {
		l.Array = []uuid.UUID{}
	}
	return &l, nil
}

func (s *ListStore) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.List, error) {
	normalized, err := normalizeListFields(fields, true)
	if err != nil {
		return nil, err
	}
	return s.crud.create(ctx, ownerID, normalized)
}

func (s *ListStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.List, error) {
	return s.crud.get(ctx, ownerID, id)
}

func (s *ListStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.List, error) {
	return s.crud.listByOwner(ctx, ownerID)
}

func (s *ListStore) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.List, error) {
	normalized, err := normalizeListFields(fields, false)
	if err != nil {
		return nil, err
	}
	return s.crud.update(ctx, ownerID, id, normalized)
}

func (s *ListStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.crud.delete(ctx, ownerID, id)
}

// ToggleMember flips targetID's membership in the list's array and returns
// the new array state. The fetch is owner-scoped like every other read, so
// toggling against someone else's list reports not found. The write only
// lands if the version still matches the fetched row; a concurrent toggle
// bumps the version and this one rereads and retries.
func (s *ListStore) ToggleMember(ctx context.Context, ownerID, listID, targetID uuid.UUID) ([]uuid.UUID, error) {
	if targetID == uuid.Nil {
		return nil, apperr.Validation("target id is required")
	}

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		list, err := s.crud.get(ctx, ownerID, listID)
		if err != nil {
			return nil, err
		}

		next := toggleID(list.Array, targetID)

		tag, err := s.pool.Exec(ctx,
			`UPDATE lists SET "array" = $1, version = version + 1
			 WHERE id = $2 AND owner_id = $3 AND version = $4`,
			next, listID, ownerID, list.Version,
		)
		if err != nil {
			return nil, apperr.Store("toggle list member", err)
		}
		if tag.RowsAffected() == 1 {
			return next, nil
		}
		// Version moved under us; loop rereads the fresh array.
	}
	return nil, apperr.Internal("list toggle contention not resolved", nil)
}

// toggleID returns a new slice with id removed if present, appended if
// absent. The input array never holds duplicates, so a single pass suffices.
func toggleID(array []uuid.UUID, id uuid.UUID) []uuid.UUID {
	next := make([]uuid.UUID, 0, len(array)+1)
	removed := false
	for _, existing := range array {
		if existing == id {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if !removed {
		next = append(next, id)
	}
	return next
}

// normalizeListFields canonicalizes the type and access enums. Type input is
// accepted case-insensitively (legacy payloads used "Company"/"Contact" and
// a lowercase "lead") and stored lowercase; access defaults to public on
// create.
func normalizeListFields(fields map[string]any, creating bool) (map[string]any, error) {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}

	if v, ok := out["type"]; ok && v != nil {
		raw, isStr := v.(string)
		if !isStr {
			return nil, apperr.Validation("type must be a string")
		}
		t, err := NormalizeListType(raw)
		if err != nil {
			return nil, err
		}
		out["type"] = t
	}

	if v, ok := out["access"]; ok && v != nil {
		raw, isStr := v.(string)
		if !isStr {
			return nil, apperr.Validation("access must be a string")
		}
		switch strings.ToLower(raw) {
		case models.ListAccessPublic, models.ListAccessPrivate:
			out["access"] = strings.ToLower(raw)
		default:
			return nil, apperr.Validation("access must be public or private")
		}
	} else if creating {
		out["access"] = models.ListAccessPublic
	}

	return out, nil
}

// NormalizeListType maps any casing of a list type to its canonical
// lowercase form, or fails with a validation error for anything outside the
// enum.
func NormalizeListType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.ListTypeCompany:
		return models.ListTypeCompany, nil
	case models.ListTypeContact:
		return models.ListTypeContact, nil
	case models.ListTypeLead:
		return models.ListTypeLead, nil
	default:
		return "", apperr.Validation("type must be company, contact, or lead")
	}
}
