package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/apperr"
)

// The five CRM entities share one CRUD shape: insert stamped with the owner
// id, read/update/delete with `WHERE id = $1 AND owner_id = $2`, list by
// owner. Instead of five copy-pasted stores, crudStore implements that shape
// once, parameterized by an entityMeta table of per-type field policy
// (table, columns, required fields) and a scan function.

// field maps a JSON field name in a request payload to its column.
type field struct {
	json   string
	column string
}

type entityMeta struct {
	name       string // singular, for error messages
	table      string
	selectCols string // column list in scan order
	writable   []field
	required   []string // json names that must be present and non-blank on create
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows, so one scan function
// serves QueryRow and row iteration.
type rowScanner interface{ Scan(dest ...any) error }

type crudStore[T any] struct {
	pool *pgxpool.Pool
	meta entityMeta
	scan func(rowScanner) (*T, error)
}

// isBlank reports whether a required field value counts as absent. Empty
// string is absent — the source of truth for "required" is presence of a
// usable value, not presence of a key.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func (s *crudStore[T]) create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*T, error) {
	if ownerID == uuid.Nil {
		return nil, apperr.Validation("owner key is required")
	}
	for _, r := range s.meta.required {
		if isBlank(fields[r]) {
			return nil, apperr.Validation("%s is required", r)
		}
	}

	// Only columns the caller actually supplied go into the INSERT; the
	// schema defaults fill in the rest ('' for text, '{}' for arrays, NULL
	// for nullable references). Keys outside the writable table — resolver
	// joins included — never reach the SQL.
	cols := []string{"owner_id"}
	args := []any{ownerID}
	for _, f := range s.meta.writable {
		v, ok := fields[f.json]
		if !ok || v == nil {
			continue
		}
		cols = append(cols, f.column)
		args = append(args, v)
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		s.meta.table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		s.meta.selectCols,
	)

	row, err := s.scan(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, apperr.Store("insert "+s.meta.name, err)
	}
	return row, nil
}

func (s *crudStore[T]) get(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, apperr.Validation("owner key and id are required")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1 AND owner_id = $2`,
		s.meta.selectCols, s.meta.table,
	)
	row, err := s.scan(s.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(s.meta.name)
		}
		return nil, apperr.Store("get "+s.meta.name, err)
	}
	return row, nil
}

func (s *crudStore[T]) listByOwner(ctx context.Context, ownerID uuid.UUID) ([]T, error) {
	if ownerID == uuid.Nil {
		return nil, apperr.Validation("owner key is required")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE owner_id = $1 ORDER BY created_at DESC`,
		s.meta.selectCols, s.meta.table,
	)
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperr.Store("list "+s.meta.name, err)
	}
	return s.collect(rows)
}

func (s *crudStore[T]) getByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]T, error) {
	if ownerID == uuid.Nil {
		return nil, apperr.Validation("owner key is required")
	}
	if len(ids) == 0 {
		return make([]T, 0), nil
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = ANY($1) AND owner_id = $2`,
		s.meta.selectCols, s.meta.table,
	)
	rows, err := s.pool.Query(ctx, query, ids, ownerID)
	if err != nil {
		return nil, apperr.Store("batch get "+s.meta.name, err)
	}
	return s.collect(rows)
}

func (s *crudStore[T]) update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*T, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, apperr.Validation("owner key and id are required")
	}

	sets, args := buildSets(s.meta.writable, fields)

	// A payload that carried nothing but derived join objects strips down to
	// an empty SET. That is success, not an error — the stored row is
	// already what the caller asked for.
	if len(sets) == 0 {
		return s.get(ctx, ownerID, id)
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE id = $%d AND owner_id = $%d RETURNING %s`,
		s.meta.table,
		strings.Join(sets, ", "),
		len(args)-1, len(args),
		s.meta.selectCols,
	)

	row, err := s.scan(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(s.meta.name)
		}
		return nil, apperr.Store("update "+s.meta.name, err)
	}
	return row, nil
}

// buildSets walks the writable table and emits a SET fragment per key the
// payload carries. Keys outside the table — the resolver's joined objects,
// identity columns, anything a client invented — contribute nothing, which
// is how derived data gets stripped before the SQL exists.
func buildSets(writable []field, fields map[string]any) ([]string, []any) {
	sets := make([]string, 0, len(writable))
	args := make([]any, 0, len(writable)+2)
	for _, f := range writable {
		v, ok := fields[f.json]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}
	return sets, args
}

func (s *crudStore[T]) delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return apperr.Validation("owner key and id are required")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, s.meta.table)
	tag, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperr.Store("delete "+s.meta.name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(s.meta.name)
	}
	return nil
}

func (s *crudStore[T]) collect(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		row, err := s.scan(rows)
		if err != nil {
			return nil, apperr.Store("scan "+s.meta.name, err)
		}
		out = append(out, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("iterate "+s.meta.name, err)
	}
	return out, nil
}
