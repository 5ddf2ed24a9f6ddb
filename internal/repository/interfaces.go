package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/models"
)

// Every method takes ctx first (these all do I/O) and, except for the user
// lookups that resolve identity itself, an explicit ownerID. The owner key
// is conjoined into every predicate by the store — the repository never
// trusts the caller to have checked ownership, because there is nothing to
// check: a row outside the owner's scope simply does not match.
//
// Create and Update take the entity fields as a map rather than a struct.
// That is deliberate: updates are partial, and the store's per-entity column
// table is what decides which keys are writable. Anything else in the map —
// including the owner/company/lead/contact objects the resolver attaches at
// read time — is dropped before the SQL is built. Derived data can never be
// written back.

// CompanyRepository handles company rows.
type CompanyRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Company, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Company, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Company, error)
	// GetByIDs batch-fetches rows whose id is in ids, owner-scoped. Missing
	// ids are silently absent from the result — batch resolution is
	// best-effort by contract.
	GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Company, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Company, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ContactRepository handles contact rows.
type ContactRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Contact, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error)
	GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// LeadRepository handles lead rows.
type LeadRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Lead, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lead, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Lead, error)
	GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Lead, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Lead, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// DealRepository handles deal rows. The contacts field is a uuid[] directly
// on the row; the store collapses rehydrated contact objects in the fields
// map back to bare ids before persisting.
type DealRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Deal, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Deal, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Deal, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Deal, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ListRepository handles lists and their membership arrays.
type ListRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.List, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.List, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.List, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.List, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ToggleMember removes targetID from the list's array if present, appends
	// it if absent, and returns the new array state. The write carries an
	// optimistic version check, so two concurrent toggles serialize instead
	// of overwriting each other.
	ToggleMember(ctx context.Context, ownerID, listID, targetID uuid.UUID) ([]uuid.UUID, error)
}

// UserRepository handles user accounts. Users are the owners, not owned
// rows, so GetByEmail is global — that's the login lookup.
type UserRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail returns (nil, nil) when no account has the email, so the
	// login path can treat "unknown email" and "wrong password" identically.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}
