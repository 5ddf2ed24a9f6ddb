package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/models"
)

type ContactStore struct {
	crud crudStore[models.Contact]
}

func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{crud: crudStore[models.Contact]{
		pool: pool,
		meta: entityMeta{
			name:       "contact",
			table:      "contacts",
			selectCols: "id, owner_id, name, email, phone, linkedin, role, status, description, created_at",
			writable: []field{
				{"name", "name"},
				{"email", "email"},
				{"phone", "phone"},
				{"linkedin", "linkedin"},
				{"role", "role"},
				{"status", "status"},
				{"description", "description"},
			},
			required: []string{"name"},
		},
		scan: scanContact,
	}}
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Linkedin,
		&c.Role,
		&c.Status,
		&c.Description,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContactStore) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Contact, error) {
	return s.crud.create(ctx, ownerID, fields)
}

func (s *ContactStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Contact, error) {
	return s.crud.get(ctx, ownerID, id)
}

func (s *ContactStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	return s.crud.listByOwner(ctx, ownerID)
}

func (s *ContactStore) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error) {
	return s.crud.getByIDs(ctx, ownerID, ids)
}

func (s *ContactStore) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Contact, error) {
	return s.crud.update(ctx, ownerID, id, fields)
}

func (s *ContactStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.crud.delete(ctx, ownerID, id)
}
