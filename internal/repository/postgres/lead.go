package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/models"
)

type LeadStore struct {
	crud crudStore[models.Lead]
}

func NewLeadStore(pool *pgxpool.Pool) *LeadStore {
	return &LeadStore{crud: crudStore[models.Lead]{
		pool: pool,
		meta: entityMeta{
			name:       "lead",
			table:      "leads",
			selectCols: "id, owner_id, email, name, phone, linkedin, role, company, owner, status, description, created_at",
			writable: []field{
				{"email", "email"},
				{"name", "name"},
				{"phone", "phone"},
				{"linkedin", "linkedin"},
				{"role", "role"},
				{"company", "company"},
				{"owner", "owner"},
				{"status", "status"},
				{"description", "description"},
			},
			// Email is the one mandatory lead field: a lead without a way to
			// reach them isn't a lead.
			required: []string{"email"},
		},
		scan: scanLead,
	}}
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Email,
		&l.Name,
		&l.Phone,
		&l.Linkedin,
		&l.Role,
		&l.Company,
		&l.Owner,
		&l.Status,
		&l.Description,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeadStore) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Lead, error) {
	return s.crud.create(ctx, ownerID, fields)
}

func (s *LeadStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lead, error) {
	return s.crud.get(ctx, ownerID, id)
}

func (s *LeadStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Lead, error) {
	return s.crud.listByOwner(ctx, ownerID)
}

func (s *LeadStore) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Lead, error) {
	return s.crud.getByIDs(ctx, ownerID, ids)
}

func (s *LeadStore) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Lead, error) {
	return s.crud.update(ctx, ownerID, id, fields)
}

func (s *LeadStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.crud.delete(ctx, ownerID, id)
}
