package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relato-crm/relato/internal/models"
)

type CompanyStore struct {
	crud crudStore[models.Company]
}

func NewCompanyStore(pool *pgxpool.Pool) *CompanyStore {
	return &CompanyStore{crud: crudStore[models.Company]{
		pool: pool,
		meta: entityMeta{
			name:       "company",
			table:      "companies",
			selectCols: "id, owner_id, name, industry, website, linkedin, size, stage, revenue, address, city, state, country, description, created_at",
			writable: []field{
				{"name", "name"},
				{"industry", "industry"},
				{"website", "website"},
				{"linkedin", "linkedin"},
				{"size", "size"},
				{"stage", "stage"},
				{"revenue", "revenue"},
				{"address", "address"},
				{"city", "city"},
				{"state", "state"},
				{"country", "country"},
				{"description", "description"},
			},
			required: []string{"name"},
		},
		scan: scanCompany,
	}}
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Industry,
		&c.Website,
		&c.Linkedin,
		&c.Size,
		&c.Stage,
		&c.Revenue,
		&c.Address,
		&c.City,
		&c.State,
		&c.Country,
		&c.Description,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CompanyStore) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Company, error) {
	return s.crud.create(ctx, ownerID, fields)
}

func (s *CompanyStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Company, error) {
	return s.crud.get(ctx, ownerID, id)
}

func (s *CompanyStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Company, error) {
	return s.crud.listByOwner(ctx, ownerID)
}

func (s *CompanyStore) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Company, error) {
	return s.crud.getByIDs(ctx, ownerID, ids)
}

func (s *CompanyStore) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Company, error) {
	return s.crud.update(ctx, ownerID, id, fields)
}

func (s *CompanyStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.crud.delete(ctx, ownerID, id)
}
