package api

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/auth"
	"github.com/relato-crm/relato/internal/events"
	"github.com/relato-crm/relato/internal/middleware"
	"github.com/relato-crm/relato/internal/models"
	"github.com/relato-crm/relato/internal/resolver"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// In-memory repositories for handler tests. They enforce the same
// owner-scoping and required-field policy as the real stores, so the tests
// exercise the boundary contract end to end without Postgres.

type memCompanies struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Company
}

func newMemCompanies() *memCompanies {
	return &memCompanies{rows: map[uuid.UUID]models.Company{}}
}

func (m *memCompanies) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Company, error) {
	name, _ := fields["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := models.Company{ID: uuid.New(), OwnerID: ownerID, Name: name, CreatedAt: time.Now()}
	if v, ok := fields["industry"].(string); ok {
		c.Industry = v
	}
	m.rows[c.ID] = c
	return &c, nil
}

func (m *memCompanies) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.rows[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperr.NotFound("company")
	}
	return &c, nil
}

func (m *memCompanies) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Company, 0)
	for _, c := range m.rows {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCompanies) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Company, 0)
	for _, id := range ids {
		if c, ok := m.rows[id]; ok && c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCompanies) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.rows[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperr.NotFound("company")
	}
	if v, ok := fields["name"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["industry"].(string); ok {
		c.Industry = v
	}
	m.rows[id] = c
	return &c, nil
}

func (m *memCompanies) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.rows[id]
	if !ok || c.OwnerID != ownerID {
		return apperr.NotFound("company")
	}
	delete(m.rows, c.ID)
	return nil
}

type memLists struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.List
}

func newMemLists() *memLists {
	return &memLists{rows: map[uuid.UUID]models.List{}}
}

func (m *memLists) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.List, error) {
	name, _ := fields["name"].(string)
	typ, _ := fields["type"].(string)
	if name == "" || typ == "" {
		return nil, apperr.Validation("name and type are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l := models.List{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Type:      strings.ToLower(typ),
		Access:    models.ListAccessPublic,
		Array:     []uuid.UUID{},
		CreatedAt: time.Now(),
	}
	m.rows[l.ID] = l
	return &l, nil
}

func (m *memLists) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.rows[id]
	if !ok || l.OwnerID != ownerID {
		return nil, apperr.NotFound("list")
	}
	return &l, nil
}

func (m *memLists) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.List, 0)
	for _, l := range m.rows {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLists) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.rows[id]
	if !ok || l.OwnerID != ownerID {
		return nil, apperr.NotFound("list")
	}
	if v, ok := fields["name"].(string); ok {
		l.Name = v
	}
	m.rows[id] = l
	return &l, nil
}

func (m *memLists) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.rows[id]
	if !ok || l.OwnerID != ownerID {
		return apperr.NotFound("list")
	}
	delete(m.rows, id)
	return nil
}

func (m *memLists) ToggleMember(ctx context.Context, ownerID, listID, targetID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.rows[listID]
	if !ok || l.OwnerID != ownerID {
		return nil, apperr.NotFound("list")
	}

	next := make([]uuid.UUID, 0, len(l.Array)+1)
	removed := false
	for _, id := range l.Array {
		if id == targetID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, targetID)
	}
	l.Array = next
	l.Version++
	m.rows[listID] = l
	return next, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]models.User{}}
}

func (m *memUsers) Create(ctx context.Context, email, name, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := models.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: hash, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	u.Name = name
	m.users[id] = u
	return &u, nil
}

// unusedRepo satisfies the repository interfaces the resolver needs but a
// given test never touches.
var errUnused = errors.New("repository not wired in this test")

type unusedContacts struct{}

func (unusedContacts) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Contact, error) {
	return nil, errUnused
}
func (unusedContacts) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Contact, error) {
	return nil, errUnused
}
func (unusedContacts) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	return nil, errUnused
}
func (unusedContacts) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error) {
	return []models.Contact{}, nil
}
func (unusedContacts) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Contact, error) {
	return nil, errUnused
}
func (unusedContacts) Delete(ctx context.Context, ownerID, id uuid.UUID) error { return errUnused }

type unusedLeads struct{}

func (unusedLeads) Create(ctx context.Context, ownerID uuid.UUID, fields map[string]any) (*models.Lead, error) {
	return nil, errUnused
}
func (unusedLeads) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Lead, error) {
	return nil, errUnused
}
func (unusedLeads) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Lead, error) {
	return nil, errUnused
}
func (unusedLeads) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]models.Lead, error) {
	return []models.Lead{}, nil
}
func (unusedLeads) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]any) (*models.Lead, error) {
	return nil, errUnused
}
func (unusedLeads) Delete(ctx context.Context, ownerID, id uuid.UUID) error { return errUnused }

type testEnv struct {
	router    *gin.Engine
	companies *memCompanies
	lists     *memLists
	users     *memUsers
}

// newTestEnv wires the real handlers, middleware, and resolver over the
// in-memory repositories, the same way cmd/server does over the pgx stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := newMemUsers()
	companies := newMemCompanies()
	lists := newMemLists()

	res := resolver.New(users, companies, unusedContacts{}, unusedLeads{}, nil, logger)
	hub := events.NewHub(logger)

	companyHandler := NewCompanyHandler(companies, res, hub, logger)
	listHandler := NewListHandler(lists, res, hub, logger)
	userHandler := NewUserHandler(users, res, logger)

	router := gin.New()
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(testSecret))

	v1.GET("/users/me", userHandler.GetMe)
	v1.PUT("/users/me", userHandler.UpdateMe)

	v1.POST("/companies", companyHandler.Create)
	v1.GET("/companies", companyHandler.List)
	v1.GET("/companies/:id", companyHandler.GetByID)
	v1.PATCH("/companies/:id", companyHandler.Update)
	v1.DELETE("/companies/:id", companyHandler.Delete)

	v1.POST("/lists", listHandler.Create)
	v1.GET("/lists/:id", listHandler.GetByID)
	v1.POST("/lists/:id/toggle", listHandler.Toggle)

	return &testEnv{router: router, companies: companies, lists: lists, users: users}
}

// tokenFor mints a real bearer token so requests travel through the actual
// auth middleware.
func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, "test@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}
