package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/events"
	"github.com/relato-crm/relato/internal/middleware"
	"github.com/relato-crm/relato/internal/repository"
	"github.com/relato-crm/relato/internal/resolver"
	"go.uber.org/zap"
)

// CompanyHandler owns the /v1/companies routes. It binds the request body as
// a plain map — create and update are field-policy driven in the store, so
// the handler doesn't enumerate columns — and leans on the resolver for the
// read-time owner join.
type CompanyHandler struct {
	repo     repository.CompanyRepository
	resolver *resolver.Resolver
	hub      *events.Hub
	logger   *zap.Logger
}

func NewCompanyHandler(repo repository.CompanyRepository, res *resolver.Resolver, hub *events.Hub, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{repo: repo, resolver: res, hub: hub, logger: logger}
}

// Create handles POST /v1/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	company, err := h.repo.Create(c.Request.Context(), ownerID, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "company", Action: events.ActionCreated, ID: company.ID, OwnerID: ownerID})
	c.JSON(http.StatusCreated, company)
}

// List handles GET /v1/companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.repo.ListByOwner(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// GetByID handles GET /v1/companies/:id
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid company id"))
		return
	}

	company, err := h.repo.GetByID(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.CompanyDetail(c.Request.Context(), company))
}

// Update handles PATCH /v1/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid company id"))
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	company, err := h.repo.Update(c.Request.Context(), ownerID, id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "company", Action: events.ActionUpdated, ID: company.ID, OwnerID: ownerID})
	c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /v1/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid company id"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	if err := h.repo.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "company", Action: events.ActionDeleted, ID: id, OwnerID: ownerID})
	c.Status(http.StatusNoContent)
}
