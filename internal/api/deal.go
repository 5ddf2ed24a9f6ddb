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

// DealHandler owns the /v1/deals routes. Single-deal reads come back fully
// resolved: company and lead summaries for the id references, and the
// contacts array expanded. List reads return the bare rows — resolving every
// deal's references on the board view would be a join per row for data the
// board doesn't render.
type DealHandler struct {
	repo     repository.DealRepository
	resolver *resolver.Resolver
	hub      *events.Hub
	logger   *zap.Logger
}

func NewDealHandler(repo repository.DealRepository, res *resolver.Resolver, hub *events.Hub, logger *zap.Logger) *DealHandler {
	return &DealHandler{repo: repo, resolver: res, hub: hub, logger: logger}
}

// Create handles POST /v1/deals
func (h *DealHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	deal, err := h.repo.Create(c.Request.Context(), ownerID, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "deal", Action: events.ActionCreated, ID: deal.ID, OwnerID: ownerID})
	c.JSON(http.StatusCreated, deal)
}

// List handles GET /v1/deals
func (h *DealHandler) List(c *gin.Context) {
	deals, err := h.repo.ListByOwner(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, deals)
}

// GetByID handles GET /v1/deals/:id
func (h *DealHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid deal id"))
		return
	}

	deal, err := h.repo.GetByID(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.DealDetail(c.Request.Context(), deal))
}

// Update handles PATCH /v1/deals/:id
//
// The payload may be a previously fetched detail response sent back whole —
// joined owner/company/lead objects and a rehydrated contacts array
// included. The store strips the derived fields and collapses contacts to
// ids; none of that is the client's problem.
func (h *DealHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid deal id"))
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	deal, err := h.repo.Update(c.Request.Context(), ownerID, id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "deal", Action: events.ActionUpdated, ID: deal.ID, OwnerID: ownerID})
	c.JSON(http.StatusOK, deal)
}

// Delete handles DELETE /v1/deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid deal id"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	if err := h.repo.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "deal", Action: events.ActionDeleted, ID: id, OwnerID: ownerID})
	c.Status(http.StatusNoContent)
}
