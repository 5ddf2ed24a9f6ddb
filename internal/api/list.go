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

type ListHandler struct {
	repo     repository.ListRepository
	resolver *resolver.Resolver
	hub      *events.Hub
	logger   *zap.Logger
}

func NewListHandler(repo repository.ListRepository, res *resolver.Resolver, hub *events.Hub, logger *zap.Logger) *ListHandler {
	return &ListHandler{repo: repo, resolver: res, hub: hub, logger: logger}
}

// Create handles POST /v1/lists
func (h *ListHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	list, err := h.repo.Create(c.Request.Context(), ownerID, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "list", Action: events.ActionCreated, ID: list.ID, OwnerID: ownerID})
	c.JSON(http.StatusCreated, list)
}

// List handles GET /v1/lists
func (h *ListHandler) List(c *gin.Context) {
	lists, err := h.repo.ListByOwner(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// GetByID handles GET /v1/lists/:id
//
// The response carries array_values: the full rows of whichever collection
// the list's type names, batch-fetched under the same owner scope.
func (h *ListHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid list id"))
		return
	}

	list, err := h.repo.GetByID(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.ListDetail(c.Request.Context(), list))
}

// Update handles PATCH /v1/lists/:id
func (h *ListHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid list id"))
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	list, err := h.repo.Update(c.Request.Context(), ownerID, id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "list", Action: events.ActionUpdated, ID: list.ID, OwnerID: ownerID})
	c.JSON(http.StatusOK, list)
}

// Delete handles DELETE /v1/lists/:id
func (h *ListHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid list id"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	if err := h.repo.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "list", Action: events.ActionDeleted, ID: id, OwnerID: ownerID})
	c.Status(http.StatusNoContent)
}

type toggleRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

// Toggle handles POST /v1/lists/:id/toggle
//
// Add-if-absent, remove-if-present. The response is the new array state, not
// the full list row.
func (h *ListHandler) Toggle(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid list id"))
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("target_id is required"))
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid target id"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	array, err := h.repo.ToggleMember(c.Request.Context(), ownerID, listID, targetID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "list", Action: events.ActionUpdated, ID: listID, OwnerID: ownerID})
	c.JSON(http.StatusOK, gin.H{"array": array})
}
