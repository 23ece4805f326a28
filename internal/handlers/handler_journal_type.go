package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

type journalTypeHandler struct {
	journalTypeService portssvc.JournalTypeSvc
}

func registerJournalTypeRoutes(rg *gin.RouterGroup, jts portssvc.JournalTypeSvc) {
	h := &journalTypeHandler{journalTypeService: jts}

	rg.GET("/journal-types", h.listJournalTypes)
	rg.PUT("/journal-types", h.applyJournalTypes)
}

// listJournalTypes godoc
// @Summary List journal types
// @Tags journal types
// @Produce  json
// @Success 200 {array} dto.JournalTypeResponse
// @Security BearerAuth
// @Router /journal-types [get]
func (h *journalTypeHandler) listJournalTypes(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	types, err := h.journalTypeService.ListJournalTypes(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list journal types")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalTypeResponses(types))
}

// applyJournalTypes godoc
// @Summary Upsert journal types
// @Description Creates or updates journal types by code together with their voucher rules
// @Tags journal types
// @Accept  json
// @Produce  json
// @Param   types body dto.ApplyJournalTypesRequest true "Journal type definitions"
// @Success 200 {array} dto.JournalTypeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid definition or rule"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Security BearerAuth
// @Router /journal-types [put]
func (h *journalTypeHandler) applyJournalTypes(c *gin.Context) {
	var req dto.ApplyJournalTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	types, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid journal type definition")
		return
	}
	applied, err := h.journalTypeService.ApplyJournalTypes(c.Request.Context(), actor, types)
	if err != nil {
		respondError(c, err, "Failed to apply journal types")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalTypeResponses(applied))
}
