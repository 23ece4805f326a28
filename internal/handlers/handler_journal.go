package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// idempotencyKeyHeader carries the caller's idempotency key on posting requests.
const idempotencyKeyHeader = "Idempotency-Key"

// journalHandler handles HTTP requests related to journal drafts.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers draft construction and read routes.
func registerJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade) {
	h := newJournalHandler(js)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createDraft)
		journals.GET("", h.listJournals)
		journals.POST("/post", h.postJournal)
		journals.GET("/:journalID", h.getJournal)
		journals.PUT("/:journalID", h.updateDraft)
		journals.POST("/:journalID/validate", h.validateJournal)
	}
}

// createDraft godoc
// @Summary Create a draft journal
// @Description Builds a DRAFT journal from the given lines. Functional amounts and totals are derived.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal header and lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request or line"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 422 {object} dto.ErrorResponse "Exchange rate not found"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	journal, err := h.journalService.CreateDraft(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create journal")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Draft journal created", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// updateDraft godoc
// @Summary Replace a draft journal
// @Description Replaces the header and every line of an unlocked journal
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Param   journal body dto.UpdateJournalRequest true "Journal header and lines"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request or line"
// @Failure 404 {object} dto.ErrorResponse "Journal not found"
// @Failure 409 {object} dto.ErrorResponse "Journal locked"
// @Security BearerAuth
// @Router /journals/{journalID} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	journal, err := h.journalService.UpdateDraft(c.Request.Context(), actor, c.Param("journalID"), req)
	if err != nil {
		respondError(c, err, "Failed to update journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal
// @Description Retrieves a journal and its lines by ID
// @Tags journals
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} dto.ErrorResponse "Journal not found"
// @Security BearerAuth
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	journal, err := h.journalService.GetJournal(c.Request.Context(), actor, c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Lists journals newest first with token-based pagination
// @Tags journals
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Page size (1-100)" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// validateJournal godoc
// @Summary Dry-run validation
// @Description Runs the pre-posting checks against a stored journal without side effects
// @Tags journals
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.ValidationResponse
// @Failure 404 {object} dto.ErrorResponse "Journal not found"
// @Security BearerAuth
// @Router /journals/{journalID}/validate [post]
func (h *journalHandler) validateJournal(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	err := h.journalService.Validate(c.Request.Context(), actor, c.Param("journalID"))
	if err == nil {
		c.JSON(http.StatusOK, dto.ValidationResponse{Valid: true})
		return
	}
	// Validation findings are a successful answer; anything else is a failed request.
	var le *apperrors.LedgerError
	if !errors.As(err, &le) || le.Kind == apperrors.KindPermissionDenied {
		respondError(c, err, "Failed to validate journal")
		return
	}
	c.JSON(http.StatusOK, dto.ValidationResponse{
		Valid: false,
		Kind:  string(le.Kind),
		Error: le.Error(),
		Line:  le.LineNumber,
		Field: le.Field,
	})
}

// postJournal godoc
// @Summary Create and post a journal
// @Description Inserts and posts a journal in one unit of work. Repeating an Idempotency-Key returns the journal it produced.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Idempotency key"
// @Param   journal body dto.CreateJournalRequest true "Journal header and lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request or line"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Posting conflict"
// @Failure 422 {object} dto.ErrorResponse "Period closed, imbalanced or rule violation"
// @Security BearerAuth
// @Router /journals/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.GetHeader(idempotencyKeyHeader))
	journal, err := h.journalService.PostJournal(c.Request.Context(), actor, req, key)
	if err != nil {
		respondError(c, err, "Failed to post journal")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal posted",
		slog.String("journal_id", journal.JournalID), slog.String("journal_number", journal.JournalNumber))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}
