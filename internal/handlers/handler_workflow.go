package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workflowHandler drives journals through the status state machine.
type workflowHandler struct {
	workflowService portssvc.JournalWorkflowSvc
}

func newWorkflowHandler(ws portssvc.JournalWorkflowSvc) *workflowHandler {
	return &workflowHandler{workflowService: ws}
}

func registerWorkflowRoutes(rg *gin.RouterGroup, ws portssvc.JournalWorkflowSvc) {
	h := newWorkflowHandler(ws)

	journal := rg.Group("/journals/:journalID")
	{
		journal.POST("/submit", h.submit)
		journal.POST("/approve", h.approve)
		journal.POST("/reject", h.reject)
		journal.POST("/return-to-draft", h.returnToDraft)
		journal.POST("/post", h.post)
		journal.POST("/reverse", h.reverse)
		journal.POST("/transition", h.transition)
	}
}

// respondTransition writes the journal a successful transition returned.
func respondTransition(c *gin.Context, journal *domain.Journal, status int) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal status changed",
		slog.String("journal_id", journal.JournalID), slog.String("status", string(journal.Status)))
	c.JSON(status, dto.ToJournalResponse(journal))
}

// submit godoc
// @Summary Submit a journal for approval
// @Tags workflow
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /journals/{journalID}/submit [post]
func (h *workflowHandler) submit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	journal, err := h.workflowService.Submit(c.Request.Context(), actor, c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to submit journal")
		return
	}
	respondTransition(c, journal, http.StatusOK)
}

// approve godoc
// @Summary Approve a journal
// @Tags workflow
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /journals/{journalID}/approve [post]
func (h *workflowHandler) approve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	journal, err := h.workflowService.Approve(c.Request.Context(), actor, c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to approve journal")
		return
	}
	respondTransition(c, journal, http.StatusOK)
}

// reject godoc
// @Summary Reject a journal
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Param   body body dto.RejectJournalRequest true "Rejection reason"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} dto.ErrorResponse "Reason missing"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /journals/{journalID}/reject [post]
func (h *workflowHandler) reject(c *gin.Context) {
	var req dto.RejectJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	journal, err := h.workflowService.Reject(c.Request.Context(), actor, c.Param("journalID"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject journal")
		return
	}
	respondTransition(c, journal, http.StatusOK)
}

// returnToDraft godoc
// @Summary Return a journal to draft
// @Tags workflow
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /journals/{journalID}/return-to-draft [post]
func (h *workflowHandler) returnToDraft(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	journal, err := h.workflowService.ReturnToDraft(c.Request.Context(), actor, c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to return journal to draft")
		return
	}
	respondTransition(c, journal, http.StatusOK)
}

// post godoc
// @Summary Post a journal
// @Description Validates and posts a stored journal to the general ledger
// @Tags workflow
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Param   Idempotency-Key header string false "Idempotency key"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Invalid transition or posting conflict"
// @Failure 422 {object} dto.ErrorResponse "Period closed, imbalanced or rule violation"
// @Security BearerAuth
// @Router /journals/{journalID}/post [post]
func (h *workflowHandler) post(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader(idempotencyKeyHeader))
	journal, err := h.workflowService.Post(c.Request.Context(), actor, c.Param("journalID"), key)
	if err != nil {
		respondError(c, err, "Failed to post journal")
		return
	}
	respondTransition(c, journal, http.StatusOK)
}

// reverse godoc
// @Summary Reverse a posted journal
// @Description Posts the equal-and-opposite journal and returns it
// @Tags workflow
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse
// @Failure 409 {object} dto.ErrorResponse "Reversal not allowed or already exists"
// @Failure 422 {object} dto.ErrorResponse "Period closed"
// @Security BearerAuth
// @Router /journals/{journalID}/reverse [post]
func (h *workflowHandler) reverse(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	reversal, err := h.workflowService.Reverse(c.Request.Context(), actor, c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to reverse journal")
		return
	}
	respondTransition(c, reversal, http.StatusCreated)
}

// transition godoc
// @Summary Move a journal to a target status
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Param   Idempotency-Key header string false "Idempotency key (POSTED only)"
// @Param   body body dto.TransitionRequest true "Target status"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /journals/{journalID}/transition [post]
func (h *workflowHandler) transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	opts := portssvc.TransitionOptions{
		Reason:         req.Reason,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyKeyHeader)),
	}
	journal, err := h.workflowService.Transition(c.Request.Context(), actor, c.Param("journalID"), req.Status, opts)
	if err != nil {
		respondError(c, err, "Failed to change journal status")
		return
	}
	respondTransition(c, journal, http.StatusOK)
}
