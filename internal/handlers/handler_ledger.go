package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves read models over posted history.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
}

func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvc) {
	h := &ledgerHandler{ledgerService: ls}

	accounts := rg.Group("/accounts/:accountID")
	{
		accounts.GET("/balance", h.getAccountBalance)
		accounts.GET("/entries", h.listLedgerEntries)
		accounts.GET("/verify", h.verifyAccountChain)
	}
	rg.GET("/ledger/verify", h.verifyOrganization)
	rg.GET("/reports/trial-balance", h.trialBalance)
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the stored balance (debit-positive) and its natural-sign rendering
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *ledgerHandler) getAccountBalance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), actor, c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to get account balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// listLedgerEntries godoc
// @Summary List an account's ledger entries
// @Description Pages general ledger entries newest first
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size (1-100)" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/entries [get]
func (h *ledgerHandler) listLedgerEntries(c *gin.Context) {
	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entries, next, err := h.ledgerService.ListLedgerEntries(c.Request.Context(), actor, c.Param("accountID"), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerEntriesResponse(entries, next))
}

// verifyAccountChain godoc
// @Summary Verify an account's balance chain
// @Description Replays the account's entries from zero and reports every break
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} domain.ChainVerification
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/verify [get]
func (h *ledgerHandler) verifyAccountChain(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, err := h.ledgerService.VerifyAccountChain(c.Request.Context(), actor, c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to verify account")
		return
	}
	if !result.Reconciles() {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Ledger chain does not reconcile",
			slog.String("account_id", result.AccountID), slog.Int("breaks", len(result.Breaks)))
	}
	c.JSON(http.StatusOK, result)
}

// verifyOrganization godoc
// @Summary Verify every account's balance chain
// @Tags ledger
// @Produce  json
// @Success 200 {array} domain.ChainVerification
// @Security BearerAuth
// @Router /ledger/verify [get]
func (h *ledgerHandler) verifyOrganization(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	results, err := h.ledgerService.VerifyOrganization(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to verify ledger")
		return
	}
	c.JSON(http.StatusOK, results)
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account debit and credit columns from current balances
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.TrialBalanceResponse
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *ledgerHandler) trialBalance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
