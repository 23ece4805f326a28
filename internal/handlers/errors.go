package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForKind maps ledger failure kinds onto HTTP statuses.
var statusForKind = map[apperrors.Kind]int{
	apperrors.KindPermissionDenied:            http.StatusForbidden,
	apperrors.KindInvalidStatusTransition:     http.StatusConflict,
	apperrors.KindJournalLocked:               http.StatusConflict,
	apperrors.KindReversalNotAllowed:          http.StatusConflict,
	apperrors.KindReversalAlreadyExists:       http.StatusConflict,
	apperrors.KindPostingConflict:             http.StatusConflict,
	apperrors.KindInvalidJournalLine:          http.StatusBadRequest,
	apperrors.KindInvalidAmountPrecision:      http.StatusBadRequest,
	apperrors.KindMissingDimension:            http.StatusBadRequest,
	apperrors.KindPeriodClosed:                http.StatusUnprocessableEntity,
	apperrors.KindImbalancedJournal:           http.StatusUnprocessableEntity,
	apperrors.KindVoucherTypeValidationFailed: http.StatusUnprocessableEntity,
	apperrors.KindAccountTypeMismatch:         http.StatusUnprocessableEntity,
	apperrors.KindExchangeRateNotFound:        http.StatusUnprocessableEntity,
}

// errorStatus picks the HTTP status for err. Unknown failures are 500.
func errorStatus(err error) int {
	if kind := apperrors.KindOf(err); kind != "" {
		if status, ok := statusForKind[kind]; ok {
			return status
		}
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorBody renders err for the client. Internal failures are not exposed verbatim.
func errorBody(err error, status int, fallback string) dto.ErrorResponse {
	if status == http.StatusInternalServerError {
		return dto.ErrorResponse{Error: fallback}
	}
	resp := dto.ErrorResponse{Error: err.Error()}
	var le *apperrors.LedgerError
	if errors.As(err, &le) {
		resp.Kind = string(le.Kind)
		resp.JournalID = le.JournalID
		resp.Line = le.LineNumber
		resp.Field = le.Field
		resp.Current = le.Current
		resp.Requested = le.Requested
	}
	return resp
}

// respondError logs err at a level matching its status and writes the error body.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, errorBody(err, status, fallback))
}

// bindError answers a request whose body or query failed binding.
func bindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// requireActor fetches the authenticated actor or answers 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
