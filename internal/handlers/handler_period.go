package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.PeriodGateSvc
}

func registerPeriodRoutes(rg *gin.RouterGroup, ps portssvc.PeriodGateSvc) {
	h := &periodHandler{periodService: ps}

	periods := rg.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/current", h.currentPeriod)
		periods.GET("/status", h.periodStatus)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Success 200 {array} dto.PeriodResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	periods, err := h.periodService.ListPeriods(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// currentPeriod godoc
// @Summary Get the open period covering today
// @Tags periods
// @Produce  json
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} dto.ErrorResponse "No open period covers today"
// @Security BearerAuth
// @Router /periods/current [get]
func (h *periodHandler) currentPeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	period, err := h.periodService.GetCurrent(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		respondError(c, err, "Failed to get current period")
		return
	}
	if period == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No open period covers today"})
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// periodStatus godoc
// @Summary Check whether a date is postable
// @Tags periods
// @Produce  json
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.PeriodOpenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Security BearerAuth
// @Router /periods/status [get]
func (h *periodHandler) periodStatus(c *gin.Context) {
	var q dto.PeriodStatusQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	open, err := h.periodService.IsOpen(c.Request.Context(), actor.OrganizationID, q.Date)
	if err != nil {
		respondError(c, err, "Failed to check period")
		return
	}
	c.JSON(http.StatusOK, dto.PeriodOpenResponse{Date: domain.DateOnly(q.Date), Open: open})
}

// closePeriod godoc
// @Summary Close an accounting period
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Failure 409 {object} dto.ErrorResponse "Period already closed"
// @Security BearerAuth
// @Router /periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	period, err := h.periodService.ClosePeriod(c.Request.Context(), actor, c.Param("periodID"))
	if err != nil {
		respondError(c, err, "Failed to close period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Period closed", slog.String("period_code", period.Code))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen a closed accounting period
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Period already open"
// @Security BearerAuth
// @Router /periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	period, err := h.periodService.ReopenPeriod(c.Request.Context(), actor, c.Param("periodID"))
	if err != nil {
		respondError(c, err, "Failed to reopen period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Period reopened", slog.String("period_code", period.Code))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
