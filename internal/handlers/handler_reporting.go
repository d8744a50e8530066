package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to category reports
type reportingHandler struct {
	reportingService      portssvc.ReportingService
	reconciliationService portssvc.ReconciliationService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, recon portssvc.ReconciliationService) *reportingHandler {
	return &reportingHandler{
		reportingService:      rs,
		reconciliationService: recon,
	}
}

// registerReportingRoutes registers report and reconciliation routes
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, reconciliationService portssvc.ReconciliationService) {
	h := newReportingHandler(reportingService, reconciliationService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/categories", h.getCategoryBreakdown)
		reportingGroup.GET("/summary", h.getCategoryReport)
	}
	rg.GET("/admin/reconcile", h.reconcile)
}

// getCategoryBreakdown godoc
// @Summary Totals and shares per category
// @Tags reports
// @Produce json
// @Param kind query string false "EXPENSE or INCOME" default(EXPENSE)
// @Success 200 {object} dto.CategoryBreakdownResponse
// @Failure 400 {object} map[string]string "Invalid kind"
// @Security BearerAuth
// @Router /reports/categories [get]
func (h *reportingHandler) getCategoryBreakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	kind := domain.MovementKind(strings.ToUpper(c.DefaultQuery("kind", string(domain.Expense))))
	if kind != domain.Expense && kind != domain.Income {
		respondWithError(c, logger, fmt.Errorf("%w: kind must be EXPENSE or INCOME", apperrors.ErrValidation), "Invalid kind")
		return
	}

	breakdown, err := h.reportingService.CategoryBreakdown(c.Request.Context(), userID, kind)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate category report")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryBreakdownResponse(breakdown))
}

// getCategoryReport godoc
// @Summary Income and expense breakdown with the net balance
// @Tags reports
// @Produce json
// @Success 200 {object} dto.CategoryReportResponse
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getCategoryReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.CategoryReport(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate category report")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryReportResponse(report))
}

func (h *reportingHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	discrepancies, err := h.reconciliationService.ReconcileOwner(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reconcile accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(discrepancies))
}
