package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// movementHandler handles HTTP requests that record or list movements.
type movementHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	accountService portssvc.AccountReaderSvc
	defaultLimit   int
}

// newMovementHandler creates a new movementHandler.
func newMovementHandler(ls portssvc.LedgerSvcFacade, as portssvc.AccountReaderSvc, defaultLimit int) *movementHandler {
	return &movementHandler{
		ledgerService:  ls,
		accountService: as,
		defaultLimit:   defaultLimit,
	}
}

// registerMovementRoutes registers routes related to movements.
func registerMovementRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, accountService portssvc.AccountReaderSvc, defaultLimit int) {
	h := newMovementHandler(ledgerService, accountService, defaultLimit)

	movements := rg.Group("/movements")
	{
		movements.POST("/income", h.recordIncome)
		movements.POST("/expense", h.recordExpense)
		movements.POST("/transfer", h.recordTransfer)
		movements.GET("", h.listMovements)
		movements.GET("/recent", h.listRecentMovements)
		movements.GET("/session", h.sessionHistory)
	}
}

// recordIncome godoc
// @Summary Record an income
// @Tags movements
// @Accept json
// @Produce json
// @Param movement body dto.RecordMovementRequest true "Income details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /movements/income [post]
func (h *movementHandler) recordIncome(c *gin.Context) {
	h.recordSingle(c, false)
}

// recordExpense godoc
// @Summary Record an expense
// @Tags movements
// @Accept json
// @Produce json
// @Param movement body dto.RecordMovementRequest true "Expense details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /movements/expense [post]
func (h *movementHandler) recordExpense(c *gin.Context) {
	h.recordSingle(c, true)
}

func (h *movementHandler) recordSingle(c *gin.Context, expense bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for movement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", req.AccountID))

	if _, err := h.accountService.GetAccountByID(c.Request.Context(), req.AccountID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to retrieve account")
		return
	}

	record := h.ledgerService.RecordIncome
	if expense {
		record = h.ledgerService.RecordExpense
	}
	movement, err := record(c.Request.Context(), req.AccountID, req.Amount, req.Description, req.Category)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record movement")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// recordTransfer godoc
// @Summary Transfer between two accounts
// @Description The source account must belong to the caller. An empty description is filled in from both accounts.
// @Tags movements
// @Accept json
// @Produce json
// @Param transfer body dto.RecordTransferRequest true "Transfer details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /movements/transfer [post]
func (h *movementHandler) recordTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger = logger.With(
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("destination_account_id", req.DestinationAccountID))

	if _, err := h.accountService.GetAccountByID(c.Request.Context(), req.SourceAccountID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to retrieve account")
		return
	}

	movement, err := h.ledgerService.RecordTransfer(c.Request.Context(), req.SourceAccountID, req.DestinationAccountID, req.Amount, req.Description)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record transfer")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// listMovements godoc
// @Summary List movements page by page
// @Tags movements
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Security BearerAuth
// @Router /movements [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for movements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if params.Limit == 0 {
		params.Limit = h.defaultLimit
	}

	movements, nextToken, err := h.ledgerService.ListMovementsPage(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list movements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMovementsResponse(movements, nextToken))
}

func (h *movementHandler) listRecentMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	if params.Limit == 0 {
		params.Limit = h.defaultLimit
	}

	movements, err := h.ledgerService.ListRecentMovements(c.Request.Context(), userID, params.Limit)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list movements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMovementsResponse(movements, nil))
}

func (h *movementHandler) sessionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	movements, err := h.ledgerService.SessionHistory(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to read session history")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMovementsResponse(movements, nil))
}
