package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/SscSPs/ledger_txn_processor/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for transaction requests and their processing.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	rg.POST("/transaction-requests", h.submitRequest)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/:transactionID/process", h.processTransaction)
		transactions.GET("/:transactionID", h.getTransaction)
	}
}

// submitRequest godoc
// @Summary Register a transaction request
// @Description Stores a pending deposit, withdrawal or transfer request for later processing
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   request body dto.SubmitTransactionRequest true "Transaction request"
// @Success 201 {object} dto.TransactionRequestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Transaction ID already used"
// @Failure 500 {object} dto.ErrorResponse "Failed to store request"
// @Security BearerAuth
// @Router /transaction-requests [post]
func (h *transactionHandler) submitRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("type", string(req.Type)),
	)
	logger.Info("Received transaction request")

	stored, err := h.transactionService.SubmitRequest(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondWithError(c, logger, err, "Failed to store transaction request")
		return
	}

	logger.Info("Transaction request stored", slog.String("transaction_id", stored.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionRequestResponse(stored))
}

// processTransaction godoc
// @Summary Process a transaction
// @Description Applies a pending transaction request to the ledger in a single atomic unit of work
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionOutcomeResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request data"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Request or account not found"
// @Failure 409 {object} dto.ErrorResponse "Transaction already processed"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 423 {object} dto.ErrorResponse "Account not active"
// @Failure 503 {object} dto.ErrorResponse "Account busy, retry later"
// @Failure 500 {object} dto.ErrorResponse "Processing failed"
// @Security BearerAuth
// @Router /transactions/{transactionID}/process [post]
func (h *transactionHandler) processTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))
	logger.Info("Received request to process transaction")

	outcome, err := h.transactionService.ProcessTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to process transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionOutcomeResponse(outcome))
}

// getTransaction godoc
// @Summary Get a processed transaction
// @Description Retrieves the committed outcome of a transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionOutcomeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Transaction not processed"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))

	outcome, err := h.transactionService.GetOutcome(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionOutcomeResponse(outcome))
}
