package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_txn_processor/internal/core/ports/services"
	"github.com/SscSPs/ledger_txn_processor/internal/dto"
	"github.com/SscSPs/ledger_txn_processor/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fraudCaseHandler struct {
	fraudCaseService portssvc.FraudCaseReaderSvc
}

func newFraudCaseHandler(fs portssvc.FraudCaseReaderSvc) *fraudCaseHandler {
	return &fraudCaseHandler{fraudCaseService: fs}
}

// registerFraudCaseRoutes registers the fraud review routes under an account.
func registerFraudCaseRoutes(rg *gin.RouterGroup, fraudCaseService portssvc.FraudCaseReaderSvc) {
	h := newFraudCaseHandler(fraudCaseService)
	rg.GET("/accounts/:accountID/fraud-cases", h.listFraudCases)
}

// listFraudCases godoc
// @Summary List fraud cases of an account
// @Description Retrieves the account's fraud cases, newest first, using token-based pagination
// @Tags fraud-cases
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListFraudCasesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list fraud cases"
// @Security BearerAuth
// @Router /accounts/{accountID}/fraud-cases [get]
func (h *fraudCaseHandler) listFraudCases(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	var params dto.ListFraudCasesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.fraudCaseService.ListFraudCasesByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list fraud cases")
		return
	}

	c.JSON(http.StatusOK, resp)
}
