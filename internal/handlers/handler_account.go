package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(orgs *gin.RouterGroup, rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	orgAccounts := orgs.Group("/accounts")
	{
		orgAccounts.POST("", h.createAccount)
		orgAccounts.GET("", h.listAccounts)
		orgAccounts.GET("/by-code/:code", h.getAccountByCode)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID", h.getAccount)
		accounts.DELETE("/:accountID", h.deactivateAccount)
	}
}

// createAccount handles POST /organizations/:orgID/accounts.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("organization_id", orgID), slog.String("code", req.Code))
	account, err := h.accountService.CreateAccount(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountByCode(c *gin.Context) {
	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("orgID"), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts handles GET /organizations/:orgID/accounts?limit=&offset=.
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("orgID"), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// deactivateAccount handles DELETE /accounts/:accountID. Accounts are never removed.
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	accountID := c.Param("accountID")
	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
