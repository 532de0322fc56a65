package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for the posting engine.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	fxService     portssvc.FXSvcFacade
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade, fx portssvc.FXSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls, fxService: fx}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(orgs *gin.RouterGroup, rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, fxService portssvc.FXSvcFacade) {
	h := newTransactionHandler(ledgerService, fxService)

	orgTransactions := orgs.Group("/transactions")
	{
		orgTransactions.POST("", h.createTransaction)
		orgTransactions.GET("", h.listTransactions)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.POST("/:transactionID/post", h.postTransaction)
		transactions.POST("/:transactionID/reverse", h.reverseTransaction)
		transactions.GET("/:transactionID/fx-records", h.listFXRecords)
	}
}

// createTransaction handles POST /organizations/:orgID/transactions.
// The transaction is stored as DRAFT and does not touch balances.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create transaction",
		slog.String("organization_id", orgID),
		slog.String("transaction_type", string(req.TransactionType)),
		slog.Int("entry_count", len(req.Entries)),
	)

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID), slog.String("reference", txn.Reference()))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions handles GET /organizations/:orgID/transactions with token pagination.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}
	from, err := parseOptionalDate(params.From)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	to, err := parseOptionalDate(params.To)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	filter := domain.TransactionFilter{
		TransactionType: params.Type,
		Status:          params.Status,
		FromDate:        from,
		ToDate:          to,
	}
	txns, next, err := h.ledgerService.ListTransactions(c.Request.Context(), c.Param("orgID"), filter, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	resp := dto.ListTransactionsResponse{Transactions: make([]dto.TransactionResponse, len(txns)), NextToken: next}
	for i := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(&txns[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// postTransaction handles POST /transactions/:transactionID/post.
func (h *transactionHandler) postTransaction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.Post(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondError(c, err, "Failed to post transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction posted", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction handles POST /transactions/:transactionID/reverse.
// The response is the new reversing transaction.
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	var req dto.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	transactionID := c.Param("transactionID")

	reversal, err := h.ledgerService.Reverse(c.Request.Context(), transactionID, req.Reason, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID),
	)
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}

func (h *transactionHandler) listFXRecords(c *gin.Context) {
	records, err := h.fxService.ListFXRecords(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Failed to list FX records")
		return
	}
	if records == nil {
		records = []domain.FXRecord{}
	}
	c.JSON(http.StatusOK, records)
}
