package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fxHandler struct {
	fxService portssvc.FXSvcFacade
}

func newFXHandler(fx portssvc.FXSvcFacade) *fxHandler {
	return &fxHandler{fxService: fx}
}

// registerFXRoutes registers the realized and unrealized gain/loss routes.
func registerFXRoutes(orgs *gin.RouterGroup, fxService portssvc.FXSvcFacade) {
	h := newFXHandler(fxService)

	fx := orgs.Group("/fx")
	{
		fx.POST("/realized/calculate", h.calculateRealized)
		fx.POST("/realized/record", h.recordRealized)
		fx.GET("/unrealized", h.previewUnrealized)
		fx.POST("/unrealized/record", h.recordUnrealized)
	}
}

// calculateRealized previews the gain or loss of a payment and the line it would add.
func (h *fxHandler) calculateRealized(c *gin.Context) {
	var req dto.RealizedFXRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}

	calc, err := h.fxService.CalculateRealizedFX(c.Request.Context(), c.Param("orgID"), req)
	if err != nil {
		respondError(c, err, "Failed to calculate realized FX")
		return
	}
	entry, err := h.fxService.RealizedFXEntry(c.Request.Context(), *calc)
	if err != nil {
		respondError(c, err, "Failed to calculate realized FX")
		return
	}
	c.JSON(http.StatusOK, dto.RealizedFXResponse{Calculation: *calc, Entry: entry})
}

func (h *fxHandler) recordRealized(c *gin.Context) {
	var req dto.RecordRealizedFXRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	record, err := h.fxService.RecordRealizedFX(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record realized FX")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Realized FX recorded",
		slog.String("fx_id", record.FXID),
		slog.String("document_id", record.DocumentID),
		slog.String("gain_loss", record.GainLossAmount.String()),
	)
	c.JSON(http.StatusCreated, record)
}

// previewUnrealized handles GET /organizations/:orgID/fx/unrealized?asOf=YYYY-MM-DD.
// Nothing is written.
func (h *fxHandler) previewUnrealized(c *gin.Context) {
	var params dto.UnrealizedFXParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}
	asOf, err := time.Parse(dateLayout, params.AsOf)
	if err != nil {
		badRequest(c, "asOf", err)
		return
	}

	calcs, err := h.fxService.CalculateUnrealizedFX(c.Request.Context(), c.Param("orgID"), asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate unrealized FX")
		return
	}
	if calcs == nil {
		calcs = []domain.FXCalculation{}
	}
	c.JSON(http.StatusOK, calcs)
}

// recordUnrealized posts the revaluation for a date. Repeated calls post again.
func (h *fxHandler) recordUnrealized(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordUnrealizedFXRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.fxService.RecordUnrealizedFX(c.Request.Context(), c.Param("orgID"), req.AsOfDate, userID)
	if err != nil {
		respondError(c, err, "Failed to record unrealized FX")
		return
	}

	logger.Info("Revaluation recorded",
		slog.String("transaction_id", result.TransactionID),
		slog.Int("record_count", len(result.Records)),
		slog.String("total_gain", result.TotalGain.String()),
		slog.String("total_loss", result.TotalLoss.String()),
	)
	status := http.StatusCreated
	if result.TransactionID == "" {
		status = http.StatusOK
	}
	c.JSON(status, result)
}
