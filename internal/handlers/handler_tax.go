package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/tax"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// registerTaxRoutes registers the stateless tax calculators.
func registerTaxRoutes(rg *gin.RouterGroup) {
	t := rg.Group("/tax")
	{
		t.POST("/calculate", calculateTax)
		t.POST("/line-item", calculateLineItem)
		t.POST("/toggle", toggleTaxMode)
	}
}

func calculateTax(c *gin.Context) {
	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	result, err := tax.CalculateTax(req.Amount, req.Rate, req.IsInclusive)
	if err != nil {
		respondError(c, err, "Failed to calculate tax")
		return
	}
	c.JSON(http.StatusOK, result)
}

func calculateLineItem(c *gin.Context) {
	var req dto.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	line, err := tax.CalculateLineItem(req.Quantity, req.UnitPrice, req.Rate, req.IsInclusive, req.Discount)
	if err != nil {
		respondError(c, err, "Failed to calculate line item")
		return
	}
	c.JSON(http.StatusOK, line)
}

// toggleTaxMode re-splits a total when a line switches between inclusive and exclusive.
func toggleTaxMode(c *gin.Context) {
	var req dto.ToggleTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	result, err := tax.RecalculateOnToggle(req.Total, req.Rate, req.TargetMode)
	if err != nil {
		respondError(c, err, "Failed to recalculate tax")
		return
	}
	c.JSON(http.StatusOK, result)
}
