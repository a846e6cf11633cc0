package handler

import (
	"net/http"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/middleware"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledger    service.StockLedger
	reconcile service.ReconcileService
}

func NewLedgerHandler(ledger service.StockLedger, reconcile service.ReconcileService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, reconcile: reconcile}
}

// Receive books goods into stock.
// POST /v1/receivings
func (h *LedgerHandler) Receive(c *gin.Context) {
	var req dto.ReceiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.Receive(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Sell books a sale at the catalog price.
// POST /v1/sales
func (h *LedgerHandler) Sell(c *gin.Context) {
	var req dto.SellRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.Sell(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /v1/products/:id/stock
func (h *LedgerHandler) CurrentStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	qty, err := h.ledger.CurrentStock(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{ProductID: id.String(), StockQuantity: qty})
}

// GET /v1/receivings
func (h *LedgerHandler) ListReceivings(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.ledger.ListReceivings(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/sales
func (h *LedgerHandler) ListSales(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.ledger.ListSales(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconcile checks stored stock against the ledger. Admin only.
// GET /v1/reconciliation
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	report, err := h.reconcile.Verify(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
