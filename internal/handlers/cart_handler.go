package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique-pos/internal/engine"
)

// cartState is what the register screen re-renders from after every
// cart mutation.
type cartState struct {
	Lines             []engine.Line `json:"lines"`
	Subtotal          float64       `json:"subtotal"`
	OrderDiscount     float64       `json:"order_discount"`
	Total             float64       `json:"total"`
	SuggestedTendered float64       `json:"suggested_tendered"`
}

func (h *Handler) cartSnapshot() cartState {
	return cartState{
		Lines:             h.engine.Lines(),
		Subtotal:          h.engine.Subtotal(),
		OrderDiscount:     h.engine.OrderDiscount(),
		Total:             h.engine.OrderTotal(),
		SuggestedTendered: h.engine.SuggestedTendered(),
	}
}

// --- GET: the current cart ---
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// --- POST: add a product (or bump its line by one) ---
func (h *Handler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID string  `json:"product_id" binding:"required"`
		Discount  float64 `json:"discount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	if _, err := h.engine.AddOrIncrement(c.Request.Context(), input.ProductID, input.Discount); err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// --- PUT: overwrite a line's quantity/discount ---
func (h *Handler) UpdateCartLine(c *gin.Context) {
	var input struct {
		Quantity int     `json:"quantity"`
		Discount float64 `json:"discount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if _, err := h.engine.UpdateLine(c.Request.Context(), c.Param("id"), input.Quantity, input.Discount); err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// --- DELETE: remove a line (absent line is a no-op) ---
func (h *Handler) RemoveCartLine(c *gin.Context) {
	h.engine.RemoveLine(c.Param("id"))
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// --- PUT: order-level parameters ---
func (h *Handler) SetCartParams(c *gin.Context) {
	var input struct {
		OrderDiscount *float64 `json:"order_discount"`
		Tendered      *float64 `json:"tendered"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.OrderDiscount != nil {
		h.engine.SetOrderDiscount(*input.OrderDiscount)
	}
	if input.Tendered != nil {
		h.engine.SetTendered(*input.Tendered)
	}
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// --- DELETE: clear the whole cart ---
func (h *Handler) ClearCart(c *gin.Context) {
	h.engine.Clear()
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// --- POST: checkout ---
func (h *Handler) Checkout(c *gin.Context) {
	var req engine.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Tendered == 0 {
		req.Tendered = h.engine.Tendered()
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}

	sale, err := h.engine.Commit(c.Request.Context(), req)
	if err != nil {
		c.JSON(engineStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale successful!",
		"sale":    sale,
	})
}
