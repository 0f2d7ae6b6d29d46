package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boutique-pos/internal/models"
)

type expenseInput struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date"` // YYYY-MM-DD, defaults to today
	Description string  `json:"description"`
	SupplierID  string  `json:"supplier_id"`
}

func (h *Handler) GetExpenses(c *gin.Context) {
	expenses, err := h.store.Expenses(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *Handler) AddExpense(c *gin.Context) {
	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category and a positive amount are required"})
		return
	}

	date := time.Now()
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD format"})
			return
		}
		date = parsed
	}

	expense := models.Expense{
		ID:          uuid.NewString(),
		Category:    input.Category,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
		SupplierID:  input.SupplierID,
	}

	ctx := c.Request.Context()
	expenses, err := h.store.Expenses(ctx)
	if err != nil {
		h.storageError(c, err, "fetch expenses")
		return
	}
	expenses = append(expenses, expense)
	if err := h.store.PutExpenses(ctx, expenses); err != nil {
		h.storageError(c, err, "create expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	expenses, err := h.store.Expenses(ctx)
	if err != nil {
		h.storageError(c, err, "fetch expenses")
		return
	}
	for i := range expenses {
		if expenses[i].ID != id {
			continue
		}
		expenses = append(expenses[:i], expenses[i+1:]...)
		if err := h.store.PutExpenses(ctx, expenses); err != nil {
			h.storageError(c, err, "delete expense")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
}
