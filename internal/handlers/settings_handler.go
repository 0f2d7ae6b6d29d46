package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique-pos/internal/models"
	"boutique-pos/internal/utils"
)

// Categories are an append-only ordered set: the UI adds new names but
// never renames or deletes (sales filters depend on old names staying
// around).

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch categories")
		return
	}
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
	}
	c.JSON(http.StatusOK, names)
}

func (h *Handler) AddCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	ctx := c.Request.Context()
	categories, err := h.store.Categories(ctx)
	if err != nil {
		h.storageError(c, err, "fetch categories")
		return
	}
	for _, cat := range categories {
		if cat.Name == input.Name {
			c.JSON(http.StatusOK, gin.H{"message": "Category already exists"})
			return
		}
	}
	categories = append(categories, models.Category{Name: input.Name, Position: len(categories)})
	if err := h.store.PutCategories(ctx, categories); err != nil {
		h.storageError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category added successfully"})
}

// Settings and company info are singletons overwritten wholesale on save.

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.store.Settings(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) SaveSettings(c *gin.Context) {
	var settings models.SystemSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if settings.CurrencyCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code is required"})
		return
	}
	if err := h.store.PutSettings(c.Request.Context(), settings); err != nil {
		h.storageError(c, err, "save settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": settings})
}

func (h *Handler) GetCompanyInfo(c *gin.Context) {
	info, err := h.store.CompanyInfo(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch company info")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) SaveCompanyInfo(c *gin.Context) {
	var info models.CompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil || info.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company name is required"})
		return
	}
	if err := h.store.PutCompanyInfo(c.Request.Context(), info); err != nil {
		h.storageError(c, err, "save company info")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company info saved", "company": info})
}

// --- GET: format an amount for display ---
// The core keeps unrounded decimals; this endpoint is where the UI gets
// the integer-rounded currency string.
func (h *Handler) FormatAmount(c *gin.Context) {
	var query struct {
		Amount float64 `form:"amount"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}
	settings, err := h.store.Settings(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"formatted": utils.FormatAmount(settings.CurrencyCode, query.Amount)})
}
