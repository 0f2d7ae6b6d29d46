package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boutique-pos/internal/models"
)

// --- GET: List all products ---
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.store.Products(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var newProduct models.Product
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if newProduct.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}
	if newProduct.Stock < 0 || newProduct.BuyingPrice < 0 || newProduct.SellingPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock and prices must not be negative"})
		return
	}
	if newProduct.ID == "" {
		newProduct.ID = uuid.NewString()
	}

	ctx := c.Request.Context()
	products, err := h.store.Products(ctx)
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}
	products = append(products, newProduct)
	if err := h.store.PutProducts(ctx, products); err != nil {
		h.storageError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, newProduct)
}

// --- PUT: Update a product ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Stock < 0 || input.BuyingPrice < 0 || input.SellingPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock and prices must not be negative"})
		return
	}

	ctx := c.Request.Context()
	products, err := h.store.Products(ctx)
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}
		input.ID = id
		products[i] = input
		if err := h.store.PutProducts(ctx, products); err != nil {
			h.storageError(c, err, "update product")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": input})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
}

// --- DELETE: Remove a product ---
// Deletion does not cascade to historical sales: their items keep the
// dangling id and their name snapshot stays displayable.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	products, err := h.store.Products(ctx)
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}
		products = append(products[:i], products[i+1:]...)
		if err := h.store.PutProducts(ctx, products); err != nil {
			h.storageError(c, err, "delete product")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
}

// --- GET: Lookup by barcode (the scanner path at the register) ---
func (h *Handler) ScanProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	products, err := h.store.Products(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch products")
		return
	}
	for _, p := range products {
		if p.Barcode != "" && p.Barcode == barcode {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "No product with that barcode"})
}

// --- UPLOAD: Product image files ---
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Unique filename, e.g. "1677890123_dress.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
