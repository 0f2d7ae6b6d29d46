package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boutique-pos/internal/models"
)

// Suppliers and customers share the same thin CRUD shape. They are
// deletable independently of anything that references them: products and
// expenses keep the id and degrade to a placeholder at display time.

func (h *Handler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.store.Suppliers(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) AddSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil || supplier.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supplier name is required"})
		return
	}
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}

	ctx := c.Request.Context()
	suppliers, err := h.store.Suppliers(ctx)
	if err != nil {
		h.storageError(c, err, "fetch suppliers")
		return
	}
	suppliers = append(suppliers, supplier)
	if err := h.store.PutSuppliers(ctx, suppliers); err != nil {
		h.storageError(c, err, "create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) UpdateSupplier(c *gin.Context) {
	id := c.Param("id")

	var input models.Supplier
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := c.Request.Context()
	suppliers, err := h.store.Suppliers(ctx)
	if err != nil {
		h.storageError(c, err, "fetch suppliers")
		return
	}
	for i := range suppliers {
		if suppliers[i].ID != id {
			continue
		}
		input.ID = id
		suppliers[i] = input
		if err := h.store.PutSuppliers(ctx, suppliers); err != nil {
			h.storageError(c, err, "update supplier")
			return
		}
		c.JSON(http.StatusOK, input)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
}

func (h *Handler) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	suppliers, err := h.store.Suppliers(ctx)
	if err != nil {
		h.storageError(c, err, "fetch suppliers")
		return
	}
	for i := range suppliers {
		if suppliers[i].ID != id {
			continue
		}
		suppliers = append(suppliers[:i], suppliers[i+1:]...)
		if err := h.store.PutSuppliers(ctx, suppliers); err != nil {
			h.storageError(c, err, "delete supplier")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
}

func (h *Handler) GetCustomers(c *gin.Context) {
	customers, err := h.store.Customers(c.Request.Context())
	if err != nil {
		h.storageError(c, err, "fetch customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) AddCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil || customer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}

	ctx := c.Request.Context()
	customers, err := h.store.Customers(ctx)
	if err != nil {
		h.storageError(c, err, "fetch customers")
		return
	}
	customers = append(customers, customer)
	if err := h.store.PutCustomers(ctx, customers); err != nil {
		h.storageError(c, err, "create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	var input models.Customer
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := c.Request.Context()
	customers, err := h.store.Customers(ctx)
	if err != nil {
		h.storageError(c, err, "fetch customers")
		return
	}
	for i := range customers {
		if customers[i].ID != id {
			continue
		}
		input.ID = id
		customers[i] = input
		if err := h.store.PutCustomers(ctx, customers); err != nil {
			h.storageError(c, err, "update customer")
			return
		}
		c.JSON(http.StatusOK, input)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	customers, err := h.store.Customers(ctx)
	if err != nil {
		h.storageError(c, err, "fetch customers")
		return
	}
	for i := range customers {
		if customers[i].ID != id {
			continue
		}
		customers = append(customers[:i], customers[i+1:]...)
		if err := h.store.PutCustomers(ctx, customers); err != nil {
			h.storageError(c, err, "delete customer")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
}
