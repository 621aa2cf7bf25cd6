package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/gin-gonic/gin"
)

// UpdatePriceRequest represents the request body for changing a product's price
type UpdatePriceRequest struct {
	Price *float64 `json:"price" binding:"required,gte=0"`
}

// CatalogueController serves products and employees
type CatalogueController struct {
	products  *services.ProductService
	employees *services.EmployeeService
}

// NewCatalogueController creates a catalogue controller
func NewCatalogueController(products *services.ProductService, employees *services.EmployeeService) *CatalogueController {
	return &CatalogueController{products: products, employees: employees}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogueController) ListProducts(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	products, err := h.products.List(c.Request.Context(), scope)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// CreateProduct handles POST /api/v1/products (admin only)
func (h *CatalogueController) CreateProduct(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req services.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}
	respondOK(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/products/:id (admin only)
func (h *CatalogueController) UpdateProduct(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	product, err := h.products.UpdatePrice(c.Request.Context(), scope, c.Param("id"), *req.Price)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}
	respondOK(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/:id (admin only). The product is deactivated.
func (h *CatalogueController) DeleteProduct(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	if err := h.products.Deactivate(c.Request.Context(), scope, c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Success"})
}

// ListEmployees handles GET /api/v1/employees
func (h *CatalogueController) ListEmployees(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	employees, err := h.employees.List(c.Request.Context(), scope)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve employees")
		return
	}
	respondOK(c, http.StatusOK, employees)
}

// CreateEmployee handles POST /api/v1/employees (admin only)
func (h *CatalogueController) CreateEmployee(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req services.CreateEmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	employee, err := h.employees.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create employee")
		return
	}
	respondOK(c, http.StatusCreated, employee)
}

// DeleteEmployee handles DELETE /api/v1/employees/:id (admin only)
func (h *CatalogueController) DeleteEmployee(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	if err := h.employees.Delete(c.Request.Context(), scope, c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete employee")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Deleted"})
}
