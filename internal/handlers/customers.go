package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/leads"
	"real-estate-marketplace/internal/models"
)

// CustomerHandler handles customer roster requests
type CustomerHandler struct {
	customers *leads.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerSvc *leads.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customerSvc}
}

// CreateCustomer registers a customer directly
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var in leads.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Create(ActorFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// ListCustomers handles the customer table
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	f := database.CustomerFilters{
		Status:     c.Query("status"),
		AssignedTo: c.Query("assigned_to"),
		Search:     c.Query("search"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	customers, total, err := h.customers.List(ActorFrom(c), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"total":     total,
		"page":      f.Page,
		"count":     len(customers),
	})
}

// GetCustomer returns one customer
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customers.Get(ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles partial customer updates
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var in leads.CustomerUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Update(ActorFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdatePreferences merges standing search preferences
func (h *CustomerHandler) UpdatePreferences(c *gin.Context) {
	var in models.SearchPreferences
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.UpdatePreferences(ActorFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}
