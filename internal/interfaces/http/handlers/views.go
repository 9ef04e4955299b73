// internal/interfaces/http/handlers/views.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-copilot/internal/config"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/purchase"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"gorm.io/gorm"
)

// ViewHandler exposes the read-only inventory projections directly over
// HTTP, bypassing the command engine for UIs that want plain lists.
type ViewHandler struct {
	catalog *catalog.Service
	ledger  *stock.Ledger
	orders  *purchase.Service
	config  *config.Config
}

// NewViewHandler creates a new view handler
func NewViewHandler(db *gorm.DB, cfg *config.Config) *ViewHandler {
	resolver := catalog.NewResolver(db)
	ledger := stock.NewLedger(db)

	return &ViewHandler{
		catalog: catalog.NewService(db),
		ledger:  ledger,
		orders:  purchase.NewService(db, resolver, ledger),
		config:  cfg,
	}
}

// GetProducts handles GET /products
func (h *ViewHandler) GetProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetWarehouses handles GET /warehouses
func (h *ViewHandler) GetWarehouses(c *gin.Context) {
	warehouses, err := h.catalog.ListWarehouses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve warehouses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouses retrieved successfully",
		"data":    warehouses,
	})
}

// GetWarehouseProducts handles GET /warehouses/:id/products
func (h *ViewHandler) GetWarehouseProducts(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid warehouse id",
		})
		return
	}

	rows, err := h.ledger.ProductsInWarehouse(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve warehouse products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Warehouse products retrieved successfully",
		"data":    rows,
	})
}

// GetSuppliers handles GET /suppliers
func (h *ViewHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.catalog.ListSuppliers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve suppliers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Suppliers retrieved successfully",
		"data":    suppliers,
	})
}

// GetOrders handles GET /orders
func (h *ViewHandler) GetOrders(c *gin.Context) {
	var (
		orders []purchase.PurchaseOrder
		err    error
	)
	if c.Query("open") == "true" {
		orders, err = h.orders.OpenOrders(c.Request.Context())
	} else {
		orders, err = h.orders.AllOrders(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetStock handles GET /stock
func (h *ViewHandler) GetStock(c *gin.Context) {
	var productID, warehouseID *uint
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid product_id",
			})
			return
		}
		v := uint(id)
		productID = &v
	}
	if raw := c.Query("warehouse_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid warehouse_id",
			})
			return
		}
		v := uint(id)
		warehouseID = &v
	}

	rows, err := h.ledger.StockLevels(c.Request.Context(), productID, warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock levels",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock levels retrieved successfully",
		"data":    rows,
	})
}

// GetTransactions handles GET /transactions
func (h *ViewHandler) GetTransactions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	rows, err := h.ledger.RecentTransactions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve transactions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transactions retrieved successfully",
		"data":    rows,
	})
}
