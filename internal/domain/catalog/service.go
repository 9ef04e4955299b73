// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Manufacturer string          `json:"manufacturer"`
	CategoryID   *uint           `json:"category_id"`
}

// CreateWarehouseRequest represents warehouse creation data
type CreateWarehouseRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateSupplierRequest represents supplier creation data
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}

	product := &Product{
		Name:         name,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Manufacturer: req.Manufacturer,
		CategoryID:   req.CategoryID,
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// CreateWarehouse creates a new warehouse
func (s *Service) CreateWarehouse(ctx context.Context, req *CreateWarehouseRequest) (*Warehouse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("warehouse name is required")
	}

	warehouse := &Warehouse{
		Name:    name,
		Address: req.Address,
	}

	if err := s.db.WithContext(ctx).Create(warehouse).Error; err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}

	return warehouse, nil
}

// CreateSupplier creates a new supplier
func (s *Service) CreateSupplier(ctx context.Context, req *CreateSupplierRequest) (*Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	supplier := &Supplier{
		Name:        name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
	}

	if err := s.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return supplier, nil
}

// ListProducts retrieves all products with their categories
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Preload("Category").Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// ListWarehouses retrieves all warehouses
func (s *Service) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	var warehouses []Warehouse
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&warehouses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve warehouses: %w", err)
	}
	return warehouses, nil
}

// ListSuppliers retrieves all suppliers
func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	var suppliers []Supplier
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve suppliers: %w", err)
	}
	return suppliers, nil
}
