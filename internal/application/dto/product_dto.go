package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string `json:"sku" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	UnitMeasure string `json:"unit_measure" validate:"omitempty,max=20"` // UND por defecto
	CostMethod  string `json:"cost_method,omitempty"` // AVERAGE por defecto
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	UnitMeasure string    `json:"unit_measure"`
	CostMethod  string    `json:"cost_method"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
