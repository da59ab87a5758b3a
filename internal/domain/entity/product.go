package entity

import "time"

// Product producto o SKU del inventario (multi-bodega). El costo promedio no vive aquí:
// se mantiene por (producto, ubicación) en StockBalance.
type Product struct {
	ID          string
	OrgID       string
	SKU         string // código único por organización
	Name        string
	UnitMeasure string
	CostMethod  CostMethod
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
