package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalanceResponse saldo de un producto en una ubicación.
type StockBalanceResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Currency    string          `json:"currency"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockQuery filtros de GET /api/stock: product_id o warehouse_id (al menos uno).
type StockQuery struct {
	ProductID   string `query:"product_id"`
	WarehouseID string `query:"warehouse_id"`
	PageRequest
}

// StockListResponse saldos consultados.
type StockListResponse struct {
	Items []StockBalanceResponse `json:"items"`
}

// ValidateOutputRequest body para POST /api/stock/validate-output.
type ValidateOutputRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ValidateOutputResponse resultado de la validación especulativa.
type ValidateOutputResponse struct {
	IsValid           bool            `json:"is_valid"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	Errors            []string        `json:"errors"`
}
