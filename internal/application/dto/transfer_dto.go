package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferLineRequest línea de traslado; las ubicaciones se pueden asignar después.
type TransferLineRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string                `json:"to_warehouse_id" validate:"required,nefield=FromWarehouseID"`
	Note            string                `json:"note,omitempty" validate:"max=500"`
	Lines           []TransferLineRequest `json:"lines" validate:"omitempty,dive"`
}

// SetLineLocationsRequest body para PUT /api/transfers/:id/lines/:lineId/locations.
// Solo se cambian los campos presentes.
type SetLineLocationsRequest struct {
	FromLocationID *string `json:"from_location_id,omitempty"`
	ToLocationID   *string `json:"to_location_id,omitempty"`
}

// LineReceiptRequest cantidad recibida de una línea.
type LineReceiptRequest struct {
	LineID   string          `json:"line_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceivePartialRequest body para POST /api/transfers/:id/receive-partial.
type ReceivePartialRequest struct {
	Lines []LineReceiptRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransferLineResponse línea en la respuesta, con lo recibido hasta ahora.
type TransferLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ReceivedQty    decimal.Decimal `json:"received_quantity"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID              string                 `json:"id"`
	OrgID           string                 `json:"org_id"`
	FromWarehouseID string                 `json:"from_warehouse_id"`
	ToWarehouseID   string                 `json:"to_warehouse_id"`
	Status          string                 `json:"status"`
	Note            string                 `json:"note,omitempty"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
	TotalQuantity   decimal.Decimal        `json:"total_quantity"`
	Lines           []TransferLineResponse `json:"lines"`
}

// ListTransfersRequest filtros de GET /api/transfers. WarehouseID coincide con origen o destino.
type ListTransfersRequest struct {
	WarehouseID string `query:"warehouse_id"`
	Status      string `query:"status"`
	PageRequest
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
