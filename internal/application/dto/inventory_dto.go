package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea de un movimiento. UnitCost es obligatorio en IN y ADJUST_IN.
type MovementLineRequest struct {
	ProductID  string           `json:"product_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Currency   string           `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// CreateMovementRequest body para POST /api/movements. El movimiento nace en DRAFT.
type CreateMovementRequest struct {
	WarehouseID string                `json:"warehouse_id" validate:"required"`
	Type        string                `json:"type" validate:"required"`
	Reference   string                `json:"reference,omitempty"`
	Reason      string                `json:"reason,omitempty"`
	Note        string                `json:"note,omitempty" validate:"max=500"`
	Lines       []MovementLineRequest `json:"lines" validate:"omitempty,dive"`
}

// ListMovementsRequest filtros de GET /api/movements.
type ListMovementsRequest struct {
	WarehouseID string     `query:"warehouse_id"`
	ProductID   string     `query:"product_id"`
	Type        string     `query:"type"`
	Status      string     `query:"status"`
	Reference   string     `query:"reference"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
	PageRequest
}

// MovementLineResponse línea en la respuesta.
type MovementLineResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	LocationID string           `json:"location_id"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost  *decimal.Decimal `json:"total_cost,omitempty"`
	Currency   string           `json:"currency"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string                 `json:"id"`
	OrgID         string                 `json:"org_id"`
	Type          string                 `json:"type"`
	Status        string                 `json:"status"`
	WarehouseID   string                 `json:"warehouse_id"`
	Reference     string                 `json:"reference,omitempty"`
	Reason        string                 `json:"reason,omitempty"`
	Note          string                 `json:"note,omitempty"`
	PostedAt      *time.Time             `json:"posted_at,omitempty"`
	CreatedBy     string                 `json:"created_by"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Version       int                    `json:"version"`
	TotalQuantity decimal.Decimal        `json:"total_quantity"`
	TotalCost     *decimal.Decimal       `json:"total_cost,omitempty"`
	Lines         []MovementLineResponse `json:"lines"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
