package entity

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// StockBalance saldo materializado de un producto en una ubicación: cantidad y costo promedio ponderado.
// Lo actualiza el caso de uso al contabilizar o anular movimientos.
type StockBalance struct {
	OrgID       string
	ProductID   string
	WarehouseID string
	LocationID  string
	Quantity    valueobject.Quantity
	AverageCost valueobject.Money
	UpdatedAt   time.Time
}
