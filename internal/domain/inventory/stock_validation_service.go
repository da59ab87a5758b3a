package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// Mensajes devueltos en ValidationResult.Errors.
const (
	msgQuantityMustBePositive = "Quantity must be positive"
	msgProductNotFound        = "Product not found"
	msgProductInactive        = "Product is not active"
	msgWarehouseNotFound      = "Warehouse not found"
	msgWarehouseInactive      = "Warehouse is not active"
	msgLocationNotFound       = "Location not found"
	msgLocationInactive       = "Location is not active"
	msgLocationWrongWarehouse = "Location does not belong to warehouse"
)

// ValidationResult resultado de una validación de negocio.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// StockValidationResult resultado de validar stock para una salida.
type StockValidationResult struct {
	IsValid           bool                 `json:"is_valid"`
	AvailableQuantity valueobject.Quantity `json:"available_quantity"`
	RequestedQuantity valueobject.Quantity `json:"requested_quantity"`
	Errors            []string             `json:"errors"`
}

// StockValidationService compuerta de disponibilidad antes de contabilizar salidas.
// Nunca devuelve error: las fallas de negocio van en Errors con IsValid=false, para poder
// llamarse de forma especulativa. El resultado es una foto puntual; el caso de uso debe
// revalidar dentro de la transacción que contabiliza.
type StockValidationService struct{}

// NewStockValidationService construye el servicio.
func NewStockValidationService() *StockValidationService {
	return &StockValidationService{}
}

// ValidateStockForOutput parte de currentStock y reproduce los movimientos POSTED de
// pendingMovements que afectan a (productID, locationID): entradas suman, salidas restan.
// Los movimientos se reproducen en orden de contabilización sobre un acumulador con signo;
// la no negatividad solo se evalúa al final.
func (s *StockValidationService) ValidateStockForOutput(
	productID, locationID string,
	requestedQty valueobject.Quantity,
	currentStock valueobject.Quantity,
	pendingMovements []*entity.Movement,
) StockValidationResult {
	precision := currentStock.Precision()
	if requestedQty.Precision() > precision {
		precision = requestedQty.Precision()
	}

	acc := currentStock.Value()
	for _, m := range postedInOrder(pendingMovements) {
		sign := decimal.NewFromInt(int64(m.Type().Sign()))
		for _, line := range m.LinesFor(productID, locationID) {
			acc = acc.Add(line.Quantity().Value().Mul(sign))
			if p := line.Quantity().Precision(); p > precision {
				precision = p
			}
		}
	}

	available := valueobject.ZeroQuantity(precision)
	if !acc.IsNegative() {
		if q, err := valueobject.NewQuantity(acc, precision); err == nil {
			available = q
		}
	}

	result := StockValidationResult{
		AvailableQuantity: available,
		RequestedQuantity: requestedQty,
		Errors:            []string{},
	}
	if available.LessThan(requestedQty) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Insufficient stock. Available: %s, Requested: %s", available, requestedQty))
	}
	if !requestedQty.IsPositive() {
		result.Errors = append(result.Errors, msgQuantityMustBePositive)
	}
	result.IsValid = len(result.Errors) == 0
	return result
}

// ValidateProductForMovement el producto debe existir y estar activo.
func (s *StockValidationService) ValidateProductForMovement(product *entity.Product) ValidationResult {
	switch {
	case product == nil:
		return invalid(msgProductNotFound)
	case !product.IsActive:
		return invalid(msgProductInactive)
	}
	return valid()
}

// ValidateWarehouseForMovement la bodega debe existir y estar activa.
func (s *StockValidationService) ValidateWarehouseForMovement(warehouse *entity.Warehouse) ValidationResult {
	switch {
	case warehouse == nil:
		return invalid(msgWarehouseNotFound)
	case !warehouse.IsActive:
		return invalid(msgWarehouseInactive)
	}
	return valid()
}

// ValidateLocationForMovement la ubicación debe existir, estar activa y, si se indica
// warehouseID, pertenecer a esa bodega.
func (s *StockValidationService) ValidateLocationForMovement(location *entity.Location, warehouseID string) ValidationResult {
	switch {
	case location == nil:
		return invalid(msgLocationNotFound)
	case !location.IsActive:
		return invalid(msgLocationInactive)
	case warehouseID != "" && location.WarehouseID != warehouseID:
		return invalid(msgLocationWrongWarehouse)
	}
	return valid()
}

func postedInOrder(movements []*entity.Movement) []*entity.Movement {
	posted := make([]*entity.Movement, 0, len(movements))
	for _, m := range movements {
		if m != nil && m.Status() == entity.MovementStatusPosted {
			posted = append(posted, m)
		}
	}
	sort.SliceStable(posted, func(i, j int) bool {
		return postedAtOf(posted[i]).Before(postedAtOf(posted[j]))
	})
	return posted
}

func postedAtOf(m *entity.Movement) time.Time {
	ts, _ := m.PostedAt()
	return ts
}

func valid() ValidationResult { return ValidationResult{IsValid: true, Errors: []string{}} }

func invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, Errors: []string{msg}}
}
