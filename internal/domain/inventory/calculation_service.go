package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// CalculationService implementa la valoración de inventario por costo promedio ponderado (servicio de dominio).
// Sin estado: se puede compartir entre goroutines.
type CalculationService struct{}

// NewCalculationService construye el servicio.
func NewCalculationService() *CalculationService {
	return &CalculationService{}
}

// CalculateAverageCost recalcula el costo promedio móvil:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Debe aplicarse una vez por línea de entrada, en el orden cronológico de contabilización.
// Con cantidad de entrada cero devuelve el costo actual sin cambios.
func (s *CalculationService) CalculateAverageCost(
	currentQty valueobject.Quantity,
	currentAvgCost valueobject.Money,
	newQty valueobject.Quantity,
	newUnitCost valueobject.Money,
) (valueobject.Money, error) {
	if newQty.IsZero() {
		return currentAvgCost, nil
	}
	if currentAvgCost.Currency() != newUnitCost.Currency() {
		return valueobject.Money{}, fmt.Errorf("%w: costo actual en %s, entrada en %s",
			domain.ErrCurrencyMismatch, currentAvgCost.Currency(), newUnitCost.Currency())
	}
	totalValue := currentAvgCost.Amount().Mul(currentQty.Value()).
		Add(newUnitCost.Amount().Mul(newQty.Value()))
	totalQty := currentQty.Value().Add(newQty.Value())
	return valueobject.NewMoney(totalValue.Div(totalQty), currentAvgCost.Currency(), currentAvgCost.Precision())
}

// BalanceEntry cantidad y costo de un movimiento; el signo lo define Type (entrada suma, salida resta).
type BalanceEntry struct {
	Type      entity.MovementType
	Quantity  valueobject.Quantity
	TotalCost *valueobject.Money
}

// Balance saldo neto de cantidad y costo.
type Balance struct {
	Quantity  valueobject.Quantity
	TotalCost valueobject.Money
}

// CalculateBalance acumula las entradas con signo según su tipo de movimiento.
// Falla con ErrInvalidOperation si el saldo neto de cantidad o de costo queda negativo.
func (s *CalculationService) CalculateBalance(currency string, entries []BalanceEntry) (Balance, error) {
	qtyPrecision := int32(0)
	moneyPrecision := valueobject.DefaultMoneyPrecision
	qty := decimal.Zero
	cost := decimal.Zero

	for i, e := range entries {
		sign := e.Type.Sign()
		if sign == 0 {
			return Balance{}, fmt.Errorf("%w: entrada %d con tipo %q", domain.ErrInvalidInput, i, e.Type)
		}
		if p := e.Quantity.Precision(); p > qtyPrecision {
			qtyPrecision = p
		}
		qty = qty.Add(e.Quantity.Value().Mul(decimal.NewFromInt(int64(sign))))
		if e.TotalCost == nil {
			continue
		}
		if e.TotalCost.Currency() != currency {
			return Balance{}, fmt.Errorf("%w: entrada %d en %s, saldo en %s", domain.ErrCurrencyMismatch, i, e.TotalCost.Currency(), currency)
		}
		if p := e.TotalCost.Precision(); p > moneyPrecision {
			moneyPrecision = p
		}
		cost = cost.Add(e.TotalCost.Amount().Mul(decimal.NewFromInt(int64(sign))))
	}

	if qty.IsNegative() || cost.IsNegative() {
		return Balance{}, fmt.Errorf("%w: saldo neto negativo (cantidad %s, costo %s)", domain.ErrInvalidOperation, qty, cost)
	}
	q, err := valueobject.NewQuantity(qty, qtyPrecision)
	if err != nil {
		return Balance{}, err
	}
	m, err := valueobject.NewMoney(cost, currency, moneyPrecision)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Quantity: q, TotalCost: m}, nil
}

// ValidateStockAvailability indica si lo disponible cubre lo solicitado.
func (s *CalculationService) ValidateStockAvailability(available, requested valueobject.Quantity) bool {
	return available.GreaterThanOrEqual(requested)
}

// CalculateInventoryValue = costo unitario × cantidad.
func (s *CalculationService) CalculateInventoryValue(quantity valueobject.Quantity, unitCost valueobject.Money) (valueobject.Money, error) {
	return unitCost.Multiply(quantity.Value())
}

// ApplyInbound suma una entrada al saldo y recalcula el costo promedio.
func (s *CalculationService) ApplyInbound(balance entity.StockBalance, qty valueobject.Quantity, unitCost valueobject.Money) (entity.StockBalance, error) {
	avg, err := s.CalculateAverageCost(balance.Quantity, balance.AverageCost, qty, unitCost)
	if err != nil {
		return entity.StockBalance{}, err
	}
	balance.Quantity = balance.Quantity.Add(qty)
	balance.AverageCost = avg
	return balance, nil
}

// ApplyOutbound descuenta una salida; el costo promedio no cambia.
// Falla con ErrInsufficientStock si la cantidad no alcanza.
func (s *CalculationService) ApplyOutbound(balance entity.StockBalance, qty valueobject.Quantity) (entity.StockBalance, error) {
	remaining, err := balance.Quantity.Subtract(qty)
	if err != nil {
		return entity.StockBalance{}, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, balance.Quantity, qty)
	}
	balance.Quantity = remaining
	return balance, nil
}

// ReverseInbound deshace una entrada (anulación): retira la cantidad y su valor del saldo.
// Si el saldo queda en cero conserva el último costo promedio.
func (s *CalculationService) ReverseInbound(balance entity.StockBalance, qty valueobject.Quantity, unitCost valueobject.Money) (entity.StockBalance, error) {
	if balance.AverageCost.Currency() != unitCost.Currency() {
		return entity.StockBalance{}, fmt.Errorf("%w: saldo en %s, entrada en %s",
			domain.ErrCurrencyMismatch, balance.AverageCost.Currency(), unitCost.Currency())
	}
	remaining, err := balance.Quantity.Subtract(qty)
	if err != nil {
		return entity.StockBalance{}, fmt.Errorf("%w: la entrada ya fue consumida (disponible %s, a revertir %s)",
			domain.ErrInsufficientStock, balance.Quantity, qty)
	}
	if remaining.IsZero() {
		balance.Quantity = remaining
		return balance, nil
	}
	value := balance.AverageCost.Amount().Mul(balance.Quantity.Value()).
		Sub(unitCost.Amount().Mul(qty.Value()))
	if value.IsNegative() {
		return entity.StockBalance{}, fmt.Errorf("%w: el valor remanente sería negativo (%s)", domain.ErrInvalidOperation, value)
	}
	avg, err := valueobject.NewMoney(value.Div(remaining.Value()), balance.AverageCost.Currency(), balance.AverageCost.Precision())
	if err != nil {
		return entity.StockBalance{}, err
	}
	balance.Quantity = remaining
	balance.AverageCost = avg
	return balance, nil
}
