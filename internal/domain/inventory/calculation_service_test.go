package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func q(n int64) valueobject.Quantity {
	return valueobject.MustQuantity(decimal.NewFromInt(n), 0)
}

func usd(amount string) valueobject.Money {
	return valueobject.MustMoney(decimal.RequireFromString(amount), "USD", 2)
}

func usdPtr(amount string) *valueobject.Money {
	m := usd(amount)
	return &m
}

func balance(qty int64, avg string) entity.StockBalance {
	return entity.StockBalance{
		OrgID: "org-1", ProductID: "prod-1", WarehouseID: "wh-1", LocationID: "loc-1",
		Quantity: q(qty), AverageCost: usd(avg),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CalculateAverageCost
// ──────────────────────────────────────────────────────────────────────────────

// 10 u. a $5 + 10 u. a $7 = 20 u. a $6.
func TestCalculateAverageCost_PromedioPonderado(t *testing.T) {
	svc := inventory.NewCalculationService()

	avg, err := svc.CalculateAverageCost(q(10), usd("5"), q(10), usd("7"))
	require.NoError(t, err)
	assert.True(t, avg.Equal(usd("6")), "esperado 6.00, obtenido %s", avg)
	assert.Equal(t, int32(2), avg.Precision())
	assert.Equal(t, "USD", avg.Currency())
}

func TestCalculateAverageCost_SinStockPrevio_TomaElCostoDeEntrada(t *testing.T) {
	svc := inventory.NewCalculationService()

	avg, err := svc.CalculateAverageCost(q(0), usd("0"), q(8), usd("12.50"))
	require.NoError(t, err)
	assert.True(t, avg.Equal(usd("12.50")))
}

func TestCalculateAverageCost_EntradaCero_NoCambia(t *testing.T) {
	svc := inventory.NewCalculationService()

	avg, err := svc.CalculateAverageCost(q(10), usd("5.55"), q(0), usd("100"))
	require.NoError(t, err)
	assert.True(t, avg.Equal(usd("5.55")))
}

func TestCalculateAverageCost_Trunca(t *testing.T) {
	svc := inventory.NewCalculationService()

	// (1×1 + 2×2) / 3 = 1.6666… -> 1.66
	avg, err := svc.CalculateAverageCost(q(1), usd("1"), q(2), usd("2"))
	require.NoError(t, err)
	assert.Equal(t, "1.66 USD", avg.String())
}

func TestCalculateAverageCost_MonedaDistinta(t *testing.T) {
	svc := inventory.NewCalculationService()
	eur := valueobject.MustMoney(decimal.NewFromInt(7), "EUR", 2)

	_, err := svc.CalculateAverageCost(q(10), usd("5"), q(10), eur)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

// Aplicar entradas en secuencia converge al promedio ponderado global.
func TestCalculateAverageCost_ConvergeAlPromedioGlobal(t *testing.T) {
	svc := inventory.NewCalculationService()
	entradas := []struct {
		qty  int64
		cost string
	}{
		{4, "10"}, {6, "20"}, {10, "13"}, {5, "8"},
	}

	currentQty := q(0)
	currentAvg := usd("0")
	totalValue := decimal.Zero
	totalQty := decimal.Zero
	for _, e := range entradas {
		avg, err := svc.CalculateAverageCost(currentQty, currentAvg, q(e.qty), usd(e.cost))
		require.NoError(t, err)
		currentAvg = avg
		currentQty = currentQty.Add(q(e.qty))

		totalValue = totalValue.Add(decimal.RequireFromString(e.cost).Mul(decimal.NewFromInt(e.qty)))
		totalQty = totalQty.Add(decimal.NewFromInt(e.qty))
	}

	// (40 + 120 + 130 + 40) / 25 = 13.20
	expected := totalValue.Div(totalQty)
	diff := currentAvg.Amount().Sub(expected).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(len(entradas))))),
		"promedio %s lejos de %s", currentAvg.Amount(), expected)
}

// ──────────────────────────────────────────────────────────────────────────────
// CalculateBalance
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateBalance_EntradasYSalidas(t *testing.T) {
	svc := inventory.NewCalculationService()

	b, err := svc.CalculateBalance("USD", []inventory.BalanceEntry{
		{Type: entity.MovementTypeIn, Quantity: q(10), TotalCost: usdPtr("50")},
		{Type: entity.MovementTypeIn, Quantity: q(10), TotalCost: usdPtr("70")},
		{Type: entity.MovementTypeOut, Quantity: q(5), TotalCost: usdPtr("30")},
		{Type: entity.MovementTypeAdjustIn, Quantity: q(1)},
	})
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(q(16)))
	assert.True(t, b.TotalCost.Equal(usd("90")))
}

func TestCalculateBalance_Vacio(t *testing.T) {
	svc := inventory.NewCalculationService()

	b, err := svc.CalculateBalance("USD", nil)
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())
	assert.True(t, b.TotalCost.IsZero())
	assert.Equal(t, "USD", b.TotalCost.Currency())
}

func TestCalculateBalance_NetoNegativo(t *testing.T) {
	svc := inventory.NewCalculationService()

	_, err := svc.CalculateBalance("USD", []inventory.BalanceEntry{
		{Type: entity.MovementTypeIn, Quantity: q(2)},
		{Type: entity.MovementTypeOut, Quantity: q(3)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestCalculateBalance_MonedaDistinta(t *testing.T) {
	svc := inventory.NewCalculationService()
	eur := valueobject.MustMoney(decimal.NewFromInt(1), "EUR", 2)

	_, err := svc.CalculateBalance("USD", []inventory.BalanceEntry{
		{Type: entity.MovementTypeIn, Quantity: q(1), TotalCost: &eur},
	})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestCalculateBalance_TipoDesconocido(t *testing.T) {
	svc := inventory.NewCalculationService()

	_, err := svc.CalculateBalance("USD", []inventory.BalanceEntry{{Type: "LOAN", Quantity: q(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad y valor
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateStockAvailability(t *testing.T) {
	svc := inventory.NewCalculationService()
	assert.True(t, svc.ValidateStockAvailability(q(5), q(5)))
	assert.True(t, svc.ValidateStockAvailability(q(6), q(5)))
	assert.False(t, svc.ValidateStockAvailability(q(4), q(5)))
}

func TestCalculateInventoryValue(t *testing.T) {
	svc := inventory.NewCalculationService()

	v, err := svc.CalculateInventoryValue(q(20), usd("6"))
	require.NoError(t, err)
	assert.Equal(t, "120.00 USD", v.String())

	zero, err := svc.CalculateInventoryValue(q(0), usd("6"))
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación sobre saldos
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyInbound(t *testing.T) {
	svc := inventory.NewCalculationService()

	b, err := svc.ApplyInbound(balance(10, "5"), q(10), usd("7"))
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(q(20)))
	assert.True(t, b.AverageCost.Equal(usd("6")))
	assert.Equal(t, "loc-1", b.LocationID, "conserva la clave del saldo")
}

func TestApplyOutbound(t *testing.T) {
	svc := inventory.NewCalculationService()

	b, err := svc.ApplyOutbound(balance(20, "6"), q(5))
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(q(15)))
	assert.True(t, b.AverageCost.Equal(usd("6")), "la salida no cambia el costo promedio")

	_, err = svc.ApplyOutbound(balance(2, "6"), q(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReverseInbound(t *testing.T) {
	svc := inventory.NewCalculationService()

	// 10@5 + 10@7 = 20@6; se venden 5 -> 15@6 (valor 90); se anula la entrada de 10@7 -> 5@4.
	b, err := svc.ReverseInbound(balance(15, "6"), q(10), usd("7"))
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(q(5)))
	assert.True(t, b.AverageCost.Equal(usd("4")))
}

func TestReverseInbound_SaldoCero_ConservaPromedio(t *testing.T) {
	svc := inventory.NewCalculationService()

	b, err := svc.ReverseInbound(balance(10, "5"), q(10), usd("5"))
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())
	assert.True(t, b.AverageCost.Equal(usd("5")))
}

func TestReverseInbound_EntradaConsumida(t *testing.T) {
	svc := inventory.NewCalculationService()

	_, err := svc.ReverseInbound(balance(3, "5"), q(10), usd("5"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }
