package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// ledger aplica movimientos contabilizados sobre los saldos materializados (stock_balances).
// Siempre se usa dentro de una transacción: cada saldo se bloquea con GetForUpdate antes de tocarlo.
type ledger struct {
	calc      *inventory.CalculationService
	validator *inventory.StockValidationService
	settings  Settings
}

func newLedger(settings Settings) *ledger {
	return &ledger{
		calc:      inventory.NewCalculationService(),
		validator: inventory.NewStockValidationService(),
		settings:  settings,
	}
}

func (l *ledger) zeroBalance(key repository.StockKey, warehouseID string) *entity.StockBalance {
	avg, _ := valueobject.ZeroMoney(l.settings.Currency, l.settings.MoneyPrecision)
	return &entity.StockBalance{
		OrgID:       key.OrgID,
		ProductID:   key.ProductID,
		WarehouseID: warehouseID,
		LocationID:  key.LocationID,
		Quantity:    valueobject.ZeroQuantity(l.settings.QuantityPrecision),
		AverageCost: avg,
	}
}

// lockBalance bloquea el saldo; si no existe devuelve uno en cero (se crea en el Upsert).
func (l *ledger) lockBalance(ctx context.Context, stock repository.StockRepository, key repository.StockKey, warehouseID string) (*entity.StockBalance, error) {
	b, err := stock.GetForUpdate(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return l.zeroBalance(key, warehouseID), nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// readBalance lectura sin bloqueo, con el mismo tratamiento de saldo inexistente.
func (l *ledger) readBalance(ctx context.Context, stock repository.StockRepository, key repository.StockKey) (*entity.StockBalance, error) {
	b, err := stock.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return l.zeroBalance(key, ""), nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// apply lleva los saldos hacia adelante con un movimiento ya contabilizado (m.Post() llamado).
// Entradas: promedio ponderado. Salidas: se revalida stock bajo bloqueo.
// El UpdatedAt del saldo avanza hasta postedAt pero nunca retrocede: si otra tx con un postedAt
// posterior escribió antes, el saldo ya la incluye y no debe volver a reproducirse.
func (l *ledger) apply(ctx context.Context, stock repository.StockRepository, m *entity.Movement) error {
	postedAt, ok := m.PostedAt()
	if !ok {
		return fmt.Errorf("%w: el movimiento %s no está contabilizado", domain.ErrIllegalStateTransition, m.ID())
	}
	for _, line := range m.Lines() {
		key := repository.StockKey{OrgID: m.OrgID(), ProductID: line.ProductID(), LocationID: line.LocationID()}
		bal, err := l.lockBalance(ctx, stock, key, m.WarehouseID())
		if err != nil {
			return err
		}
		next, err := l.applyLine(m.Type(), *bal, line)
		if err != nil {
			return fmt.Errorf("línea %s: %w", line.ID(), err)
		}
		next.UpdatedAt = latest(bal.UpdatedAt, postedAt)
		if err := stock.Upsert(ctx, &next); err != nil {
			return err
		}
	}
	return nil
}

func (l *ledger) applyLine(typ entity.MovementType, bal entity.StockBalance, line entity.MovementLine) (entity.StockBalance, error) {
	if typ.IsInput() {
		cost, ok := line.UnitCost()
		if !ok {
			cost = bal.AverageCost
		}
		return l.calc.ApplyInbound(bal, line.Quantity(), cost)
	}
	res := l.validator.ValidateStockForOutput(line.ProductID(), line.LocationID(), line.Quantity(), bal.Quantity, nil)
	if !res.IsValid {
		return entity.StockBalance{}, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, strings.Join(res.Errors, "; "))
	}
	return l.calc.ApplyOutbound(bal, line.Quantity())
}

// reverse compensa los saldos de un movimiento anulado: una entrada se retira a su costo,
// una salida se devuelve al costo de la línea o, si no lo trae, al promedio vigente.
func (l *ledger) reverse(ctx context.Context, stock repository.StockRepository, m *entity.Movement) error {
	ts := time.Now().UTC().Truncate(time.Microsecond)
	for _, line := range m.Lines() {
		key := repository.StockKey{OrgID: m.OrgID(), ProductID: line.ProductID(), LocationID: line.LocationID()}
		bal, err := l.lockBalance(ctx, stock, key, m.WarehouseID())
		if err != nil {
			return err
		}
		cost, ok := line.UnitCost()
		if !ok {
			cost = bal.AverageCost
		}
		var next entity.StockBalance
		if m.Type().IsInput() {
			next, err = l.calc.ReverseInbound(*bal, line.Quantity(), cost)
		} else {
			next, err = l.calc.ApplyInbound(*bal, line.Quantity(), cost)
		}
		if err != nil {
			return fmt.Errorf("línea %s: %w", line.ID(), err)
		}
		next.UpdatedAt = latest(bal.UpdatedAt, ts)
		if err := stock.Upsert(ctx, &next); err != nil {
			return err
		}
	}
	return nil
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// quantity construye una cantidad en la precisión configurada.
func (l *ledger) quantity(d decimal.Decimal) (valueobject.Quantity, error) {
	return valueobject.NewQuantity(d, l.settings.QuantityPrecision)
}

// unitCost construye el costo unitario en la moneda única del motor.
func (l *ledger) unitCost(d decimal.Decimal, currency string) (valueobject.Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = l.settings.Currency
	}
	if currency != l.settings.Currency {
		return valueobject.Money{}, fmt.Errorf("%w: el motor valora en %s, recibido %s", domain.ErrCurrencyMismatch, l.settings.Currency, currency)
	}
	return valueobject.NewMoney(d, currency, l.settings.MoneyPrecision)
}

// invalid convierte un ValidationResult fallido en error de entrada.
func invalid(res inventory.ValidationResult) error {
	if res.IsValid {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(res.Errors, "; "))
}
