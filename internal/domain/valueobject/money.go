package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// DefaultMoneyPrecision decimales por defecto para montos (centavos).
const DefaultMoneyPrecision int32 = 2

// Money monto monetario no negativo en una moneda y precisión fijas (value object inmutable).
// Suma y resta exigen la misma moneda; no hay conversión entre monedas.
type Money struct {
	amount    decimal.Decimal
	currency  string
	precision int32
}

// NewMoney crea un monto truncado a precision decimales. La moneda se normaliza a mayúsculas.
func NewMoney(amount decimal.Decimal, currency string, precision int32) (Money, error) {
	if err := checkPrecision(precision); err != nil {
		return Money{}, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, fmt.Errorf("%w: la moneda es obligatoria", domain.ErrValidation)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: el monto no puede ser negativo (%s)", domain.ErrValidation, amount)
	}
	return Money{amount: amount.Truncate(precision), currency: currency, precision: precision}, nil
}

// NewMoneyFromString parsea un monto decimal en texto.
func NewMoneyFromString(amount, currency string, precision int32) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: monto %q: %v", domain.ErrValidation, amount, err)
	}
	return NewMoney(d, currency, precision)
}

// MustMoney igual que NewMoney pero entra en pánico; solo para constantes y tests.
func MustMoney(amount decimal.Decimal, currency string, precision int32) Money {
	m, err := NewMoney(amount, currency, precision)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney monto cero en la moneda indicada.
func ZeroMoney(currency string, precision int32) (Money, error) {
	return NewMoney(decimal.Zero, currency, precision)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) Precision() int32        { return m.precision }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }

// Add suma other (misma moneda) en la precisión del receptor.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Add(other.amount)), nil
}

// Subtract resta other (misma moneda). Falla con ErrInvalidOperation si el resultado sería negativo.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	res := m.amount.Sub(other.amount)
	if res.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s produce un monto negativo", domain.ErrInvalidOperation, m, other)
	}
	return m.with(res), nil
}

// Multiply multiplica por un escalar no negativo (p.ej. costo unitario × cantidad).
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, fmt.Errorf("%w: factor negativo %s", domain.ErrInvalidOperation, factor)
	}
	return m.with(m.amount.Mul(factor)), nil
}

// Divide divide por un escalar positivo.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, domain.ErrDivisionByZero
	}
	if divisor.IsNegative() {
		return Money{}, fmt.Errorf("%w: divisor negativo %s", domain.ErrInvalidOperation, divisor)
	}
	return m.with(m.amount.Div(divisor)), nil
}

// WithPrecision re-expresa el monto en otra precisión (truncando).
func (m Money) WithPrecision(precision int32) (Money, error) {
	return NewMoney(m.amount, m.currency, precision)
}

// Equal compara moneda y valor numérico.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(m.precision) + " " + m.currency
}

type moneyJSON struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Precision int32           `json:"precision"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency, Precision: m.precision})
}

// UnmarshalJSON usa DefaultMoneyPrecision cuando el campo precision no viene.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		Precision *int32          `json:"precision"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	precision := DefaultMoneyPrecision
	if raw.Precision != nil {
		precision = *raw.Precision
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency, precision)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount.Truncate(m.precision), currency: m.currency, precision: m.precision}
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s y %s", domain.ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
