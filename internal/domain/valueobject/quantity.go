package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// MaxPrecision cantidad máxima de decimales soportada por Quantity y Money.
const MaxPrecision int32 = 6

// Quantity cantidad no negativa con precisión fija (value object inmutable).
// Toda operación devuelve una nueva instancia y vuelve a validar la no negatividad.
type Quantity struct {
	value     decimal.Decimal
	precision int32
}

// NewQuantity crea una cantidad truncada a precision decimales.
func NewQuantity(value decimal.Decimal, precision int32) (Quantity, error) {
	if err := checkPrecision(precision); err != nil {
		return Quantity{}, err
	}
	if value.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: la cantidad no puede ser negativa (%s)", domain.ErrValidation, value)
	}
	return Quantity{value: value.Truncate(precision), precision: precision}, nil
}

// NewQuantityFromInt atajo para cantidades enteras.
func NewQuantityFromInt(value int64, precision int32) (Quantity, error) {
	return NewQuantity(decimal.NewFromInt(value), precision)
}

// NewQuantityFromString parsea una cantidad decimal en texto.
func NewQuantityFromString(value string, precision int32) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: cantidad %q: %v", domain.ErrValidation, value, err)
	}
	return NewQuantity(d, precision)
}

// MustQuantity igual que NewQuantity pero entra en pánico; solo para constantes y tests.
func MustQuantity(value decimal.Decimal, precision int32) Quantity {
	q, err := NewQuantity(value, precision)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity cantidad cero con la precisión indicada.
func ZeroQuantity(precision int32) Quantity {
	if precision < 0 || precision > MaxPrecision {
		precision = 0
	}
	return Quantity{value: decimal.Zero, precision: precision}
}

func (q Quantity) Value() decimal.Decimal { return q.value }
func (q Quantity) Precision() int32       { return q.precision }
func (q Quantity) IsZero() bool           { return q.value.IsZero() }
func (q Quantity) IsPositive() bool       { return q.value.IsPositive() }

// Add suma other y devuelve el resultado en la precisión del receptor.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value).Truncate(q.precision), precision: q.precision}
}

// Subtract resta other. Falla con ErrInvalidOperation si el resultado sería negativo.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	res := q.value.Sub(other.value)
	if res.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: %s - %s produce una cantidad negativa", domain.ErrInvalidOperation, q.value, other.value)
	}
	return Quantity{value: res.Truncate(q.precision), precision: q.precision}, nil
}

// Multiply multiplica por un escalar no negativo.
func (q Quantity) Multiply(factor decimal.Decimal) (Quantity, error) {
	if factor.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: factor negativo %s", domain.ErrInvalidOperation, factor)
	}
	return Quantity{value: q.value.Mul(factor).Truncate(q.precision), precision: q.precision}, nil
}

// Divide divide por un escalar positivo.
func (q Quantity) Divide(divisor decimal.Decimal) (Quantity, error) {
	if divisor.IsZero() {
		return Quantity{}, domain.ErrDivisionByZero
	}
	if divisor.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: divisor negativo %s", domain.ErrInvalidOperation, divisor)
	}
	return Quantity{value: q.value.Div(divisor).Truncate(q.precision), precision: q.precision}, nil
}

// WithPrecision re-expresa la cantidad en otra precisión (truncando).
func (q Quantity) WithPrecision(precision int32) (Quantity, error) {
	return NewQuantity(q.value, precision)
}

// Cmp compara por valor numérico, ignorando la precisión.
func (q Quantity) Cmp(other Quantity) int { return q.value.Cmp(other.value) }

func (q Quantity) Equal(other Quantity) bool { return q.value.Equal(other.value) }

func (q Quantity) GreaterThanOrEqual(other Quantity) bool {
	return q.value.GreaterThanOrEqual(other.value)
}

func (q Quantity) LessThan(other Quantity) bool { return q.value.LessThan(other.value) }

func (q Quantity) String() string { return q.value.String() }

// MarshalJSON serializa como texto decimal para no perder precisión.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.value.StringFixed(q.precision))
}

// UnmarshalJSON acepta texto o número; la precisión se deduce del exponente (máx. MaxPrecision).
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	precision := -d.Exponent()
	if precision < 0 {
		precision = 0
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	parsed, err := NewQuantity(d, precision)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func checkPrecision(precision int32) error {
	if precision < 0 || precision > MaxPrecision {
		return fmt.Errorf("%w: precisión %d fuera de rango [0,%d]", domain.ErrValidation, precision, MaxPrecision)
	}
	return nil
}
