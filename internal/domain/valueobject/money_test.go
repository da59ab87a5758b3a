package valueobject_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

func cop(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s, "COP", valueobject.DefaultMoneyPrecision)
	require.NoError(t, err)
	return m
}

func TestNewMoney_NormalizaMoneda(t *testing.T) {
	m, err := valueobject.NewMoney(decimal.NewFromInt(10), " usd ", 2)
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency())
	assert.Equal(t, "10.00 USD", m.String())
}

func TestNewMoney_Invalido(t *testing.T) {
	_, err := valueobject.NewMoney(decimal.NewFromInt(-5), "COP", 2)
	assert.ErrorIs(t, err, domain.ErrValidation, "monto negativo")

	_, err = valueobject.NewMoney(decimal.NewFromInt(5), "", 2)
	assert.ErrorIs(t, err, domain.ErrValidation, "moneda vacía")
}

func TestNewMoney_Trunca(t *testing.T) {
	m := cop(t, "6.999")
	assert.Equal(t, "6.99 COP", m.String())
}

func TestMoney_Add_MismaMoneda(t *testing.T) {
	sum, err := cop(t, "10.50").Add(cop(t, "0.25"))
	require.NoError(t, err)
	assert.True(t, sum.Equal(cop(t, "10.75")))
}

func TestMoney_Add_MonedaDistinta(t *testing.T) {
	usd := valueobject.MustMoney(decimal.NewFromInt(1), "USD", 2)
	_, err := cop(t, "1").Add(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	assert.ErrorIs(t, err, domain.ErrValidation, "mezclar monedas es un error de validación")
}

func TestMoney_Subtract(t *testing.T) {
	res, err := cop(t, "10").Subtract(cop(t, "4"))
	require.NoError(t, err)
	assert.True(t, res.Equal(cop(t, "6")))

	_, err = cop(t, "4").Subtract(cop(t, "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestMoney_MultiplyDivide(t *testing.T) {
	total, err := cop(t, "2.50").Multiply(decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, total.Equal(cop(t, "10")))

	unit, err := cop(t, "10").Divide(decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "3.33 COP", unit.String())

	_, err = cop(t, "10").Divide(decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)
}

func TestMoney_Equal_ConsideraMoneda(t *testing.T) {
	usd := valueobject.MustMoney(decimal.NewFromInt(1), "USD", 2)
	assert.False(t, cop(t, "1").Equal(usd))
}

func TestMoney_JSON(t *testing.T) {
	raw, err := json.Marshal(cop(t, "12.5"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.5","currency":"COP","precision":2}`, string(raw))

	var m valueobject.Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7.129","currency":"usd"}`), &m))
	assert.Equal(t, valueobject.DefaultMoneyPrecision, m.Precision(), "precisión por defecto")
	assert.Equal(t, "7.12 USD", m.String())
}
