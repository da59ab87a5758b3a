package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOrgID       = "org-1"
	testWarehouseID = "wh-1"
	testLocationID  = "loc-1"
	testProductID   = "prod-1"
	testUserID      = "user-1"
)

func q(n int64) valueobject.Quantity {
	return valueobject.MustQuantity(decimal.NewFromInt(n), 0)
}

func usd(amount string) *valueobject.Money {
	m := valueobject.MustMoney(decimal.RequireFromString(amount), "USD", 2)
	return &m
}

func newMovement(t *testing.T, typ entity.MovementType) *entity.Movement {
	t.Helper()
	m, err := entity.NewMovement(entity.NewMovementParams{
		OrgID:       testOrgID,
		WarehouseID: testWarehouseID,
		Type:        typ,
		Reference:   "OC-100",
		CreatedBy:   testUserID,
	})
	require.NoError(t, err)
	return m
}

func newLine(t *testing.T, qty int64, cost *valueobject.Money) entity.MovementLine {
	t.Helper()
	l, err := entity.NewMovementLine(testProductID, testLocationID, q(qty), cost, "")
	require.NoError(t, err)
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Tipos y estados
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementType_Clasificacion(t *testing.T) {
	cases := []struct {
		typ                   entity.MovementType
		input, output, adjust bool
		transfer              bool
		sign                  int
	}{
		{entity.MovementTypeIn, true, false, false, false, 1},
		{entity.MovementTypeOut, false, true, false, false, -1},
		{entity.MovementTypeAdjustIn, true, false, true, false, 1},
		{entity.MovementTypeAdjustOut, false, true, true, false, -1},
		{entity.MovementTypeTransferIn, true, false, false, true, 1},
		{entity.MovementTypeTransferOut, false, true, false, true, -1},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			assert.Equal(t, tc.input, tc.typ.IsInput())
			assert.Equal(t, tc.output, tc.typ.IsOutput())
			assert.Equal(t, tc.adjust, tc.typ.IsAdjustment())
			assert.Equal(t, tc.transfer, tc.typ.IsTransfer())
			assert.Equal(t, tc.sign, tc.typ.Sign())
			assert.NotEqual(t, tc.typ.IsInput(), tc.typ.IsOutput(), "todo tipo es entrada o salida, nunca ambos")
		})
	}
}

func TestParseMovementType(t *testing.T) {
	typ, err := entity.ParseMovementType(" adjust_out ")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAdjustOut, typ)

	_, err = entity.ParseMovementType("LOAN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementStatus_Legalidad(t *testing.T) {
	assert.True(t, entity.MovementStatusDraft.CanPost())
	assert.False(t, entity.MovementStatusDraft.CanVoid())
	assert.True(t, entity.MovementStatusPosted.CanVoid())
	assert.False(t, entity.MovementStatusPosted.CanPost())
	assert.False(t, entity.MovementStatusVoid.CanPost())
	assert.False(t, entity.MovementStatusVoid.CanVoid())
	assert.False(t, entity.MovementStatus("ARCHIVED").IsValid())
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestNewMovementLine_CantidadCero_Falla(t *testing.T) {
	_, err := entity.NewMovementLine(testProductID, testLocationID, q(0), nil, "USD")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewMovementLine_SinProducto_Falla(t *testing.T) {
	_, err := entity.NewMovementLine("", testLocationID, q(1), nil, "USD")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewMovementLine_MonedaDistintaAlCosto_Falla(t *testing.T) {
	_, err := entity.NewMovementLine(testProductID, testLocationID, q(1), usd("5"), "COP")
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestMovementLine_TotalCost(t *testing.T) {
	l := newLine(t, 4, usd("2.50"))
	assert.Equal(t, "USD", l.Currency(), "la moneda se toma del costo unitario")

	total, ok := l.TotalCost()
	require.True(t, ok)
	assert.Equal(t, "10.00 USD", total.String())

	sinCosto := newLine(t, 4, nil)
	_, ok = sinCosto.TotalCost()
	assert.False(t, ok)
}

func TestMovementLine_CostoCopiado(t *testing.T) {
	cost := usd("5")
	l := newLine(t, 1, cost)
	*cost = valueobject.MustMoney(decimal.NewFromInt(99), "USD", 2)

	got, ok := l.UnitCost()
	require.True(t, ok)
	assert.Equal(t, "5.00 USD", got.String(), "modificar el original no altera la línea")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestNewMovement_IniciaEnDraft(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	assert.Equal(t, entity.MovementStatusDraft, m.Status())
	assert.Equal(t, 1, m.Version())
	assert.Empty(t, m.Lines())
	_, posted := m.PostedAt()
	assert.False(t, posted)
}

func TestNewMovement_TipoInvalido(t *testing.T) {
	_, err := entity.NewMovement(entity.NewMovementParams{
		OrgID: testOrgID, WarehouseID: testWarehouseID, Type: "GIFT", CreatedBy: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovement_PostYVoid(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	require.NoError(t, m.AddLine(newLine(t, 10, usd("5"))))

	require.NoError(t, m.Post())
	assert.Equal(t, entity.MovementStatusPosted, m.Status())
	postedAt, ok := m.PostedAt()
	assert.True(t, ok)
	assert.False(t, postedAt.IsZero())

	require.NoError(t, m.Void())
	assert.Equal(t, entity.MovementStatusVoid, m.Status())
}

func TestMovement_TransicionesIlegales(t *testing.T) {
	m := newMovement(t, entity.MovementTypeOut)

	err := m.Void()
	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition, "no se puede anular un borrador")

	require.NoError(t, m.Post())
	assert.ErrorIs(t, m.Post(), domain.ErrIllegalStateTransition, "no se contabiliza dos veces")

	require.NoError(t, m.Void())
	assert.ErrorIs(t, m.Void(), domain.ErrIllegalStateTransition)
	assert.ErrorIs(t, m.Post(), domain.ErrIllegalStateTransition, "VOID es terminal")
}

func TestMovement_LineasSoloEnDraft(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	line := newLine(t, 2, usd("1"))
	require.NoError(t, m.AddLine(line))
	require.NoError(t, m.Post())

	err := m.AddLine(newLine(t, 1, usd("1")))
	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)

	err = m.RemoveLine(line.ID())
	assert.ErrorIs(t, err, domain.ErrIllegalStateTransition)
	assert.Len(t, m.Lines(), 1)
}

func TestMovement_RemoveLine(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	a := newLine(t, 2, usd("1"))
	b := newLine(t, 3, usd("1"))
	require.NoError(t, m.AddLine(a))
	require.NoError(t, m.AddLine(b))

	require.NoError(t, m.RemoveLine(a.ID()))
	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, b.ID(), lines[0].ID())

	assert.ErrorIs(t, m.RemoveLine("no-existe"), domain.ErrNotFound)
}

func TestMovement_LinesEsCopia(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	require.NoError(t, m.AddLine(newLine(t, 2, usd("1"))))

	lines := m.Lines()
	lines[0] = newLine(t, 99, usd("1"))

	assert.True(t, m.Lines()[0].Quantity().Equal(q(2)))
}

func TestMovement_Totales(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	require.NoError(t, m.AddLine(newLine(t, 10, usd("5"))))
	require.NoError(t, m.AddLine(newLine(t, 10, usd("7"))))
	require.NoError(t, m.AddLine(newLine(t, 3, nil)))

	assert.True(t, m.TotalQuantity().Equal(q(23)))

	total, err := m.TotalCost()
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.Equal(t, "120.00 USD", total.String(), "las líneas sin costo no suman")
}

func TestMovement_TotalCost_SinCostos(t *testing.T) {
	m := newMovement(t, entity.MovementTypeOut)
	require.NoError(t, m.AddLine(newLine(t, 1, nil)))

	total, err := m.TotalCost()
	require.NoError(t, err)
	assert.Nil(t, total)
}

func TestMovement_SnapshotRestore(t *testing.T) {
	m := newMovement(t, entity.MovementTypeIn)
	require.NoError(t, m.AddLine(newLine(t, 10, usd("5"))))
	require.NoError(t, m.Post())

	restored := entity.RestoreMovement(m.Snapshot())

	assert.Equal(t, m.ID(), restored.ID())
	assert.Equal(t, entity.MovementStatusPosted, restored.Status())
	assert.Equal(t, m.Version(), restored.Version())
	require.Len(t, restored.Lines(), 1)
	cost, ok := restored.Lines()[0].UnitCost()
	require.True(t, ok)
	assert.Equal(t, "5.00 USD", cost.String())
	assert.True(t, restored.CanVoid())
}

func TestMovementLine_ForTransferLine_SobreviveAlSnapshot(t *testing.T) {
	line := newLine(t, 4, usd("5"))
	tagged := line.ForTransferLine("tl-2")
	assert.Empty(t, line.TransferLineID(), "la línea original no cambia")
	assert.Equal(t, "tl-2", tagged.TransferLineID())
	assert.Equal(t, line.ID(), tagged.ID())

	m := newMovement(t, entity.MovementTypeTransferIn)
	require.NoError(t, m.AddLine(tagged))
	restored := entity.RestoreMovement(m.Snapshot())
	require.Len(t, restored.Lines(), 1)
	assert.Equal(t, "tl-2", restored.Lines()[0].TransferLineID())
}
