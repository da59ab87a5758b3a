package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// transferState lo que los movimientos contabilizados dicen de un traslado: el despacho,
// lo recibido en destino y lo devuelto al origen, por línea.
type transferState struct {
	dispatch *entity.Movement
	received map[string]decimal.Decimal
	returned map[string]decimal.Decimal
}

func newTransferState(t *entity.Transfer, movements []*entity.Movement) *transferState {
	var receipts, returns []*entity.Movement
	st := &transferState{}
	for _, m := range movements {
		switch {
		case m.Type() == entity.MovementTypeTransferOut:
			st.dispatch = m
		case m.Type() == entity.MovementTypeTransferIn && m.WarehouseID() == t.ToWarehouseID():
			receipts = append(receipts, m)
		case m.Type() == entity.MovementTypeTransferIn && m.WarehouseID() == t.FromWarehouseID():
			returns = append(returns, m)
		}
	}
	lines := t.Lines()
	st.received = allocate(lines, receipts)
	st.returned = allocate(lines, returns)
	return st
}

// pending cantidad despachada que aún no llegó ni volvió al origen. Sin despacho es cero.
func (s *transferState) pending(tl entity.TransferLine) decimal.Decimal {
	if s.dispatch == nil {
		return decimal.Zero
	}
	p := tl.Quantity().Value().Sub(s.received[tl.ID()]).Sub(s.returned[tl.ID()])
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// dispatchCost costo unitario con el que salió la línea del origen.
func (s *transferState) dispatchCost(tl entity.TransferLine) (valueobject.Money, error) {
	if s.dispatch == nil {
		return valueobject.Money{}, fmt.Errorf("%w: el traslado no tiene despacho contabilizado", domain.ErrConflict)
	}
	for _, l := range s.dispatch.Lines() {
		if l.TransferLineID() != tl.ID() {
			continue
		}
		if cost, ok := l.UnitCost(); ok {
			return cost, nil
		}
	}
	for _, l := range s.dispatch.LinesFor(tl.ProductID(), tl.FromLocationID()) {
		if cost, ok := l.UnitCost(); ok {
			return cost, nil
		}
	}
	return valueobject.Money{}, fmt.Errorf("%w: el despacho no tiene costo para el producto %s", domain.ErrConflict, tl.ProductID())
}

func (s *transferState) receivedQty(lineID string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return s.received[lineID]
}

// allocate suma por línea de traslado lo que dicen los movimientos. Las líneas de movimiento
// sin TransferLineID (guardadas antes de existir la columna) se reparten por producto en el
// orden de las líneas, sobre lo que quede libre en cada una.
func allocate(lines []entity.TransferLine, movements []*entity.Movement) map[string]decimal.Decimal {
	known := make(map[string]bool, len(lines))
	for _, tl := range lines {
		known[tl.ID()] = true
	}
	out := make(map[string]decimal.Decimal, len(lines))
	untagged := make(map[string]decimal.Decimal)
	for _, m := range movements {
		for _, l := range m.Lines() {
			if id := l.TransferLineID(); known[id] {
				out[id] = out[id].Add(l.Quantity().Value())
				continue
			}
			untagged[l.ProductID()] = untagged[l.ProductID()].Add(l.Quantity().Value())
		}
	}
	for _, tl := range lines {
		avail := untagged[tl.ProductID()]
		if !avail.IsPositive() {
			continue
		}
		room := tl.Quantity().Value().Sub(out[tl.ID()])
		if !room.IsPositive() {
			continue
		}
		take := decimal.Min(avail, room)
		out[tl.ID()] = out[tl.ID()].Add(take)
		untagged[tl.ProductID()] = avail.Sub(take)
	}
	return out
}
