package entity

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// MovementSnapshot representación plana de un Movement para persistencia.
// La capa de infraestructura lee con Snapshot() y reconstruye con RestoreMovement.
type MovementSnapshot struct {
	ID          string
	OrgID       string
	Type        MovementType
	Status      MovementStatus
	WarehouseID string
	Reference   string
	Reason      string
	Note        string
	PostedAt    *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
	Lines       []MovementLineSnapshot
}

// MovementLineSnapshot representación plana de una MovementLine.
type MovementLineSnapshot struct {
	ID             string
	ProductID      string
	LocationID     string
	Quantity       valueobject.Quantity
	UnitCost       *valueobject.Money
	Currency       string
	TransferLineID string // vacío salvo en movimientos generados por un traslado
}

// Snapshot copia el estado del movimiento.
func (m *Movement) Snapshot() MovementSnapshot {
	s := MovementSnapshot{
		ID:          m.id,
		OrgID:       m.orgID,
		Type:        m.movementType,
		Status:      m.status,
		WarehouseID: m.warehouseID,
		Reference:   m.reference,
		Reason:      m.reason,
		Note:        m.note,
		CreatedBy:   m.createdBy,
		CreatedAt:   m.createdAt,
		UpdatedAt:   m.updatedAt,
		Version:     m.version,
		Lines:       make([]MovementLineSnapshot, 0, len(m.lines)),
	}
	if m.postedAt != nil {
		ts := *m.postedAt
		s.PostedAt = &ts
	}
	for _, l := range m.lines {
		ls := MovementLineSnapshot{
			ID:             l.id,
			ProductID:      l.productID,
			LocationID:     l.locationID,
			Quantity:       l.quantity,
			Currency:       l.currency,
			TransferLineID: l.transferLineID,
		}
		if l.unitCost != nil {
			c := *l.unitCost
			ls.UnitCost = &c
		}
		s.Lines = append(s.Lines, ls)
	}
	return s
}

// RestoreMovement reconstruye un Movement desde persistencia, sin volver a validar reglas de creación.
func RestoreMovement(s MovementSnapshot) *Movement {
	m := &Movement{
		id:           s.ID,
		orgID:        s.OrgID,
		movementType: s.Type,
		status:       s.Status,
		warehouseID:  s.WarehouseID,
		reference:    s.Reference,
		reason:       s.Reason,
		note:         s.Note,
		createdBy:    s.CreatedBy,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		version:      s.Version,
		lines:        make([]MovementLine, 0, len(s.Lines)),
	}
	if s.PostedAt != nil {
		ts := *s.PostedAt
		m.postedAt = &ts
	}
	for _, ls := range s.Lines {
		l := MovementLine{
			id:             ls.ID,
			productID:      ls.ProductID,
			locationID:     ls.LocationID,
			quantity:       ls.Quantity,
			currency:       ls.Currency,
			transferLineID: ls.TransferLineID,
		}
		if ls.UnitCost != nil {
			c := *ls.UnitCost
			l.unitCost = &c
		}
		m.lines = append(m.lines, l)
	}
	return m
}

// TransferSnapshot representación plana de un Transfer para persistencia.
type TransferSnapshot struct {
	ID              string
	OrgID           string
	FromWarehouseID string
	ToWarehouseID   string
	Status          TransferStatus
	CreatedBy       string
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
	Lines           []TransferLineSnapshot
}

// TransferLineSnapshot representación plana de una TransferLine.
type TransferLineSnapshot struct {
	ID             string
	ProductID      string
	Quantity       valueobject.Quantity
	FromLocationID string
	ToLocationID   string
}

func (t *Transfer) Snapshot() TransferSnapshot {
	s := TransferSnapshot{
		ID:              t.id,
		OrgID:           t.orgID,
		FromWarehouseID: t.fromWarehouseID,
		ToWarehouseID:   t.toWarehouseID,
		Status:          t.status,
		CreatedBy:       t.createdBy,
		Note:            t.note,
		CreatedAt:       t.createdAt,
		UpdatedAt:       t.updatedAt,
		Version:         t.version,
		Lines:           make([]TransferLineSnapshot, 0, len(t.lines)),
	}
	for _, l := range t.lines {
		s.Lines = append(s.Lines, TransferLineSnapshot{
			ID:             l.id,
			ProductID:      l.productID,
			Quantity:       l.quantity,
			FromLocationID: l.fromLocationID,
			ToLocationID:   l.toLocationID,
		})
	}
	return s
}

func RestoreTransfer(s TransferSnapshot) *Transfer {
	t := &Transfer{
		id:              s.ID,
		orgID:           s.OrgID,
		fromWarehouseID: s.FromWarehouseID,
		toWarehouseID:   s.ToWarehouseID,
		status:          s.Status,
		createdBy:       s.CreatedBy,
		note:            s.Note,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		version:         s.Version,
		lines:           make([]TransferLine, 0, len(s.Lines)),
	}
	for _, ls := range s.Lines {
		t.lines = append(t.lines, TransferLine{
			id:             ls.ID,
			productID:      ls.ProductID,
			quantity:       ls.Quantity,
			fromLocationID: ls.FromLocationID,
			toLocationID:   ls.ToLocationID,
		})
	}
	return t
}
