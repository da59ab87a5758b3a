package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// now en UTC y a la precisión de timestamptz, para que lo guardado y lo leído comparen igual.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// MovementLine línea de un movimiento: producto, ubicación, cantidad y costo unitario opcional.
// Pertenece exclusivamente a su Movement; no tiene ciclo de vida propio.
type MovementLine struct {
	id         string
	productID  string
	locationID string
	quantity   valueobject.Quantity
	unitCost   *valueobject.Money
	currency   string

	// línea del traslado que originó esta línea; vacío en movimientos manuales
	transferLineID string
}

// NewMovementLine valida y construye una línea. Si currency viene vacío se toma la del costo unitario.
func NewMovementLine(productID, locationID string, quantity valueobject.Quantity, unitCost *valueobject.Money, currency string) (MovementLine, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(locationID) == "" {
		return MovementLine{}, fmt.Errorf("%w: product_id y location_id son obligatorios", domain.ErrInvalidInput)
	}
	if !quantity.IsPositive() {
		return MovementLine{}, fmt.Errorf("%w: la cantidad de la línea debe ser positiva", domain.ErrValidation)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if unitCost != nil {
		if currency == "" {
			currency = unitCost.Currency()
		}
		if unitCost.Currency() != currency {
			return MovementLine{}, fmt.Errorf("%w: línea en %s con costo en %s", domain.ErrCurrencyMismatch, currency, unitCost.Currency())
		}
		c := *unitCost
		unitCost = &c
	}
	return MovementLine{
		id:         uuid.New().String(),
		productID:  productID,
		locationID: locationID,
		quantity:   quantity,
		unitCost:   unitCost,
		currency:   currency,
	}, nil
}

func (l MovementLine) ID() string                     { return l.id }
func (l MovementLine) ProductID() string              { return l.productID }
func (l MovementLine) LocationID() string             { return l.locationID }
func (l MovementLine) Quantity() valueobject.Quantity { return l.quantity }
func (l MovementLine) Currency() string               { return l.currency }
func (l MovementLine) TransferLineID() string         { return l.transferLineID }

// ForTransferLine copia de la línea atada a una línea de traslado.
func (l MovementLine) ForTransferLine(transferLineID string) MovementLine {
	l.transferLineID = transferLineID
	return l
}

// UnitCost devuelve el costo unitario y si la línea lo trae.
func (l MovementLine) UnitCost() (valueobject.Money, bool) {
	if l.unitCost == nil {
		return valueobject.Money{}, false
	}
	return *l.unitCost, true
}

// TotalCost = costo unitario × cantidad, solo si la línea tiene costo.
func (l MovementLine) TotalCost() (valueobject.Money, bool) {
	if l.unitCost == nil {
		return valueobject.Money{}, false
	}
	total, err := l.unitCost.Multiply(l.quantity.Value())
	if err != nil {
		return valueobject.Money{}, false
	}
	return total, true
}

// Matches indica si la línea afecta al par (producto, ubicación).
func (l MovementLine) Matches(productID, locationID string) bool {
	return l.productID == productID && l.locationID == locationID
}

// Movement agregado raíz de un movimiento de inventario (entrada, salida, ajuste o traslado).
// Ciclo de vida lineal DRAFT -> POSTED -> VOID. No provee exclusión mutua: el caso de uso
// serializa las transiciones por instancia (versión optimista en persistencia).
type Movement struct {
	id           string
	orgID        string
	movementType MovementType
	status       MovementStatus
	warehouseID  string
	reference    string
	reason       string
	note         string
	postedAt     *time.Time
	createdBy    string
	createdAt    time.Time
	updatedAt    time.Time
	version      int
	lines        []MovementLine
}

// NewMovementParams datos para crear un movimiento en DRAFT.
type NewMovementParams struct {
	OrgID       string
	WarehouseID string
	Type        MovementType
	Reference   string
	Reason      string
	Note        string
	CreatedBy   string
}

// NewMovement crea un movimiento en estado DRAFT sin líneas.
func NewMovement(p NewMovementParams) (*Movement, error) {
	if p.OrgID == "" || p.WarehouseID == "" || p.CreatedBy == "" {
		return nil, fmt.Errorf("%w: org_id, warehouse_id y created_by son obligatorios", domain.ErrInvalidInput)
	}
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, p.Type)
	}
	ts := now()
	return &Movement{
		id:           uuid.New().String(),
		orgID:        p.OrgID,
		movementType: p.Type,
		status:       MovementStatusDraft,
		warehouseID:  p.WarehouseID,
		reference:    p.Reference,
		reason:       p.Reason,
		note:         p.Note,
		createdBy:    p.CreatedBy,
		createdAt:    ts,
		updatedAt:    ts,
		version:      1,
	}, nil
}

func (m *Movement) ID() string            { return m.id }
func (m *Movement) OrgID() string         { return m.orgID }
func (m *Movement) Type() MovementType    { return m.movementType }
func (m *Movement) Status() MovementStatus { return m.status }
func (m *Movement) WarehouseID() string   { return m.warehouseID }
func (m *Movement) Reference() string     { return m.reference }
func (m *Movement) Reason() string        { return m.reason }
func (m *Movement) Note() string          { return m.note }
func (m *Movement) CreatedBy() string     { return m.createdBy }
func (m *Movement) CreatedAt() time.Time  { return m.createdAt }
func (m *Movement) UpdatedAt() time.Time  { return m.updatedAt }
func (m *Movement) Version() int          { return m.version }

// PostedAt fecha de contabilización; ok=false si nunca se contabilizó.
func (m *Movement) PostedAt() (time.Time, bool) {
	if m.postedAt == nil {
		return time.Time{}, false
	}
	return *m.postedAt, true
}

func (m *Movement) CanPost() bool { return m.status.CanPost() }
func (m *Movement) CanVoid() bool { return m.status.CanVoid() }

// Lines devuelve una copia de las líneas; modificarla no afecta al agregado.
func (m *Movement) Lines() []MovementLine {
	out := make([]MovementLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// LinesFor líneas que afectan al par (producto, ubicación).
func (m *Movement) LinesFor(productID, locationID string) []MovementLine {
	var out []MovementLine
	for _, l := range m.lines {
		if l.Matches(productID, locationID) {
			out = append(out, l)
		}
	}
	return out
}

// AddLine agrega una línea. Solo en DRAFT: un movimiento contabilizado es un registro financiero.
func (m *Movement) AddLine(line MovementLine) error {
	if !m.status.CanEditLines() {
		return fmt.Errorf("%w: no se pueden agregar líneas al movimiento %s en estado %s", domain.ErrIllegalStateTransition, m.id, m.status)
	}
	if line.id == "" {
		return fmt.Errorf("%w: línea sin construir", domain.ErrInvalidInput)
	}
	m.lines = append(m.lines, line)
	m.touch()
	return nil
}

// RemoveLine quita la línea con el ID indicado. Solo en DRAFT.
func (m *Movement) RemoveLine(lineID string) error {
	if !m.status.CanEditLines() {
		return fmt.Errorf("%w: no se pueden quitar líneas del movimiento %s en estado %s", domain.ErrIllegalStateTransition, m.id, m.status)
	}
	for i, l := range m.lines {
		if l.id == lineID {
			m.lines = append(m.lines[:i:i], m.lines[i+1:]...)
			m.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
}

// Post DRAFT -> POSTED; fija postedAt.
func (m *Movement) Post() error {
	if !m.status.CanPost() {
		return fmt.Errorf("%w: no se puede contabilizar el movimiento %s en estado %s", domain.ErrIllegalStateTransition, m.id, m.status)
	}
	ts := now()
	m.status = MovementStatusPosted
	m.postedAt = &ts
	m.updatedAt = ts
	return nil
}

// Void POSTED -> VOID. No revierte stock; eso lo compensa el caso de uso.
func (m *Movement) Void() error {
	if !m.status.CanVoid() {
		return fmt.Errorf("%w: no se puede anular el movimiento %s en estado %s", domain.ErrIllegalStateTransition, m.id, m.status)
	}
	m.status = MovementStatusVoid
	m.touch()
	return nil
}

// TotalQuantity suma las cantidades de las líneas sin considerar signo ni tipo.
func (m *Movement) TotalQuantity() valueobject.Quantity {
	var precision int32
	for _, l := range m.lines {
		if p := l.quantity.Precision(); p > precision {
			precision = p
		}
	}
	total := valueobject.ZeroQuantity(precision)
	for _, l := range m.lines {
		total = total.Add(l.quantity)
	}
	return total
}

// TotalCost suma el costo total de las líneas con costo. Devuelve nil si ninguna lo tiene.
func (m *Movement) TotalCost() (*valueobject.Money, error) {
	var total *valueobject.Money
	for _, l := range m.lines {
		lineTotal, ok := l.TotalCost()
		if !ok {
			continue
		}
		if total == nil {
			total = &lineTotal
			continue
		}
		sum, err := total.Add(lineTotal)
		if err != nil {
			return nil, err
		}
		total = &sum
	}
	return total, nil
}

// IncrementVersion lo llama la persistencia después de guardar con control optimista.
func (m *Movement) IncrementVersion() { m.version++ }

func (m *Movement) touch() { m.updatedAt = now() }
