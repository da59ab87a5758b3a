package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

// TransferLine línea de traslado. Las ubicaciones origen/destino se pueden asignar por separado
// (asignación escalonada antes de confirmar el despacho).
type TransferLine struct {
	id             string
	productID      string
	quantity       valueobject.Quantity
	fromLocationID string
	toLocationID   string
}

// NewTransferLine construye una línea; las ubicaciones son opcionales.
func NewTransferLine(productID string, quantity valueobject.Quantity, fromLocationID, toLocationID string) (TransferLine, error) {
	if strings.TrimSpace(productID) == "" {
		return TransferLine{}, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if !quantity.IsPositive() {
		return TransferLine{}, fmt.Errorf("%w: la cantidad de la línea debe ser positiva", domain.ErrValidation)
	}
	return TransferLine{
		id:             uuid.New().String(),
		productID:      productID,
		quantity:       quantity,
		fromLocationID: fromLocationID,
		toLocationID:   toLocationID,
	}, nil
}

func (l TransferLine) ID() string                     { return l.id }
func (l TransferLine) ProductID() string              { return l.productID }
func (l TransferLine) Quantity() valueobject.Quantity { return l.quantity }
func (l TransferLine) FromLocationID() string         { return l.fromLocationID }
func (l TransferLine) ToLocationID() string           { return l.toLocationID }

// Transfer agregado raíz de un traslado entre bodegas.
type Transfer struct {
	id              string
	orgID           string
	fromWarehouseID string
	toWarehouseID   string
	status          TransferStatus
	createdBy       string
	note            string
	createdAt       time.Time
	updatedAt       time.Time
	version         int
	lines           []TransferLine
}

// NewTransferParams datos para crear un traslado en DRAFT.
type NewTransferParams struct {
	OrgID           string
	FromWarehouseID string
	ToWarehouseID   string
	CreatedBy       string
	Note            string
}

// NewTransfer crea un traslado en DRAFT. Origen y destino deben ser bodegas distintas.
func NewTransfer(p NewTransferParams) (*Transfer, error) {
	if p.OrgID == "" || p.FromWarehouseID == "" || p.ToWarehouseID == "" || p.CreatedBy == "" {
		return nil, fmt.Errorf("%w: org_id, bodegas y created_by son obligatorios", domain.ErrInvalidInput)
	}
	if p.FromWarehouseID == p.ToWarehouseID {
		return nil, fmt.Errorf("%w: bodega origen y destino iguales", domain.ErrInvalidInput)
	}
	ts := now()
	return &Transfer{
		id:              uuid.New().String(),
		orgID:           p.OrgID,
		fromWarehouseID: p.FromWarehouseID,
		toWarehouseID:   p.ToWarehouseID,
		status:          TransferStatusDraft,
		createdBy:       p.CreatedBy,
		note:            p.Note,
		createdAt:       ts,
		updatedAt:       ts,
		version:         1,
	}, nil
}

func (t *Transfer) ID() string              { return t.id }
func (t *Transfer) OrgID() string           { return t.orgID }
func (t *Transfer) FromWarehouseID() string { return t.fromWarehouseID }
func (t *Transfer) ToWarehouseID() string   { return t.toWarehouseID }
func (t *Transfer) Status() TransferStatus  { return t.status }
func (t *Transfer) CreatedBy() string       { return t.createdBy }
func (t *Transfer) Note() string            { return t.note }
func (t *Transfer) CreatedAt() time.Time    { return t.createdAt }
func (t *Transfer) UpdatedAt() time.Time    { return t.updatedAt }
func (t *Transfer) Version() int            { return t.version }

func (t *Transfer) CanConfirm() bool { return t.status.CanConfirm() }
func (t *Transfer) CanReceive() bool { return t.status.CanReceive() }
func (t *Transfer) CanReject() bool  { return t.status.CanReject() }
func (t *Transfer) CanCancel() bool  { return t.status.CanCancel() }

// Lines copia defensiva de las líneas.
func (t *Transfer) Lines() []TransferLine {
	out := make([]TransferLine, len(t.lines))
	copy(out, t.lines)
	return out
}

// AddLine solo en DRAFT.
func (t *Transfer) AddLine(line TransferLine) error {
	if !t.status.CanEditLines() {
		return t.illegal("agregar líneas")
	}
	if line.id == "" {
		return fmt.Errorf("%w: línea sin construir", domain.ErrInvalidInput)
	}
	t.lines = append(t.lines, line)
	t.touch()
	return nil
}

// RemoveLine solo en DRAFT.
func (t *Transfer) RemoveLine(lineID string) error {
	if !t.status.CanEditLines() {
		return t.illegal("quitar líneas")
	}
	i, err := t.lineIndex(lineID)
	if err != nil {
		return err
	}
	t.lines = append(t.lines[:i:i], t.lines[i+1:]...)
	t.touch()
	return nil
}

// SetLineFromLocation asigna la ubicación origen; solo antes de despachar (DRAFT).
func (t *Transfer) SetLineFromLocation(lineID, locationID string) error {
	if !t.status.CanEditLines() {
		return t.illegal("cambiar la ubicación origen")
	}
	i, err := t.lineIndex(lineID)
	if err != nil {
		return err
	}
	t.lines[i].fromLocationID = locationID
	t.touch()
	return nil
}

// SetLineToLocation asigna la ubicación destino; permitido en DRAFT e IN_TRANSIT.
func (t *Transfer) SetLineToLocation(lineID, locationID string) error {
	if !t.status.CanAssignDestination() {
		return t.illegal("cambiar la ubicación destino")
	}
	i, err := t.lineIndex(lineID)
	if err != nil {
		return err
	}
	t.lines[i].toLocationID = locationID
	t.touch()
	return nil
}

// Confirm DRAFT|IN_TRANSIT -> IN_TRANSIT. Repetirlo en IN_TRANSIT no es error.
func (t *Transfer) Confirm() error {
	if !t.status.CanConfirm() {
		return t.illegal("confirmar")
	}
	if len(t.lines) == 0 {
		return fmt.Errorf("%w: el traslado %s no tiene líneas", domain.ErrInvalidInput, t.id)
	}
	t.status = TransferStatusInTransit
	t.touch()
	return nil
}

// Receive IN_TRANSIT|PARTIAL -> RECEIVED.
func (t *Transfer) Receive() error {
	if !t.status.CanReceive() {
		return t.illegal("recibir")
	}
	t.status = TransferStatusReceived
	t.touch()
	return nil
}

// ReceivePartial IN_TRANSIT|PARTIAL -> PARTIAL.
func (t *Transfer) ReceivePartial() error {
	if !t.status.CanReceive() {
		return t.illegal("recibir parcialmente")
	}
	t.status = TransferStatusPartial
	t.touch()
	return nil
}

// Reject IN_TRANSIT|PARTIAL -> REJECTED.
func (t *Transfer) Reject() error {
	if !t.status.CanReject() {
		return t.illegal("rechazar")
	}
	t.status = TransferStatusRejected
	t.touch()
	return nil
}

// Cancel DRAFT|IN_TRANSIT -> CANCELED.
func (t *Transfer) Cancel() error {
	if !t.status.CanCancel() {
		return t.illegal("cancelar")
	}
	t.status = TransferStatusCanceled
	t.touch()
	return nil
}

// TotalQuantity suma las cantidades de todas las líneas.
func (t *Transfer) TotalQuantity() valueobject.Quantity {
	var precision int32
	for _, l := range t.lines {
		if p := l.quantity.Precision(); p > precision {
			precision = p
		}
	}
	total := valueobject.ZeroQuantity(precision)
	for _, l := range t.lines {
		total = total.Add(l.quantity)
	}
	return total
}

// IncrementVersion lo llama la persistencia después de guardar con control optimista.
func (t *Transfer) IncrementVersion() { t.version++ }

func (t *Transfer) lineIndex(lineID string) (int, error) {
	for i, l := range t.lines {
		if l.id == lineID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
}

func (t *Transfer) illegal(action string) error {
	return fmt.Errorf("%w: no se puede %s el traslado %s en estado %s", domain.ErrIllegalStateTransition, action, t.id, t.status)
}

func (t *Transfer) touch() { t.updatedAt = now() }
