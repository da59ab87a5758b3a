package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeIn          MovementType = "IN"           // entrada (compra, recepción)
	MovementTypeOut         MovementType = "OUT"          // salida (venta, consumo)
	MovementTypeAdjustIn    MovementType = "ADJUST_IN"    // ajuste positivo
	MovementTypeAdjustOut   MovementType = "ADJUST_OUT"   // ajuste negativo
	MovementTypeTransferIn  MovementType = "TRANSFER_IN"  // entrada por traslado
	MovementTypeTransferOut MovementType = "TRANSFER_OUT" // salida por traslado
)

// Conjuntos fijos de clasificación; definen el signo del movimiento en la valoración.
var (
	inputTypes      = map[MovementType]bool{MovementTypeIn: true, MovementTypeAdjustIn: true, MovementTypeTransferIn: true}
	outputTypes     = map[MovementType]bool{MovementTypeOut: true, MovementTypeAdjustOut: true, MovementTypeTransferOut: true}
	adjustmentTypes = map[MovementType]bool{MovementTypeAdjustIn: true, MovementTypeAdjustOut: true}
	transferTypes   = map[MovementType]bool{MovementTypeTransferIn: true, MovementTypeTransferOut: true}
)

// ParseMovementType convierte texto (sin distinguir mayúsculas) en MovementType.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func (t MovementType) IsValid() bool      { return inputTypes[t] || outputTypes[t] }
func (t MovementType) IsInput() bool      { return inputTypes[t] }
func (t MovementType) IsOutput() bool     { return outputTypes[t] }
func (t MovementType) IsAdjustment() bool { return adjustmentTypes[t] }
func (t MovementType) IsTransfer() bool   { return transferTypes[t] }
func (t MovementType) String() string     { return string(t) }

// Sign devuelve +1 para entradas, -1 para salidas y 0 para tipos desconocidos.
func (t MovementType) Sign() int {
	switch {
	case t.IsInput():
		return 1
	case t.IsOutput():
		return -1
	}
	return 0
}

// RequiresUnitCost indica si las líneas deben traer costo unitario (las entradas externas lo fijan;
// TRANSFER_IN hereda el costo promedio de la bodega origen).
func (t MovementType) RequiresUnitCost() bool {
	return t == MovementTypeIn || t == MovementTypeAdjustIn
}
