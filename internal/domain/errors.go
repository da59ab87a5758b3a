package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Errores del motor de inventario. Se envuelven con fmt.Errorf("%w: ...") en el punto de la falla
// y se comparan con errors.Is.
var (
	// ErrValidation construcción inválida de un value object (monto negativo, precisión, moneda).
	ErrValidation = errors.New("valor inválido")
	// ErrInvalidOperation aritmética que violaría la no negatividad.
	ErrInvalidOperation = errors.New("operación inválida")
	// ErrIllegalStateTransition método de la máquina de estados llamado en un estado que no lo permite.
	ErrIllegalStateTransition = errors.New("transición de estado ilegal")

	ErrDivisionByZero   = fmt.Errorf("%w: división por cero", ErrInvalidOperation)
	ErrCurrencyMismatch = fmt.Errorf("%w: monedas distintas", ErrValidation)
)
