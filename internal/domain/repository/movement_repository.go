package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios de listado de movimientos. Campos vacíos no filtran.
// From/To acotan posted_at (inclusive), así que dejan fuera los borradores.
type MovementFilter struct {
	OrgID       string
	WarehouseID string
	ProductID   string
	Type        entity.MovementType
	Status      entity.MovementStatus
	Reference   string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia para el agregado Movement (DIP).
// GetByID devuelve domain.ErrNotFound si no existe en la organización.
// Update aplica control optimista: falla con domain.ErrConflict si la versión guardada
// no coincide y, si tiene éxito, llama a IncrementVersion sobre el agregado.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	Update(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListPostedSince movimientos POSTED con líneas en (producto, ubicación) contabilizados después de since.
	ListPostedSince(ctx context.Context, orgID, productID, locationID string, since time.Time) ([]*entity.Movement, error)
}
