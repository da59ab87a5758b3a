package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// MovementUseCase ciclo de vida de movimientos manuales (IN, OUT, ADJUST_IN, ADJUST_OUT).
// Los movimientos de traslado los genera TransferUseCase.
type MovementUseCase struct {
	txRunner TxRunner
	ledger   *ledger
	log      *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, settings Settings, log *logger.Logger) *MovementUseCase {
	return &MovementUseCase{
		txRunner: txRunner,
		ledger:   newLedger(settings),
		log:      log.Component("movements"),
	}
}

// Create crea un movimiento en DRAFT con sus líneas. Valida bodega, productos y ubicaciones.
func (uc *MovementUseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	typ, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return nil, err
	}
	if typ.IsTransfer() {
		return nil, fmt.Errorf("%w: los movimientos %s se generan desde un traslado", domain.ErrInvalidInput, typ)
	}

	var out *entity.Movement
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		wh, err := r.Warehouses.GetByID(ctx, orgID, in.WarehouseID)
		if err != nil {
			return err
		}
		if err := invalid(uc.ledger.validator.ValidateWarehouseForMovement(wh)); err != nil {
			return err
		}
		m, err := entity.NewMovement(entity.NewMovementParams{
			OrgID:       orgID,
			WarehouseID: in.WarehouseID,
			Type:        typ,
			Reference:   in.Reference,
			Reason:      in.Reason,
			Note:        in.Note,
			CreatedBy:   userID,
		})
		if err != nil {
			return err
		}
		for i, lr := range in.Lines {
			line, err := uc.buildLine(ctx, r, m, lr)
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			if err := m.AddLine(line); err != nil {
				return err
			}
		}
		if err := r.Movements.Create(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("movement_id", out.ID()).Str("org_id", orgID).Str("type", typ.String()).
		Int("lines", len(out.Lines())).Msg("movimiento creado")
	return toMovementResponse(out), nil
}

// AddLine agrega una línea a un movimiento en DRAFT.
func (uc *MovementUseCase) AddLine(ctx context.Context, orgID, movementID string, in dto.MovementLineRequest) (*dto.MovementResponse, error) {
	return uc.mutate(ctx, orgID, movementID, func(r Repos, m *entity.Movement) error {
		line, err := uc.buildLine(ctx, r, m, in)
		if err != nil {
			return err
		}
		return m.AddLine(line)
	})
}

// RemoveLine quita una línea de un movimiento en DRAFT.
func (uc *MovementUseCase) RemoveLine(ctx context.Context, orgID, movementID, lineID string) (*dto.MovementResponse, error) {
	return uc.mutate(ctx, orgID, movementID, func(_ Repos, m *entity.Movement) error {
		return m.RemoveLine(lineID)
	})
}

// Post contabiliza el movimiento: DRAFT -> POSTED y actualiza los saldos en la misma transacción.
// Las salidas se validan contra el saldo bloqueado; si alguna línea no alcanza no se aplica nada.
func (uc *MovementUseCase) Post(ctx context.Context, orgID, movementID string) (*dto.MovementResponse, error) {
	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Movements.GetByID(ctx, orgID, movementID)
		if err != nil {
			return err
		}
		if m.CanPost() && len(m.Lines()) == 0 {
			return fmt.Errorf("%w: el movimiento %s no tiene líneas", domain.ErrInvalidInput, m.ID())
		}
		if err := m.Post(); err != nil {
			return err
		}
		if err := uc.ledger.apply(ctx, r.Stock, m); err != nil {
			return err
		}
		if err := r.Movements.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("movement_id", movementID).Str("org_id", orgID).Msg("no se pudo contabilizar")
		return nil, err
	}
	uc.log.Info().Str("movement_id", out.ID()).Str("org_id", orgID).Str("status", out.Status().String()).
		Str("total_quantity", out.TotalQuantity().String()).Msg("movimiento contabilizado")
	return toMovementResponse(out), nil
}

// Void anula un movimiento contabilizado y compensa los saldos.
func (uc *MovementUseCase) Void(ctx context.Context, orgID, movementID string) (*dto.MovementResponse, error) {
	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Movements.GetByID(ctx, orgID, movementID)
		if err != nil {
			return err
		}
		if m.Type().IsTransfer() {
			return fmt.Errorf("%w: el movimiento %s pertenece a un traslado", domain.ErrInvalidOperation, m.ID())
		}
		if err := m.Void(); err != nil {
			return err
		}
		if err := uc.ledger.reverse(ctx, r.Stock, m); err != nil {
			return err
		}
		if err := r.Movements.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("movement_id", movementID).Str("org_id", orgID).Msg("no se pudo anular")
		return nil, err
	}
	uc.log.Info().Str("movement_id", out.ID()).Str("org_id", orgID).Str("status", out.Status().String()).Msg("movimiento anulado")
	return toMovementResponse(out), nil
}

// Get obtiene un movimiento de la organización.
func (uc *MovementUseCase) Get(ctx context.Context, orgID, movementID string) (*dto.MovementResponse, error) {
	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Movements.GetByID(ctx, orgID, movementID)
		out = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(out), nil
}

// List lista movimientos con filtros y paginación.
func (uc *MovementUseCase) List(ctx context.Context, orgID string, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	filter := repository.MovementFilter{
		OrgID:       orgID,
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Reference:   in.Reference,
		From:        in.From,
		To:          in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Type != "" {
		typ, err := entity.ParseMovementType(in.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = typ
	}
	if in.Status != "" {
		status := entity.MovementStatus(in.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
		}
		filter.Status = status
	}

	var list []*entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		list, err = r.Movements.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// mutate carga el movimiento, aplica fn y lo guarda con control de versión.
func (uc *MovementUseCase) mutate(ctx context.Context, orgID, movementID string, fn func(r Repos, m *entity.Movement) error) (*dto.MovementResponse, error) {
	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Movements.GetByID(ctx, orgID, movementID)
		if err != nil {
			return err
		}
		if err := fn(r, m); err != nil {
			return err
		}
		if err := r.Movements.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(out), nil
}

// buildLine valida producto, ubicación, cantidad y costo de una línea.
func (uc *MovementUseCase) buildLine(ctx context.Context, r Repos, m *entity.Movement, in dto.MovementLineRequest) (entity.MovementLine, error) {
	product, err := r.Products.GetByID(ctx, m.OrgID(), in.ProductID)
	if err != nil {
		return entity.MovementLine{}, err
	}
	if err := invalid(uc.ledger.validator.ValidateProductForMovement(product)); err != nil {
		return entity.MovementLine{}, err
	}
	if !product.CostMethod.IsSupported() {
		return entity.MovementLine{}, fmt.Errorf("%w: método de costeo %s no soportado", domain.ErrInvalidInput, product.CostMethod)
	}
	location, err := r.Locations.GetByID(ctx, m.OrgID(), in.LocationID)
	if err != nil {
		return entity.MovementLine{}, err
	}
	if err := invalid(uc.ledger.validator.ValidateLocationForMovement(location, m.WarehouseID())); err != nil {
		return entity.MovementLine{}, err
	}

	qty, err := uc.ledger.quantity(in.Quantity)
	if err != nil {
		return entity.MovementLine{}, err
	}
	if in.UnitCost == nil {
		if m.Type().RequiresUnitCost() {
			return entity.MovementLine{}, fmt.Errorf("%w: unit_cost es obligatorio en %s", domain.ErrInvalidInput, m.Type())
		}
		return entity.NewMovementLine(in.ProductID, in.LocationID, qty, nil, uc.ledger.settings.Currency)
	}
	cost, err := uc.ledger.unitCost(*in.UnitCost, in.Currency)
	if err != nil {
		return entity.MovementLine{}, err
	}
	return entity.NewMovementLine(in.ProductID, in.LocationID, qty, &cost, cost.Currency())
}
