package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TransferUseCase traslados entre bodegas. Cada paso que mueve mercancía genera un movimiento
// contabilizado cuya Reference es la del traslado:
//   - Confirm: TRANSFER_OUT desde las ubicaciones origen, al costo promedio del origen.
//   - Receive / ReceivePartial: TRANSFER_IN hacia las ubicaciones destino, al costo del despacho.
//   - Reject / Cancel en tránsito: TRANSFER_IN de lo pendiente de vuelta al origen.
type TransferUseCase struct {
	txRunner TxRunner
	ledger   *ledger
	log      *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, settings Settings, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{
		txRunner: txRunner,
		ledger:   newLedger(settings),
		log:      log.Component("transfers"),
	}
}

// TransferReference referencia con la que se enlazan los movimientos de un traslado.
func TransferReference(transferID string) string { return "transfer:" + transferID }

// Create crea un traslado en DRAFT.
func (uc *TransferUseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	var out *dto.TransferResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		for _, whID := range []string{in.FromWarehouseID, in.ToWarehouseID} {
			wh, err := r.Warehouses.GetByID(ctx, orgID, whID)
			if err != nil {
				return err
			}
			if err := invalid(uc.ledger.validator.ValidateWarehouseForMovement(wh)); err != nil {
				return err
			}
		}
		t, err := entity.NewTransfer(entity.NewTransferParams{
			OrgID:           orgID,
			FromWarehouseID: in.FromWarehouseID,
			ToWarehouseID:   in.ToWarehouseID,
			CreatedBy:       userID,
			Note:            in.Note,
		})
		if err != nil {
			return err
		}
		for i, lr := range in.Lines {
			line, err := uc.buildLine(ctx, r, t, lr)
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			if err := t.AddLine(line); err != nil {
				return err
			}
		}
		if err := r.Transfers.Create(ctx, t); err != nil {
			return err
		}
		out = toTransferResponse(t, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", out.ID).Str("org_id", orgID).Int("lines", len(out.Lines)).Msg("traslado creado")
	return out, nil
}

// SetLineLocations asigna ubicación origen y/o destino de una línea.
func (uc *TransferUseCase) SetLineLocations(ctx context.Context, orgID, transferID, lineID string, in dto.SetLineLocationsRequest) (*dto.TransferResponse, error) {
	return uc.mutate(ctx, orgID, transferID, func(r Repos, t *entity.Transfer) error {
		if in.FromLocationID != nil {
			if err := uc.checkLocation(ctx, r, orgID, *in.FromLocationID, t.FromWarehouseID()); err != nil {
				return err
			}
			if err := t.SetLineFromLocation(lineID, *in.FromLocationID); err != nil {
				return err
			}
		}
		if in.ToLocationID != nil {
			if err := uc.checkLocation(ctx, r, orgID, *in.ToLocationID, t.ToWarehouseID()); err != nil {
				return err
			}
			if err := t.SetLineToLocation(lineID, *in.ToLocationID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Confirm despacha el traslado (DRAFT -> IN_TRANSIT) y descuenta el stock del origen.
// Confirmar un traslado ya en tránsito no genera un segundo despacho.
func (uc *TransferUseCase) Confirm(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error) {
	resp, err := uc.mutate(ctx, orgID, transferID, func(r Repos, t *entity.Transfer) error {
		alreadyInTransit := t.Status() == entity.TransferStatusInTransit
		if err := t.Confirm(); err != nil {
			return err
		}
		if alreadyInTransit {
			return nil
		}
		m, err := uc.newMovement(t, entity.MovementTypeTransferOut, t.FromWarehouseID(), userID, "despacho")
		if err != nil {
			return err
		}
		for _, tl := range t.Lines() {
			if tl.FromLocationID() == "" {
				return fmt.Errorf("%w: la línea %s no tiene ubicación origen", domain.ErrInvalidInput, tl.ID())
			}
			key := repository.StockKey{OrgID: orgID, ProductID: tl.ProductID(), LocationID: tl.FromLocationID()}
			bal, err := uc.ledger.lockBalance(ctx, r.Stock, key, t.FromWarehouseID())
			if err != nil {
				return err
			}
			cost := bal.AverageCost
			line, err := entity.NewMovementLine(tl.ProductID(), tl.FromLocationID(), tl.Quantity(), &cost, cost.Currency())
			if err != nil {
				return err
			}
			if err := m.AddLine(line.ForTransferLine(tl.ID())); err != nil {
				return err
			}
		}
		return uc.post(ctx, r, m)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", transferID).Str("org_id", orgID).Msg("no se pudo confirmar")
		return nil, err
	}
	uc.log.Info().Str("transfer_id", transferID).Str("org_id", orgID).Str("status", resp.Status).Msg("traslado despachado")
	return resp, nil
}

// Receive recibe todo lo pendiente en las ubicaciones destino (IN_TRANSIT|PARTIAL -> RECEIVED).
func (uc *TransferUseCase) Receive(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error) {
	resp, err := uc.mutate(ctx, orgID, transferID, func(r Repos, t *entity.Transfer) error {
		if err := t.Receive(); err != nil {
			return err
		}
		st, err := uc.loadState(ctx, r, t)
		if err != nil {
			return err
		}
		receipts := make(map[string]decimal.Decimal)
		for _, tl := range t.Lines() {
			if pending := st.pending(tl); pending.IsPositive() {
				receipts[tl.ID()] = pending
			}
		}
		return uc.receiveInto(ctx, r, t, st, receipts, userID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", transferID).Str("org_id", orgID).Str("status", resp.Status).Msg("traslado recibido")
	return resp, nil
}

// ReceivePartial recibe las cantidades indicadas por línea (-> PARTIAL). Cada cantidad debe
// ser positiva y no superar lo pendiente de la línea.
func (uc *TransferUseCase) ReceivePartial(ctx context.Context, orgID, transferID, userID string, in dto.ReceivePartialRequest) (*dto.TransferResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: no hay líneas a recibir", domain.ErrInvalidInput)
	}
	resp, err := uc.mutate(ctx, orgID, transferID, func(r Repos, t *entity.Transfer) error {
		if err := t.ReceivePartial(); err != nil {
			return err
		}
		st, err := uc.loadState(ctx, r, t)
		if err != nil {
			return err
		}
		lines := make(map[string]entity.TransferLine)
		for _, tl := range t.Lines() {
			lines[tl.ID()] = tl
		}
		receipts := make(map[string]decimal.Decimal)
		for _, rr := range in.Lines {
			tl, ok := lines[rr.LineID]
			if !ok {
				return fmt.Errorf("%w: línea %s", domain.ErrNotFound, rr.LineID)
			}
			qty, err := uc.ledger.quantity(rr.Quantity)
			if err != nil {
				return err
			}
			total := receipts[tl.ID()].Add(qty.Value())
			if !total.IsPositive() {
				return fmt.Errorf("%w: la cantidad recibida debe ser positiva", domain.ErrValidation)
			}
			if pending := st.pending(tl); total.GreaterThan(pending) {
				return fmt.Errorf("%w: la línea %s tiene %s pendiente, se reciben %s", domain.ErrInvalidInput, tl.ID(), pending, total)
			}
			receipts[tl.ID()] = total
		}
		return uc.receiveInto(ctx, r, t, st, receipts, userID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", transferID).Str("org_id", orgID).Str("status", resp.Status).Msg("recepción parcial")
	return resp, nil
}

// Reject rechaza el traslado en destino y devuelve lo pendiente al origen.
func (uc *TransferUseCase) Reject(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error) {
	resp, err := uc.mutate(ctx, orgID, transferID, func(r Repos, t *entity.Transfer) error {
		if err := t.Reject(); err != nil {
			return err
		}
		return uc.returnToSource(ctx, r, t, userID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", transferID).Str("org_id", orgID).Str("status", resp.Status).Msg("traslado rechazado")
	return resp, nil
}

// Cancel cancela el traslado; si ya estaba en tránsito devuelve la mercancía al origen.
func (uc *TransferUseCase) Cancel(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error) {
	resp, err := uc.mutate(ctx, orgID, transferID, func(r Repos, t *entity.Transfer) error {
		inTransit := t.Status() == entity.TransferStatusInTransit
		if err := t.Cancel(); err != nil {
			return err
		}
		if !inTransit {
			return nil
		}
		return uc.returnToSource(ctx, r, t, userID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", transferID).Str("org_id", orgID).Str("status", resp.Status).Msg("traslado cancelado")
	return resp, nil
}

// Get obtiene el traslado con lo recibido por línea.
func (uc *TransferUseCase) Get(ctx context.Context, orgID, transferID string) (*dto.TransferResponse, error) {
	var out *dto.TransferResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		t, err := r.Transfers.GetByID(ctx, orgID, transferID)
		if err != nil {
			return err
		}
		st, err := uc.loadState(ctx, r, t)
		if err != nil {
			return err
		}
		out = toTransferResponse(t, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista traslados de la organización, más recientes primero.
func (uc *TransferUseCase) List(ctx context.Context, orgID string, in dto.ListTransfersRequest) (*dto.TransferListResponse, error) {
	in.DefaultPage()
	filter := repository.TransferFilter{
		OrgID:       orgID,
		WarehouseID: in.WarehouseID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Status != "" {
		status := entity.TransferStatus(in.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
		}
		filter.Status = status
	}

	items := []dto.TransferResponse{}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		list, err := r.Transfers.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, t := range list {
			st, err := uc.loadState(ctx, r, t)
			if err != nil {
				return err
			}
			items = append(items, *toTransferResponse(t, st))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// mutate carga el traslado, aplica fn y lo guarda con control de versión, todo en una transacción.
func (uc *TransferUseCase) mutate(ctx context.Context, orgID, transferID string, fn func(r Repos, t *entity.Transfer) error) (*dto.TransferResponse, error) {
	var out *dto.TransferResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		t, err := r.Transfers.GetByID(ctx, orgID, transferID)
		if err != nil {
			return err
		}
		if err := fn(r, t); err != nil {
			return err
		}
		if err := r.Transfers.Update(ctx, t); err != nil {
			return err
		}
		st, err := uc.loadState(ctx, r, t)
		if err != nil {
			return err
		}
		out = toTransferResponse(t, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// receiveInto genera el TRANSFER_IN hacia destino con las cantidades por línea.
func (uc *TransferUseCase) receiveInto(ctx context.Context, r Repos, t *entity.Transfer, st *transferState, receipts map[string]decimal.Decimal, userID string) error {
	if len(receipts) == 0 {
		return nil
	}
	m, err := uc.newMovement(t, entity.MovementTypeTransferIn, t.ToWarehouseID(), userID, "recepción")
	if err != nil {
		return err
	}
	for _, tl := range t.Lines() {
		qty, ok := receipts[tl.ID()]
		if !ok {
			continue
		}
		if tl.ToLocationID() == "" {
			return fmt.Errorf("%w: la línea %s no tiene ubicación destino", domain.ErrInvalidInput, tl.ID())
		}
		if err := uc.addInboundLine(m, st, tl, tl.ToLocationID(), qty); err != nil {
			return err
		}
	}
	return uc.post(ctx, r, m)
}

// returnToSource devuelve lo despachado y no recibido a las ubicaciones origen.
func (uc *TransferUseCase) returnToSource(ctx context.Context, r Repos, t *entity.Transfer, userID string) error {
	st, err := uc.loadState(ctx, r, t)
	if err != nil {
		return err
	}
	if st.dispatch == nil {
		return nil
	}
	m, err := uc.newMovement(t, entity.MovementTypeTransferIn, t.FromWarehouseID(), userID, "devolución")
	if err != nil {
		return err
	}
	for _, tl := range t.Lines() {
		pending := st.pending(tl)
		if !pending.IsPositive() {
			continue
		}
		if err := uc.addInboundLine(m, st, tl, tl.FromLocationID(), pending); err != nil {
			return err
		}
	}
	if len(m.Lines()) == 0 {
		return nil
	}
	return uc.post(ctx, r, m)
}

func (uc *TransferUseCase) addInboundLine(m *entity.Movement, st *transferState, tl entity.TransferLine, locationID string, qty decimal.Decimal) error {
	cost, err := st.dispatchCost(tl)
	if err != nil {
		return err
	}
	q, err := valueobject.NewQuantity(qty, tl.Quantity().Precision())
	if err != nil {
		return err
	}
	line, err := entity.NewMovementLine(tl.ProductID(), locationID, q, &cost, cost.Currency())
	if err != nil {
		return err
	}
	return m.AddLine(line.ForTransferLine(tl.ID()))
}

func (uc *TransferUseCase) newMovement(t *entity.Transfer, typ entity.MovementType, warehouseID, userID, reason string) (*entity.Movement, error) {
	return entity.NewMovement(entity.NewMovementParams{
		OrgID:       t.OrgID(),
		WarehouseID: warehouseID,
		Type:        typ,
		Reference:   TransferReference(t.ID()),
		Reason:      reason,
		CreatedBy:   userID,
	})
}

// post contabiliza el movimiento generado, aplica saldos y lo persiste.
func (uc *TransferUseCase) post(ctx context.Context, r Repos, m *entity.Movement) error {
	if err := m.Post(); err != nil {
		return err
	}
	if err := uc.ledger.apply(ctx, r.Stock, m); err != nil {
		return err
	}
	if err := r.Movements.Create(ctx, m); err != nil {
		return err
	}
	uc.log.Debug().Str("movement_id", m.ID()).Str("type", m.Type().String()).Str("reference", m.Reference()).Msg("movimiento de traslado contabilizado")
	return nil
}

func (uc *TransferUseCase) buildLine(ctx context.Context, r Repos, t *entity.Transfer, in dto.TransferLineRequest) (entity.TransferLine, error) {
	product, err := r.Products.GetByID(ctx, t.OrgID(), in.ProductID)
	if err != nil {
		return entity.TransferLine{}, err
	}
	if err := invalid(uc.ledger.validator.ValidateProductForMovement(product)); err != nil {
		return entity.TransferLine{}, err
	}
	if in.FromLocationID != "" {
		if err := uc.checkLocation(ctx, r, t.OrgID(), in.FromLocationID, t.FromWarehouseID()); err != nil {
			return entity.TransferLine{}, err
		}
	}
	if in.ToLocationID != "" {
		if err := uc.checkLocation(ctx, r, t.OrgID(), in.ToLocationID, t.ToWarehouseID()); err != nil {
			return entity.TransferLine{}, err
		}
	}
	qty, err := uc.ledger.quantity(in.Quantity)
	if err != nil {
		return entity.TransferLine{}, err
	}
	return entity.NewTransferLine(in.ProductID, qty, in.FromLocationID, in.ToLocationID)
}

func (uc *TransferUseCase) checkLocation(ctx context.Context, r Repos, orgID, locationID, warehouseID string) error {
	loc, err := r.Locations.GetByID(ctx, orgID, locationID)
	if err != nil {
		return err
	}
	return invalid(uc.ledger.validator.ValidateLocationForMovement(loc, warehouseID))
}

// loadState reúne los movimientos contabilizados del traslado.
func (uc *TransferUseCase) loadState(ctx context.Context, r Repos, t *entity.Transfer) (*transferState, error) {
	movs, err := r.Movements.List(ctx, repository.MovementFilter{
		OrgID:     t.OrgID(),
		Reference: TransferReference(t.ID()),
		Status:    entity.MovementStatusPosted,
	})
	if err != nil {
		return nil, err
	}
	return newTransferState(t, movs), nil
}
