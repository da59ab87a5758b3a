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

// StockUseCase consultas de saldos y validación especulativa de salidas.
type StockUseCase struct {
	txRunner TxRunner
	ledger   *ledger
	log      *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, settings Settings, log *logger.Logger) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		ledger:   newLedger(settings),
		log:      log.Component("stock"),
	}
}

// GetBalances saldos por producto (todas sus ubicaciones) o por bodega.
func (uc *StockUseCase) GetBalances(ctx context.Context, orgID string, q dto.StockQuery) (*dto.StockListResponse, error) {
	if q.ProductID == "" && q.WarehouseID == "" {
		return nil, fmt.Errorf("%w: product_id o warehouse_id es obligatorio", domain.ErrInvalidInput)
	}
	q.DefaultPage()

	var list []*entity.StockBalance
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		var err error
		if q.ProductID != "" {
			list, err = r.Stock.ListByProduct(ctx, orgID, q.ProductID)
		} else {
			list, err = r.Stock.ListByWarehouse(ctx, orgID, q.WarehouseID, q.Limit, q.Offset)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.StockBalanceResponse, 0, len(list))
	for _, b := range list {
		if q.ProductID != "" && q.WarehouseID != "" && b.WarehouseID != q.WarehouseID {
			continue
		}
		value, err := uc.ledger.calc.CalculateInventoryValue(b.Quantity, b.AverageCost)
		if err != nil {
			return nil, err
		}
		items = append(items, toStockBalanceResponse(b, value))
	}
	return &dto.StockListResponse{Items: items}, nil
}

// ValidateOutput indica si hay stock para una salida, sin reservar nada. Parte del saldo
// materializado y reproduce los movimientos contabilizados después de su última actualización.
// El resultado es una foto: Post vuelve a validar bajo bloqueo.
func (uc *StockUseCase) ValidateOutput(ctx context.Context, orgID string, in dto.ValidateOutputRequest) (*dto.ValidateOutputResponse, error) {
	if in.ProductID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("%w: product_id y location_id son obligatorios", domain.ErrInvalidInput)
	}
	requested, err := uc.ledger.quantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	key := repository.StockKey{OrgID: orgID, ProductID: in.ProductID, LocationID: in.LocationID}
	var out *dto.ValidateOutputResponse
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		bal, err := uc.ledger.readBalance(ctx, r.Stock, key)
		if err != nil {
			return err
		}
		pending, err := r.Movements.ListPostedSince(ctx, orgID, in.ProductID, in.LocationID, bal.UpdatedAt)
		if err != nil {
			return err
		}
		res := uc.ledger.validator.ValidateStockForOutput(in.ProductID, in.LocationID, requested, bal.Quantity, pending)
		out = &dto.ValidateOutputResponse{
			IsValid:           res.IsValid,
			AvailableQuantity: res.AvailableQuantity.Value(),
			RequestedQuantity: res.RequestedQuantity.Value(),
			Errors:            res.Errors,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("product_id", in.ProductID).Str("location_id", in.LocationID).
		Bool("is_valid", out.IsValid).Msg("validación de salida")
	return out, nil
}
