package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	resp := &dto.MovementResponse{
		ID:            m.ID(),
		OrgID:         m.OrgID(),
		Type:          m.Type().String(),
		Status:        m.Status().String(),
		WarehouseID:   m.WarehouseID(),
		Reference:     m.Reference(),
		Reason:        m.Reason(),
		Note:          m.Note(),
		CreatedBy:     m.CreatedBy(),
		CreatedAt:     m.CreatedAt(),
		UpdatedAt:     m.UpdatedAt(),
		Version:       m.Version(),
		TotalQuantity: m.TotalQuantity().Value(),
		Lines:         make([]dto.MovementLineResponse, 0, len(m.Lines())),
	}
	if ts, ok := m.PostedAt(); ok {
		resp.PostedAt = &ts
	}
	if total, err := m.TotalCost(); err == nil && total != nil {
		amount := total.Amount()
		resp.TotalCost = &amount
	}
	for _, l := range m.Lines() {
		lr := dto.MovementLineResponse{
			ID:         l.ID(),
			ProductID:  l.ProductID(),
			LocationID: l.LocationID(),
			Quantity:   l.Quantity().Value(),
			Currency:   l.Currency(),
		}
		if cost, ok := l.UnitCost(); ok {
			amount := cost.Amount()
			lr.UnitCost = &amount
		}
		if total, ok := l.TotalCost(); ok {
			amount := total.Amount()
			lr.TotalCost = &amount
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}

func toTransferResponse(t *entity.Transfer, st *transferState) *dto.TransferResponse {
	resp := &dto.TransferResponse{
		ID:              t.ID(),
		OrgID:           t.OrgID(),
		FromWarehouseID: t.FromWarehouseID(),
		ToWarehouseID:   t.ToWarehouseID(),
		Status:          t.Status().String(),
		Note:            t.Note(),
		CreatedBy:       t.CreatedBy(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
		Version:         t.Version(),
		TotalQuantity:   t.TotalQuantity().Value(),
		Lines:           make([]dto.TransferLineResponse, 0, len(t.Lines())),
	}
	for _, l := range t.Lines() {
		resp.Lines = append(resp.Lines, dto.TransferLineResponse{
			ID:             l.ID(),
			ProductID:      l.ProductID(),
			Quantity:       l.Quantity().Value(),
			ReceivedQty:    st.receivedQty(l.ID()),
			FromLocationID: l.FromLocationID(),
			ToLocationID:   l.ToLocationID(),
		})
	}
	return resp
}

func toStockBalanceResponse(b *entity.StockBalance, value valueobject.Money) dto.StockBalanceResponse {
	return dto.StockBalanceResponse{
		ProductID:   b.ProductID,
		WarehouseID: b.WarehouseID,
		LocationID:  b.LocationID,
		Quantity:    b.Quantity.Value(),
		AverageCost: b.AverageCost.Amount(),
		TotalValue:  value.Amount(),
		Currency:    b.AverageCost.Currency(),
		UpdatedAt:   b.UpdatedAt,
	}
}
