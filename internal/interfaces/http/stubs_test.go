package http_test

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// Dobles de los casos de uso: registran la última llamada y devuelven err si está fijado.

type stubMovements struct {
	err       error
	calls     int
	orgID     string
	userID    string
	id        string
	createReq dto.CreateMovementRequest
	listReq   dto.ListMovementsRequest
}

func (s *stubMovements) record(orgID, id string) (*dto.MovementResponse, error) {
	s.calls++
	s.orgID, s.id = orgID, id
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MovementResponse{ID: id, OrgID: orgID, Status: "POSTED"}, nil
}

func (s *stubMovements) Create(_ context.Context, orgID, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	s.userID, s.createReq = userID, in
	resp, err := s.record(orgID, "mov-1")
	if resp != nil {
		resp.Status = "DRAFT"
	}
	return resp, err
}

func (s *stubMovements) AddLine(_ context.Context, orgID, movementID string, _ dto.MovementLineRequest) (*dto.MovementResponse, error) {
	return s.record(orgID, movementID)
}

func (s *stubMovements) RemoveLine(_ context.Context, orgID, movementID, _ string) (*dto.MovementResponse, error) {
	return s.record(orgID, movementID)
}

func (s *stubMovements) Post(_ context.Context, orgID, movementID string) (*dto.MovementResponse, error) {
	return s.record(orgID, movementID)
}

func (s *stubMovements) Void(_ context.Context, orgID, movementID string) (*dto.MovementResponse, error) {
	return s.record(orgID, movementID)
}

func (s *stubMovements) Get(_ context.Context, orgID, movementID string) (*dto.MovementResponse, error) {
	return s.record(orgID, movementID)
}

func (s *stubMovements) List(_ context.Context, orgID string, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	s.calls++
	s.orgID, s.listReq = orgID, in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MovementListResponse{Items: []dto.MovementResponse{}, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

type stubTransfers struct {
	err        error
	calls      int
	userID     string
	id         string
	partialReq dto.ReceivePartialRequest
}

func (s *stubTransfers) record(id, userID string) (*dto.TransferResponse, error) {
	s.calls++
	s.id, s.userID = id, userID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TransferResponse{ID: id, Status: "IN_TRANSIT"}, nil
}

func (s *stubTransfers) Create(_ context.Context, _, userID string, _ dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	return s.record("tr-1", userID)
}

func (s *stubTransfers) SetLineLocations(_ context.Context, _, transferID, _ string, _ dto.SetLineLocationsRequest) (*dto.TransferResponse, error) {
	return s.record(transferID, "")
}

func (s *stubTransfers) Confirm(_ context.Context, _, transferID, userID string) (*dto.TransferResponse, error) {
	return s.record(transferID, userID)
}

func (s *stubTransfers) Receive(_ context.Context, _, transferID, userID string) (*dto.TransferResponse, error) {
	return s.record(transferID, userID)
}

func (s *stubTransfers) ReceivePartial(_ context.Context, _, transferID, userID string, in dto.ReceivePartialRequest) (*dto.TransferResponse, error) {
	s.partialReq = in
	return s.record(transferID, userID)
}

func (s *stubTransfers) Reject(_ context.Context, _, transferID, userID string) (*dto.TransferResponse, error) {
	return s.record(transferID, userID)
}

func (s *stubTransfers) Cancel(_ context.Context, _, transferID, userID string) (*dto.TransferResponse, error) {
	return s.record(transferID, userID)
}

func (s *stubTransfers) Get(_ context.Context, _, transferID string) (*dto.TransferResponse, error) {
	return s.record(transferID, "")
}

func (s *stubTransfers) List(_ context.Context, _ string, _ dto.ListTransfersRequest) (*dto.TransferListResponse, error) {
	s.calls++
	return &dto.TransferListResponse{Items: []dto.TransferResponse{}}, s.err
}

type stubStock struct {
	validateReq dto.ValidateOutputRequest
	query       dto.StockQuery
	result      dto.ValidateOutputResponse
}

func (s *stubStock) GetBalances(_ context.Context, _ string, q dto.StockQuery) (*dto.StockListResponse, error) {
	s.query = q
	return &dto.StockListResponse{Items: []dto.StockBalanceResponse{}}, nil
}

func (s *stubStock) ValidateOutput(_ context.Context, _ string, in dto.ValidateOutputRequest) (*dto.ValidateOutputResponse, error) {
	s.validateReq = in
	out := s.result
	return &out, nil
}

type stubProducts struct{ err error }

func (s *stubProducts) Create(_ context.Context, orgID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProductResponse{ID: "prod-1", OrgID: orgID, SKU: in.SKU, Name: in.Name}, nil
}

func (s *stubProducts) GetByID(_ context.Context, _, id string) (*dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProductResponse{ID: id}, nil
}

func (s *stubProducts) List(_ context.Context, _ string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	return &dto.ProductListResponse{Items: []dto.ProductResponse{}, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

type stubWarehouses struct{}

func (stubWarehouses) Create(_ context.Context, orgID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	return &dto.WarehouseResponse{ID: "wh-1", OrgID: orgID, Name: in.Name}, nil
}

func (stubWarehouses) GetByID(_ context.Context, _, id string) (*dto.WarehouseResponse, error) {
	return &dto.WarehouseResponse{ID: id}, nil
}

func (stubWarehouses) List(_ context.Context, _ string, _ dto.PageRequest) (*dto.WarehouseListResponse, error) {
	return &dto.WarehouseListResponse{Items: []dto.WarehouseResponse{}}, nil
}

func (stubWarehouses) CreateLocation(_ context.Context, _, warehouseID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	return &dto.LocationResponse{ID: "loc-1", WarehouseID: warehouseID, Code: in.Code}, nil
}

func (stubWarehouses) ListLocations(_ context.Context, _, _ string) ([]dto.LocationResponse, error) {
	return []dto.LocationResponse{}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

var errDBDown = errors.New("connection refused")
