package http

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// Contratos que los handlers necesitan de la capa de aplicación. Los implementan
// los casos de uso de internal/application; los tests usan dobles.

// MovementService lo implementa *inventory.MovementUseCase.
type MovementService interface {
	Create(ctx context.Context, orgID, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error)
	AddLine(ctx context.Context, orgID, movementID string, in dto.MovementLineRequest) (*dto.MovementResponse, error)
	RemoveLine(ctx context.Context, orgID, movementID, lineID string) (*dto.MovementResponse, error)
	Post(ctx context.Context, orgID, movementID string) (*dto.MovementResponse, error)
	Void(ctx context.Context, orgID, movementID string) (*dto.MovementResponse, error)
	Get(ctx context.Context, orgID, movementID string) (*dto.MovementResponse, error)
	List(ctx context.Context, orgID string, in dto.ListMovementsRequest) (*dto.MovementListResponse, error)
}

// TransferService lo implementa *inventory.TransferUseCase.
type TransferService interface {
	Create(ctx context.Context, orgID, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error)
	SetLineLocations(ctx context.Context, orgID, transferID, lineID string, in dto.SetLineLocationsRequest) (*dto.TransferResponse, error)
	Confirm(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error)
	Receive(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error)
	ReceivePartial(ctx context.Context, orgID, transferID, userID string, in dto.ReceivePartialRequest) (*dto.TransferResponse, error)
	Reject(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error)
	Cancel(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error)
	Get(ctx context.Context, orgID, transferID string) (*dto.TransferResponse, error)
	List(ctx context.Context, orgID string, in dto.ListTransfersRequest) (*dto.TransferListResponse, error)
}

// StockService lo implementa *inventory.StockUseCase.
type StockService interface {
	GetBalances(ctx context.Context, orgID string, q dto.StockQuery) (*dto.StockListResponse, error)
	ValidateOutput(ctx context.Context, orgID string, in dto.ValidateOutputRequest) (*dto.ValidateOutputResponse, error)
}

// ProductService lo implementa *usecase.ProductUseCase.
type ProductService interface {
	Create(ctx context.Context, orgID string, in dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, orgID, id string) (*dto.ProductResponse, error)
	List(ctx context.Context, orgID string, page dto.PageRequest) (*dto.ProductListResponse, error)
}

// WarehouseService lo implementa *usecase.WarehouseUseCase.
type WarehouseService interface {
	Create(ctx context.Context, orgID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error)
	GetByID(ctx context.Context, orgID, id string) (*dto.WarehouseResponse, error)
	List(ctx context.Context, orgID string, page dto.PageRequest) (*dto.WarehouseListResponse, error)
	CreateLocation(ctx context.Context, orgID, warehouseID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error)
	ListLocations(ctx context.Context, orgID, warehouseID string) ([]dto.LocationResponse, error)
}
