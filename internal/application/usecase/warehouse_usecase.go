package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// WarehouseUseCase bodegas y sus ubicaciones.
type WarehouseUseCase struct {
	repo      repository.WarehouseRepository
	locations repository.LocationRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, locations repository.LocationRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, locations: locations}
}

// Create crea una bodega activa.
func (uc *WarehouseUseCase) Create(ctx context.Context, orgID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      in.Name,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega; ErrNotFound si no existe en la organización.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, orgID string, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// CreateLocation crea una ubicación dentro de una bodega existente.
func (uc *WarehouseUseCase) CreateLocation(ctx context.Context, orgID, warehouseID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, fmt.Errorf("%w: code es obligatorio", domain.ErrInvalidInput)
	}
	warehouse, err := uc.repo.GetByID(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	location := &entity.Location{
		ID:          uuid.New().String(),
		OrgID:       orgID,
		WarehouseID: warehouseID,
		Code:        in.Code,
		Name:        in.Name,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// ListLocations ubicaciones de una bodega.
func (uc *WarehouseUseCase) ListLocations(ctx context.Context, orgID, warehouseID string) ([]dto.LocationResponse, error) {
	list, err := uc.locations.ListByWarehouse(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		OrgID:     w.OrgID,
		Name:      w.Name,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Code:        l.Code,
		Name:        l.Name,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
	}
}
