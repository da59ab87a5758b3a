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

// ProductUseCase alta y consulta de productos. Cantidades y costos viven en los saldos, no aquí.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto activo. El SKU es único por organización.
func (uc *ProductUseCase) Create(ctx context.Context, orgID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	method := entity.CostMethodAverage
	if in.CostMethod != "" {
		method = entity.CostMethod(strings.ToUpper(in.CostMethod))
	}
	if !method.IsSupported() {
		return nil, fmt.Errorf("%w: método de costeo %s no soportado", domain.ErrInvalidInput, method)
	}
	existing, err := uc.repo.GetBySKU(ctx, orgID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		OrgID:       orgID,
		SKU:         in.SKU,
		Name:        in.Name,
		UnitMeasure: in.UnitMeasure,
		CostMethod:  method,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la organización; ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos de la organización con paginación.
func (uc *ProductUseCase) List(ctx context.Context, orgID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, orgID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		OrgID:       p.OrgID,
		SKU:         p.SKU,
		Name:        p.Name,
		UnitMeasure: p.UnitMeasure,
		CostMethod:  string(p.CostMethod),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
