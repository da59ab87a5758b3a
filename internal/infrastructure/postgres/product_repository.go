package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, org_id, sku, name, unit_measure, cost_method, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrgID, p.SKU, p.Name, p.UnitMeasure, string(p.CostMethod), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la organización.
func (r *ProductRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE org_id = $1 AND id = $2`
	return r.getOne(ctx, query, orgID, id)
}

// GetBySKU obtiene un producto por organización y SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, orgID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE org_id = $1 AND sku = $2`
	return r.getOne(ctx, query, orgID, sku)
}

// List lista productos de la organización ordenados por SKU.
func (r *ProductRepo) List(ctx context.Context, orgID string, limit, offset int) ([]*entity.Product, error) {
	query, args := limitClause(`SELECT `+productColumns+` FROM products WHERE org_id = $1 ORDER BY sku`, []any{orgID}, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var method string
	if err := row.Scan(&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.UnitMeasure, &method, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CostMethod = entity.CostMethod(method)
	return &p, nil
}
