package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `org_id, product_id, warehouse_id, location_id, quantity, quantity_precision,
	average_cost, currency, cost_precision, updated_at`

// StockRepo saldos materializados (stock_balances) sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo de un producto en una ubicación.
func (r *StockRepo) Get(ctx context.Context, key repository.StockKey) (*entity.StockBalance, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_balances
		WHERE org_id = $1 AND product_id = $2 AND location_id = $3`
	return r.getOne(ctx, query, key)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Antes toma un advisory lock de transacción sobre la clave: FOR UPDATE no bloquea una fila
// que aún no existe y dos primeras entradas concurrentes se pisarían en el Upsert.
// Solo tiene efecto dentro de una tx (TxRunner); el lock se libera en Commit o Rollback.
func (r *StockRepo) GetForUpdate(ctx context.Context, key repository.StockKey) (*entity.StockBalance, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, advisoryKey(key)); err != nil {
		return nil, fmt.Errorf("lock stock key: %w", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock_balances
		WHERE org_id = $1 AND product_id = $2 AND location_id = $3
		FOR UPDATE`
	return r.getOne(ctx, query, key)
}

// Upsert inserta o reemplaza el saldo (por organización, producto y ubicación).
func (r *StockRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (org_id, product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, quantity_precision = EXCLUDED.quantity_precision,
			average_cost = EXCLUDED.average_cost, currency = EXCLUDED.currency,
			cost_precision = EXCLUDED.cost_precision, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		b.OrgID, b.ProductID, b.WarehouseID, b.LocationID,
		b.Quantity.Value(), b.Quantity.Precision(),
		b.AverageCost.Amount(), b.AverageCost.Currency(), b.AverageCost.Precision(),
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByProduct saldos de un producto en todas sus ubicaciones.
func (r *StockRepo) ListByProduct(ctx context.Context, orgID, productID string) ([]*entity.StockBalance, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_balances
		WHERE org_id = $1 AND product_id = $2 ORDER BY warehouse_id, location_id`
	return r.list(ctx, query, orgID, productID)
}

// ListByWarehouse saldos de una bodega con paginación.
func (r *StockRepo) ListByWarehouse(ctx context.Context, orgID, warehouseID string, limit, offset int) ([]*entity.StockBalance, error) {
	query, args := limitClause(`SELECT `+stockColumns+` FROM stock_balances
		WHERE org_id = $1 AND warehouse_id = $2 ORDER BY location_id, product_id`,
		[]any{orgID, warehouseID}, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *StockRepo) getOne(ctx context.Context, query string, key repository.StockKey) (*entity.StockBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.OrgID, key.ProductID, key.LocationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: saldo %s/%s", domain.ErrNotFound, key.ProductID, key.LocationID)
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return b, nil
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func advisoryKey(key repository.StockKey) string {
	return "stock:" + key.OrgID + ":" + key.ProductID + ":" + key.LocationID
}

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var (
		b                 entity.StockBalance
		qty, avg          decimal.Decimal
		qtyPrec, costPrec int32
		currency          string
		updatedAt         time.Time
	)
	if err := row.Scan(&b.OrgID, &b.ProductID, &b.WarehouseID, &b.LocationID, &qty, &qtyPrec,
		&avg, &currency, &costPrec, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.Quantity, err = valueobject.NewQuantity(qty, qtyPrec); err != nil {
		return nil, err
	}
	if b.AverageCost, err = valueobject.NewMoney(avg, currency, costPrec); err != nil {
		return nil, err
	}
	b.UpdatedAt = updatedAt.UTC()
	return &b, nil
}
