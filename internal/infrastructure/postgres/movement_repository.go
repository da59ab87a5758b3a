package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, org_id, type, status, warehouse_id, reference, reason, note,
	posted_at, created_by, created_at, updated_at, version`

// MovementRepo movimientos y sus líneas sobre PostgreSQL (usable con pool o tx).
// Las líneas se guardan en movement_lines con su número de orden.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste el movimiento con sus líneas.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	s := m.Snapshot()
	query := `INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrgID, string(s.Type), string(s.Status), s.WarehouseID, s.Reference, s.Reason, s.Note,
		s.PostedAt, s.CreatedBy, s.CreatedAt, s.UpdatedAt, s.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return r.insertLines(ctx, s.ID, s.Lines)
}

// Update guarda estado y líneas si la versión coincide; luego incrementa la versión del agregado.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	s := m.Snapshot()
	query := `
		UPDATE movements
		SET status = $3, reference = $4, reason = $5, note = $6, posted_at = $7, updated_at = $8,
			version = version + 1
		WHERE org_id = $1 AND id = $2 AND version = $9`
	tag, err := r.q.Exec(ctx, query,
		s.OrgID, s.ID, string(s.Status), s.Reference, s.Reason, s.Note, s.PostedAt, s.UpdatedAt, s.Version,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %s modificado por otra operación (versión %d)", domain.ErrConflict, s.ID, s.Version)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM movement_lines WHERE movement_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete movement lines: %w", err)
	}
	if err := r.insertLines(ctx, s.ID, s.Lines); err != nil {
		return err
	}
	m.IncrementVersion()
	return nil
}

// GetByID obtiene el movimiento con sus líneas; domain.ErrNotFound si no existe en la organización.
func (r *MovementRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE org_id = $1 AND id = $2`
	s, err := scanMovement(r.q.QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	list, err := r.withLines(ctx, []*entity.MovementSnapshot{s})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// List filtra por los campos no vacíos, en orden de creación.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements m WHERE org_id = $1`
	args := []any{f.OrgID}
	add := func(cond string, v any) {
		args = append(args, v)
		query += " AND " + cond + strconv.Itoa(len(args))
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $", f.WarehouseID)
	}
	if f.Type != "" {
		add("type = $", string(f.Type))
	}
	if f.Status != "" {
		add("status = $", string(f.Status))
	}
	if f.Reference != "" {
		add("reference = $", f.Reference)
	}
	if f.From != nil {
		add("posted_at >= $", *f.From)
	}
	if f.To != nil {
		add("posted_at <= $", *f.To)
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		query += " AND EXISTS (SELECT 1 FROM movement_lines l WHERE l.movement_id = m.id AND l.product_id = $" + strconv.Itoa(len(args)) + ")"
	}
	query += " ORDER BY created_at, id"
	query, args = limitClause(query, args, f.Limit, f.Offset)
	return r.query(ctx, query, args...)
}

// ListPostedSince movimientos POSTED que tocan (producto, ubicación) con posted_at estrictamente posterior a since.
func (r *MovementRepo) ListPostedSince(ctx context.Context, orgID, productID, locationID string, since time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements m
		WHERE org_id = $1 AND status = $2 AND posted_at > $3
		  AND EXISTS (SELECT 1 FROM movement_lines l
		              WHERE l.movement_id = m.id AND l.product_id = $4 AND l.location_id = $5)
		ORDER BY posted_at, id`
	return r.query(ctx, query, orgID, string(entity.MovementStatusPosted), since, productID, locationID)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	var snaps []*entity.MovementSnapshot
	for rows.Next() {
		s, err := scanMovement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		snaps = append(snaps, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.withLines(ctx, snaps)
}

// withLines carga las líneas de todos los movimientos en una sola consulta y los reconstruye.
func (r *MovementRepo) withLines(ctx context.Context, snaps []*entity.MovementSnapshot) ([]*entity.Movement, error) {
	if len(snaps) == 0 {
		return nil, nil
	}
	ids := make([]string, len(snaps))
	byID := make(map[string]*entity.MovementSnapshot, len(snaps))
	for i, s := range snaps {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, `
		SELECT movement_id, id, product_id, location_id, quantity, quantity_precision, unit_cost, cost_precision, currency, transfer_line_id
		FROM movement_lines WHERE movement_id = ANY($1) ORDER BY movement_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			movementID string
			ls         entity.MovementLineSnapshot
			qty        decimal.Decimal
			qtyPrec    int32
			cost       decimal.NullDecimal
			costPrec   *int32
		)
		if err := rows.Scan(&movementID, &ls.ID, &ls.ProductID, &ls.LocationID, &qty, &qtyPrec, &cost, &costPrec, &ls.Currency, &ls.TransferLineID); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		if ls.Quantity, err = valueobject.NewQuantity(qty, qtyPrec); err != nil {
			return nil, err
		}
		if cost.Valid {
			prec := valueobject.DefaultMoneyPrecision
			if costPrec != nil {
				prec = *costPrec
			}
			money, err := valueobject.NewMoney(cost.Decimal, ls.Currency, prec)
			if err != nil {
				return nil, err
			}
			ls.UnitCost = &money
		}
		s := byID[movementID]
		s.Lines = append(s.Lines, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*entity.Movement, len(snaps))
	for i, s := range snaps {
		out[i] = entity.RestoreMovement(*s)
	}
	return out, nil
}

func (r *MovementRepo) insertLines(ctx context.Context, movementID string, lines []entity.MovementLineSnapshot) error {
	query := `
		INSERT INTO movement_lines (id, movement_id, line_no, product_id, location_id, quantity, quantity_precision, unit_cost, cost_precision, currency, transfer_line_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, l := range lines {
		var cost *decimal.Decimal
		var costPrec *int32
		if l.UnitCost != nil {
			amount, prec := l.UnitCost.Amount(), l.UnitCost.Precision()
			cost, costPrec = &amount, &prec
		}
		if _, err := r.q.Exec(ctx, query,
			l.ID, movementID, i+1, l.ProductID, l.LocationID, l.Quantity.Value(), l.Quantity.Precision(), cost, costPrec, l.Currency, l.TransferLineID,
		); err != nil {
			return fmt.Errorf("insert movement line: %w", err)
		}
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.MovementSnapshot, error) {
	var s entity.MovementSnapshot
	var typ, status string
	if err := row.Scan(&s.ID, &s.OrgID, &typ, &status, &s.WarehouseID, &s.Reference, &s.Reason, &s.Note,
		&s.PostedAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.Version); err != nil {
		return nil, err
	}
	s.Type = entity.MovementType(typ)
	s.Status = entity.MovementStatus(status)
	return &s, nil
}
