package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/domain/valueobject"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, org_id, from_warehouse_id, to_warehouse_id, status, created_by, note,
	created_at, updated_at, version`

// TransferRepo traslados y sus líneas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	s := t.Snapshot()
	query := `INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrgID, s.FromWarehouseID, s.ToWarehouseID, string(s.Status), s.CreatedBy, s.Note,
		s.CreatedAt, s.UpdatedAt, s.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertLines(ctx, s.ID, s.Lines)
}

// Update con control optimista de versión, igual que MovementRepo.Update.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	s := t.Snapshot()
	tag, err := r.q.Exec(ctx, `
		UPDATE transfers SET status = $3, note = $4, updated_at = $5, version = version + 1
		WHERE org_id = $1 AND id = $2 AND version = $6`,
		s.OrgID, s.ID, string(s.Status), s.Note, s.UpdatedAt, s.Version,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: traslado %s modificado por otra operación (versión %d)", domain.ErrConflict, s.ID, s.Version)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_lines WHERE transfer_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete transfer lines: %w", err)
	}
	if err := r.insertLines(ctx, s.ID, s.Lines); err != nil {
		return err
	}
	t.IncrementVersion()
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, orgID, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE org_id = $1 AND id = $2`
	s, err := scanTransfer(r.q.QueryRow(ctx, query, orgID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	list, err := r.withLines(ctx, []*entity.TransferSnapshot{s})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// List traslados de la organización; WarehouseID filtra por origen o destino.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE org_id = $1`
	args := []any{f.OrgID}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		n := strconv.Itoa(len(args))
		query += " AND (from_warehouse_id = $" + n + " OR to_warehouse_id = $" + n + ")"
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY created_at DESC, id"
	query, args = limitClause(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	var snaps []*entity.TransferSnapshot
	for rows.Next() {
		s, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		snaps = append(snaps, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.withLines(ctx, snaps)
}

func (r *TransferRepo) withLines(ctx context.Context, snaps []*entity.TransferSnapshot) ([]*entity.Transfer, error) {
	if len(snaps) == 0 {
		return nil, nil
	}
	ids := make([]string, len(snaps))
	byID := make(map[string]*entity.TransferSnapshot, len(snaps))
	for i, s := range snaps {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, `
		SELECT transfer_id, id, product_id, quantity, quantity_precision, from_location_id, to_location_id
		FROM transfer_lines WHERE transfer_id = ANY($1) ORDER BY transfer_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			transferID string
			ls         entity.TransferLineSnapshot
			qty        decimal.Decimal
			qtyPrec    int32
		)
		if err := rows.Scan(&transferID, &ls.ID, &ls.ProductID, &qty, &qtyPrec, &ls.FromLocationID, &ls.ToLocationID); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		if ls.Quantity, err = valueobject.NewQuantity(qty, qtyPrec); err != nil {
			return nil, err
		}
		s := byID[transferID]
		s.Lines = append(s.Lines, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*entity.Transfer, len(snaps))
	for i, s := range snaps {
		out[i] = entity.RestoreTransfer(*s)
	}
	return out, nil
}

func (r *TransferRepo) insertLines(ctx context.Context, transferID string, lines []entity.TransferLineSnapshot) error {
	query := `
		INSERT INTO transfer_lines (id, transfer_id, line_no, product_id, quantity, quantity_precision, from_location_id, to_location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, l := range lines {
		if _, err := r.q.Exec(ctx, query,
			l.ID, transferID, i+1, l.ProductID, l.Quantity.Value(), l.Quantity.Precision(), l.FromLocationID, l.ToLocationID,
		); err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

func scanTransfer(row pgx.Row) (*entity.TransferSnapshot, error) {
	var s entity.TransferSnapshot
	var status string
	if err := row.Scan(&s.ID, &s.OrgID, &s.FromWarehouseID, &s.ToWarehouseID, &status, &s.CreatedBy, &s.Note,
		&s.CreatedAt, &s.UpdatedAt, &s.Version); err != nil {
		return nil, err
	}
	s.Status = entity.TransferStatus(status)
	return &s, nil
}
