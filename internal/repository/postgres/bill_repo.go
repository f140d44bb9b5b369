package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

type billRepo struct {
	db *sqlx.DB
}

// NewBillRepo creates a new PostgreSQL-backed BillRepository.
func NewBillRepo(db *sqlx.DB) port.BillRepository {
	return &billRepo{db: db}
}

func (r *billRepo) Create(ctx context.Context, b *domain.Bill) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("billRepo.Create begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, bill_type, number, bill_date, party_id, scheme,
			sub_total, cgst, sgst, igst, total_amount, custom_fields, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID, b.BillType, b.Number, b.Date, b.PartyID, b.Scheme,
		b.SubTotal, b.CGST, b.SGST, b.IGST, b.TotalAmount, b.CustomFields, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("billRepo.Create: %w", err)
	}

	if err := insertLines(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("billRepo.Create commit: %w", err)
	}
	return nil
}

// Replace rewrites the bill header and its full line set. Lines are never
// patched individually; every edit recomputes and replaces them.
func (r *billRepo) Replace(ctx context.Context, b *domain.Bill) error {
	b.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("billRepo.Replace begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE bills SET bill_type = $1, number = $2, bill_date = $3, party_id = $4,
			scheme = $5, sub_total = $6, cgst = $7, sgst = $8, igst = $9,
			total_amount = $10, custom_fields = $11, updated_at = $12
		 WHERE id = $13`,
		b.BillType, b.Number, b.Date, b.PartyID,
		b.Scheme, b.SubTotal, b.CGST, b.SGST, b.IGST,
		b.TotalAmount, b.CustomFields, b.UpdatedAt, b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("billRepo.Replace: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_lines WHERE bill_id = $1", b.ID); err != nil {
		return fmt.Errorf("billRepo.Replace delete lines: %w", err)
	}
	if err := insertLines(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("billRepo.Replace commit: %w", err)
	}
	return nil
}

func insertLines(ctx context.Context, tx *sqlx.Tx, b *domain.Bill) error {
	for i := range b.Lines {
		ln := &b.Lines[i]
		ln.BillID = b.ID
		ln.Position = i
		if ln.ID == uuid.Nil {
			ln.ID = uuid.New()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bill_lines (id, bill_id, item_id, item_name, hsn_code, unit, item_type,
				qty_expression, nos, length, height, quantity, rate,
				discount_amount, discount_percent,
				tax_rate, cgst_rate, sgst_rate, igst_rate,
				amount, cgst_amount, sgst_amount, igst_amount, total, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
			ln.ID, ln.BillID, ln.ItemID, ln.ItemName, ln.HSNCode, ln.Unit, ln.ItemType,
			ln.QtyExpression, ln.Nos, ln.Length, ln.Height, ln.Quantity, ln.Rate,
			ln.DiscountAmount, ln.DiscountPercent,
			ln.TaxRate, ln.CGSTRate, ln.SGSTRate, ln.IGSTRate,
			ln.Amount, ln.CGSTAmount, ln.SGSTAmount, ln.IGSTAmount, ln.Total, ln.Position)
		if err != nil {
			return fmt.Errorf("billRepo insert line %d: %w", i, err)
		}
	}
	return nil
}

func (r *billRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	var b domain.Bill
	err := r.db.GetContext(ctx, &b, "SELECT * FROM bills WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("billRepo.GetByID: %w", err)
	}
	err = r.db.SelectContext(ctx, &b.Lines,
		"SELECT * FROM bill_lines WHERE bill_id = $1 ORDER BY position ASC", id)
	if err != nil {
		return nil, fmt.Errorf("billRepo.GetByID lines: %w", err)
	}
	return &b, nil
}

func (r *billRepo) List(ctx context.Context) ([]domain.Bill, error) {
	return r.selectBills(ctx, "SELECT * FROM bills ORDER BY bill_date ASC, number ASC")
}

func (r *billRepo) ListByType(ctx context.Context, billType domain.BillType) ([]domain.Bill, error) {
	return r.selectBills(ctx,
		"SELECT * FROM bills WHERE bill_type = $1 ORDER BY bill_date ASC, number ASC", billType)
}

func (r *billRepo) ListByParty(ctx context.Context, partyID uuid.UUID) ([]domain.Bill, error) {
	return r.selectBills(ctx,
		"SELECT * FROM bills WHERE party_id = $1 ORDER BY bill_date ASC, number ASC", partyID)
}

func (r *billRepo) selectBills(ctx context.Context, query string, args ...any) ([]domain.Bill, error) {
	var bills []domain.Bill
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, fmt.Errorf("billRepo.selectBills: %w", err)
	}
	if len(bills) == 0 {
		return bills, nil
	}

	ids := make([]uuid.UUID, len(bills))
	index := make(map[uuid.UUID]int, len(bills))
	for i := range bills {
		ids[i] = bills[i].ID
		index[bills[i].ID] = i
	}

	lineQuery, lineArgs, err := sqlx.In(
		"SELECT * FROM bill_lines WHERE bill_id IN (?) ORDER BY bill_id, position ASC", ids)
	if err != nil {
		return nil, fmt.Errorf("billRepo.selectBills lines in: %w", err)
	}
	var lines []domain.BillLine
	err = r.db.SelectContext(ctx, &lines, r.db.Rebind(lineQuery), lineArgs...)
	if err != nil {
		return nil, fmt.Errorf("billRepo.selectBills lines: %w", err)
	}
	for _, ln := range lines {
		i := index[ln.BillID]
		bills[i].Lines = append(bills[i].Lines, ln)
	}
	return bills, nil
}

func (r *billRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM bills WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("billRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
