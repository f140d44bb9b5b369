package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

// Create inserts the payment with its allocation rows and bumps
// advance_consumed on every source payment it draws credit from. The bump is
// guarded: if a concurrent writer spent the source's credit first, the update
// matches no row and the whole transaction fails with ErrStaleSnapshot.
func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment, consumed map[uuid.UUID]decimal.Decimal) error {
	p.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("paymentRepo.Create begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, kind, number, payment_date, party_id, amount,
			mode, reference, notes, advance_consumed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Kind, p.Number, p.Date, p.PartyID, p.Amount,
		p.Mode, p.Reference, p.Notes, p.AdvanceConsumed, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}

	for i := range p.Allocations {
		a := &p.Allocations[i]
		a.PaymentID = p.ID
		a.Position = i
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payment_allocations (id, payment_id, bill_id, bill_type,
				allocated_amount, bill_outstanding, is_full_payment, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.ID, a.PaymentID, a.BillID, a.BillType,
			a.Amount, a.BillOutstanding, a.IsFullPayment, a.Position)
		if err != nil {
			return fmt.Errorf("paymentRepo.Create allocation %d: %w", i, err)
		}
	}

	for i := range p.AdvanceAllocations {
		a := &p.AdvanceAllocations[i]
		a.PaymentID = p.ID
		a.Position = i
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payment_advance_allocations (id, payment_id, source_payment_id,
				source_number, bill_id, bill_type, amount, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.ID, a.PaymentID, a.SourcePaymentID,
			a.SourceNumber, a.BillID, a.BillType, a.Amount, a.Position)
		if err != nil {
			return fmt.Errorf("paymentRepo.Create advance allocation %d: %w", i, err)
		}
	}

	for sourceID, take := range consumed {
		result, err := tx.ExecContext(ctx,
			`UPDATE payments SET advance_consumed = advance_consumed + $1
			 WHERE id = $2
			   AND amount - advance_consumed
				- COALESCE((SELECT SUM(allocated_amount) FROM payment_allocations
					WHERE payment_id = payments.id), 0) >= $1`,
			take, sourceID)
		if err != nil {
			return fmt.Errorf("paymentRepo.Create consume advance: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrStaleSnapshot
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("paymentRepo.Create commit: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p, "SELECT * FROM payments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	if err := r.loadAllocations(ctx, []*domain.Payment{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) List(ctx context.Context) ([]domain.Payment, error) {
	return r.selectPayments(ctx, "SELECT * FROM payments ORDER BY payment_date ASC, number ASC")
}

func (r *paymentRepo) ListByParty(ctx context.Context, partyID uuid.UUID) ([]domain.Payment, error) {
	return r.selectPayments(ctx,
		"SELECT * FROM payments WHERE party_id = $1 ORDER BY payment_date ASC, number ASC", partyID)
}

func (r *paymentRepo) selectPayments(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("paymentRepo.selectPayments: %w", err)
	}
	if len(payments) == 0 {
		return payments, nil
	}
	ptrs := make([]*domain.Payment, len(payments))
	for i := range payments {
		ptrs[i] = &payments[i]
	}
	if err := r.loadAllocations(ctx, ptrs); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) loadAllocations(ctx context.Context, payments []*domain.Payment) error {
	ids := make([]uuid.UUID, len(payments))
	index := make(map[uuid.UUID]*domain.Payment, len(payments))
	for i, p := range payments {
		ids[i] = p.ID
		index[p.ID] = p
	}

	query, args, err := sqlx.In(
		"SELECT * FROM payment_allocations WHERE payment_id IN (?) ORDER BY payment_id, position ASC", ids)
	if err != nil {
		return fmt.Errorf("paymentRepo.loadAllocations in: %w", err)
	}
	var allocs []domain.Allocation
	if err := r.db.SelectContext(ctx, &allocs, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("paymentRepo.loadAllocations: %w", err)
	}
	for _, a := range allocs {
		p := index[a.PaymentID]
		p.Allocations = append(p.Allocations, a)
	}

	query, args, err = sqlx.In(
		"SELECT * FROM payment_advance_allocations WHERE payment_id IN (?) ORDER BY payment_id, position ASC", ids)
	if err != nil {
		return fmt.Errorf("paymentRepo.loadAllocations advance in: %w", err)
	}
	var advances []domain.AdvanceAllocation
	if err := r.db.SelectContext(ctx, &advances, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("paymentRepo.loadAllocations advance: %w", err)
	}
	for _, a := range advances {
		p := index[a.PaymentID]
		p.AdvanceAllocations = append(p.AdvanceAllocations, a)
	}
	return nil
}

func (r *paymentRepo) ExistsForBill(ctx context.Context, billID uuid.UUID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT (SELECT COUNT(*) FROM payment_allocations WHERE bill_id = $1)
			+ (SELECT COUNT(*) FROM payment_advance_allocations WHERE bill_id = $1)`,
		billID)
	if err != nil {
		return false, fmt.Errorf("paymentRepo.ExistsForBill: %w", err)
	}
	return count > 0, nil
}

// Delete removes the payment and returns any advance credit it consumed back
// to its source payments, all in one transaction.
func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE payments SET advance_consumed = advance_consumed - s.total
		 FROM (SELECT source_payment_id, SUM(amount) AS total
			FROM payment_advance_allocations WHERE payment_id = $1
			GROUP BY source_payment_id) s
		 WHERE payments.id = s.source_payment_id`,
		id)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete restore advance: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("paymentRepo.Delete commit: %w", err)
	}
	return nil
}
