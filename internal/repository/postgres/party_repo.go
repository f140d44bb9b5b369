package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

type partyRepo struct {
	db *sqlx.DB
}

// NewPartyRepo creates a new PostgreSQL-backed PartyRepository.
func NewPartyRepo(db *sqlx.DB) port.PartyRepository {
	return &partyRepo{db: db}
}

func (r *partyRepo) Create(ctx context.Context, p *domain.Party) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO parties (id, name, firm_name, gstin, state, address, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.FirmName, p.GSTIN, p.State, p.Address, p.Phone, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGSTIN
		}
		return fmt.Errorf("partyRepo.Create: %w", err)
	}
	return nil
}

func (r *partyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	var p domain.Party
	err := r.db.GetContext(ctx, &p, "SELECT * FROM parties WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("partyRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *partyRepo) GetByGSTIN(ctx context.Context, gstin string) (*domain.Party, error) {
	var p domain.Party
	err := r.db.GetContext(ctx, &p, "SELECT * FROM parties WHERE gstin = $1", gstin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("partyRepo.GetByGSTIN: %w", err)
	}
	return &p, nil
}

func (r *partyRepo) List(ctx context.Context) ([]domain.Party, error) {
	var parties []domain.Party
	err := r.db.SelectContext(ctx, &parties, "SELECT * FROM parties ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("partyRepo.List: %w", err)
	}
	return parties, nil
}

func (r *partyRepo) Update(ctx context.Context, p *domain.Party) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE parties SET name = $1, firm_name = $2, gstin = $3, state = $4,
			address = $5, phone = $6, updated_at = $7
		 WHERE id = $8`,
		p.Name, p.FirmName, p.GSTIN, p.State, p.Address, p.Phone, p.UpdatedAt, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGSTIN
		}
		return fmt.Errorf("partyRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *partyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM parties WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("partyRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
