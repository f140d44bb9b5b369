package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

type companyRepo struct {
	db *sqlx.DB
}

// NewCompanyRepo creates a new PostgreSQL-backed CompanyRepository.
func NewCompanyRepo(db *sqlx.DB) port.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	err := r.db.GetContext(ctx, &p, "SELECT * FROM company_profile LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("companyRepo.Get: %w", err)
	}
	return &p, nil
}

func (r *companyRepo) Update(ctx context.Context, p *domain.CompanyProfile) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE company_profile SET firm_name = $1, gstin = $2, state = $3, address = $4,
			scheme = $5, email = $6, password_hash = $7, updated_at = $8
		 WHERE id = $9`,
		p.FirmName, p.GSTIN, p.State, p.Address,
		p.Scheme, p.Email, p.PasswordHash, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("companyRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
