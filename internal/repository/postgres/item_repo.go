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

type itemRepo struct {
	db *sqlx.DB
}

// NewItemRepo creates a new PostgreSQL-backed ItemRepository.
func NewItemRepo(db *sqlx.DB) port.ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, i *domain.Item) error {
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now

	query := `INSERT INTO items (id, name, unit, default_rate, purchase_rate, sale_rate,
			gst_percentage, composition_gst_rate, item_type, hsn_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.Name, i.Unit, i.DefaultRate, i.PurchaseRate, i.SaleRate,
		i.GSTPercentage, i.CompositionGSTRate, i.ItemType, i.HSNCode, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("itemRepo.Create: %w", err)
	}
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var i domain.Item
	err := r.db.GetContext(ctx, &i, "SELECT * FROM items WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("itemRepo.GetByID: %w", err)
	}
	return &i, nil
}

func (r *itemRepo) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.SelectContext(ctx, &items, "SELECT * FROM items ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("itemRepo.List: %w", err)
	}
	return items, nil
}

func (r *itemRepo) Update(ctx context.Context, i *domain.Item) error {
	i.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = $1, unit = $2, default_rate = $3, purchase_rate = $4,
			sale_rate = $5, gst_percentage = $6, composition_gst_rate = $7,
			item_type = $8, hsn_code = $9, updated_at = $10
		 WHERE id = $11`,
		i.Name, i.Unit, i.DefaultRate, i.PurchaseRate,
		i.SaleRate, i.GSTPercentage, i.CompositionGSTRate,
		i.ItemType, i.HSNCode, i.UpdatedAt, i.ID)
	if err != nil {
		return fmt.Errorf("itemRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("itemRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
