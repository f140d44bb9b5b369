package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// CompanyRepository manages the single company profile row.
type CompanyRepository interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error)
	Update(ctx context.Context, profile *domain.CompanyProfile) error
}

type PartyRepository interface {
	Create(ctx context.Context, party *domain.Party) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Party, error)
	GetByGSTIN(ctx context.Context, gstin string) (*domain.Party, error)
	List(ctx context.Context) ([]domain.Party, error)
	Update(ctx context.Context, party *domain.Party) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BillRepository persists bills of every type along with their lines.
// Create and Replace write the bill and its lines in one transaction;
// Replace removes the previous line set before inserting the new one.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	Replace(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	List(ctx context.Context) ([]domain.Bill, error)
	ListByType(ctx context.Context, billType domain.BillType) ([]domain.Bill, error)
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]domain.Bill, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository persists payments with their allocation rows.
// Create also bumps advance_consumed on each source payment in the same
// transaction; a source whose available advance no longer covers its
// share fails the whole transaction with domain.ErrStaleSnapshot.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment, consumed map[uuid.UUID]decimal.Decimal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]domain.Payment, error)
	ExistsForBill(ctx context.Context, billID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
