package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

// ItemInput is the DTO for creating or updating an item.
type ItemInput struct {
	Name               string              `json:"name" binding:"required"`
	Unit               string              `json:"unit"`
	DefaultRate        decimal.Decimal     `json:"default_rate"`
	PurchaseRate       decimal.Decimal     `json:"purchase_rate"`
	SaleRate           decimal.Decimal     `json:"sale_rate"`
	GSTPercentage      decimal.Decimal     `json:"gst_percentage"`
	CompositionGSTRate decimal.NullDecimal `json:"composition_gst_rate"`
	ItemType           domain.ItemType     `json:"item_type"`
	HSNCode            string              `json:"hsn_code"`
}

// ItemService defines the item master contract. Bills snapshot item fields at
// computation time, so edits here never rewrite existing documents.
type ItemService interface {
	Create(ctx context.Context, input *ItemInput) (*domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, id uuid.UUID, input *ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	itemRepo port.ItemRepository
}

// NewItemService creates a new ItemService implementation.
func NewItemService(itemRepo port.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

func validateItemInput(input *ItemInput) error {
	if input.Name == "" {
		return domain.ErrInvalidInput
	}
	if input.GSTPercentage.IsNegative() || input.DefaultRate.IsNegative() ||
		input.PurchaseRate.IsNegative() || input.SaleRate.IsNegative() {
		return domain.ErrInvalidInput
	}
	if input.ItemType == "" {
		input.ItemType = domain.ItemTypeGoods
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, input *ItemInput) (*domain.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item := &domain.Item{
		ID:                 uuid.New(),
		Name:               input.Name,
		Unit:               input.Unit,
		DefaultRate:        input.DefaultRate,
		PurchaseRate:       input.PurchaseRate,
		SaleRate:           input.SaleRate,
		GSTPercentage:      input.GSTPercentage,
		CompositionGSTRate: input.CompositionGSTRate,
		ItemType:           input.ItemType,
		HSNCode:            input.HSNCode,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("itemService.Create: %w", err)
	}
	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *itemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.List(ctx)
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, input *ItemInput) (*domain.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Unit = input.Unit
	item.DefaultRate = input.DefaultRate
	item.PurchaseRate = input.PurchaseRate
	item.SaleRate = input.SaleRate
	item.GSTPercentage = input.GSTPercentage
	item.CompositionGSTRate = input.CompositionGSTRate
	item.ItemType = input.ItemType
	item.HSNCode = input.HSNCode

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("itemService.Update: %w", err)
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}
