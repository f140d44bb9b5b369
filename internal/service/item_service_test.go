package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
	"gstledger/internal/service"
	"gstledger/mocks"
)

func TestItemService_Create_Success(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Item")).Return(nil)

	item, err := svc.Create(context.Background(), &service.ItemInput{
		Name:          "Cement OPC 53",
		Unit:          "bag",
		SaleRate:      decimal.NewFromInt(420),
		GSTPercentage: decimal.NewFromInt(28),
		HSNCode:       "2523",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Cement OPC 53", item.Name)
	assert.Equal(t, domain.ItemTypeGoods, item.ItemType, "item type defaults to goods")
	repo.AssertExpectations(t)
}

func TestItemService_Create_MissingName(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	item, err := svc.Create(context.Background(), &service.ItemInput{
		GSTPercentage: decimal.NewFromInt(18),
	})

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemService_Create_NegativeRate(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	item, err := svc.Create(context.Background(), &service.ItemInput{
		Name:     "Bad Rate",
		SaleRate: decimal.NewFromInt(-5),
	})

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemService_Update_NotFound(t *testing.T) {
	repo := new(mocks.MockItemRepo)
	svc := service.NewItemService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	item, err := svc.Update(context.Background(), id, &service.ItemInput{Name: "Renamed"})

	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
