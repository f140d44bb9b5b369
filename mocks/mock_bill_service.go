package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
	"gstledger/internal/service"
)

// MockBillService is a mock implementation of service.BillService.
type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) ProposeNumber(ctx context.Context, billType domain.BillType, date time.Time) (string, error) {
	args := m.Called(ctx, billType, date)
	return args.String(0), args.Error(1)
}

func (m *MockBillService) Create(ctx context.Context, input *service.BillInput) (*domain.Bill, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillService) List(ctx context.Context, billType *domain.BillType) ([]domain.Bill, error) {
	args := m.Called(ctx, billType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillService) Update(ctx context.Context, id uuid.UUID, input *service.BillInput) (*domain.Bill, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
