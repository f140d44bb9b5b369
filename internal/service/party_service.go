package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gstledger/internal/domain"
	"gstledger/internal/gst"
	"gstledger/internal/port"
)

// PartyInput is the DTO for creating or updating a party.
type PartyInput struct {
	Name     string `json:"name" binding:"required"`
	FirmName string `json:"firm_name"`
	GSTIN    string `json:"gstin"`
	State    string `json:"state"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// PartyService defines the party (customer/supplier) management contract.
type PartyService interface {
	Create(ctx context.Context, input *PartyInput) (*domain.Party, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Party, error)
	List(ctx context.Context) ([]domain.Party, error)
	Update(ctx context.Context, id uuid.UUID, input *PartyInput) (*domain.Party, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type partyService struct {
	partyRepo port.PartyRepository
	billRepo  port.BillRepository
}

// NewPartyService creates a new PartyService implementation.
func NewPartyService(partyRepo port.PartyRepository, billRepo port.BillRepository) PartyService {
	return &partyService{partyRepo: partyRepo, billRepo: billRepo}
}

// validateGSTIN accepts an empty GSTIN (unregistered party) and otherwise
// requires the statutory 15-character format.
func validateGSTIN(gstin string) error {
	if gstin == "" {
		return nil
	}
	if !gst.ValidGSTIN(gstin) {
		return domain.ErrInvalidGSTIN
	}
	return nil
}

func (s *partyService) Create(ctx context.Context, input *PartyInput) (*domain.Party, error) {
	if err := validateGSTIN(input.GSTIN); err != nil {
		return nil, err
	}
	if input.GSTIN != "" {
		if _, err := s.partyRepo.GetByGSTIN(ctx, input.GSTIN); err == nil {
			return nil, domain.ErrDuplicateGSTIN
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("partyService.Create: %w", err)
		}
	}

	party := &domain.Party{
		ID:       uuid.New(),
		Name:     input.Name,
		FirmName: input.FirmName,
		GSTIN:    input.GSTIN,
		State:    input.State,
		Address:  input.Address,
		Phone:    input.Phone,
	}
	if err := s.partyRepo.Create(ctx, party); err != nil {
		return nil, fmt.Errorf("partyService.Create: %w", err)
	}
	log.Info().Str("party_id", party.ID.String()).Str("name", party.Name).Msg("party created")
	return party, nil
}

func (s *partyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	return s.partyRepo.GetByID(ctx, id)
}

func (s *partyService) List(ctx context.Context) ([]domain.Party, error) {
	return s.partyRepo.List(ctx)
}

func (s *partyService) Update(ctx context.Context, id uuid.UUID, input *PartyInput) (*domain.Party, error) {
	if err := validateGSTIN(input.GSTIN); err != nil {
		return nil, err
	}

	party, err := s.partyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.GSTIN != "" && input.GSTIN != party.GSTIN {
		if other, err := s.partyRepo.GetByGSTIN(ctx, input.GSTIN); err == nil && other.ID != id {
			return nil, domain.ErrDuplicateGSTIN
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("partyService.Update: %w", err)
		}
	}

	party.Name = input.Name
	party.FirmName = input.FirmName
	party.GSTIN = input.GSTIN
	party.State = input.State
	party.Address = input.Address
	party.Phone = input.Phone

	if err := s.partyRepo.Update(ctx, party); err != nil {
		return nil, fmt.Errorf("partyService.Update: %w", err)
	}
	return party, nil
}

func (s *partyService) Delete(ctx context.Context, id uuid.UUID) error {
	bills, err := s.billRepo.ListByParty(ctx, id)
	if err != nil {
		return fmt.Errorf("partyService.Delete: %w", err)
	}
	if len(bills) > 0 {
		return domain.ErrPartyReferenced
	}
	return s.partyRepo.Delete(ctx, id)
}
