package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

// CompanyProfileInput is the DTO for updating the company profile. Password
// is optional; when set it replaces the stored hash.
type CompanyProfileInput struct {
	FirmName string        `json:"firm_name" binding:"required"`
	GSTIN    string        `json:"gstin"`
	State    string        `json:"state"`
	Address  string        `json:"address"`
	Scheme   domain.Scheme `json:"scheme" binding:"required"`
	Email    string        `json:"email" binding:"required,email"`
	Password string        `json:"password"`
}

// CompanyService manages the single company profile.
type CompanyService interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error)
	Update(ctx context.Context, input *CompanyProfileInput) (*domain.CompanyProfile, error)
}

type companyService struct {
	companyRepo port.CompanyRepository
}

// NewCompanyService creates a new CompanyService implementation.
func NewCompanyService(companyRepo port.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (s *companyService) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	return s.companyRepo.Get(ctx)
}

func (s *companyService) Update(ctx context.Context, input *CompanyProfileInput) (*domain.CompanyProfile, error) {
	if err := validateGSTIN(input.GSTIN); err != nil {
		return nil, err
	}
	if input.Scheme != domain.SchemeRegular && input.Scheme != domain.SchemeComposition {
		return nil, domain.ErrInvalidInput
	}

	profile, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	profile.FirmName = input.FirmName
	profile.GSTIN = input.GSTIN
	profile.State = input.State
	profile.Address = input.Address
	profile.Scheme = input.Scheme
	profile.Email = input.Email

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("companyService.Update: %w", err)
		}
		profile.PasswordHash = string(hash)
	}

	if err := s.companyRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("companyService.Update: %w", err)
	}
	return profile, nil
}
