package partner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/partner"
	"github.com/tradelink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrCompanyNotFound is returned when a company cannot be found
var ErrCompanyNotFound = errors.New("partner: company not found")

// CreateCompanyRequest registers a new seller company
type CreateCompanyRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=200"`
	LegalName        string `json:"legal_name"`
	Country          string `json:"country" binding:"required,len=2"`
	ContactEmail     string `json:"contact_email" binding:"omitempty,email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	PayoutPreference string `json:"payout_preference" binding:"omitempty,oneof=stripe manual"`
	StripeAccountID  string `json:"stripe_account_id"`
}

// UpdateCompanyRequest updates a company's basic information
type UpdateCompanyRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	LegalName string `json:"legal_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

// SetPayoutPreferenceRequest sets a company's payout channel
type SetPayoutPreferenceRequest struct {
	PayoutPreference string `json:"payout_preference" binding:"required,oneof=stripe manual"`
	StripeAccountID  string `json:"stripe_account_id"`
}

// CompanyResponse represents a seller company in API responses
type CompanyResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	LegalName        string    `json:"legal_name,omitempty"`
	Country          string    `json:"country"`
	ContactEmail     string    `json:"contact_email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	PayoutPreference string    `json:"payout_preference,omitempty"`
	PayoutChannel    string    `json:"payout_channel"`
	StripeAccountID  string    `json:"stripe_account_id,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToCompanyResponse converts a domain company to its response DTO
func ToCompanyResponse(company *partner.Company) CompanyResponse {
	return CompanyResponse{
		ID:               company.ID,
		Name:             company.Name,
		LegalName:        company.LegalName,
		Country:          company.Country,
		ContactEmail:     company.ContactEmail,
		Phone:            company.Phone,
		Address:          company.Address,
		PayoutPreference: string(company.PayoutPreference),
		PayoutChannel:    string(company.PayoutChannel()),
		StripeAccountID:  company.StripeAccountID,
		Status:           string(company.Status),
		CreatedAt:        company.CreatedAt,
		UpdatedAt:        company.UpdatedAt,
	}
}

// ToCompanyResponses converts a slice of domain companies to response DTOs
func ToCompanyResponses(companies []partner.Company) []CompanyResponse {
	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses
}

// CompanyService manages the seller company registry
type CompanyService struct {
	companyRepo    partner.CompanyRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// CompanyServiceConfig holds the dependencies for CompanyService
type CompanyServiceConfig struct {
	CompanyRepo    partner.CompanyRepository
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(config CompanyServiceConfig) *CompanyService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyService{
		companyRepo:    config.CompanyRepo,
		eventPublisher: config.EventPublisher,
		logger:         logger,
	}
}

// CreateCompany registers a new seller company
func (s *CompanyService) CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := partner.NewCompany(req.Name, req.Country, req.ContactEmail)
	if err != nil {
		return nil, err
	}
	company.LegalName = req.LegalName
	company.Phone = req.Phone
	company.Address = req.Address

	if req.PayoutPreference != "" {
		if err := company.SetPayoutPreference(partner.PayoutPreference(req.PayoutPreference), req.StripeAccountID); err != nil {
			return nil, err
		}
	} else if req.StripeAccountID != "" {
		company.StripeAccountID = req.StripeAccountID
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, company.GetDomainEvents()...); err != nil {
			s.logger.Warn("Failed to publish company events", zap.Error(err))
		}
	}
	company.ClearDomainEvents()

	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("name", company.Name),
		zap.String("country", company.Country))

	resp := ToCompanyResponse(company)
	return &resp, nil
}

// GetCompany returns a single company
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// ListCompanies returns a paginated list of companies
func (s *CompanyService) ListCompanies(ctx context.Context, filter shared.Filter) (*shared.Paginated[CompanyResponse], error) {
	companies, err := s.companyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	total, err := s.companyRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	result := shared.NewPaginated(ToCompanyResponses(companies), total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCompany updates a company's basic information
func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, req *UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := company.Update(req.Name, req.LegalName, req.Phone, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// SetPayoutPreference sets a company's payout channel
func (s *CompanyService) SetPayoutPreference(ctx context.Context, id uuid.UUID, req *SetPayoutPreferenceRequest) (*CompanyResponse, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := company.SetPayoutPreference(partner.PayoutPreference(req.PayoutPreference), req.StripeAccountID); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

func (s *CompanyService) findCompany(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return company, nil
}
