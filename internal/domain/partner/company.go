package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/tradelink/backend/internal/domain/shared"
)

// CompanyStatus represents the status of a seller company
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
)

// IsValid checks if the status is a valid CompanyStatus
func (s CompanyStatus) IsValid() bool {
	return s == CompanyStatusActive || s == CompanyStatusInactive
}

// PayoutPreference is a company's explicitly chosen payout channel.
// Empty means no preference; the country default applies.
type PayoutPreference string

const (
	PayoutPreferenceNone   PayoutPreference = ""
	PayoutPreferenceStripe PayoutPreference = "stripe"
	PayoutPreferenceManual PayoutPreference = "manual"
)

// IsValid checks if the preference is valid (empty is valid)
func (p PayoutPreference) IsValid() bool {
	switch p {
	case PayoutPreferenceNone, PayoutPreferenceStripe, PayoutPreferenceManual:
		return true
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Company is a seller organization that receives payouts for its orders
type Company struct {
	shared.BaseAggregateRoot
	Name             string
	LegalName        string
	Country          string // ISO 3166-1 alpha-2
	ContactEmail     string
	Phone            string
	Address          string
	PayoutPreference PayoutPreference
	StripeAccountID  string // connected account, required for stripe payouts
	Status           CompanyStatus
	Notes            string
}

// NewCompany creates a new active seller company
func NewCompany(name, country, contactEmail string) (*Company, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	if len(country) != 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country must be a two-letter ISO code")
	}
	if contactEmail != "" && !emailPattern.MatchString(contactEmail) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid contact email format")
	}

	company := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Country:           country,
		ContactEmail:      contactEmail,
		Status:            CompanyStatusActive,
	}
	company.AddDomainEvent(NewCompanyCreatedEvent(company))
	return company, nil
}

// Update updates the company's basic information
func (c *Company) Update(name, legalName, phone, address, notes string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	c.Name = name
	c.LegalName = legalName
	c.Phone = phone
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetPayoutPreference sets an explicit payout channel preference.
// Choosing stripe requires a connected account.
func (c *Company) SetPayoutPreference(pref PayoutPreference, stripeAccountID string) error {
	if !pref.IsValid() {
		return shared.NewDomainError("INVALID_PAYOUT_PREFERENCE", "Unknown payout preference")
	}
	if pref == PayoutPreferenceStripe && stripeAccountID == "" && c.StripeAccountID == "" {
		return shared.NewDomainError("MISSING_STRIPE_ACCOUNT", "Stripe payout preference requires a connected account")
	}
	c.PayoutPreference = pref
	if stripeAccountID != "" {
		c.StripeAccountID = stripeAccountID
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Deactivate marks the company inactive; it receives no new orders or payouts
func (c *Company) Deactivate() {
	c.Status = CompanyStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsActive returns true if the company can receive orders and payouts
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

// PayoutChannel resolves the channel payouts to this company use.
// An explicit preference wins; otherwise US companies default to stripe and
// everyone else to manual bank transfer.
func (c *Company) PayoutChannel() PayoutPreference {
	if c.PayoutPreference != PayoutPreferenceNone {
		return c.PayoutPreference
	}
	if c.Country == "US" {
		return PayoutPreferenceStripe
	}
	return PayoutPreferenceManual
}
