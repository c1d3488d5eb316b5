package models

import (
	"github.com/tradelink/backend/internal/domain/partner"
)

// CompanyModel is the persistence model for the Company aggregate root.
type CompanyModel struct {
	AggregateModel
	Name             string                   `gorm:"type:varchar(200);not null;uniqueIndex:idx_companies_name"`
	LegalName        string                   `gorm:"type:varchar(200)"`
	Country          string                   `gorm:"type:varchar(2);not null"`
	ContactEmail     string                   `gorm:"type:varchar(320)"`
	Phone            string                   `gorm:"type:varchar(50)"`
	Address          string                   `gorm:"type:text"`
	PayoutPreference partner.PayoutPreference `gorm:"type:varchar(20);not null;default:''"`
	StripeAccountID  string                   `gorm:"type:varchar(255)"`
	Status           partner.CompanyStatus    `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes            string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company aggregate.
func (m *CompanyModel) ToDomain() *partner.Company {
	company := &partner.Company{
		Name:             m.Name,
		LegalName:        m.LegalName,
		Country:          m.Country,
		ContactEmail:     m.ContactEmail,
		Phone:            m.Phone,
		Address:          m.Address,
		PayoutPreference: m.PayoutPreference,
		StripeAccountID:  m.StripeAccountID,
		Status:           m.Status,
		Notes:            m.Notes,
	}
	m.PopulateAggregateRoot(&company.BaseAggregateRoot)
	return company
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *partner.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.LegalName = c.LegalName
	m.Country = c.Country
	m.ContactEmail = c.ContactEmail
	m.Phone = c.Phone
	m.Address = c.Address
	m.PayoutPreference = c.PayoutPreference
	m.StripeAccountID = c.StripeAccountID
	m.Status = c.Status
	m.Notes = c.Notes
}

// CompanyModelFromDomain creates a new persistence model from a domain Company.
func CompanyModelFromDomain(c *partner.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}
