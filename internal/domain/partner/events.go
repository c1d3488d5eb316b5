package partner

import (
	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
)

// AggregateTypeCompany is the aggregate type for company events
const AggregateTypeCompany = "Company"

// EventTypeCompanyCreated is raised when a seller company is registered
const EventTypeCompanyCreated = "CompanyCreated"

// CompanyCreatedEvent is raised when a new seller company is registered
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(company *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, company.ID),
		CompanyID:       company.ID,
		Name:            company.Name,
		Country:         company.Country,
	}
}

// EventType returns the event type name
func (e *CompanyCreatedEvent) EventType() string {
	return EventTypeCompanyCreated
}
