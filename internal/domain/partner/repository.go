package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/shared"
)

// CompanyRepository defines the interface for seller company persistence
type CompanyRepository interface {
	// FindByID finds a company by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindAll finds companies with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)

	// FindByName finds a company by exact name
	FindByName(ctx context.Context, name string) (*Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error

	// Count counts companies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
