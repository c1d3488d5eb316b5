package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
)

// Cart validation errors
var (
	ErrEmptyCart         = shared.NewDomainError("EMPTY_CART", "Cart must contain at least one item")
	ErrMultiMerchantCart = shared.NewDomainError("MULTI_MERCHANT_CART", "All cart items must belong to the same seller")
	ErrMissingCompany    = shared.NewDomainError("MISSING_SELLER_COMPANY", "Cart item has no seller company")
	ErrInvalidCartItem   = shared.NewDomainError("INVALID_CART_ITEM", "Cart item quantity and price must be positive")
)

// CartItem is a priced line captured from the buyer's cart at checkout time.
// Prices are snapshots; later catalog changes do not affect an order in
// flight.
type CartItem struct {
	ProductID       uuid.UUID         `json:"product_id"`
	ProductName     string            `json:"product_name"`
	SellerCompanyID uuid.UUID         `json:"seller_company_id"`
	Quantity        decimal.Decimal   `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	Specifications  map[string]string `json:"specifications,omitempty"`
}

// Validate checks a single cart item
func (c CartItem) Validate() error {
	if c.ProductID == uuid.Nil {
		return ErrInvalidCartItem
	}
	if c.SellerCompanyID == uuid.Nil {
		return ErrMissingCompany
	}
	if !c.Quantity.IsPositive() || c.UnitPrice.IsNegative() {
		return ErrInvalidCartItem
	}
	return nil
}

// LineTotal returns quantity * unit price
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Quantity.Mul(c.UnitPrice)
}

// SellerForCart validates a cart for checkout and returns the single seller
// company all items belong to. A checkout order settles to exactly one
// seller; mixed-seller carts must be split by the caller before checkout.
func SellerForCart(items []CartItem) (uuid.UUID, error) {
	if len(items) == 0 {
		return uuid.Nil, ErrEmptyCart
	}
	seller := uuid.Nil
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return uuid.Nil, err
		}
		if seller == uuid.Nil {
			seller = item.SellerCompanyID
			continue
		}
		if item.SellerCompanyID != seller {
			return uuid.Nil, ErrMultiMerchantCart
		}
	}
	return seller, nil
}

// CartSubtotal sums the line totals of all items
func CartSubtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CartRemover clears purchased items from the buyer's cart after payment
// succeeds. Implementations must tolerate repeated calls for the same order.
type CartRemover interface {
	RemovePurchasedItems(ctx context.Context, buyerEmail string, productIDs []uuid.UUID) error
}
