package domain

import (
	"context"
	"errors"

	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
)

// ProductSource resolves catalog products by code.
type ProductSource interface {
	Product(code string) (pricingdomain.Product, bool)
	Codes() []string
}

type Service interface {
	QuotePremium(ctx context.Context, req Request) (*Quote, error)
}

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrInvalidProduct  = errors.New("invalid_product_code")
)
