// Package domain defines premium quotes: the priced result of one employee's
// enrollment selection for one catalog product.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
)

// Quote is the post-contribution premium for one product selection.
type Quote struct {
	ID          snowflake.ID              `json:"id"`
	ProductCode string                    `json:"product_code"`
	ProductType pricingdomain.ProductType `json:"product_type"`
	Premium     float64                   `json:"premium"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// Enrollment is the selection as the enrollment application sends it: one
// loosely-typed bag whose fields apply per product type. The quote service
// narrows it to the engine's typed selection once the product is known.
type Enrollment struct {
	FamilyMembersToCover []pricingdomain.Role         `json:"family_members_to_cover,omitempty"`
	CoverageLevel        []pricingdomain.RoleCoverage `json:"coverage_level,omitempty"`
	Benefit              pricingdomain.BenefitKind    `json:"benefit,omitempty"`
}

// Request asks for a premium quote.
type Request struct {
	ProductCode string
	Employee    pricingdomain.Employee
	Enrollment  Enrollment
}
