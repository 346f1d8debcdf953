package service

import (
	"fmt"
	"math"

	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log *zap.Logger
}

type service struct {
	log *zap.Logger
}

func NewService(p ServiceParam) pricingdomain.Service {
	return &service{log: p.Log.Named("pricing.service")}
}

func (s *service) PriceProduct(
	product pricingdomain.Product,
	employee pricingdomain.Employee,
	selection pricingdomain.Selection,
) (float64, error) {
	price, err := PriceProduct(product, employee, selection)
	if err != nil {
		s.log.Warn("pricing failed",
			zap.String("product_type", string(product.Type())),
			zap.Error(err),
		)
		return 0, err
	}
	return price, nil
}

// FormatPrice truncates a price to two decimal places, toward zero. It is not
// rounding: FormatPrice(15.335) is 15.33, and FormatPrice(x) <= x for
// non-negative x.
//
// The arithmetic is plain float64 on purpose. Billed premiums are fixed
// against IEEE-754 double results (79 - 79*10/100 truncates to 71.09, not
// 71.10); exact decimal math would disagree with what the enrollment
// application reconciles against.
func FormatPrice(price float64) float64 {
	return math.Trunc(price*100) / 100
}

// ContributionAmount resolves the employer's subsidy against a
// pre-contribution price. Dollar contributions pass through unclamped; a
// subsidy larger than the price yields a negative final premium by contract.
func ContributionAmount(c pricingdomain.EmployerContribution, price float64) (float64, error) {
	switch c.Kind {
	case pricingdomain.Dollars:
		return c.Amount, nil
	case pricingdomain.Percentage:
		return price * c.Amount / 100, nil
	default:
		return 0, fmt.Errorf("%w: %s", pricingdomain.ErrUnknownContributionKind, c.Kind)
	}
}

// VolLifePricePerRole prices one covered role: the elected face amount per
// $1000 times the role's applicable rate. A role absent from the coverage
// level or the cost table fails loudly; silently pricing it at zero would
// under-charge.
func VolLifePricePerRole(
	role pricingdomain.Role,
	coverageLevel []pricingdomain.RoleCoverage,
	costs pricingdomain.CostTable,
) (float64, error) {
	for _, elected := range coverageLevel {
		if elected.Role != role {
			continue
		}
		rate, ok := costs.RatePerThousand(role, elected.Coverage)
		if !ok {
			return 0, fmt.Errorf("%w: %s", pricingdomain.ErrRoleRateMissing, role)
		}
		return elected.Coverage / 1000 * rate, nil
	}
	return 0, fmt.Errorf("%w: %s", pricingdomain.ErrRoleNotCovered, role)
}

// VolLifePrice sums the per-role price across every family member the
// selection covers.
func VolLifePrice(
	product pricingdomain.VoluntaryLifeProduct,
	selection pricingdomain.VolLifeSelection,
) (float64, error) {
	var total float64
	for _, role := range selection.FamilyMembersToCover {
		perRole, err := VolLifePricePerRole(role, selection.CoverageLevel, product.Costs)
		if err != nil {
			return 0, err
		}
		total += perRole
	}
	return total, nil
}

// LTDPrice prices long-term disability from the employee's annual salary and
// the product's age-banded rate table. Only the employee is insurable.
func LTDPrice(
	product pricingdomain.LongTermDisabilityProduct,
	employee pricingdomain.Employee,
	selection pricingdomain.DisabilitySelection,
) (float64, error) {
	for _, role := range selection.FamilyMembersToCover {
		if role != pricingdomain.RoleEmployee {
			return 0, fmt.Errorf("%w: %s", pricingdomain.ErrDependentNotInsurable, role)
		}
	}
	rate, ok := product.Rates.ForAge(employee.Age)
	if !ok {
		return 0, fmt.Errorf("%w: age %d", pricingdomain.ErrNoRateForAge, employee.Age)
	}
	return employee.AnnualSalary / 1000 * rate, nil
}

// CommuterPrice looks the selected benefit up in the product's price list and
// returns it as-is; commuter prices are flat.
func CommuterPrice(
	product pricingdomain.CommuterProduct,
	selection pricingdomain.CommuterSelection,
) (float64, error) {
	price, ok := product.Benefits[selection.Benefit]
	if !ok {
		return 0, fmt.Errorf("%w: %s", pricingdomain.ErrUnknownBenefit, selection.Benefit)
	}
	return price, nil
}

// PriceProduct dispatches on the product variant, then applies the tail every
// product type shares: compute the employer contribution against the
// pre-contribution price, subtract it, truncate to two decimals. Exactly one
// calculator runs per call.
func PriceProduct(
	product pricingdomain.Product,
	employee pricingdomain.Employee,
	selection pricingdomain.Selection,
) (float64, error) {
	var price float64
	var err error

	switch p := product.(type) {
	case pricingdomain.VoluntaryLifeProduct:
		sel, ok := selection.(pricingdomain.VolLifeSelection)
		if !ok {
			return 0, selectionMismatch(p, selection)
		}
		price, err = VolLifePrice(p, sel)
	case pricingdomain.LongTermDisabilityProduct:
		sel, ok := selection.(pricingdomain.DisabilitySelection)
		if !ok {
			return 0, selectionMismatch(p, selection)
		}
		price, err = LTDPrice(p, employee, sel)
	case pricingdomain.CommuterProduct:
		sel, ok := selection.(pricingdomain.CommuterSelection)
		if !ok {
			return 0, selectionMismatch(p, selection)
		}
		price, err = CommuterPrice(p, sel)
	default:
		return 0, fmt.Errorf("%w: %s", pricingdomain.ErrUnknownProductType, product.Type())
	}
	if err != nil {
		return 0, err
	}

	contribution, err := ContributionAmount(product.Contribution(), price)
	if err != nil {
		return 0, err
	}
	return FormatPrice(price - contribution), nil
}

func selectionMismatch(product pricingdomain.Product, selection pricingdomain.Selection) error {
	return fmt.Errorf("%w: product %s, selection %s",
		pricingdomain.ErrSelectionMismatch, product.Type(), selection.AppliesTo())
}
