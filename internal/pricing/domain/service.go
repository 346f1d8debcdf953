package domain

import "errors"

// Service prices one product selection for one employee. Implementations are
// pure with respect to their inputs and safe for concurrent use.
type Service interface {
	PriceProduct(product Product, employee Employee, selection Selection) (float64, error)
}

var (
	// ErrUnknownProductType's text is load-bearing: callers surface the
	// rendered "Unknown product type: <type>" message to the enrollment
	// application verbatim.
	ErrUnknownProductType = errors.New("Unknown product type")

	ErrUnknownContributionKind = errors.New("unknown_contribution_kind")
	ErrRoleNotCovered          = errors.New("role_not_in_coverage_level")
	ErrRoleRateMissing         = errors.New("role_missing_from_cost_table")
	ErrNoRateForAge            = errors.New("no_disability_rate_for_age")
	ErrDependentNotInsurable   = errors.New("dependent_not_insurable")
	ErrUnknownBenefit          = errors.New("unknown_benefit")
	ErrSelectionMismatch       = errors.New("selection_product_mismatch")
)
