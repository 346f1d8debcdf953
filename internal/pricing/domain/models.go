// Package domain contains the input model for premium pricing: products,
// employer contributions, employees and enrollment selections. Everything here
// is an immutable value constructed by the caller per pricing request.
package domain

type ProductType string

var (
	VoluntaryLife      ProductType = "voluntaryLife"
	LongTermDisability ProductType = "longTermDisability"
	Commuter           ProductType = "commuter"
)

type ContributionKind string

var (
	Dollars    ContributionKind = "dollars"
	Percentage ContributionKind = "percentage"
)

type Role string

var (
	RoleEmployee Role = "ee"
	RoleSpouse   Role = "sp"
	RoleChild    Role = "ch"
)

type BenefitKind string

var (
	BenefitParking BenefitKind = "parking"
	BenefitTrain   BenefitKind = "train"
)

// EmployerContribution is a tagged value: either a flat dollar subsidy or a
// percentage of the pre-contribution price (Amount in whole percent, 10 = 10%).
// The dollar amount is deliberately not clamped to the price.
type EmployerContribution struct {
	Kind   ContributionKind `json:"kind"`
	Amount float64          `json:"amount"`
}

// Employee carries the attributes disability pricing reads. The engine is
// agnostic to everything else about the person.
type Employee struct {
	Age          int     `json:"age"`
	AnnualSalary float64 `json:"annual_salary"`
}

// RoleCoverage is one elected face amount, in dollars, for one covered role.
type RoleCoverage struct {
	Role     Role    `json:"role"`
	Coverage float64 `json:"coverage"`
}

// RateBand prices coverage up to UpToCoverage dollars of face value.
// UpToCoverage zero marks the open-ended band.
type RateBand struct {
	UpToCoverage float64 `json:"up_to_coverage,omitempty"`
	PerThousand  float64 `json:"per_thousand"`
}

// RoleRate is the per-role rate policy of a voluntary-life cost table:
// either a flat rate per $1000 of coverage, or a set of coverage bands
// ordered ascending with an open-ended band last.
type RoleRate struct {
	PerThousand float64    `json:"per_thousand,omitempty"`
	Bands       []RateBand `json:"bands,omitempty"`
}

// ForCoverage resolves the applicable rate per $1000 for an elected face amount.
func (r RoleRate) ForCoverage(coverage float64) float64 {
	if len(r.Bands) == 0 {
		return r.PerThousand
	}
	for _, band := range r.Bands {
		if band.UpToCoverage == 0 || coverage <= band.UpToCoverage {
			return band.PerThousand
		}
	}
	return r.Bands[len(r.Bands)-1].PerThousand
}

// CostTable maps a role code to its rate policy.
type CostTable map[Role]RoleRate

// RatePerThousand resolves the rate for a role and face amount. The second
// return is false when the table has no entry for the role.
func (t CostTable) RatePerThousand(role Role, coverage float64) (float64, bool) {
	rate, ok := t[role]
	if !ok {
		return 0, false
	}
	return rate.ForCoverage(coverage), true
}

// AgeBand prices employees up to and including MaxAge. MaxAge zero marks the
// open-ended band.
type AgeBand struct {
	MaxAge      int     `json:"max_age,omitempty"`
	PerThousand float64 `json:"per_thousand"`
}

// DisabilityRateTable holds age-banded rates per $1000 of annual salary,
// ordered ascending by MaxAge with the open-ended band last.
type DisabilityRateTable struct {
	Bands []AgeBand `json:"bands"`
}

// ForAge resolves the rate for an employee's age. The second return is false
// when no band covers the age.
func (t DisabilityRateTable) ForAge(age int) (float64, bool) {
	for _, band := range t.Bands {
		if band.MaxAge == 0 || age <= band.MaxAge {
			return band.PerThousand, true
		}
	}
	return 0, false
}

// Product is the closed set of purchasable benefits. The dispatcher matches on
// the concrete types below; any other implementation is treated as malformed
// external input and rejected with ErrUnknownProductType.
type Product interface {
	Type() ProductType
	Contribution() EmployerContribution
}

type VoluntaryLifeProduct struct {
	Code                 string               `json:"code"`
	EmployerContribution EmployerContribution `json:"employer_contribution"`
	Costs                CostTable            `json:"costs"`
}

func (p VoluntaryLifeProduct) Type() ProductType                  { return VoluntaryLife }
func (p VoluntaryLifeProduct) Contribution() EmployerContribution { return p.EmployerContribution }

type LongTermDisabilityProduct struct {
	Code                 string               `json:"code"`
	EmployerContribution EmployerContribution `json:"employer_contribution"`
	Rates                DisabilityRateTable  `json:"rates"`
}

func (p LongTermDisabilityProduct) Type() ProductType { return LongTermDisability }
func (p LongTermDisabilityProduct) Contribution() EmployerContribution {
	return p.EmployerContribution
}

type CommuterProduct struct {
	Code                 string                  `json:"code"`
	EmployerContribution EmployerContribution    `json:"employer_contribution"`
	Benefits             map[BenefitKind]float64 `json:"benefits"`
}

func (p CommuterProduct) Type() ProductType                  { return Commuter }
func (p CommuterProduct) Contribution() EmployerContribution { return p.EmployerContribution }

// Selection is the employee's choice for one product. Each product type has
// its own variant; AppliesTo names the product type the variant belongs to so
// the dispatcher can reject mismatched pairs early.
type Selection interface {
	AppliesTo() ProductType
}

// VolLifeSelection elects face amounts for a set of family members. Every role
// in FamilyMembersToCover must have a matching CoverageLevel entry.
type VolLifeSelection struct {
	FamilyMembersToCover []Role         `json:"family_members_to_cover"`
	CoverageLevel        []RoleCoverage `json:"coverage_level"`
}

func (VolLifeSelection) AppliesTo() ProductType { return VoluntaryLife }

// DisabilitySelection covers the employee only; dependents are not insurable
// under long-term disability.
type DisabilitySelection struct {
	FamilyMembersToCover []Role `json:"family_members_to_cover"`
}

func (DisabilitySelection) AppliesTo() ProductType { return LongTermDisability }

// CommuterSelection picks one benefit category from the product's price list.
type CommuterSelection struct {
	Benefit BenefitKind `json:"benefit"`
}

func (CommuterSelection) AppliesTo() ProductType { return Commuter }
