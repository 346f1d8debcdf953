// Package catalog serves the product catalog the pricing engine prices
// against. Products are loaded from catalog.yml, validated, and swapped
// atomically on change; readers always see a complete, valid catalog.
package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/enrolla/internal/config"
	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type productSpec struct {
	Code                 string                  `mapstructure:"code"`
	Type                 string                  `mapstructure:"type"`
	EmployerContribution contributionSpec        `mapstructure:"employerContribution"`
	Costs                map[string]roleRateSpec `mapstructure:"costs"`
	DisabilityRates      []ageBandSpec           `mapstructure:"disabilityRates"`
	Benefits             map[string]float64      `mapstructure:"benefits"`
}

type contributionSpec struct {
	Kind   string  `mapstructure:"kind"`
	Amount float64 `mapstructure:"amount"`
}

type roleRateSpec struct {
	PerThousand float64        `mapstructure:"perThousand"`
	Bands       []rateBandSpec `mapstructure:"bands"`
}

type rateBandSpec struct {
	UpToCoverage float64 `mapstructure:"upToCoverage"`
	PerThousand  float64 `mapstructure:"perThousand"`
}

type ageBandSpec struct {
	MaxAge      int     `mapstructure:"maxAge"`
	PerThousand float64 `mapstructure:"perThousand"`
}

type snapshot struct {
	products map[string]pricingdomain.Product
	codes    []string
}

// Holder hands out the current catalog snapshot.
type Holder struct {
	log     *zap.Logger
	current atomic.Value // holds snapshot
}

type HolderParam struct {
	fx.In

	Log *zap.Logger
	Cfg config.Config
}

// NewHolder reads catalog.yml, falling back to the built-in catalog when no
// file is present, and watches the file for changes. An invalid file on
// reload is logged and ignored; the previous snapshot stays live.
func NewHolder(p HolderParam) (*Holder, error) {
	log := p.Log.Named("catalog")

	v := viper.New()
	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	if p.Cfg.CatalogPath != "" {
		v.AddConfigPath(p.Cfg.CatalogPath)
	}
	v.AddConfigPath("/var/lib/enrolla/config")
	v.AddConfigPath("/etc/enrolla")
	v.AddConfigPath(".")

	var specs []productSpec
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Info("no catalog file found, using built-in catalog")
		specs = defaultSpecs()
	} else {
		if err := v.UnmarshalKey("products", &specs); err != nil {
			return nil, err
		}
	}

	snap, err := buildSnapshot(specs)
	if err != nil {
		return nil, err
	}

	holder := &Holder{log: log}
	holder.current.Store(snap)
	log.Info("catalog loaded",
		zap.Strings("codes", snap.codes),
		zap.String("file", v.ConfigFileUsed()),
	)

	if v.ConfigFileUsed() != "" {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated []productSpec
			if err := v.UnmarshalKey("products", &updated); err != nil {
				log.Warn("catalog reload failed", zap.Error(err))
				return
			}
			snap, err := buildSnapshot(updated)
			if err != nil {
				log.Warn("invalid catalog ignored", zap.Error(err))
				return
			}
			holder.current.Store(snap)
			log.Info("catalog reloaded",
				zap.Strings("codes", snap.codes),
				zap.String("file", e.Name),
			)
		})
	}

	return holder, nil
}

// Product returns the product registered under code.
func (h *Holder) Product(code string) (pricingdomain.Product, bool) {
	snap := h.current.Load().(snapshot)
	product, ok := snap.products[code]
	return product, ok
}

// Codes lists product codes in catalog order.
func (h *Holder) Codes() []string {
	snap := h.current.Load().(snapshot)
	out := make([]string, len(snap.codes))
	copy(out, snap.codes)
	return out
}

func buildSnapshot(specs []productSpec) (snapshot, error) {
	if len(specs) == 0 {
		return snapshot{}, fmt.Errorf("catalog has no products")
	}

	products := make(map[string]pricingdomain.Product, len(specs))
	codes := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Code == "" {
			return snapshot{}, fmt.Errorf("product with empty code")
		}
		if _, exists := products[spec.Code]; exists {
			return snapshot{}, fmt.Errorf("duplicate product code %q", spec.Code)
		}
		product, err := buildProduct(spec)
		if err != nil {
			return snapshot{}, fmt.Errorf("product %q: %w", spec.Code, err)
		}
		products[spec.Code] = product
		codes = append(codes, spec.Code)
	}
	return snapshot{products: products, codes: codes}, nil
}

// buildProduct is where a malformed type discriminator from config surfaces
// as the engine's unknown-product-type defect instead of reaching pricing.
func buildProduct(spec productSpec) (pricingdomain.Product, error) {
	contribution, err := buildContribution(spec.EmployerContribution)
	if err != nil {
		return nil, err
	}

	switch pricingdomain.ProductType(spec.Type) {
	case pricingdomain.VoluntaryLife:
		if len(spec.Costs) == 0 {
			return nil, fmt.Errorf("voluntary life product without cost table")
		}
		costs := make(pricingdomain.CostTable, len(spec.Costs))
		for role, rate := range spec.Costs {
			costs[pricingdomain.Role(role)] = buildRoleRate(rate)
		}
		return pricingdomain.VoluntaryLifeProduct{
			Code:                 spec.Code,
			EmployerContribution: contribution,
			Costs:                costs,
		}, nil
	case pricingdomain.LongTermDisability:
		if len(spec.DisabilityRates) == 0 {
			return nil, fmt.Errorf("disability product without rate table")
		}
		bands := make([]pricingdomain.AgeBand, 0, len(spec.DisabilityRates))
		for _, band := range spec.DisabilityRates {
			bands = append(bands, pricingdomain.AgeBand{
				MaxAge:      band.MaxAge,
				PerThousand: band.PerThousand,
			})
		}
		return pricingdomain.LongTermDisabilityProduct{
			Code:                 spec.Code,
			EmployerContribution: contribution,
			Rates:                pricingdomain.DisabilityRateTable{Bands: bands},
		}, nil
	case pricingdomain.Commuter:
		if len(spec.Benefits) == 0 {
			return nil, fmt.Errorf("commuter product without benefit prices")
		}
		benefits := make(map[pricingdomain.BenefitKind]float64, len(spec.Benefits))
		for benefit, price := range spec.Benefits {
			benefits[pricingdomain.BenefitKind(benefit)] = price
		}
		return pricingdomain.CommuterProduct{
			Code:                 spec.Code,
			EmployerContribution: contribution,
			Benefits:             benefits,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", pricingdomain.ErrUnknownProductType, spec.Type)
	}
}

func buildContribution(spec contributionSpec) (pricingdomain.EmployerContribution, error) {
	kind := pricingdomain.ContributionKind(spec.Kind)
	switch kind {
	case pricingdomain.Dollars, pricingdomain.Percentage:
	default:
		return pricingdomain.EmployerContribution{},
			fmt.Errorf("%w: %s", pricingdomain.ErrUnknownContributionKind, spec.Kind)
	}
	if spec.Amount < 0 {
		return pricingdomain.EmployerContribution{},
			fmt.Errorf("negative contribution amount %v", spec.Amount)
	}
	return pricingdomain.EmployerContribution{Kind: kind, Amount: spec.Amount}, nil
}

func buildRoleRate(spec roleRateSpec) pricingdomain.RoleRate {
	bands := make([]pricingdomain.RateBand, 0, len(spec.Bands))
	for _, band := range spec.Bands {
		bands = append(bands, pricingdomain.RateBand{
			UpToCoverage: band.UpToCoverage,
			PerThousand:  band.PerThousand,
		})
	}
	return pricingdomain.RoleRate{PerThousand: spec.PerThousand, Bands: bands}
}
