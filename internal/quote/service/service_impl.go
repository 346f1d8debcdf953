package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/smallbiznis/enrolla/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/enrolla/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	source  quotedomain.ProductSource
	pricing pricingdomain.Service
	metrics *obsmetrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Source  quotedomain.ProductSource
	Pricing pricingdomain.Service
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) quotedomain.Service {
	return &Service{
		log:     p.Log.Named("quote.service"),
		genID:   p.GenID,
		source:  p.Source,
		pricing: p.Pricing,
		metrics: p.Metrics,
	}
}

func (s *Service) QuotePremium(ctx context.Context, req quotedomain.Request) (*quotedomain.Quote, error) {
	code := strings.TrimSpace(req.ProductCode)
	if code == "" {
		return nil, quotedomain.ErrInvalidProduct
	}

	product, ok := s.source.Product(code)
	if !ok {
		return nil, quotedomain.ErrProductNotFound
	}

	selection := selectionFor(product, req.Enrollment)
	premium, err := s.pricing.PriceProduct(product, req.Employee, selection)
	if err != nil {
		s.metrics.RecordPricingError(ctx, product.Type())
		return nil, err
	}
	s.metrics.RecordQuote(ctx, product.Type())

	quote := &quotedomain.Quote{
		ID:          s.genID.Generate(),
		ProductCode: code,
		ProductType: product.Type(),
		Premium:     premium,
		CreatedAt:   time.Now().UTC(),
	}
	s.log.Debug("premium quoted",
		zap.String("product_code", quote.ProductCode),
		zap.String("product_type", string(quote.ProductType)),
	)
	return quote, nil
}

// selectionFor narrows the wire-shaped enrollment bag to the typed selection
// variant the product's calculator reads. Fields that do not apply to the
// product type are dropped here, before the engine sees them.
func selectionFor(product pricingdomain.Product, enrollment quotedomain.Enrollment) pricingdomain.Selection {
	switch product.(type) {
	case pricingdomain.VoluntaryLifeProduct:
		return pricingdomain.VolLifeSelection{
			FamilyMembersToCover: enrollment.FamilyMembersToCover,
			CoverageLevel:        enrollment.CoverageLevel,
		}
	case pricingdomain.LongTermDisabilityProduct:
		return pricingdomain.DisabilitySelection{
			FamilyMembersToCover: enrollment.FamilyMembersToCover,
		}
	case pricingdomain.CommuterProduct:
		return pricingdomain.CommuterSelection{Benefit: enrollment.Benefit}
	default:
		// Let the dispatcher report the unknown type itself.
		return unmatchedSelection{}
	}
}

type unmatchedSelection struct{}

func (unmatchedSelection) AppliesTo() pricingdomain.ProductType { return "" }
