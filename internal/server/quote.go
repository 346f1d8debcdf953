package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/enrolla/internal/quote/domain"
)

type roleCoverageRequest struct {
	Role     string  `json:"role" binding:"required"`
	Coverage float64 `json:"coverage" binding:"min=0"`
}

type createQuoteRequest struct {
	ProductCode string `json:"product_code" binding:"required"`

	Employee struct {
		Age          int     `json:"age" binding:"min=0"`
		AnnualSalary float64 `json:"annual_salary" binding:"min=0"`
	} `json:"employee"`

	Enrollment struct {
		FamilyMembersToCover []string              `json:"family_members_to_cover,omitempty"`
		CoverageLevel        []roleCoverageRequest `json:"coverage_level,omitempty"`
		Benefit              string                `json:"benefit,omitempty"`
	} `json:"enrollment"`
}

type productSummary struct {
	Code string                    `json:"code"`
	Type pricingdomain.ProductType `json:"type"`
}

func (s *Server) createQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	roles := make([]pricingdomain.Role, 0, len(req.Enrollment.FamilyMembersToCover))
	for _, role := range req.Enrollment.FamilyMembersToCover {
		roles = append(roles, pricingdomain.Role(role))
	}
	coverage := make([]pricingdomain.RoleCoverage, 0, len(req.Enrollment.CoverageLevel))
	for _, rc := range req.Enrollment.CoverageLevel {
		coverage = append(coverage, pricingdomain.RoleCoverage{
			Role:     pricingdomain.Role(rc.Role),
			Coverage: rc.Coverage,
		})
	}

	quote, err := s.quoteSvc.QuotePremium(c.Request.Context(), quotedomain.Request{
		ProductCode: req.ProductCode,
		Employee: pricingdomain.Employee{
			Age:          req.Employee.Age,
			AnnualSalary: req.Employee.AnnualSalary,
		},
		Enrollment: quotedomain.Enrollment{
			FamilyMembersToCover: roles,
			CoverageLevel:        coverage,
			Benefit:              pricingdomain.BenefitKind(req.Enrollment.Benefit),
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (s *Server) listProducts(c *gin.Context) {
	codes := s.products.Codes()
	summaries := make([]productSummary, 0, len(codes))
	for _, code := range codes {
		product, ok := s.products.Product(code)
		if !ok {
			continue
		}
		summaries = append(summaries, productSummary{
			Code: code,
			Type: product.Type(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": summaries})
}
