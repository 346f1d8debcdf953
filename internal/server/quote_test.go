package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/enrolla/internal/pricing/service"
	quotedomain "github.com/smallbiznis/enrolla/internal/quote/domain"
	quoteservice "github.com/smallbiznis/enrolla/internal/quote/service"
)

type fakeSource map[string]pricingdomain.Product

func (s fakeSource) Product(code string) (pricingdomain.Product, bool) {
	p, ok := s[code]
	return p, ok
}

func (s fakeSource) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	return codes
}

func newTestServer(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := fakeSource{
		"vol_life": pricingdomain.VoluntaryLifeProduct{
			Code: "vol_life",
			EmployerContribution: pricingdomain.EmployerContribution{
				Kind:   pricingdomain.Percentage,
				Amount: 10,
			},
			Costs: pricingdomain.CostTable{
				pricingdomain.RoleEmployee: {PerThousand: 0.35},
			},
		},
		"commuter": pricingdomain.CommuterProduct{
			Code: "commuter",
			EmployerContribution: pricingdomain.EmployerContribution{
				Kind:   pricingdomain.Dollars,
				Amount: 75,
			},
			Benefits: map[pricingdomain.BenefitKind]float64{
				pricingdomain.BenefitParking: 250,
			},
		},
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	quoteSvc := quoteservice.NewService(quoteservice.ServiceParam{
		Log:     zap.NewNop(),
		GenID:   node,
		Source:  source,
		Pricing: pricingservice.NewService(pricingservice.ServiceParam{Log: zap.NewNop()}),
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:   engine,
		log:      zap.NewNop(),
		quoteSvc: quoteSvc,
		products: source,
	}
	registerRoutes(srv)
	return engine, srv
}

func postQuote(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateQuoteVoluntaryLife(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postQuote(t, engine, `{
		"product_code": "vol_life",
		"enrollment": {
			"family_members_to_cover": ["ee"],
			"coverage_level": [{"role": "ee", "coverage": 125000}]
		}
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var quote quotedomain.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, "vol_life", quote.ProductCode)
	assert.Equal(t, pricingdomain.VoluntaryLife, quote.ProductType)
	assert.Equal(t, 39.37, quote.Premium)
}

func TestCreateQuoteCommuter(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postQuote(t, engine, `{
		"product_code": "commuter",
		"enrollment": {"benefit": "parking"}
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var quote quotedomain.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 175.0, quote.Premium)
}

func TestCreateQuoteProductNotFound(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postQuote(t, engine, `{"product_code": "dental", "enrollment": {}}`)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestCreateQuotePricingErrorIsUnprocessable(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postQuote(t, engine, `{
		"product_code": "commuter",
		"enrollment": {"benefit": "ferry"}
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pricing_error", resp.Error.Type)
}

func TestCreateQuoteMalformedBody(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postQuote(t, engine, `{"product_code":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProducts(t *testing.T) {
	engine, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []productSummary `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
}
