package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/enrolla/internal/config"
	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "catalog.yml"), []byte(contents), 0o600)
	require.NoError(t, err)
	return dir
}

func TestNewHolder_LoadsCatalogFile(t *testing.T) {
	dir := writeCatalog(t, `
products:
  - code: vol_life_plus
    type: voluntaryLife
    employerContribution:
      kind: percentage
      amount: 25
    costs:
      ee:
        perThousand: 0.5
      sp:
        bands:
          - upToCoverage: 100000
            perThousand: 0.2
          - perThousand: 0.15
  - code: commuter
    type: commuter
    employerContribution:
      kind: dollars
      amount: 50
    benefits:
      parking: 180
`)

	holder, err := NewHolder(HolderParam{
		Log: zap.NewNop(),
		Cfg: config.Config{CatalogPath: dir},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"vol_life_plus", "commuter"}, holder.Codes())

	product, ok := holder.Product("vol_life_plus")
	require.True(t, ok)
	volLife, ok := product.(pricingdomain.VoluntaryLifeProduct)
	require.True(t, ok)
	assert.Equal(t, pricingdomain.Percentage, volLife.EmployerContribution.Kind)
	assert.Equal(t, 25.0, volLife.EmployerContribution.Amount)

	rate, ok := volLife.Costs.RatePerThousand(pricingdomain.RoleEmployee, 125000)
	require.True(t, ok)
	assert.Equal(t, 0.5, rate)

	rate, ok = volLife.Costs.RatePerThousand(pricingdomain.RoleSpouse, 50000)
	require.True(t, ok)
	assert.Equal(t, 0.2, rate)

	rate, ok = volLife.Costs.RatePerThousand(pricingdomain.RoleSpouse, 250000)
	require.True(t, ok)
	assert.Equal(t, 0.15, rate)

	_, ok = holder.Product("ltd")
	assert.False(t, ok)
}

func TestNewHolder_FallsBackToBuiltinCatalog(t *testing.T) {
	holder, err := NewHolder(HolderParam{
		Log: zap.NewNop(),
		Cfg: config.Config{CatalogPath: t.TempDir()},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"vol_life", "ltd", "commuter"}, holder.Codes())

	product, ok := holder.Product("ltd")
	require.True(t, ok)
	ltd, ok := product.(pricingdomain.LongTermDisabilityProduct)
	require.True(t, ok)

	rate, ok := ltd.Rates.ForAge(38)
	require.True(t, ok)
	assert.Equal(t, 0.36, rate)

	rate, ok = ltd.Rates.ForAge(70)
	require.True(t, ok)
	assert.Equal(t, 0.78, rate)
}

func TestNewHolder_RejectsUnknownProductType(t *testing.T) {
	dir := writeCatalog(t, `
products:
  - code: vision
    type: vision
    employerContribution:
      kind: dollars
      amount: 5
`)

	_, err := NewHolder(HolderParam{
		Log: zap.NewNop(),
		Cfg: config.Config{CatalogPath: dir},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pricingdomain.ErrUnknownProductType)
}

func TestNewHolder_RejectsUnknownContributionKind(t *testing.T) {
	dir := writeCatalog(t, `
products:
  - code: commuter
    type: commuter
    employerContribution:
      kind: matching
      amount: 5
    benefits:
      parking: 100
`)

	_, err := NewHolder(HolderParam{
		Log: zap.NewNop(),
		Cfg: config.Config{CatalogPath: dir},
	})
	assert.ErrorIs(t, err, pricingdomain.ErrUnknownContributionKind)
}

func TestBuildSnapshot_RejectsDuplicateCodes(t *testing.T) {
	specs := defaultSpecs()
	specs = append(specs, specs[0])

	_, err := buildSnapshot(specs)
	assert.ErrorContains(t, err, "duplicate product code")
}

func TestBuildSnapshot_RejectsEmptyCatalog(t *testing.T) {
	_, err := buildSnapshot(nil)
	assert.ErrorContains(t, err, "no products")
}
