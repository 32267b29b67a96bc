package catalog

import (
	"testing"

	"bakery-assistant-api/config"
	"bakery-assistant-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	require.NoError(t, config.SeedCatalog(db))
	return New(db)
}

func TestScanFindsProductsLongestNameFirst(t *testing.T) {
	c := testCatalog(t)

	mentions, err := c.Scan("I'd like 2 chocolate fudge cakes and a cheesecake")
	require.NoError(t, err)
	require.Len(t, mentions, 2)

	assert.Equal(t, "Chocolate Fudge Cake", mentions[0].Product.Name)
	assert.Equal(t, 2, mentions[0].Quantity)
	assert.True(t, mentions[0].Explicit)

	assert.Equal(t, "Cheesecake", mentions[1].Product.Name)
	assert.Equal(t, 1, mentions[1].Quantity, "no stated quantity defaults to one")
	assert.False(t, mentions[1].Explicit)
}

func TestScanDoesNotDoubleCountSubstrings(t *testing.T) {
	c := testCatalog(t)

	// "almond croissant" must not also count as a plain "croissant"
	mentions, err := c.Scan("one almond croissant please")
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, "Almond Croissant", mentions[0].Product.Name)
}

func TestScanZeroQuantityIsInvalid(t *testing.T) {
	c := testCatalog(t)

	mentions, err := c.Scan("0 cheesecakes")
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.True(t, mentions[0].Explicit)
	assert.True(t, mentions[0].Invalid)
}

func TestScanNoMatches(t *testing.T) {
	c := testCatalog(t)

	mentions, err := c.Scan("do you sell pizza")
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestFindExactAndSubstring(t *testing.T) {
	c := testCatalog(t)

	p, err := c.Find("cheesecake")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Cheesecake", p.Name)

	p, err = c.Find("sourdough")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Sourdough Bread", p.Name)
}

func TestFindFuzzyMatchesTypos(t *testing.T) {
	c := testCatalog(t)

	p, err := c.Find("choclate fudge cake")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Chocolate Fudge Cake", p.Name)

	p, err = c.Find("quinoa salad")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestAlternativesStayInCategory(t *testing.T) {
	c := testCatalog(t)

	alts, err := c.Alternatives("cakes", 3)
	require.NoError(t, err)
	require.NotEmpty(t, alts)
	for _, a := range alts {
		assert.Equal(t, "cakes", a.Category)
		assert.Greater(t, a.QuantityInStock, 0)
	}
}

func TestUpsellsExcludeCartItems(t *testing.T) {
	c := testCatalog(t)

	cake, err := c.Find("chocolate fudge cake")
	require.NoError(t, err)
	require.NotNil(t, cake)

	names, err := c.Upsells([]uint{cake.ID}, 5)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.NotContains(t, names, cake.Name)
}
