package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Fox ")
	require.NoError(t, err)
	assert.Equal(t, CategoryFox, c)

	_, err = ParseCategory("bear")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = ParseCategory("")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestLocationValidate(t *testing.T) {
	assert.NoError(t, Location{Latitude: 42.36, Longitude: -71.06}.Validate())
	assert.NoError(t, Location{Latitude: -90, Longitude: 180}.Validate())
	assert.ErrorIs(t, Location{Latitude: 91}.Validate(), ErrInvalidLocation)
	assert.ErrorIs(t, Location{Longitude: -180.5}.Validate(), ErrInvalidLocation)
	assert.ErrorIs(t, Location{Latitude: math.NaN()}.Validate(), ErrInvalidLocation)
}

func TestWildlifeReportValidate(t *testing.T) {
	ok := WildlifeReport{AnimalType: CategoryBunny, Latitude: 1, Longitude: 2, ReportTime: time.Now()}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.AnimalType = "bear"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownCategory)

	bad = ok
	bad.Latitude = 100
	assert.ErrorIs(t, bad.Validate(), ErrInvalidLocation)

	bad = ok
	bad.ReportTime = time.Time{}
	assert.Error(t, bad.Validate())
}

func TestCategoriesCatalog(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, []Category{CategoryRat, CategoryRaccoon, CategoryFox, CategoryBunny},
		[]Category{cats[0].Value, cats[1].Value, cats[2].Value, cats[3].Value})

	info, ok := LookupCategory(CategoryFox)
	assert.True(t, ok)
	assert.Equal(t, "Fox", info.Label)

	_, ok = LookupCategory("bear")
	assert.False(t, ok)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Label = "changed"
	assert.Equal(t, "Rat", Categories()[0].Label)
}

func TestLoadCatalogRejectsUnknownValue(t *testing.T) {
	_, err := loadCatalog([]byte("- value: bear\n  label: Bear\n"))
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = loadCatalog([]byte("not: [valid"))
	assert.Error(t, err)
}
