package reporting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

func TestFormPhases(t *testing.T) {
	var f Form
	assert.Equal(t, PhaseIdle, f.Phase())
	assert.False(t, f.CanSubmit())

	require.NoError(t, f.SetCategory(models.CategoryFox))
	assert.Equal(t, PhasePartial, f.Phase())
	assert.False(t, f.CanSubmit())

	require.NoError(t, f.SetLocation(models.Location{Latitude: 42.36, Longitude: -71.06}))
	assert.Equal(t, PhaseReady, f.Phase())
	assert.True(t, f.CanSubmit())

	// overwriting keeps the form ready
	require.NoError(t, f.SetCategory(models.CategoryRat))
	assert.Equal(t, PhaseReady, f.Phase())
	assert.Equal(t, models.CategoryRat, f.Category())
}

func TestFormLocationOnlyIsPartial(t *testing.T) {
	var f Form
	require.NoError(t, f.SetLocation(models.Location{Latitude: 1, Longitude: 2}))
	assert.Equal(t, PhasePartial, f.Phase())
	assert.Equal(t, &models.Location{Latitude: 1, Longitude: 2}, f.Location())
}

func TestFormRejectsInvalidSelections(t *testing.T) {
	var f Form
	assert.ErrorIs(t, f.SetCategory("bear"), models.ErrUnknownCategory)
	assert.ErrorIs(t, f.SetLocation(models.Location{Latitude: 91}), models.ErrInvalidLocation)
	assert.Equal(t, PhaseIdle, f.Phase())
}

func TestFormBegin(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var f Form

	_, err := f.Begin(now)
	assert.ErrorIs(t, err, ErrIncompleteReport)

	require.NoError(t, f.SetCategory(models.CategoryFox))
	_, err = f.Begin(now)
	assert.ErrorIs(t, err, ErrIncompleteReport)
	assert.Equal(t, PhasePartial, f.Phase())

	require.NoError(t, f.SetLocation(models.Location{Latitude: 42.36, Longitude: -71.06}))
	report, err := f.Begin(now)
	require.NoError(t, err)
	assert.Equal(t, models.WildlifeReport{
		AnimalType: models.CategoryFox,
		Latitude:   42.36,
		Longitude:  -71.06,
		ReportTime: now,
	}, report)
	assert.Equal(t, PhaseSubmitting, f.Phase())
	assert.False(t, f.CanSubmit())

	_, err = f.Begin(now)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, f.SetCategory(models.CategoryRat), ErrFormLocked)
	assert.ErrorIs(t, f.SetLocation(models.Location{}), ErrFormLocked)
	assert.Equal(t, models.CategoryFox, f.Category())
}

func TestFormSucceedResetsToIdle(t *testing.T) {
	var f Form
	require.NoError(t, f.SetCategory(models.CategoryBunny))
	require.NoError(t, f.SetLocation(models.Location{Latitude: 10, Longitude: 10}))
	_, err := f.Begin(time.Now())
	require.NoError(t, err)

	f.Succeed()

	assert.Equal(t, PhaseIdle, f.Phase())
	assert.Empty(t, f.Category())
	assert.Nil(t, f.Location())
}

func TestFormFailKeepsSelections(t *testing.T) {
	var f Form
	require.NoError(t, f.SetCategory(models.CategoryRaccoon))
	require.NoError(t, f.SetLocation(models.Location{Latitude: -3, Longitude: 4}))
	_, err := f.Begin(time.Now())
	require.NoError(t, err)

	f.Fail()

	assert.Equal(t, PhaseReady, f.Phase())
	assert.Equal(t, models.CategoryRaccoon, f.Category())
	assert.Equal(t, &models.Location{Latitude: -3, Longitude: 4}, f.Location())
}

func TestFormCanSubmitIffBothSetAndIdle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	categories := []models.Category{models.CategoryRat, models.CategoryRaccoon, models.CategoryFox, models.CategoryBunny, "bear"}

	for run := 0; run < 200; run++ {
		var f Form
		hasCategory, hasLocation, submitting := false, false, false
		for step := 0; step < 12; step++ {
			switch rng.Intn(5) {
			case 0:
				c := categories[rng.Intn(len(categories))]
				if f.SetCategory(c) == nil {
					hasCategory = true
				}
			case 1:
				if f.SetLocation(models.Location{Latitude: rng.Float64()*180 - 90, Longitude: rng.Float64()*360 - 180}) == nil {
					hasLocation = true
				}
			case 2:
				if _, err := f.Begin(time.Now()); err == nil {
					submitting = true
				}
			case 3:
				if submitting {
					f.Fail()
					submitting = false
				}
			case 4:
				if submitting {
					f.Succeed()
					submitting, hasCategory, hasLocation = false, false, false
				}
			}
			assert.Equal(t, hasCategory && hasLocation && !submitting, f.CanSubmit(), "run %d step %d", run, step)
		}
	}
}

func TestPhaseMarshalText(t *testing.T) {
	text, err := PhaseSubmitting.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "submitting", string(text))
	assert.Equal(t, "unknown", Phase(42).String())
}
