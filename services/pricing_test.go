package services

import (
	"testing"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalExactWithoutRules(t *testing.T) {
	rt := &models.RoomType{Price: "850.00"}

	total, err := ComputeTotal(rt, date(2026, 3, 1), 1)
	require.NoError(t, err)
	assert.Equal(t, "850.00", total)

	total, err = ComputeTotal(rt, date(2026, 3, 1), 7)
	require.NoError(t, err)
	assert.Equal(t, "5950.00", total)
}

func TestComputeTotalIsMonotonicInNights(t *testing.T) {
	rt := &models.RoomType{Price: "123.45"}
	prev := int64(0)
	for nights := 1; nights <= 10; nights++ {
		total, err := ComputeTotal(rt, date(2026, 3, 1), nights)
		require.NoError(t, err)
		cents, err := utils.ParseAmount(total)
		require.NoError(t, err)
		assert.Greater(t, cents, prev)
		prev = cents
	}
}

func TestComputeTotalSeasonalMultiplier(t *testing.T) {
	rt := &models.RoomType{
		Price: "1000.00",
		SeasonalPricing: []models.SeasonalPricing{
			{
				Name:            "Festive Season",
				StartDate:       date(2026, 12, 15),
				EndDate:         date(2027, 1, 5),
				PriceMultiplier: 1.5,
				IsActive:        true,
			},
		},
	}

	// Check-in inside the season: multiplier applies to the whole stay.
	total, err := ComputeTotal(rt, date(2026, 12, 20), 2)
	require.NoError(t, err)
	assert.Equal(t, "3000.00", total)

	// Boundary days are inclusive.
	total, err = ComputeTotal(rt, date(2026, 12, 15), 1)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", total)

	// Check-in outside the season: base rate even if the stay crosses in.
	total, err = ComputeTotal(rt, date(2026, 12, 10), 10)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", total)
}

func TestComputeTotalFirstMatchingRuleWins(t *testing.T) {
	rt := &models.RoomType{
		Price: "1000.00",
		SeasonalPricing: []models.SeasonalPricing{
			{Name: "Early Bird", StartDate: date(2026, 6, 1), EndDate: date(2026, 6, 30), PriceMultiplier: 0.8, IsActive: true},
			{Name: "Winter", StartDate: date(2026, 6, 1), EndDate: date(2026, 8, 31), PriceMultiplier: 1.2, IsActive: true},
		},
	}

	total, err := ComputeTotal(rt, date(2026, 6, 15), 1)
	require.NoError(t, err)
	assert.Equal(t, "800.00", total)
}

func TestComputeTotalIgnoresInactiveRules(t *testing.T) {
	rt := &models.RoomType{
		Price: "1000.00",
		SeasonalPricing: []models.SeasonalPricing{
			{Name: "Disabled", StartDate: date(2026, 6, 1), EndDate: date(2026, 6, 30), PriceMultiplier: 2.0, IsActive: false},
		},
	}

	total, err := ComputeTotal(rt, date(2026, 6, 15), 2)
	require.NoError(t, err)
	assert.Equal(t, "2000.00", total)
}

func TestComputeTotalRejectsBadPrice(t *testing.T) {
	rt := &models.RoomType{Price: "not-a-number"}
	_, err := ComputeTotal(rt, date(2026, 3, 1), 1)
	assert.Error(t, err)
}
