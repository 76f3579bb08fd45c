package services

import (
	"fmt"
	"math"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// seasonalMultiplier returns the multiplier of the first active seasonal
// entry whose date range contains checkin. Entries may overlap; first match
// in insertion order wins.
func seasonalMultiplier(rt *models.RoomType, checkin time.Time) float64 {
	for _, sp := range rt.SeasonalPricing {
		if !sp.IsActive {
			continue
		}
		if !checkin.Before(sp.StartDate) && !checkin.After(sp.EndDate) {
			return sp.PriceMultiplier
		}
	}
	return 1.0
}

// ComputeTotal derives the booking total: base price x nights x seasonal
// multiplier, rounded to cents. Returned as a fixed-point decimal string.
func ComputeTotal(rt *models.RoomType, checkin time.Time, nights int) (string, error) {
	if nights <= 0 {
		return "", fmt.Errorf("invalid nights %d", nights)
	}
	baseCents, err := utils.ParseAmount(rt.Price)
	if err != nil {
		return "", fmt.Errorf("room type %d has invalid price: %w", rt.ID, err)
	}

	totalCents := baseCents * int64(nights)
	if m := seasonalMultiplier(rt, checkin); m != 1.0 {
		totalCents = int64(math.Round(float64(totalCents) * m))
	}
	return utils.FormatAmount(totalCents), nil
}
