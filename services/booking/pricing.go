package booking

import (
	"math"

	"tourbook/models"
)

// CalculateTotalPrice computes basePrice * groupSize reduced by the
// highest qualifying discount tier, rounded to cents.
func CalculateTotalPrice(tour *models.Tour, groupSize int) float64 {
	total := tour.BasePrice * float64(groupSize)
	if pct := discountFor(tour, groupSize); pct > 0 {
		total *= 1 - pct/100
	}
	return roundCents(total)
}

// discountFor picks the tier with the largest MinGroupSize the group
// still qualifies for.
func discountFor(tour *models.Tour, groupSize int) float64 {
	best := 0.0
	bestMin := -1
	for _, tier := range tour.DiscountTiers {
		if groupSize >= tier.MinGroupSize && tier.MinGroupSize > bestMin {
			best = tier.PercentOff
			bestMin = tier.MinGroupSize
		}
	}
	return best
}

// BuildPricingInfo precomputes totals for every allowed group size so
// availability responses can render prices directly.
func BuildPricingInfo(tour *models.Tour) *models.PricingInfo {
	info := &models.PricingInfo{
		BasePrice: tour.BasePrice,
		Currency:  tour.Currency,
	}
	for size := 1; size <= tour.MaxGroupSize; size++ {
		total := CalculateTotalPrice(tour, size)
		info.Options = append(info.Options, models.PricingOption{
			GroupSize:      size,
			TotalPrice:     total,
			PricePerPerson: roundCents(total / float64(size)),
		})
	}
	return info
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
