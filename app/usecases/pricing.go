package usecases

import (
	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

const DefaultTaxRate = 0.10

// PricingCalculator derives a PricingSnapshot from a room price, a date range
// and the selected services. It holds no state besides the tax rate.
type PricingCalculator struct {
	TaxRate float64
}

func NewPricingCalculator(taxRate float64) *PricingCalculator {
	if taxRate < 0 {
		taxRate = DefaultTaxRate
	}
	return &PricingCalculator{TaxRate: taxRate}
}

// Nights is the number of nights between check-in and check-out, or 0 when
// either is unset.
func Nights(checkIn, checkOut *calendar.Date) int {
	if checkIn == nil || checkOut == nil || checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	return calendar.DaysBetween(*checkIn, *checkOut)
}

// Calculate returns false, and no total, when a date is unset or the range
// has no nights.
func (p *PricingCalculator) Calculate(pricePerNight float64, checkIn, checkOut *calendar.Date, services []entities.Service) (entities.PricingSnapshot, bool) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return entities.PricingSnapshot{}, false
	}

	base := pricePerNight * float64(nights)
	servicesAmount := 0.0
	for _, s := range services {
		servicesAmount += s.Price.Float64()
	}
	tax := (base + servicesAmount) * p.TaxRate

	return entities.PricingSnapshot{
		Nights:         nights,
		BaseAmount:     entities.RoundCents(base),
		ServicesAmount: entities.RoundCents(servicesAmount),
		TaxAmount:      entities.RoundCents(tax),
		TotalAmount:    entities.RoundCents(base + servicesAmount + tax),
	}, true
}

// SelectedServices picks the services whose id is in ids, keeping the order of ids.
func SelectedServices(all []entities.Service, ids []int) []entities.Service {
	byID := make(map[int]entities.Service, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}
	selected := make([]entities.Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			selected = append(selected, s)
		}
	}
	return selected
}
