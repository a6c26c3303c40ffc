package usecases

import (
	"testing"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

func datePtr(s string) *calendar.Date {
	d := calendar.MustParse(s)
	return &d
}

func TestCalculateExample(t *testing.T) {
	p := NewPricingCalculator(DefaultTaxRate)

	got, ok := p.Calculate(100, datePtr("2024-10-01"), datePtr("2024-10-03"), []entities.Service{{ID: 1, Price: 20}})
	if !ok {
		t.Fatal("expected a total")
	}
	want := entities.PricingSnapshot{Nights: 2, BaseAmount: 200, ServicesAmount: 20, TaxAmount: 22, TotalAmount: 242}
	if got != want {
		t.Fatalf("Calculate = %+v, want %+v", got, want)
	}
}

func TestCalculateNoTotal(t *testing.T) {
	p := NewPricingCalculator(DefaultTaxRate)
	cases := []struct {
		name              string
		checkIn, checkOut *calendar.Date
	}{
		{"unset check-in", nil, datePtr("2024-10-03")},
		{"unset check-out", datePtr("2024-10-03"), nil},
		{"same day", datePtr("2024-10-03"), datePtr("2024-10-03")},
		{"inverted", datePtr("2024-10-05"), datePtr("2024-10-03")},
	}
	for _, tc := range cases {
		if snap, ok := p.Calculate(100, tc.checkIn, tc.checkOut, nil); ok || snap.TotalAmount != 0 {
			t.Fatalf("%s: expected no total, got %+v", tc.name, snap)
		}
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	p := NewPricingCalculator(DefaultTaxRate)
	services := []entities.Service{{ID: 1, Price: 12.35}, {ID: 2, Price: 0}, {ID: 3, Price: 7.1}}

	first, _ := p.Calculate(89.99, datePtr("2024-02-27"), datePtr("2024-03-02"), services)
	second, _ := p.Calculate(89.99, datePtr("2024-02-27"), datePtr("2024-03-02"), services)
	if first != second {
		t.Fatalf("snapshots differ: %+v vs %+v", first, second)
	}
	if first.Nights != 4 {
		t.Fatalf("nights across leap day = %d, want 4", first.Nights)
	}
}

func TestSelectedServicesIgnoresUnknownIDs(t *testing.T) {
	all := []entities.Service{{ID: 1, Name: "Breakfast", Price: 20}, {ID: 2, Name: "Parking", Price: 10}}
	got := SelectedServices(all, []int{2, 9})
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("SelectedServices = %+v", got)
	}
}
