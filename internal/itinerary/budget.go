package itinerary

import "github.com/neexbeast/trip-itinerary/internal/trip"

// Daily reference-currency thresholds separating the spend tiers.
const (
	midTierFloor    = 300
	luxuryTierFloor = 600
)

// Converter is the currency conversion the composer needs.
// *currency.Converter satisfies it.
type Converter interface {
	ToReference(amount int64, code string) int64
	FromReference(ref int64, code string) int64
	Symbol(code string) string
	IsReference(code string) bool
}

// ClassifyTier derives the spend tier from the total budget spread over days.
// days must be at least 1.
func ClassifyTier(conv Converter, budget int64, days int, code string) trip.SpendTier {
	return tierForDaily(conv.ToReference(budget, code) / int64(days))
}

func tierForDaily(dailyRef int64) trip.SpendTier {
	switch {
	case dailyRef < midTierFloor:
		return trip.TierBudget
	case dailyRef < luxuryTierFloor:
		return trip.TierMid
	default:
		return trip.TierLuxury
	}
}

// Allocation splits a total budget into fixed percentage buckets. All values
// are reference-currency units, each floored independently.
type Allocation struct {
	Total         int64 `json:"total"`
	Accommodation int64 `json:"accommodation"`
	Food          int64 `json:"food"`
	Transport     int64 `json:"transport"`
	Activities    int64 `json:"activities"`
	Contingency   int64 `json:"contingency"`
}

// Allocate splits totalRef 35/25/20/15/5.
func Allocate(totalRef int64) Allocation {
	pct := func(p int64) int64 { return totalRef * p / 100 }
	return Allocation{
		Total:         totalRef,
		Accommodation: pct(35),
		Food:          pct(25),
		Transport:     pct(20),
		Activities:    pct(15),
		Contingency:   pct(5),
	}
}

// Sum adds up the buckets. It never exceeds Total.
func (a Allocation) Sum() int64 {
	return a.Accommodation + a.Food + a.Transport + a.Activities + a.Contingency
}

// PerNight is the nightly accommodation budget: the accommodation bucket over
// days-1 nights, or the whole bucket for a single-day trip.
func (a Allocation) PerNight(days int) int64 {
	if days > 1 {
		return a.Accommodation / int64(days-1)
	}
	return a.Accommodation
}

type bucket struct {
	label string
	pct   int
	ref   int64
}

func (a Allocation) buckets() []bucket {
	return []bucket{
		{"Accommodation", 35, a.Accommodation},
		{"Food", 25, a.Food},
		{"Transport", 20, a.Transport},
		{"Tickets & activities", 15, a.Activities},
		{"Other / contingency", 5, a.Contingency},
	}
}
