package trip

// ReferenceCurrency is the currency all internal budget math runs in.
const ReferenceCurrency = "CNY"

// MaxBudget is the largest accepted budget in any currency. Converted to the
// reference currency and split into percentage buckets it stays well inside
// int64.
const MaxBudget int64 = 1_000_000_000_000

// Request is a validated itinerary request.
type Request struct {
	Destination string
	Days        int
	Budget      int64
	Currency    string
	Preferences string
}

// SpendTier classifies a trip's daily budget.
type SpendTier int

const (
	TierBudget SpendTier = iota
	TierMid
	TierLuxury
)

// String returns the lowercase tier name used in catalog buckets and responses.
func (t SpendTier) String() string {
	switch t {
	case TierBudget:
		return "budget"
	case TierMid:
		return "mid"
	case TierLuxury:
		return "luxury"
	default:
		return "unknown"
	}
}

// Listing is a normalized hotel, attraction or restaurant record from either
// the live search or the bundled catalog. Optional fields are nil or empty when
// the source does not provide them.
type Listing struct {
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Area       string `json:"area,omitempty"`
	Rating     string `json:"rating,omitempty"`
	PriceLevel *int   `json:"price_level,omitempty"`
	Price      *int64 `json:"price,omitempty"`
	Category   string `json:"type,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// Bundle groups listings by category.
type Bundle struct {
	Hotels      []Listing
	Attractions []Listing
	Restaurants []Listing
}

// Empty reports whether no category holds a listing.
func (b Bundle) Empty() bool {
	return len(b.Hotels) == 0 && len(b.Attractions) == 0 && len(b.Restaurants) == 0
}
