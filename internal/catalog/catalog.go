package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// Buckets holds listings split by spend tier.
type Buckets struct {
	Budget []trip.Listing `json:"budget"`
	Mid    []trip.Listing `json:"mid"`
	Luxury []trip.Listing `json:"luxury"`
}

// For returns the bucket matching tier.
func (b Buckets) For(tier trip.SpendTier) []trip.Listing {
	switch tier {
	case trip.TierBudget:
		return b.Budget
	case trip.TierMid:
		return b.Mid
	default:
		return b.Luxury
	}
}

func (b Buckets) clone() Buckets {
	return Buckets{
		Budget: cloneListings(b.Budget),
		Mid:    cloneListings(b.Mid),
		Luxury: cloneListings(b.Luxury),
	}
}

// Entry is the curated data for one destination. Prices are in reference
// currency units.
type Entry struct {
	Hotels      Buckets        `json:"hotels"`
	Attractions []trip.Listing `json:"attractions"`
	Restaurants Buckets        `json:"restaurants"`
	Transport   string         `json:"transport,omitempty"`
}

func (e Entry) clone() Entry {
	return Entry{
		Hotels:      e.Hotels.clone(),
		Attractions: cloneListings(e.Attractions),
		Restaurants: e.Restaurants.clone(),
		Transport:   e.Transport,
	}
}

func cloneListings(in []trip.Listing) []trip.Listing {
	if in == nil {
		return nil
	}
	out := make([]trip.Listing, len(in))
	for i, l := range in {
		if l.Price != nil {
			p := *l.Price
			l.Price = &p
		}
		if l.PriceLevel != nil {
			lvl := *l.PriceLevel
			l.PriceLevel = &lvl
		}
		out[i] = l
	}
	return out
}

// Source loads the full set of catalog entries keyed by destination name.
type Source interface {
	Load(ctx context.Context) (map[string]Entry, error)
}

// Catalog is an immutable destination lookup table. Lookups are exact and
// case-sensitive. Safe for concurrent reads.
type Catalog struct {
	entries map[string]Entry
}

// New builds a Catalog from entries. The input is copied.
func New(entries map[string]Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for name, e := range entries {
		c.entries[name] = e.clone()
	}
	return c
}

// Load reads entries from src once and freezes them into a Catalog.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	entries, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return New(entries), nil
}

// Lookup returns the entry for destination. A miss is not an error.
func (c *Catalog) Lookup(destination string) (Entry, bool) {
	e, ok := c.entries[destination]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Names returns all destination names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of destinations.
func (c *Catalog) Len() int {
	return len(c.entries)
}
