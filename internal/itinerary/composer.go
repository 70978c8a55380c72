package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neexbeast/trip-itinerary/internal/catalog"
	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// ErrInvalidRequest is returned for requests that violate the trip invariants.
var ErrInvalidRequest = errors.New("invalid trip request")

// PlacesGateway is the interface satisfied by *places.Gateway.
type PlacesGateway interface {
	FetchPlaces(ctx context.Context, destination string, tier trip.SpendTier, perNight int64) trip.Bundle
}

// CatalogLookup is the interface satisfied by *catalog.Catalog.
type CatalogLookup interface {
	Lookup(destination string) (catalog.Entry, bool)
}

// Composer turns a trip request into an itinerary document. It holds no
// per-request state and is safe for concurrent use.
type Composer struct {
	places  PlacesGateway
	catalog CatalogLookup
	conv    Converter
	log     *slog.Logger
}

// NewComposer constructs a Composer with all required dependencies.
func NewComposer(places PlacesGateway, catalog CatalogLookup, conv Converter, log *slog.Logger) *Composer {
	return &Composer{places: places, catalog: catalog, conv: conv, log: log}
}

// selection is the per-category outcome of the live → catalog → generic
// fallback chain.
type selection struct {
	hotels      []trip.Listing
	attractions []trip.Listing
	restaurants []trip.Listing
	sources     Sources
	hasCatalog  bool
	transport   string
}

// resolve picks a source for each category independently.
func resolve(live trip.Bundle, entry catalog.Entry, hasCatalog bool, tier trip.SpendTier) selection {
	useLive := len(live.Hotels) > 0 || len(live.Attractions) > 0
	sel := selection{hasCatalog: hasCatalog}
	if hasCatalog {
		sel.transport = entry.Transport
	}

	switch {
	case useLive && len(live.Attractions) > 0:
		sel.attractions, sel.sources.Attractions = live.Attractions, SourceLive
	case hasCatalog && len(entry.Attractions) > 0:
		sel.attractions, sel.sources.Attractions = entry.Attractions, SourceCatalog
	}

	switch {
	case len(live.Restaurants) > 0:
		sel.restaurants, sel.sources.Restaurants = live.Restaurants, SourceLive
	case hasCatalog && len(entry.Restaurants.For(tier)) > 0:
		sel.restaurants, sel.sources.Restaurants = entry.Restaurants.For(tier), SourceCatalog
	}

	switch {
	case useLive && len(live.Hotels) > 0:
		sel.hotels, sel.sources.Hotels = live.Hotels, SourceLive
	case hasCatalog && len(entry.Hotels.For(tier)) > 0:
		sel.hotels, sel.sources.Hotels = entry.Hotels.For(tier), SourceCatalog
	}

	return sel
}

func validate(req trip.Request) error {
	switch {
	case strings.TrimSpace(req.Destination) == "":
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	case req.Days < 1:
		return fmt.Errorf("%w: trip must last at least one day, got %d", ErrInvalidRequest, req.Days)
	case req.Budget <= 0:
		return fmt.Errorf("%w: budget must be positive, got %d", ErrInvalidRequest, req.Budget)
	case req.Budget > trip.MaxBudget:
		return fmt.Errorf("%w: budget exceeds %d", ErrInvalidRequest, trip.MaxBudget)
	}
	return nil
}

// Compose builds the itinerary for req. Missing live or catalog data never
// fails composition; only an invalid request returns an error.
func (c *Composer) Compose(ctx context.Context, req trip.Request) (*Document, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Currency == "" {
		req.Currency = trip.ReferenceCurrency
	}

	budgetRef := c.conv.ToReference(req.Budget, req.Currency)
	tier := tierForDaily(budgetRef / int64(req.Days))
	alloc := Allocate(budgetRef)
	perNight := alloc.PerNight(req.Days)

	c.log.Info("composing itinerary",
		"destination", req.Destination,
		"days", req.Days,
		"tier", tier.String(),
		"per_night_ref", perNight,
	)

	live := c.places.FetchPlaces(ctx, req.Destination, tier, perNight)
	entry, hasCatalog := c.catalog.Lookup(req.Destination)
	sel := resolve(live, entry, hasCatalog, tier)

	c.log.Info("itinerary sources resolved",
		"destination", req.Destination,
		"live_hotels", len(live.Hotels),
		"live_attractions", len(live.Attractions),
		"live_restaurants", len(live.Restaurants),
		"catalog", hasCatalog,
		"hotels", sel.sources.Hotels.String(),
		"attractions", sel.sources.Attractions.String(),
		"restaurants", sel.sources.Restaurants.String(),
	)

	r := renderer{conv: c.conv, req: req, symbol: c.conv.Symbol(req.Currency)}

	sections := []Section{
		{Kind: SectionBudget, Title: "💰 Budget Overview", Body: r.budget(alloc)},
		{Kind: SectionAccommodation, Title: "🏨 Accommodation", Body: r.accommodation(sel, alloc)},
		{Kind: SectionDailyPlan, Title: "📅 Daily Plan", Body: r.dailyPlan(sel)},
	}
	if sel.hasCatalog && sel.transport != "" {
		sections = append(sections, Section{Kind: SectionTransit, Title: "🚇 Transit Notes", Body: sel.transport + "\n\n"})
	}
	sections = append(sections, Section{Kind: SectionTips, Title: "💡 Tips", Body: r.tips()})

	return &Document{
		Title:      fmt.Sprintf("%s %d-Day Travel Plan", req.Destination, req.Days),
		Days:       req.Days,
		Tier:       tier,
		Allocation: alloc,
		Sources:    sel.sources,
		Sections:   sections,
	}, nil
}
