package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// DefaultTimeout bounds a whole FetchPlaces call.
const DefaultTimeout = 8 * time.Second

const (
	maxHotels      = 5
	maxAttractions = 7
	maxRestaurants = 3

	// Price level assumed for listings that do not report one.
	defaultHotelPriceLevel      = 2
	defaultRestaurantPriceLevel = 0

	addressUnavailable = "Address not available"
	unknownArea        = "Unknown area"
	noRating           = "N/A"
)

const (
	categoryHotels      = "hotels"
	categoryAttractions = "attractions"
	categoryRestaurants = "restaurants"
)

// searcher is the interface satisfied by TextSearchClient.
type searcher interface {
	Search(ctx context.Context, query, placeType string) ([]Place, error)
}

// failureRecorder is the interface satisfied by *metrics.Registry.
type failureRecorder interface {
	ObserveSearchFailure(category string)
}

// Gateway fetches hotels, attractions and restaurants for a destination.
// It never returns an error: failed categories come back empty.
type Gateway struct {
	search  searcher
	timeout time.Duration
	rec     failureRecorder
}

// NewGateway constructs a Gateway backed by the production text search API.
func NewGateway(apiKey string, limiter *rate.Limiter, timeout time.Duration, rec failureRecorder) *Gateway {
	return NewGatewayWithSearcher(NewTextSearchClient(apiKey, limiter), timeout, rec)
}

// NewGatewayWithSearcher constructs a Gateway with an injectable searcher (used in tests).
// A non-positive timeout selects DefaultTimeout.
func NewGatewayWithSearcher(s searcher, timeout time.Duration, rec failureRecorder) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{search: s, timeout: timeout, rec: rec}
}

// hotelPlan returns the lodging query phrase and the price levels to keep.
// A positive perNight (reference units) takes precedence over the tier.
func hotelPlan(tier trip.SpendTier, perNight int64) (string, []int) {
	if perNight > 0 {
		switch {
		case perNight < 200:
			return "budget hotel hostel", []int{0, 1}
		case perNight < 400:
			return "hotel affordable", []int{1, 2}
		case perNight < 800:
			return "hotel", []int{2, 3}
		default:
			return "luxury hotel", []int{3, 4}
		}
	}

	switch tier {
	case trip.TierBudget:
		return "budget hotel hostel", []int{0, 1}
	case trip.TierMid:
		return "hotel", []int{1, 2}
	default:
		return "luxury hotel", []int{2, 3, 4}
	}
}

func restaurantQuery(tier trip.SpendTier) string {
	switch tier {
	case trip.TierBudget:
		return "cheap restaurant"
	case trip.TierMid:
		return "restaurant"
	default:
		return "fine dining"
	}
}

// FetchPlaces runs the three category searches in parallel.
// perNight is the nightly accommodation budget in reference units; zero or
// less means unknown.
func (g *Gateway) FetchPlaces(ctx context.Context, destination string, tier trip.SpendTier, perNight int64) trip.Bundle {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	hotelQuery, levels := hotelPlan(tier, perNight)

	var hotels, attractions, restaurants []Place

	eg, gCtx := errgroup.WithContext(ctx)

	eg.Go(g.searchInto(gCtx, categoryHotels, hotelQuery+" "+destination, "lodging", &hotels))
	eg.Go(g.searchInto(gCtx, categoryAttractions, "top attractions "+destination, "tourist_attraction", &attractions))
	eg.Go(g.searchInto(gCtx, categoryRestaurants, restaurantQuery(tier)+" "+destination, "restaurant", &restaurants))

	if err := eg.Wait(); err != nil {
		slog.Error("places fetch aborted", "destination", destination, "err", err)
	}

	return trip.Bundle{
		Hotels:      normalizeHotels(filterHotels(hotels, levels)),
		Attractions: normalizeAttractions(attractions),
		Restaurants: normalizeRestaurants(restaurants),
	}
}

// searchInto returns an errgroup task that stores the search result in dst.
// Search failures are logged and leave dst empty; only panics produce an error.
func (g *Gateway) searchInto(ctx context.Context, category, query, placeType string, dst *[]Place) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("places search panicked", "category", category, "recover", r)
				g.recordFailure(category)
				err = fmt.Errorf("%s search panicked: %v", category, r)
			}
		}()

		results, searchErr := g.search.Search(ctx, query, placeType)
		switch {
		case searchErr == nil:
		case errors.Is(searchErr, ErrZeroResults):
			slog.Info("places search returned no results", "category", category, "query", query)
			return nil
		case errors.Is(searchErr, ErrMissingAPIKey):
			slog.Debug("places search skipped", "category", category, "reason", searchErr)
			return nil
		default:
			slog.Warn("places search failed", "category", category, "query", query, "err", searchErr)
			g.recordFailure(category)
			return nil
		}
		*dst = results
		return nil
	}
}

func (g *Gateway) recordFailure(category string) {
	if g.rec != nil {
		g.rec.ObserveSearchFailure(category)
	}
}

// filterHotels keeps hotels whose price level is in levels, falling back to
// the unfiltered list when nothing matches.
func filterHotels(hotels []Place, levels []int) []Place {
	filtered := make([]Place, 0, len(hotels))
	for _, h := range hotels {
		level := defaultHotelPriceLevel
		if h.PriceLevel != nil {
			level = *h.PriceLevel
		}
		if slices.Contains(levels, level) {
			filtered = append(filtered, h)
		}
	}
	if len(filtered) == 0 {
		return hotels
	}
	return filtered
}

func normalizeHotels(in []Place) []trip.Listing {
	out := make([]trip.Listing, 0, min(len(in), maxHotels))
	for _, p := range in[:min(len(in), maxHotels)] {
		l := normalize(p)
		l.PriceLevel = priceLevelOr(p.PriceLevel, defaultHotelPriceLevel)
		out = append(out, l)
	}
	return out
}

func normalizeAttractions(in []Place) []trip.Listing {
	out := make([]trip.Listing, 0, min(len(in), maxAttractions))
	for _, p := range in[:min(len(in), maxAttractions)] {
		out = append(out, normalize(p))
	}
	return out
}

func normalizeRestaurants(in []Place) []trip.Listing {
	out := make([]trip.Listing, 0, min(len(in), maxRestaurants))
	for _, p := range in[:min(len(in), maxRestaurants)] {
		l := normalize(p)
		l.PriceLevel = priceLevelOr(p.PriceLevel, defaultRestaurantPriceLevel)
		out = append(out, l)
	}
	return out
}

func normalize(p Place) trip.Listing {
	raw := p.FormattedAddress
	if raw == "" {
		raw = p.Vicinity
	}
	address := raw
	if address == "" {
		address = addressUnavailable
	}
	return trip.Listing{
		Name:    p.Name,
		Address: address,
		Area:    ExtractArea(raw),
		Rating:  formatRating(p.Rating),
	}
}

func priceLevelOr(level *int, fallback int) *int {
	v := fallback
	if level != nil {
		v = *level
	}
	return &v
}

// formatRating renders a rating, treating missing and zero ratings as "N/A".
func formatRating(r *float64) string {
	if r == nil || *r == 0 {
		return noRating
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

// ExtractArea picks a neighbourhood out of a comma-separated address: the
// second segment when there is one, otherwise the whole first segment.
func ExtractArea(address string) string {
	if address == "" {
		return unknownArea
	}
	parts := strings.Split(address, ",")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[1])
	}
	if parts[0] == "" {
		return unknownArea
	}
	return parts[0]
}
