package itinerary_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trip-itinerary/internal/catalog"
	"github.com/neexbeast/trip-itinerary/internal/currency"
	"github.com/neexbeast/trip-itinerary/internal/itinerary"
	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// ---- fakes ----

type fetchCall struct {
	destination string
	tier        trip.SpendTier
	perNight    int64
}

type mockGateway struct {
	fetchFn func(ctx context.Context, destination string, tier trip.SpendTier, perNight int64) trip.Bundle
	calls   []fetchCall
}

func (m *mockGateway) FetchPlaces(ctx context.Context, destination string, tier trip.SpendTier, perNight int64) trip.Bundle {
	m.calls = append(m.calls, fetchCall{destination, tier, perNight})
	if m.fetchFn == nil {
		return trip.Bundle{}
	}
	return m.fetchFn(ctx, destination, tier, perNight)
}

func returning(b trip.Bundle) *mockGateway {
	return &mockGateway{fetchFn: func(context.Context, string, trip.SpendTier, int64) trip.Bundle { return b }}
}

func price(v int64) *int64 { return &v }
func level(v int) *int     { return &v }

func listing(name string) trip.Listing { return trip.Listing{Name: name} }

func sampleCatalog() *catalog.Catalog {
	return catalog.New(map[string]catalog.Entry{
		"Paris": {
			Hotels: catalog.Buckets{
				Budget: []trip.Listing{{Name: "Budget Inn", Area: "Montmartre", Price: price(200)}},
				Mid: []trip.Listing{
					{Name: "Mid Hotel One", Area: "Le Marais", Price: price(720)},
					{Name: "Mid Hotel Two", Area: "Bastille", Price: price(650)},
				},
				Luxury: []trip.Listing{{Name: "Palace", Area: "Concorde", Price: price(3000)}},
			},
			Attractions: []trip.Listing{
				{Name: "Museum A", Area: "Louvre", Price: price(0), Duration: "3h"},
				{Name: "Tower B", Area: "Champ de Mars", Price: price(210), Duration: "2h"},
				{Name: "Church C", Area: "Cite", Price: price(0), Duration: "1h"},
			},
			Restaurants: catalog.Buckets{
				Budget: []trip.Listing{{Name: "Cheap Eats", Category: "crepes", Price: price(60)}},
				Mid: []trip.Listing{
					{Name: "Bistro Mid", Category: "french", Price: price(180)},
					{Name: "Brasserie Mid", Category: "french", Price: price(220)},
				},
				Luxury: []trip.Listing{{Name: "Starred", Category: "fine dining", Price: price(1500)}},
			},
			Transport: "Metro ticket ¥15; Navigo weekly pass ¥240",
		},
	})
}

func newComposer(gw itinerary.PlacesGateway, cat itinerary.CatalogLookup) *itinerary.Composer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return itinerary.NewComposer(gw, cat, currency.NewConverter(), log)
}

func emptyCatalog() *catalog.Catalog { return catalog.New(nil) }

// days splits the daily plan body into per-day blocks.
func days(t *testing.T, doc *itinerary.Document) []string {
	t.Helper()
	s, ok := doc.Section(itinerary.SectionDailyPlan)
	require.True(t, ok)
	parts := strings.Split(s.Body, "### Day ")
	return parts[1:]
}

func body(t *testing.T, doc *itinerary.Document, kind itinerary.SectionKind) string {
	t.Helper()
	s, ok := doc.Section(kind)
	require.True(t, ok)
	return s.Body
}

// ---- tier and allocation ----

func TestClassifyTier_Thresholds(t *testing.T) {
	conv := currency.NewConverter()
	cases := []struct {
		budget int64
		days   int
		code   string
		want   trip.SpendTier
	}{
		{299 * 3, 3, "CNY", trip.TierBudget},
		{300 * 3, 3, "CNY", trip.TierMid},
		{599 * 2, 2, "CNY", trip.TierMid},
		{600, 1, "CNY", trip.TierLuxury},
		{40, 1, "USD", trip.TierBudget}, // 288/day
		{50, 1, "USD", trip.TierMid},    // 360/day
		{100, 1, "USD", trip.TierLuxury},
		{1000, 1, "XYZ", trip.TierLuxury},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, itinerary.ClassifyTier(conv, tc.budget, tc.days, tc.code),
			"budget %d %s over %d days", tc.budget, tc.code, tc.days)
	}
}

func TestClassifyTier_MonotonicInBudget(t *testing.T) {
	conv := currency.NewConverter()
	for _, c := range conv.Supported() {
		for _, d := range []int{1, 2, 5, 14} {
			prev := trip.TierBudget
			for budget := int64(0); budget <= 200000; budget += 137 {
				got := itinerary.ClassifyTier(conv, budget, d, c.Code)
				require.GreaterOrEqual(t, got, prev, "currency %s days %d budget %d", c.Code, d, budget)
				prev = got
			}
		}
	}
}

func TestAllocate_FixedSplit(t *testing.T) {
	a := itinerary.Allocate(1000)
	assert.Equal(t, itinerary.Allocation{
		Total: 1000, Accommodation: 350, Food: 250, Transport: 200, Activities: 150, Contingency: 50,
	}, a)
	assert.Equal(t, int64(1000), a.Sum())
}

func TestAllocate_SumNeverExceedsTotal(t *testing.T) {
	for total := int64(0); total < 5000; total++ {
		a := itinerary.Allocate(total)
		require.LessOrEqual(t, a.Sum(), total, "total %d", total)
	}
}

func TestAllocation_PerNight(t *testing.T) {
	a := itinerary.Allocate(1000)
	assert.Equal(t, int64(350), a.PerNight(1))
	assert.Equal(t, int64(350), a.PerNight(2))
	assert.Equal(t, int64(175), a.PerNight(3))
	assert.Equal(t, int64(116), a.PerNight(4))
}

func TestPriceLevelText(t *testing.T) {
	assert.Equal(t, "Free", itinerary.PriceLevelText(level(0)))
	assert.Equal(t, "Budget ($)", itinerary.PriceLevelText(level(1)))
	assert.Equal(t, "Moderate ($$)", itinerary.PriceLevelText(level(2)))
	assert.Equal(t, "Upscale ($$$)", itinerary.PriceLevelText(level(3)))
	assert.Equal(t, "Luxury ($$$$)", itinerary.PriceLevelText(level(4)))
	assert.Equal(t, "Unknown", itinerary.PriceLevelText(level(7)))
	assert.Equal(t, "Unknown", itinerary.PriceLevelText(nil))
}

// ---- composition ----

func TestCompose_InvalidRequest(t *testing.T) {
	cases := map[string]trip.Request{
		"empty destination": {Destination: "  ", Days: 2, Budget: 1000},
		"zero days":         {Destination: "Paris", Days: 0, Budget: 1000},
		"zero budget":       {Destination: "Paris", Days: 2, Budget: 0},
		"negative budget":   {Destination: "Paris", Days: 2, Budget: -5},
		"budget too large":  {Destination: "Paris", Days: 2, Budget: trip.MaxBudget + 1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			gw := &mockGateway{}
			doc, err := newComposer(gw, sampleCatalog()).Compose(context.Background(), req)
			require.ErrorIs(t, err, itinerary.ErrInvalidRequest)
			assert.Nil(t, doc)
			assert.Empty(t, gw.calls)
		})
	}
}

func TestCompose_LargestBudgetKeepsAllocationSane(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, emptyCatalog()).Compose(context.Background(), trip.Request{
		Destination: "Paris", Days: 2, Budget: trip.MaxBudget, Currency: "GBP",
	})
	require.NoError(t, err)

	a := doc.Allocation
	assert.Equal(t, int64(9_100_000_000_000), a.Total)
	assert.Equal(t, int64(3_185_000_000_000), a.Accommodation)
	assert.Positive(t, a.Contingency)
	assert.LessOrEqual(t, a.Sum(), a.Total)
}

func TestCompose_PassesTierAndPerNightToGateway(t *testing.T) {
	gw := &mockGateway{}
	_, err := newComposer(gw, emptyCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Lima", Days: 3, Budget: 1000, Currency: "CNY"})
	require.NoError(t, err)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, fetchCall{destination: "Lima", tier: trip.TierMid, perNight: 175}, gw.calls[0])
}

func TestCompose_DaySectionsInOrder(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for name, cat := range map[string]*catalog.Catalog{"catalog": sampleCatalog(), "generic": emptyCatalog()} {
			doc, err := newComposer(&mockGateway{}, cat).Compose(context.Background(),
				trip.Request{Destination: "Paris", Days: n, Budget: 5000})
			require.NoError(t, err)

			blocks := days(t, doc)
			require.Len(t, blocks, n, "%s, %d days", name, n)
			for i, block := range blocks {
				assert.True(t, strings.HasPrefix(block, strconv.Itoa(i+1)+"\n"), "%s day %d out of order", name, i+1)
			}
			assert.Contains(t, blocks[0], "Arrive in Paris")
			if n > 1 {
				last := blocks[n-1]
				assert.NotContains(t, last, "Arrive in")
				if name == "catalog" {
					assert.Contains(t, last, "**Afternoon**: Departure")
				} else {
					assert.Contains(t, last, "Final shopping and check-out")
				}
			}
		}
	}
}

func TestCompose_Deterministic(t *testing.T) {
	live := trip.Bundle{
		Hotels:      []trip.Listing{{Name: "H1", Address: "1 Rue, Paris", Area: "Paris", Rating: "4.2", PriceLevel: level(2)}},
		Attractions: []trip.Listing{listing("A1"), listing("A2"), listing("A3")},
		Restaurants: []trip.Listing{listing("R1"), listing("R2")},
	}
	c := newComposer(returning(live), sampleCatalog())
	req := trip.Request{Destination: "Paris", Days: 5, Budget: 800, Currency: "EUR", Preferences: "museums"}

	first, err := c.Compose(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
}

func TestCompose_FullyGenericWithoutData(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, emptyCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Atlantis", Days: 4, Budget: 4000})
	require.NoError(t, err)

	assert.Equal(t, itinerary.Sources{}, doc.Sources)
	_, hasTransit := doc.Section(itinerary.SectionTransit)
	assert.False(t, hasTransit)

	out := doc.String()
	assert.NotContains(t, out, "Try:")
	assert.NotContains(t, out, "Check in:")
	assert.NotContains(t, out, "Recommended hotel")
	assert.Contains(t, body(t, doc, itinerary.SectionAccommodation), "Look for hotels in central Atlantis")

	blocks := days(t, doc)
	assert.Contains(t, blocks[0], "**Morning**: Arrive in Atlantis and check in")
	assert.Contains(t, blocks[1], "**Evening**: Local show or night market")
	assert.Contains(t, blocks[2], "**Evening**: Local show or night market")
	assert.Contains(t, blocks[3], "**Afternoon**: Head home")
}

func TestCompose_MidTierFromCatalog(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 3, Budget: 1350, Currency: "CNY"})
	require.NoError(t, err)

	assert.Equal(t, trip.TierMid, doc.Tier)
	assert.Equal(t, itinerary.Sources{
		Hotels:      itinerary.SourceCatalog,
		Attractions: itinerary.SourceCatalog,
		Restaurants: itinerary.SourceCatalog,
	}, doc.Sources)

	acc := body(t, doc, itinerary.SectionAccommodation)
	assert.Contains(t, acc, "**Recommended hotel**: Mid Hotel One")
	assert.Contains(t, acc, "- Reference price: ¥720/night")
	assert.Contains(t, acc, "- 2 night(s) total: ¥1440")
	assert.Contains(t, acc, "**Alternative**: Mid Hotel Two (Bastille, ¥650/night)")
	assert.NotContains(t, acc, "Budget Inn")
	assert.NotContains(t, acc, "Palace")

	blocks := days(t, doc)
	assert.Contains(t, blocks[0], "- Check in: Mid Hotel One")
	assert.Contains(t, blocks[0], "- Try: Bistro Mid")
	assert.Contains(t, blocks[0], "- Try: Brasserie Mid")
	assert.NotContains(t, doc.String(), "Cheap Eats")
	assert.NotContains(t, doc.String(), "Starred")

	assert.Equal(t, "Metro ticket ¥15; Navigo weekly pass ¥240\n\n", body(t, doc, itinerary.SectionTransit))
}

func TestCompose_LiveAttractionsCatalogRestaurants(t *testing.T) {
	live := trip.Bundle{
		Attractions: []trip.Listing{
			{Name: "Live Zero", Address: "1 Quai, Paris", Area: "Paris", Rating: "4.7"},
			{Name: "Live One", Address: "2 Quai, Paris", Area: "Paris", Rating: "4.5"},
		},
	}
	doc, err := newComposer(returning(live), sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 3, Budget: 1350})
	require.NoError(t, err)

	assert.Equal(t, itinerary.SourceLive, doc.Sources.Attractions)
	assert.Equal(t, itinerary.SourceCatalog, doc.Sources.Restaurants)
	assert.Equal(t, itinerary.SourceCatalog, doc.Sources.Hotels)

	blocks := days(t, doc)
	assert.Contains(t, blocks[0], "**Afternoon 14:00-17:00**: Live Zero")
	assert.Contains(t, blocks[0], "**Night 20:30-22:00**: Live One")

	// Day 2: morning (2-1)*2 mod 2 = 0, afternoon 3 mod 2 = 1,
	// lunch 2 mod 2 = 0, dinner 3 mod 2 = 1.
	assert.Contains(t, blocks[1], "**Morning 9:00-12:00**: Live Zero")
	assert.Contains(t, blocks[1], "**Afternoon 14:30-18:00**: Live One")
	assert.Contains(t, blocks[1], "**Midday 12:30-14:00**: Lunch\n- Try: Bistro Mid")
	assert.Contains(t, blocks[1], "**Evening 19:00-21:00**: Dinner\n- Try: Brasserie Mid")
	assert.NotContains(t, doc.String(), "Museum A")

	assert.Contains(t, blocks[2], "**Afternoon**: Departure")
}

func TestCompose_LiveHotelDetails(t *testing.T) {
	live := trip.Bundle{
		Hotels: []trip.Listing{
			{Name: "Live Hotel", Address: "5 Rue X, 4e, Paris", Area: "4e", Rating: "4.4", PriceLevel: level(3)},
			{Name: "Live Backup", Address: "9 Rue Y, Paris", Area: "Paris", Rating: "N/A", PriceLevel: level(2)},
		},
	}
	doc, err := newComposer(returning(live), sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 2, Budget: 3000})
	require.NoError(t, err)

	assert.Equal(t, itinerary.SourceLive, doc.Sources.Hotels)
	assert.Equal(t, itinerary.SourceCatalog, doc.Sources.Attractions)

	acc := body(t, doc, itinerary.SectionAccommodation)
	assert.Contains(t, acc, "**Recommended hotel**: Live Hotel")
	assert.Contains(t, acc, "- Address: 5 Rue X, 4e, Paris")
	assert.Contains(t, acc, "- Rating: 4.4⭐")
	assert.Contains(t, acc, "- Area: 4e")
	assert.Contains(t, acc, "- Price level: Upscale ($$$)")
	assert.Contains(t, acc, "**Alternative**: Live Backup")
	assert.Contains(t, acc, "- Rating: N/A⭐")
	assert.NotContains(t, acc, "Reference price")

	assert.Contains(t, days(t, doc)[0], "- Address: 5 Rue X, 4e, Paris")
}

func TestCompose_LiveRestaurantsWithoutLiveCore(t *testing.T) {
	live := trip.Bundle{Restaurants: []trip.Listing{{Name: "Live Cafe", Address: "3 Rue Z", Rating: "4.0"}}}
	doc, err := newComposer(returning(live), sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 2, Budget: 1000})
	require.NoError(t, err)

	assert.Equal(t, itinerary.SourceLive, doc.Sources.Restaurants)
	assert.Equal(t, itinerary.SourceCatalog, doc.Sources.Attractions)
	assert.Contains(t, days(t, doc)[0], "- Try: Live Cafe")
}

func TestCompose_ForeignCurrencyShowsReferenceEquivalent(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 2, Budget: 1000, Currency: "USD"})
	require.NoError(t, err)

	b := body(t, doc, itinerary.SectionBudget)
	assert.Contains(t, b, "**Total budget**: $1000 (≈ ¥7200)")
	assert.Contains(t, b, "**Daily budget**: $500 (≈ ¥3600)")
	assert.Contains(t, b, "- Accommodation: $350 (35%)")
	assert.Contains(t, b, "- Other / contingency: $50 (5%)")

	// 3600 CNY/day is luxury; the catalog price is converted for display.
	assert.Equal(t, trip.TierLuxury, doc.Tier)
	acc := body(t, doc, itinerary.SectionAccommodation)
	assert.Contains(t, acc, "**Recommended hotel**: Palace")
	assert.Contains(t, acc, "- Reference price: $416/night")
	assert.Contains(t, acc, "about $350 per night (≈ ¥2520)")
}

func TestCompose_UnknownCurrency(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, emptyCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Lima", Days: 2, Budget: 1000, Currency: "XYZ"})
	require.NoError(t, err)

	b := body(t, doc, itinerary.SectionBudget)
	assert.Contains(t, b, "**Total budget**: ¥1000\n")
	assert.NotContains(t, b, "≈")
	assert.Equal(t, trip.TierMid, doc.Tier)
}

func TestCompose_SingleDayUsesArrivalOnly(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 1, Budget: 500})
	require.NoError(t, err)

	blocks := days(t, doc)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], "Arrive in Paris")
	assert.NotContains(t, blocks[0], "Departure")
	assert.NotContains(t, blocks[0], "Check out")

	acc := body(t, doc, itinerary.SectionAccommodation)
	assert.Contains(t, acc, "about ¥175 per night")
	assert.NotContains(t, acc, "night(s) total")
}

func TestCompose_Preferences(t *testing.T) {
	c := newComposer(&mockGateway{}, emptyCatalog())

	doc, err := c.Compose(context.Background(),
		trip.Request{Destination: "Lima", Days: 2, Budget: 1000, Preferences: "street food, no museums"})
	require.NoError(t, err)
	tips := body(t, doc, itinerary.SectionTips)
	assert.Contains(t, tips, "- **Special focus**: street food, no museums\n")
	assert.True(t, strings.HasSuffix(tips, "**Enjoy your trip to Lima!** 🎉\n"))

	doc, err = c.Compose(context.Background(), trip.Request{Destination: "Lima", Days: 2, Budget: 1000})
	require.NoError(t, err)
	assert.NotContains(t, body(t, doc, itinerary.SectionTips), "Special focus")
}

func TestCompose_SectionOrder(t *testing.T) {
	doc, err := newComposer(&mockGateway{}, sampleCatalog()).Compose(context.Background(),
		trip.Request{Destination: "Paris", Days: 2, Budget: 1000})
	require.NoError(t, err)

	kinds := make([]itinerary.SectionKind, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []itinerary.SectionKind{
		itinerary.SectionBudget,
		itinerary.SectionAccommodation,
		itinerary.SectionDailyPlan,
		itinerary.SectionTransit,
		itinerary.SectionTips,
	}, kinds)

	out := doc.String()
	assert.True(t, strings.HasPrefix(out, "# Paris 2-Day Travel Plan\n\n## 💰 Budget Overview\n\n"))
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "generic", itinerary.SourceGeneric.String())
	assert.Equal(t, "live", itinerary.SourceLive.String())
	assert.Equal(t, "catalog", itinerary.SourceCatalog.String())
}
