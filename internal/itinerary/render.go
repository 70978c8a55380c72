package itinerary

import (
	"fmt"
	"strings"

	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// renderer writes the document sections for a single request.
type renderer struct {
	conv   Converter
	req    trip.Request
	symbol string
}

func (r renderer) money(amount int64) string {
	return fmt.Sprintf("%s%d", r.symbol, amount)
}

// display converts a reference amount into the request currency.
func (r renderer) display(ref int64) string {
	return r.money(r.conv.FromReference(ref, r.req.Currency))
}

// refNote appends the reference-currency equivalent for foreign currencies.
func (r renderer) refNote(ref int64) string {
	if r.conv.IsReference(r.req.Currency) {
		return ""
	}
	return fmt.Sprintf(" (≈ %s%d)", r.conv.Symbol(trip.ReferenceCurrency), ref)
}

func (r renderer) budget(alloc Allocation) string {
	var b strings.Builder
	days := int64(r.req.Days)

	fmt.Fprintf(&b, "**Total budget**: %s%s\n", r.money(r.req.Budget), r.refNote(alloc.Total))
	fmt.Fprintf(&b, "**Daily budget**: %s%s\n\n", r.money(r.req.Budget/days), r.refNote(alloc.Total/days))

	b.WriteString("**Suggested allocation**:\n")
	for _, bk := range alloc.buckets() {
		fmt.Fprintf(&b, "- %s: %s (%d%%)\n", bk.label, r.display(bk.ref), bk.pct)
	}
	b.WriteString("\n")
	return b.String()
}

func (r renderer) accommodation(sel selection, alloc Allocation) string {
	var b strings.Builder
	nights := int64(r.req.Days - 1)
	perNightRef := alloc.PerNight(r.req.Days)
	perNight := r.conv.FromReference(perNightRef, r.req.Currency)

	fmt.Fprintf(&b, "**Accommodation budget**: %s for the stay, about %s per night%s\n\n",
		r.display(alloc.Accommodation), r.money(perNight), r.refNote(perNightRef))

	switch sel.sources.Hotels {
	case SourceLive:
		h := sel.hotels[0]
		fmt.Fprintf(&b, "**Recommended hotel**: %s\n", h.Name)
		fmt.Fprintf(&b, "- Address: %s\n", h.Address)
		fmt.Fprintf(&b, "- Rating: %s⭐\n", h.Rating)
		fmt.Fprintf(&b, "- Area: %s\n", h.Area)
		fmt.Fprintf(&b, "- Price level: %s\n", PriceLevelText(h.PriceLevel))
		if nights > 0 {
			fmt.Fprintf(&b, "- Stay: %d night(s)\n", nights)
		}
		b.WriteString("\n*Check a booking platform for live prices.*\n\n")
		if len(sel.hotels) > 1 {
			alt := sel.hotels[1]
			fmt.Fprintf(&b, "**Alternative**: %s\n", alt.Name)
			fmt.Fprintf(&b, "- Address: %s\n", alt.Address)
			fmt.Fprintf(&b, "- Rating: %s⭐\n\n", alt.Rating)
		}

	case SourceCatalog:
		h := sel.hotels[0]
		fmt.Fprintf(&b, "**Recommended hotel**: %s\n", h.Name)
		if h.Area != "" {
			fmt.Fprintf(&b, "- Area: %s\n", h.Area)
		}
		if h.Price != nil {
			fmt.Fprintf(&b, "- Reference price: %s/night\n", r.display(*h.Price))
			if nights > 0 {
				fmt.Fprintf(&b, "- %d night(s) total: %s\n", nights, r.display(*h.Price*nights))
			}
		}
		b.WriteString("\n")
		if len(sel.hotels) > 1 {
			alt := sel.hotels[1]
			fmt.Fprintf(&b, "**Alternative**: %s", alt.Name)
			if alt.Price != nil {
				fmt.Fprintf(&b, " (%s, %s/night)", alt.Area, r.display(*alt.Price))
			}
			b.WriteString("\n\n")
		}

	default:
		b.WriteString("**Where to stay**:\n")
		fmt.Fprintf(&b, "- Look for hotels in central %s or near the main sights\n", r.req.Destination)
		b.WriteString("- Compare prices on Booking.com, Agoda, Trip.com or Airbnb\n")
		b.WriteString("- Booking 1-2 weeks ahead usually gets better rates\n\n")
	}

	b.WriteString("**Booking tips**:\n")
	fmt.Fprintf(&b, "- Suggested nightly range: %s-%s\n",
		r.display(perNightRef*80/100), r.display(perNightRef*120/100))
	if nights > 0 {
		fmt.Fprintf(&b, "- Estimated total for %d night(s): %s\n", nights, r.money(perNight*nights))
	}
	b.WriteString("\n")
	return b.String()
}

func (r renderer) dailyPlan(sel selection) string {
	var b strings.Builder
	withData := len(sel.attractions) > 0 || sel.hasCatalog
	for day := 1; day <= r.req.Days; day++ {
		fmt.Fprintf(&b, "### Day %d\n\n", day)
		switch {
		case !withData:
			r.genericDay(&b, day)
		case day == 1:
			r.arrivalDay(&b, sel)
		case day == r.req.Days:
			r.departureDay(&b)
		default:
			r.middleDay(&b, sel, day)
		}
	}
	return b.String()
}

func (r renderer) genericDay(b *strings.Builder, day int) {
	switch {
	case day == 1:
		fmt.Fprintf(b, "**Morning**: Arrive in %s and check in\n", r.req.Destination)
		b.WriteString("**Afternoon**: Explore the central sights\n")
		b.WriteString("**Evening**: Try the local food\n\n")
	case day == r.req.Days:
		b.WriteString("**Morning**: Final shopping and check-out\n")
		b.WriteString("**Afternoon**: Head home\n\n")
	default:
		b.WriteString("**Morning**: In-depth visit to a major sight\n")
		b.WriteString("**Afternoon**: Cultural experience or a characterful street\n")
		b.WriteString("**Evening**: Local show or night market\n\n")
	}
}

func (r renderer) arrivalDay(b *strings.Builder, sel selection) {
	fmt.Fprintf(b, "**Morning 9:00-12:00**: Arrive in %s\n", r.req.Destination)
	if len(sel.hotels) > 0 {
		h := sel.hotels[0]
		fmt.Fprintf(b, "- Check in: %s\n", h.Name)
		if sel.sources.Hotels == SourceLive {
			fmt.Fprintf(b, "- Address: %s\n", h.Address)
		} else if h.Area != "" {
			fmt.Fprintf(b, "- Area: %s\n", h.Area)
		}
	} else {
		b.WriteString("- Check in at your hotel\n")
	}
	b.WriteString("- Rest and settle in\n\n")

	b.WriteString("**Midday 12:00-13:30**: Lunch\n")
	if len(sel.restaurants) > 0 {
		r.venue(b, sel.restaurants[0], kindRestaurant)
	} else {
		b.WriteString("- Find a local restaurant near your hotel\n")
		b.WriteString("- Google Maps or TripAdvisor reviews help\n")
	}
	b.WriteString("\n")

	if len(sel.attractions) > 0 {
		a := sel.attractions[0]
		fmt.Fprintf(b, "**Afternoon 14:00-17:00**: %s\n", a.Name)
		r.details(b, a, kindAttraction)
	} else {
		b.WriteString("**Afternoon 14:00-17:00**: Sightseeing\n")
		fmt.Fprintf(b, "- Visit the signature sights of %s\n", r.req.Destination)
		b.WriteString("- Book popular tickets online in advance\n")
	}
	b.WriteString("\n")

	b.WriteString("**Evening 18:30-20:00**: Dinner\n")
	if len(sel.restaurants) > 1 {
		r.venue(b, sel.restaurants[1], kindRestaurant)
	} else {
		fmt.Fprintf(b, "- Sample the local specialties of %s\n", r.req.Destination)
	}
	b.WriteString("\n")

	if len(sel.attractions) > 1 {
		a := sel.attractions[1]
		fmt.Fprintf(b, "**Night 20:30-22:00**: %s\n", a.Name)
		if a.Address != "" {
			fmt.Fprintf(b, "- Address: %s\n", a.Address)
		}
		b.WriteString("- See the city lit up at night\n\n")
	} else {
		b.WriteString("**Night 20:30-22:00**: Evening stroll\n")
		fmt.Fprintf(b, "- Enjoy %s after dark\n\n", r.req.Destination)
	}
}

func (r renderer) middleDay(b *strings.Builder, sel selection, day int) {
	if n := len(sel.attractions); n > 0 {
		morning := sel.attractions[((day-1)*2)%n]
		fmt.Fprintf(b, "**Morning 9:00-12:00**: %s\n", morning.Name)
		r.details(b, morning, kindAttraction)
	} else {
		b.WriteString("**Morning 9:00-12:00**: Sightseeing\n")
		fmt.Fprintf(b, "- Explore a well-known part of %s\n", r.req.Destination)
	}
	b.WriteString("\n")

	b.WriteString("**Midday 12:30-14:00**: Lunch\n")
	if n := len(sel.restaurants); n > 0 {
		r.venue(b, sel.restaurants[day%n], kindRestaurant)
	} else {
		b.WriteString("- Find local food near the sights\n")
	}
	b.WriteString("\n")

	if n := len(sel.attractions); n > 0 {
		afternoon := sel.attractions[((day-1)*2+1)%n]
		fmt.Fprintf(b, "**Afternoon 14:30-18:00**: %s\n", afternoon.Name)
		r.details(b, afternoon, kindAttraction)
	} else {
		b.WriteString("**Afternoon 14:30-18:00**: Keep exploring\n")
		b.WriteString("- Wander a local neighbourhood or market\n")
	}
	b.WriteString("\n")

	b.WriteString("**Evening 19:00-21:00**: Dinner\n")
	if n := len(sel.restaurants); n > 0 {
		r.venue(b, sel.restaurants[(day+1)%n], kindRestaurant)
	} else {
		fmt.Fprintf(b, "- Try a dish %s is known for\n", r.req.Destination)
	}
	b.WriteString("\n")

	b.WriteString("**Night 21:30**: Back to the hotel\n\n")
}

func (r renderer) departureDay(b *strings.Builder) {
	b.WriteString("**Morning 8:00-10:00**: Breakfast and last-minute shopping\n")
	b.WriteString("- Breakfast near the hotel\n")
	b.WriteString("- Pick up souvenirs and local specialties\n\n")
	b.WriteString("**Late morning 10:00-11:30**: Check out\n")
	b.WriteString("- Pack up and check out of the hotel\n\n")
	b.WriteString("**Afternoon**: Departure\n")
	b.WriteString("- Head to the airport or station\n")
	fmt.Fprintf(b, "- End of your %s trip\n\n", r.req.Destination)
}

type venueKind int

const (
	kindAttraction venueKind = iota
	kindRestaurant
)

// venue writes a restaurant recommendation line followed by its details.
func (r renderer) venue(b *strings.Builder, l trip.Listing, kind venueKind) {
	fmt.Fprintf(b, "- Try: %s\n", l.Name)
	r.details(b, l, kind)
}

func (r renderer) details(b *strings.Builder, l trip.Listing, kind venueKind) {
	if l.Address != "" {
		fmt.Fprintf(b, "- Address: %s\n", l.Address)
	} else if l.Area != "" {
		fmt.Fprintf(b, "- Area: %s\n", l.Area)
	}
	if l.Rating != "" {
		fmt.Fprintf(b, "- Rating: %s⭐\n", l.Rating)
	}
	if l.Price != nil {
		switch {
		case kind == kindAttraction && *l.Price == 0:
			b.WriteString("- Admission: free\n")
		case kind == kindAttraction:
			fmt.Fprintf(b, "- Admission: %s\n", r.display(*l.Price))
		case *l.Price > 0:
			fmt.Fprintf(b, "- Average spend: %s per person\n", r.display(*l.Price))
		}
	}
	if l.Duration != "" {
		fmt.Fprintf(b, "- Time needed: %s\n", l.Duration)
	}
	if l.Category != "" {
		fmt.Fprintf(b, "- Cuisine: %s\n", l.Category)
	}
}

func (r renderer) tips() string {
	var b strings.Builder
	b.WriteString("- **Essentials**: passport or ID, power bank, basic medicine, comfortable shoes\n")
	b.WriteString("- **Bookings**: reserve popular attractions ahead and avoid peak hours\n")
	b.WriteString("- **Getting around**: public transport or a ride-hailing app\n")
	b.WriteString("- **Saving money**: look for transit passes, combo tickets and free-admission days\n")
	if p := strings.TrimSpace(r.req.Preferences); p != "" {
		fmt.Fprintf(&b, "- **Special focus**: %s\n", p)
	}
	fmt.Fprintf(&b, "\n**Enjoy your trip to %s!** 🎉\n", r.req.Destination)
	return b.String()
}

// PriceLevelText describes a 0-4 price level.
func PriceLevelText(level *int) string {
	if level == nil {
		return "Unknown"
	}
	switch *level {
	case 0:
		return "Free"
	case 1:
		return "Budget ($)"
	case 2:
		return "Moderate ($$)"
	case 3:
		return "Upscale ($$$)"
	case 4:
		return "Luxury ($$$$)"
	default:
		return "Unknown"
	}
}
