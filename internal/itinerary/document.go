package itinerary

import (
	"strings"

	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// Source tags where a category's listings came from.
type Source int

const (
	SourceGeneric Source = iota
	SourceLive
	SourceCatalog
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceCatalog:
		return "catalog"
	default:
		return "generic"
	}
}

// MarshalText lets Source encode as its name in JSON.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Sources records the fallback branch taken for each category.
type Sources struct {
	Hotels      Source `json:"hotels"`
	Attractions Source `json:"attractions"`
	Restaurants Source `json:"restaurants"`
}

// SectionKind identifies a document section.
type SectionKind int

const (
	SectionBudget SectionKind = iota
	SectionAccommodation
	SectionDailyPlan
	SectionTransit
	SectionTips
)

// Section is one titled block of the rendered itinerary.
type Section struct {
	Kind  SectionKind
	Title string
	Body  string
}

// Document is a composed itinerary. It is built once per request and not
// retained.
type Document struct {
	Title      string
	Days       int
	Tier       trip.SpendTier
	Allocation Allocation
	Sources    Sources
	Sections   []Section
}

// Section returns the first section of the given kind.
func (d *Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// String renders the document as markdown.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(d.Title)
	b.WriteString("\n\n")
	for _, s := range d.Sections {
		b.WriteString("## ")
		b.WriteString(s.Title)
		b.WriteString("\n\n")
		b.WriteString(s.Body)
	}
	return b.String()
}
