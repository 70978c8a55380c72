package api

import (
	"context"

	"github.com/neexbeast/trip-itinerary/internal/currency"
	"github.com/neexbeast/trip-itinerary/internal/itinerary"
	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// ItineraryComposer builds an itinerary for a validated trip request.
type ItineraryComposer interface {
	Compose(ctx context.Context, req trip.Request) (*itinerary.Document, error)
}

// CurrencyLister lists the currencies a request may use.
type CurrencyLister interface {
	Supported() []currency.Currency
}

// Observer records request outcomes. *metrics.Registry satisfies it.
type Observer interface {
	ObserveGenerated(seconds float64)
	ObserveFailed(reason string)
	ObserveSource(category, source string)
}

// Pinger is a dependency probed by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names a Pinger in the health response.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}
