package api

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neexbeast/trip-itinerary/internal/trip"
)

const (
	dateLayout  = "2006-01-02"
	maxTripDays = 90

	msgIncomplete = "Please provide complete travel information"
	msgDateOrder  = "End date must be on or after start date"
)

// budgetValue accepts a JSON number or a numeric string. null and "" leave
// it unset.
type budgetValue struct {
	set    bool
	amount decimal.Decimal
}

func (b *budgetValue) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil
	}
	if err := b.amount.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("budget: %w", err)
	}
	b.set = true
	return nil
}

type itineraryRequest struct {
	Destination string      `json:"destination"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Budget      budgetValue `json:"budget"`
	Currency    string      `json:"currency"`
	Preferences string      `json:"preferences"`
}

// toTrip validates the wire request and derives the day count. Error
// messages are returned to the client verbatim.
func (r itineraryRequest) toTrip() (trip.Request, error) {
	destination := strings.TrimSpace(r.Destination)
	if destination == "" || r.StartDate == "" || r.EndDate == "" || !r.Budget.set || r.Budget.amount.IsZero() {
		return trip.Request{}, errors.New(msgIncomplete)
	}

	start, err := time.Parse(dateLayout, strings.TrimSpace(r.StartDate))
	if err != nil {
		return trip.Request{}, errors.New("Start date must use the YYYY-MM-DD format")
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(r.EndDate))
	if err != nil {
		return trip.Request{}, errors.New("End date must use the YYYY-MM-DD format")
	}

	days := tripDays(start, end)
	if days < 1 {
		return trip.Request{}, errors.New(msgDateOrder)
	}
	if days > maxTripDays {
		return trip.Request{}, fmt.Errorf("Trips longer than %d days are not supported", maxTripDays)
	}

	if r.Budget.amount.GreaterThan(decimal.NewFromInt(trip.MaxBudget)) {
		return trip.Request{}, fmt.Errorf("Budget must not exceed %d", trip.MaxBudget)
	}
	budget := r.Budget.amount.IntPart()
	if budget <= 0 {
		return trip.Request{}, errors.New("Budget must be a positive number")
	}

	code := strings.ToUpper(strings.TrimSpace(r.Currency))
	if code == "" {
		code = trip.ReferenceCurrency
	}

	return trip.Request{
		Destination: destination,
		Days:        days,
		Budget:      budget,
		Currency:    code,
		Preferences: strings.TrimSpace(r.Preferences),
	}, nil
}

// tripDays counts calendar days inclusively: the whole-day difference,
// rounded up, plus one.
func tripDays(start, end time.Time) int {
	diff := end.Sub(start)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days + 1
}
