package currency

import (
	"github.com/shopspring/decimal"

	"github.com/neexbeast/trip-itinerary/internal/trip"
)

// Currency pairs an ISO-like code with its display symbol.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// rate is the number of reference units (CNY) one unit of the currency buys.
type rate struct {
	code   string
	symbol string
	perRef decimal.Decimal
}

var defaultRates = []rate{
	{code: "CNY", symbol: "¥", perRef: decimal.NewFromInt(1)},
	{code: "USD", symbol: "$", perRef: decimal.RequireFromString("7.2")},
	{code: "EUR", symbol: "€", perRef: decimal.RequireFromString("7.8")},
	{code: "GBP", symbol: "£", perRef: decimal.RequireFromString("9.1")},
	{code: "JPY", symbol: "¥", perRef: decimal.RequireFromString("0.05")},
	{code: "KRW", symbol: "₩", perRef: decimal.RequireFromString("0.0055")},
	{code: "SGD", symbol: "S$", perRef: decimal.RequireFromString("5.3")},
	{code: "AUD", symbol: "A$", perRef: decimal.RequireFromString("4.7")},
	{code: "CAD", symbol: "C$", perRef: decimal.RequireFromString("5.2")},
}

// Converter converts amounts to and from the reference currency using a fixed
// rate table. It is immutable after construction and safe for concurrent use.
type Converter struct {
	order []Currency
	rates map[string]decimal.Decimal
	syms  map[string]string
}

// NewConverter builds a Converter over the built-in rate table.
func NewConverter() *Converter {
	c := &Converter{
		order: make([]Currency, 0, len(defaultRates)),
		rates: make(map[string]decimal.Decimal, len(defaultRates)),
		syms:  make(map[string]string, len(defaultRates)),
	}
	for _, r := range defaultRates {
		c.order = append(c.order, Currency{Code: r.code, Symbol: r.symbol})
		c.rates[r.code] = r.perRef
		c.syms[r.code] = r.symbol
	}
	return c
}

// rateFor returns the rate for code, or 1 for unknown codes.
func (c *Converter) rateFor(code string) decimal.Decimal {
	if r, ok := c.rates[code]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// ToReference converts amount in code to whole reference units, rounding down.
func (c *Converter) ToReference(amount int64, code string) int64 {
	return decimal.NewFromInt(amount).Mul(c.rateFor(code)).Floor().IntPart()
}

// FromReference converts whole reference units to code, rounding down.
// FromReference(ToReference(a, c), c) may be less than a; the double floor is
// intentional and must not be compensated for.
func (c *Converter) FromReference(ref int64, code string) int64 {
	return decimal.NewFromInt(ref).Div(c.rateFor(code)).Floor().IntPart()
}

// Symbol returns the display symbol for code, falling back to the reference
// currency's symbol.
func (c *Converter) Symbol(code string) string {
	if s, ok := c.syms[code]; ok {
		return s
	}
	return c.syms[trip.ReferenceCurrency]
}

// IsReference reports whether code converts at par with the reference
// currency. Unknown codes do.
func (c *Converter) IsReference(code string) bool {
	if code == trip.ReferenceCurrency {
		return true
	}
	_, known := c.rates[code]
	return !known
}

// Supported lists the known currencies in display order.
func (c *Converter) Supported() []Currency {
	out := make([]Currency, len(c.order))
	copy(out, c.order)
	return out
}
