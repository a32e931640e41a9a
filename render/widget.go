// Package render turns the committed price state into the widget view model
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sljivkov/bonkboard/domain"
)

// Indicator glyphs and CSS classes chosen by the sign of the 24h change
const (
	GlyphUp   = "↑"
	GlyphDown = "↓"
	ClassUp   = "price-up"
	ClassDown = "price-down"
)

// Asset describes how one tracked asset is displayed
type Asset struct {
	ID       string
	Alt      string
	Icon     string
	Decimals int32
}

// DefaultAssets are the two assets shown by the dashboard widget
var DefaultAssets = []Asset{
	{ID: "solana", Alt: "SOL", Icon: "https://assets.coingecko.com/coins/images/4128/small/solana.png", Decimals: 2},
	{ID: "bonk", Alt: "BONK", Icon: "/static/bonk.png", Decimals: 6},
}

// Row is one rendered quote
type Row struct {
	AssetID string
	Alt     string
	Icon    string
	Price   string // "$142.37"
	Glyph   string
	Change  string // "2.15%", never signed
	Class   string
}

// String renders the row as plain text, e.g. "$142.37 ↑2.15%"
func (r Row) String() string {
	return fmt.Sprintf("%s %s%s", r.Price, r.Glyph, r.Change)
}

// Widget is the rendered price box
type Widget struct {
	Rows []Row
}

// Render builds the widget for state. It reports false while the first
// cycle is pending or any of the assets has no price yet.
func Render(state domain.State, assets []Asset) (Widget, bool) {
	if state.Loading {
		return Widget{}, false
	}

	rows := make([]Row, 0, len(assets))

	for _, a := range assets {
		q, ok := state.Quote(a.ID)
		if !ok || q.Price == nil {
			return Widget{}, false
		}

		rows = append(rows, renderRow(a, q))
	}

	return Widget{Rows: rows}, true
}

func renderRow(a Asset, q domain.AssetQuote) Row {
	glyph, class := GlyphUp, ClassUp
	if q.ChangePercent24h < 0 {
		glyph, class = GlyphDown, ClassDown
	}

	return Row{
		AssetID: a.ID,
		Alt:     a.Alt,
		Icon:    a.Icon,
		Price:   "$" + FormatFixed(*q.Price, a.Decimals),
		Glyph:   glyph,
		Change:  decimal.NewFromFloat(q.ChangePercent24h).Abs().StringFixed(2) + "%",
		Class:   class,
	}
}

// FormatFixed formats v with exactly places decimals. Rounding is half away
// from zero on the shortest decimal form of v, so 1.005 gives "1.01".
func FormatFixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// LookupAssets returns the display settings for ids, keeping their order.
// Unknown ids get the symbol in upper case and 2 decimals.
func LookupAssets(ids []string) []Asset {
	known := make(map[string]Asset, len(DefaultAssets))
	for _, a := range DefaultAssets {
		known[a.ID] = a
	}

	out := make([]Asset, 0, len(ids))

	for _, id := range ids {
		a, ok := known[id]
		if !ok {
			a = Asset{ID: id, Alt: strings.ToUpper(id), Decimals: 2}
		}
		out = append(out, a)
	}

	return out
}
