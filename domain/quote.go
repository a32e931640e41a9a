// Package domain defines the quote state shared by the price feed and the widget renderer
package domain

// AssetQuote is the last known price and 24h change of one tracked asset
type AssetQuote struct {
	AssetID          string   `json:"asset_id"`
	Price            *float64 `json:"price"`              // nil until a finite price has been parsed
	ChangePercent24h float64  `json:"change_percent_24h"` // 0 until a finite change has been parsed
}

// ParsedQuote is the outcome of parsing one provider response.
// A nil field did not parse to a finite number.
type ParsedQuote struct {
	AssetID          string
	Price            *float64
	ChangePercent24h *float64
}

// State is the view state of the price widget
type State struct {
	Assets  []string              `json:"assets"`
	Quotes  map[string]AssetQuote `json:"quotes"`
	Loading bool                  `json:"loading"`
}

// NewState returns the initial state for the given assets: no prices and still loading.
func NewState(assets ...string) State {
	s := State{
		Assets:  append([]string(nil), assets...),
		Quotes:  make(map[string]AssetQuote, len(assets)),
		Loading: true,
	}

	for _, id := range assets {
		s.Quotes[id] = AssetQuote{AssetID: id}
	}

	return s
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := State{
		Assets:  append([]string(nil), s.Assets...),
		Quotes:  make(map[string]AssetQuote, len(s.Quotes)),
		Loading: s.Loading,
	}

	for id, q := range s.Quotes {
		if q.Price != nil {
			p := *q.Price
			q.Price = &p
		}
		out.Quotes[id] = q
	}

	return out
}

// Quote returns the quote of the given asset
func (s State) Quote(assetID string) (AssetQuote, bool) {
	q, ok := s.Quotes[assetID]
	return q, ok
}

// Ready reports whether loading is done and every tracked asset has a price
func (s State) Ready() bool {
	if s.Loading {
		return false
	}

	for _, id := range s.Assets {
		q, ok := s.Quotes[id]
		if !ok || q.Price == nil {
			return false
		}
	}

	return true
}

// Merge applies parsed quotes on top of old. Fields that did not parse keep
// their previous value, quotes for untracked assets are ignored, and the
// result is no longer loading. old is not modified.
func Merge(old State, parsed []ParsedQuote) State {
	next := old.Clone()

	for _, p := range parsed {
		q, ok := next.Quotes[p.AssetID]
		if !ok {
			continue
		}

		if p.Price != nil {
			price := *p.Price
			q.Price = &price
		}

		if p.ChangePercent24h != nil {
			q.ChangePercent24h = *p.ChangePercent24h
		}

		next.Quotes[p.AssetID] = q
	}

	next.Loading = false

	return next
}

// Settle is the transition of a failed cycle: prices stay, loading ends.
func Settle(old State) State {
	next := old.Clone()
	next.Loading = false

	return next
}
