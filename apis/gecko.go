// Package apis provides external price feed integrations
package apis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sljivkov/bonkboard/config"
	"github.com/sljivkov/bonkboard/domain"
)

const (
	pricePath  = "market_data.current_price.usd"
	changePath = "market_data.price_change_percentage_24h"
)

var (
	// ErrUnexpectedStatus is returned when CoinGecko answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInvalidJSON is returned when the response body is not a JSON document
	ErrInvalidJSON = errors.New("invalid JSON body")
)

// CoinGecko fetches single-coin quotes from the CoinGecko API
type CoinGecko struct {
	baseURL string
	client  *http.Client
}

// NewCoinGecko creates a new CoinGecko quote source
func NewCoinGecko(cfg config.Config) *CoinGecko {
	return &CoinGecko{
		baseURL: strings.TrimRight(cfg.Url, "/"),
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// FetchQuote fetches /coins/{assetID} and parses its price and 24h change.
// Transport failures, non-200 statuses and non-JSON bodies are errors;
// missing or non-numeric fields only leave the matching field nil.
func (g *CoinGecko) FetchQuote(ctx context.Context, assetID string) (domain.ParsedQuote, error) {
	fullURL := fmt.Sprintf("%s/coins/%s", g.baseURL, url.PathEscape(assetID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ParsedQuote{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.ParsedQuote{}, fmt.Errorf("failed to fetch %s: %w", assetID, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ParsedQuote{}, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatus, resp.StatusCode, assetID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ParsedQuote{}, fmt.Errorf("failed to read %s response: %w", assetID, err)
	}

	return ParseQuote(assetID, body)
}

// ParseQuote extracts a quote from a /coins/{id} response body
func ParseQuote(assetID string, body []byte) (domain.ParsedQuote, error) {
	if !gjson.ValidBytes(body) {
		return domain.ParsedQuote{}, fmt.Errorf("%w for %s", ErrInvalidJSON, assetID)
	}

	res := gjson.GetManyBytes(body, pricePath, changePath)

	return domain.ParsedQuote{
		AssetID:          assetID,
		Price:            parseFloat(res[0]),
		ChangePercent24h: parseFloat(res[1]),
	}, nil
}

// parseFloat accepts numbers and numeric strings; anything else, or a
// non-finite result, yields nil.
func parseFloat(r gjson.Result) *float64 {
	var v float64

	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}
