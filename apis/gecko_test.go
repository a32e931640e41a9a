package apis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sljivkov/bonkboard/config"
)

func TestNewCoinGecko(t *testing.T) {
	cfg := config.Config{
		Url:         "http://test.com/api/v3/",
		HTTPTimeout: 3 * time.Second,
	}

	gecko := NewCoinGecko(cfg)
	assert.NotNil(t, gecko)
	assert.Equal(t, "http://test.com/api/v3", gecko.baseURL)
	assert.Equal(t, 3*time.Second, gecko.client.Timeout)
}

func TestFetchQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.URL.RawQuery)

		switch r.URL.Path {
		case "/coins/solana":
			w.Write([]byte(`{"id":"solana","market_data":{"current_price":{"usd":142.37,"eur":130.1},"price_change_percentage_24h":2.15}}`))
		case "/coins/bonk":
			w.Write([]byte(`{"id":"bonk","market_data":{"current_price":{"usd":"0.00001823"},"price_change_percentage_24h":-1.02}}`))
		case "/coins/broken":
			w.Write([]byte(`{"id":"broken"}`))
		case "/coins/html":
			w.Write([]byte(`<html>rate limited</html>`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":{"error_code":429}}`))
		}
	}))
	defer server.Close()

	gecko := NewCoinGecko(config.Config{Url: server.URL, HTTPTimeout: time.Second})
	ctx := context.Background()

	t.Run("numeric fields", func(t *testing.T) {
		q, err := gecko.FetchQuote(ctx, "solana")
		require.NoError(t, err)

		assert.Equal(t, "solana", q.AssetID)
		require.NotNil(t, q.Price)
		require.NotNil(t, q.ChangePercent24h)
		assert.Equal(t, 142.37, *q.Price)
		assert.Equal(t, 2.15, *q.ChangePercent24h)
	})

	t.Run("numeric string is parsed", func(t *testing.T) {
		q, err := gecko.FetchQuote(ctx, "bonk")
		require.NoError(t, err)

		require.NotNil(t, q.Price)
		assert.Equal(t, 0.00001823, *q.Price)
		assert.Equal(t, -1.02, *q.ChangePercent24h)
	})

	t.Run("missing market data leaves fields unset", func(t *testing.T) {
		q, err := gecko.FetchQuote(ctx, "broken")
		require.NoError(t, err)

		assert.Nil(t, q.Price)
		assert.Nil(t, q.ChangePercent24h)
	})

	t.Run("non JSON body", func(t *testing.T) {
		_, err := gecko.FetchQuote(ctx, "html")
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("non 200 status", func(t *testing.T) {
		_, err := gecko.FetchQuote(ctx, "unknown")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})
}

func TestFetchQuoteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gecko := NewCoinGecko(config.Config{Url: server.URL, HTTPTimeout: time.Second})

	_, err := gecko.FetchQuote(context.Background(), "solana")
	assert.Error(t, err)
}

func TestFetchQuoteCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	gecko := NewCoinGecko(config.Config{Url: server.URL, HTTPTimeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gecko.FetchQuote(ctx, "solana")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseQuote(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantPrice  *float64
		wantChange *float64
	}{
		{
			name:       "null price",
			body:       `{"market_data":{"current_price":{"usd":null},"price_change_percentage_24h":1.5}}`,
			wantChange: ptr(1.5),
		},
		{
			name:      "non numeric change",
			body:      `{"market_data":{"current_price":{"usd":3},"price_change_percentage_24h":"n/a"}}`,
			wantPrice: ptr(3),
		},
		{
			name: "infinite price",
			body: `{"market_data":{"current_price":{"usd":"Infinity"},"price_change_percentage_24h":"NaN"}}`,
		},
		{
			name:       "zero change is kept",
			body:       `{"market_data":{"current_price":{"usd":0.5},"price_change_percentage_24h":0}}`,
			wantPrice:  ptr(0.5),
			wantChange: ptr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuote("solana", []byte(tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.wantPrice, q.Price)
			assert.Equal(t, tt.wantChange, q.ChangePercent24h)
		})
	}
}

func ptr(v float64) *float64 { return &v }
