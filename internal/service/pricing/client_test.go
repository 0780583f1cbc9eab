package pricing

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestClientFetchItems(t *testing.T) {
	t.Parallel()

	t.Run("maps and derives prices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/items", r.URL.Path)
			require.Equal(t, "730", r.URL.Query().Get("app_id"))
			require.Equal(t, "USD", r.URL.Query().Get("currency"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"market_hash_name": "AK-47 | Redline (Field-Tested)", "currency": "USD", "min_price": 25.99, "max_price": 40.0, "mean_price": 31.5, "quantity": 100},
				{"market_hash_name": "AWP | Asiimov (Field-Tested)", "currency": "USD", "min_price": 80.5, "max_price": 120.0, "mean_price": 95.0, "quantity": 42}
			]`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)

		entries, err := client.FetchItems(t.Context(), DefaultAppID, "USD")

		require.NoError(t, err)
		require.Len(t, entries, 2)

		require.Equal(t, "AK-47 | Redline (Field-Tested)", entries[0].Name)
		require.True(t, entries[0].TradablePrice.Equal(decimal.RequireFromString("25.99")))
		require.True(t, entries[0].NonTradablePrice.Equal(decimal.RequireFromString("22.09")), "22.0915 must round to 22.09, got %s", entries[0].NonTradablePrice)

		require.Equal(t, "AWP | Asiimov (Field-Tested)", entries[1].Name)
		require.True(t, entries[1].NonTradablePrice.Equal(decimal.RequireFromString("68.43")), "80.5 * 0.85 = 68.425 must round to 68.43, got %s", entries[1].NonTradablePrice)
	})

	t.Run("filters unlisted rows", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"market_hash_name": "zero-price", "min_price": 0, "quantity": 0},
				{"market_hash_name": "null-price", "min_price": null, "quantity": 0},
				{"market_hash_name": "negative-price", "min_price": -1.5, "quantity": 0},
				{"market_hash_name": "listed", "min_price": 1.5, "quantity": 3}
			]`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)

		entries, err := client.FetchItems(t.Context(), DefaultAppID, "USD")

		require.NoError(t, err)
		require.Len(t, entries, 1, "only the strictly positive price should survive")
		require.Equal(t, "listed", entries[0].Name)
	})

	t.Run("truncates preserving order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rows := make([]string, 0, MaxItems+10)
			for i := 0; i < MaxItems+10; i++ {
				rows = append(rows, fmt.Sprintf(`{"market_hash_name": "item-%d", "min_price": %d.50, "quantity": 1}`, i, i+1))
			}
			_, _ = fmt.Fprintf(w, "[%s]", strings.Join(rows, ","))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)

		entries, err := client.FetchItems(t.Context(), DefaultAppID, "USD")

		require.NoError(t, err)
		require.Len(t, entries, MaxItems)
		require.Equal(t, "item-0", entries[0].Name, "upstream order must be preserved")
		require.Equal(t, fmt.Sprintf("item-%d", MaxItems-1), entries[MaxItems-1].Name)
	})

	t.Run("non-success response is UpstreamError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(strings.Repeat("x", 500)))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)

		_, err := client.FetchItems(t.Context(), DefaultAppID, "USD")

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr, "non-2xx must be reported as UpstreamError")
		require.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
		require.Len(t, upstreamErr.Body, 100, "diagnostics must be truncated to 100 bytes")
	})

	t.Run("network failure is not UpstreamError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nobody is listening anymore

		client := NewClient(srv.URL, nil)

		_, err := client.FetchItems(t.Context(), DefaultAppID, "USD")

		require.Error(t, err)
		var upstreamErr *UpstreamError
		require.False(t, errors.As(err, &upstreamErr), "unreachable upstream must stay a plain error")
	})

	t.Run("broken payload fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "an array"`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)

		_, err := client.FetchItems(t.Context(), DefaultAppID, "USD")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to decode response")
	})
}
