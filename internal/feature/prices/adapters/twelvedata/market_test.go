package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
)

func newTestMarket(t *testing.T, status int, body string, check func(r *http.Request)) *TwelveDataMarket {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	m := NewTwelveDataMarket(Config{TwelveDataAPIKey: "test-key", BaseURL: server.URL}, server.Client())
	m.now = func() time.Time { return time.Date(2025, 1, 20, 15, 0, 0, 0, time.UTC) }
	return m
}

func TestNewTwelveDataMarket(t *testing.T) {
	t.Parallel()

	m := NewTwelveDataMarket(Config{TwelveDataAPIKey: "k"}, &http.Client{})

	assert.Equal(t, DefaultBaseURL, m.cfg.BaseURL)
	assert.Equal(t, "k", m.cfg.TwelveDataAPIKey)
	assert.Equal(t, "twelvedata", m.Name())
}

// TestTwelveDataMarket_Fetch_Success は新しい順のレスポンスを昇順の終値系列に変換することを検証します。
func TestTwelveDataMarket_Fetch_Success(t *testing.T) {
	t.Parallel()

	body := `{
		"status": "ok",
		"symbol": "AAPL",
		"interval": "1day",
		"values": [
			{"datetime": "2025-01-17", "close": "229.98"},
			{"datetime": "2025-01-16 00:00:00", "close": "228.26"},
			{"datetime": "2025-01-15", "close": "237.87"}
		]
	}`
	m := newTestMarket(t, http.StatusOK, body, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "1day", q.Get("interval"))
		assert.Equal(t, "2025-01-10", q.Get("start_date"))
		assert.Equal(t, "2025-01-20", q.Get("end_date"))
		assert.Equal(t, "10", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))
	})

	points, err := m.Fetch(context.Background(), "AAPL", 10)
	require.NoError(t, err)

	assert.Equal(t, []entity.PricePoint{
		{Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Close: 237.87},
		{Date: time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), Close: 228.26},
		{Date: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), Close: 229.98},
	}, points)
}

func TestTwelveDataMarket_Fetch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		status          int
		body            string
		dataUnavailable bool
	}{
		{
			name:            "api error status",
			status:          http.StatusOK,
			body:            `{"code":400,"message":"**symbol** not found: ZZZZ","status":"error"}`,
			dataUnavailable: true,
		},
		{
			name:            "rate limited",
			status:          http.StatusTooManyRequests,
			body:            `{}`,
			dataUnavailable: true,
		},
		{
			name:            "no values",
			status:          http.StatusOK,
			body:            `{"status":"ok","values":[]}`,
			dataUnavailable: true,
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `not json`,
		},
		{
			name:   "unparsable close",
			status: http.StatusOK,
			body:   `{"status":"ok","values":[{"datetime":"2025-01-17","close":"n/a"}]}`,
		},
		{
			name:   "unparsable datetime",
			status: http.StatusOK,
			body:   `{"status":"ok","values":[{"datetime":"17/01/2025","close":"1"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMarket(t, tt.status, tt.body, nil)
			points, err := m.Fetch(context.Background(), "ZZZZ", 5)

			require.Error(t, err)
			assert.Nil(t, points)
			assert.Equal(t, tt.dataUnavailable, errors.Is(err, domain.ErrDataUnavailable), "error: %v", err)
		})
	}
}

func TestTwelveDataMarket_Fetch_InvalidArguments(t *testing.T) {
	t.Parallel()

	m := NewTwelveDataMarket(Config{BaseURL: "http://unused.test"}, &http.Client{})

	_, err := m.Fetch(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = m.Fetch(context.Background(), "AAPL", -1)
	assert.Error(t, err)
}
