package pricefeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/adapters/pricefeed"
	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRateWriter mocks the rate write facade the poller pushes into.
type MockRateWriter struct {
	mock.Mock
}

func (m *MockRateWriter) UpsertRate(ctx context.Context, req dto.UpsertRateRequest, updaterUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateWriter) DeactivateRates(ctx context.Context, baseAsset, quoteAsset string, updaterUserID string) (int64, error) {
	args := m.Called(ctx, baseAsset, quoteAsset, updaterUserID)
	return args.Get(0).(int64), args.Error(1)
}

func newFeedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestFetchPrice_NumberPayload(t *testing.T) {
	server := newFeedServer(t, `{"symbol":"XRPKRW","price":4197.25}`, http.StatusOK)
	defer server.Close()

	client := pricefeed.NewClient(pricefeed.Config{URL: server.URL})
	price, err := client.FetchPrice(context.Background())

	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("4197.25")))
}

func TestFetchPrice_StringPayload(t *testing.T) {
	server := newFeedServer(t, `{"symbol":"XRPKRW","price":"4201.5"}`, http.StatusOK)
	defer server.Close()

	client := pricefeed.NewClient(pricefeed.Config{URL: server.URL})
	price, err := client.FetchPrice(context.Background())

	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("4201.5")))
}

func TestFetchPrice_NonPositivePriceRejected(t *testing.T) {
	server := newFeedServer(t, `{"price":"0"}`, http.StatusOK)
	defer server.Close()

	client := pricefeed.NewClient(pricefeed.Config{URL: server.URL})
	_, err := client.FetchPrice(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFetchPrice_UpstreamError(t *testing.T) {
	server := newFeedServer(t, `upstream unavailable`, http.StatusServiceUnavailable)
	defer server.Close()

	client := pricefeed.NewClient(pricefeed.Config{URL: server.URL})
	_, err := client.FetchPrice(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestPoller_StoresFetchedRate(t *testing.T) {
	server := newFeedServer(t, `{"price":"4197.25"}`, http.StatusOK)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockRates := new(MockRateWriter)
	mockRates.On("UpsertRate", mock.Anything, mock.MatchedBy(func(req dto.UpsertRateRequest) bool {
		return req.BaseAsset == "XRP" &&
			req.QuoteAsset == "KRW" &&
			req.Rate.Equal(decimal.RequireFromString("4197.25")) &&
			req.Spread.Equal(decimal.RequireFromString("0.001")) &&
			req.Source == "test-feed"
	}), "system:pricefeed").Run(func(args mock.Arguments) {
		cancel()
	}).Return(&domain.ExchangeRate{}, nil).Once()

	client := pricefeed.NewClient(pricefeed.Config{URL: server.URL})
	poller := pricefeed.NewPoller(client, mockRates, pricefeed.PollerConfig{
		Interval:   time.Hour,
		BaseAsset:  "XRP",
		QuoteAsset: "KRW",
		Spread:     decimal.RequireFromString("0.001"),
		Source:     "test-feed",
	}, nil)

	// The first refresh runs before the ticker loop; cancelling from the
	// mock stops Run after exactly one store.
	poller.Run(ctx)

	mockRates.AssertExpectations(t)
}

func TestPoller_FetchFailureKeepsPreviousRate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		cancel()
	}))
	defer server.Close()

	mockRates := new(MockRateWriter)

	client := pricefeed.NewClient(pricefeed.Config{URL: server.URL})
	poller := pricefeed.NewPoller(client, mockRates, pricefeed.PollerConfig{
		Interval:   time.Hour,
		BaseAsset:  "XRP",
		QuoteAsset: "KRW",
	}, nil)

	poller.Run(ctx)

	mockRates.AssertNotCalled(t, "UpsertRate", mock.Anything, mock.Anything, mock.Anything)
}
