package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/services"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuanceFixture() (services.SwapConfig, *MockLedgerClient) {
	cfg := services.SwapConfig{
		AdminWallet:   domain.Wallet{Address: testAdminAddr},
		IOUCurrency:   "KRW",
		IssuerAddress: testAdminAddr,
		BaseAsset:     "XRP",
		QuoteAsset:    "KRW",
	}
	return cfg, new(MockLedgerClient)
}

func TestGetIssuanceSummary_SumsNegativeLines(t *testing.T) {
	cfg, mockLedger := issuanceFixture()
	service := services.NewIssuanceService(cfg, mockLedger, metrics.NewCollector())

	// Issuer side of a trust line goes negative as tokens are issued.
	lines := []domain.Balance{
		{Currency: "KRW", Issuer: testUserAddr, Value: decimal.RequireFromString("-50000")},
		{Currency: "KRW", Issuer: testDestAddr, Value: decimal.RequireFromString("-12000.5")},
		{Currency: "KRW", Issuer: testDestAddr, Value: decimal.RequireFromString("300")},
		{Currency: "USD", Issuer: testDestAddr, Value: decimal.RequireFromString("-999")},
	}
	mockLedger.On("GetAccountLines", context.Background(), testAdminAddr).Return(lines, nil).Once()

	report, err := service.GetIssuanceSummary(context.Background())

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "KRW", report.Currency)
	assert.Equal(t, testAdminAddr, report.Issuer)
	assert.True(t, report.TotalIssued.Equal(decimal.RequireFromString("62000.5")))
	assert.Equal(t, 2, report.HolderCount)
	mockLedger.AssertExpectations(t)
}

func TestGetIssuanceSummary_EmptyLines(t *testing.T) {
	cfg, mockLedger := issuanceFixture()
	service := services.NewIssuanceService(cfg, mockLedger, metrics.NewCollector())

	mockLedger.On("GetAccountLines", context.Background(), testAdminAddr).Return([]domain.Balance{}, nil).Once()

	report, err := service.GetIssuanceSummary(context.Background())

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.TotalIssued.IsZero())
	assert.Zero(t, report.HolderCount)
}

func TestGetIssuanceSummary_LedgerError(t *testing.T) {
	cfg, mockLedger := issuanceFixture()
	service := services.NewIssuanceService(cfg, mockLedger, metrics.NewCollector())

	mockLedger.On("GetAccountLines", context.Background(), testAdminAddr).
		Return(nil, errors.New("connection reset")).Once()

	report, err := service.GetIssuanceSummary(context.Background())

	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "failed to read issuer trust lines")
}
