package domain_test

import (
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewExchangeRate_DerivesBidAndAsk(t *testing.T) {
	now := time.Now()

	rate := domain.NewExchangeRate(
		"rate_1", "XRP", "KRW",
		decimal.NewFromInt(4197),
		decimal.RequireFromString("0.001"),
		"manual", "admin_1", now,
	)

	assertDecimalEqual(t, "4197", rate.Rate)
	assertDecimalEqual(t, "4192.803", rate.BidRate)
	assertDecimalEqual(t, "4201.197", rate.AskRate)
	assert.True(t, rate.IsActive)
	assert.Equal(t, now, rate.ValidFrom)
	assert.Equal(t, "admin_1", rate.CreatedBy)
}

func TestExchangeRate_Reprice(t *testing.T) {
	rate := domain.ExchangeRate{}
	rate.Reprice(decimal.NewFromInt(100), decimal.RequireFromString("0.05"))

	assertDecimalEqual(t, "95", rate.BidRate)
	assertDecimalEqual(t, "105", rate.AskRate)

	// Zero spread collapses both sides onto the mid rate.
	rate.Reprice(decimal.NewFromInt(100), decimal.Zero)
	assertDecimalEqual(t, "100", rate.BidRate)
	assertDecimalEqual(t, "100", rate.AskRate)
}

func TestExchangeRate_IsCurrentAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		rate domain.ExchangeRate
		want bool
	}{
		{
			name: "active with open-ended validity",
			rate: domain.ExchangeRate{IsActive: true, ValidFrom: now.Add(-time.Minute)},
			want: true,
		},
		{
			name: "active with future expiry",
			rate: domain.ExchangeRate{
				IsActive:  true,
				ValidFrom: now.Add(-time.Minute),
				ValidTo:   timePtr(now.Add(time.Hour)),
			},
			want: true,
		},
		{
			name: "deactivated",
			rate: domain.ExchangeRate{IsActive: false, ValidFrom: now.Add(-time.Minute)},
			want: false,
		},
		{
			name: "effective only in the future",
			rate: domain.ExchangeRate{IsActive: true, ValidFrom: now.Add(time.Minute)},
			want: false,
		},
		{
			name: "already expired",
			rate: domain.ExchangeRate{
				IsActive:  true,
				ValidFrom: now.Add(-time.Hour),
				ValidTo:   timePtr(now.Add(-time.Minute)),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rate.IsCurrentAt(now))
		})
	}
}

func TestExchangeRate_ExecutionRate(t *testing.T) {
	rate := domain.ExchangeRate{
		BidRate: decimal.NewFromInt(95),
		AskRate: decimal.NewFromInt(105),
	}

	got, err := rate.ExecutionRate(domain.SwapTypeXRPToIOU)
	assert.NoError(t, err)
	assertDecimalEqual(t, "95", got)

	got, err = rate.ExecutionRate(domain.SwapTypeIOUToXRP)
	assert.NoError(t, err)
	assertDecimalEqual(t, "105", got)

	_, err = rate.ExecutionRate(domain.SwapTypeTransfer)
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	rate := decimal.NewFromInt(4000)

	got, err := domain.Convert(decimal.NewFromInt(2), rate, domain.BaseToQuote)
	assert.NoError(t, err)
	assertDecimalEqual(t, "8000", got)

	got, err = domain.Convert(decimal.NewFromInt(8000), rate, domain.QuoteToBase)
	assert.NoError(t, err)
	assertDecimalEqual(t, "2", got)

	_, err = domain.Convert(decimal.NewFromInt(1), decimal.Zero, domain.QuoteToBase)
	assert.Error(t, err)

	_, err = domain.Convert(decimal.NewFromInt(1), rate, domain.ConversionDirection("SIDEWAYS"))
	assert.Error(t, err)
}

func TestTotalIssued(t *testing.T) {
	lines := []domain.Balance{
		{Currency: "KRW", Issuer: "rHolderOne", Value: decimal.NewFromInt(-1500)},
		{Currency: "KRW", Issuer: "rHolderTwo", Value: decimal.NewFromInt(-500)},
		{Currency: "KRW", Issuer: "rHolderThree", Value: decimal.NewFromInt(250)},
		{Currency: "USD", Issuer: "rHolderFour", Value: decimal.NewFromInt(-10000)},
	}

	assertDecimalEqual(t, "2000", domain.TotalIssued(lines, "KRW"))
	assertDecimalEqual(t, "10000", domain.TotalIssued(lines, "USD"))
	assertDecimalEqual(t, "0", domain.TotalIssued(lines, "EUR"))
	assertDecimalEqual(t, "0", domain.TotalIssued(nil, "KRW"))
}
