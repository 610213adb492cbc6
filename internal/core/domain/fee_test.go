package domain_test

import (
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFeeConfig_CalculateFee_Percentage(t *testing.T) {
	cfg := domain.FeeConfig{
		FeeType: domain.FeePercentage,
		BaseFee: decimal.RequireFromString("0.003"),
	}

	got := cfg.CalculateFee(decimal.NewFromInt(1000))

	assertDecimalEqual(t, "3", got.Fee)
	assertDecimalEqual(t, "997", got.NetAmount)
	assertDecimalEqual(t, "1000", got.GrossAmount)
	assert.Equal(t, domain.FeePercentage, got.FeeType)
	if assert.NotNil(t, got.FeeRate) {
		assertDecimalEqual(t, "0.003", *got.FeeRate)
	}
}

func TestFeeConfig_CalculateFee_Fixed(t *testing.T) {
	cfg := domain.FeeConfig{
		FeeType: domain.FeeFixed,
		BaseFee: decimal.NewFromInt(25),
	}

	got := cfg.CalculateFee(decimal.NewFromInt(1000))

	assertDecimalEqual(t, "25", got.Fee)
	assertDecimalEqual(t, "975", got.NetAmount)
	assert.Nil(t, got.FeeRate)
}

func TestFeeConfig_CalculateFee_Tiered(t *testing.T) {
	cfg := domain.FeeConfig{
		FeeType: domain.FeeTiered,
		TieredRates: []domain.FeeTier{
			{
				MinAmount: decimal.Zero,
				MaxAmount: decimalPtr(decimal.NewFromInt(100)),
				FeeRate:   decimal.RequireFromString("0.01"),
			},
			{
				MinAmount: decimal.NewFromInt(100),
				FeeRate:   decimal.RequireFromString("0.005"),
			},
		},
	}

	tests := []struct {
		name     string
		amount   string
		wantFee  string
		wantRate string
	}{
		{
			name:     "amount inside first tier",
			amount:   "50",
			wantFee:  "0.5",
			wantRate: "0.01",
		},
		{
			name:     "amount inside open-ended tier",
			amount:   "500",
			wantFee:  "2.5",
			wantRate: "0.005",
		},
		{
			name:     "boundary amount matches the earlier tier",
			amount:   "100",
			wantFee:  "1",
			wantRate: "0.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.CalculateFee(decimal.RequireFromString(tt.amount))
			assertDecimalEqual(t, tt.wantFee, got.Fee)
			if assert.NotNil(t, got.FeeRate) {
				assertDecimalEqual(t, tt.wantRate, *got.FeeRate)
			}
		})
	}
}

func TestFeeConfig_CalculateFee_TieredNoMatch(t *testing.T) {
	cfg := domain.FeeConfig{
		FeeType: domain.FeeTiered,
		TieredRates: []domain.FeeTier{
			{
				MinAmount: decimal.NewFromInt(100),
				FeeRate:   decimal.RequireFromString("0.01"),
			},
		},
	}

	got := cfg.CalculateFee(decimal.NewFromInt(50))

	assertDecimalEqual(t, "0", got.Fee)
	assertDecimalEqual(t, "50", got.NetAmount)
	assert.Nil(t, got.FeeRate)
}

func TestFeeConfig_CalculateFee_Clamping(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.FeeConfig
		amount  string
		wantFee string
	}{
		{
			name: "min fee raises a small percentage fee",
			cfg: domain.FeeConfig{
				FeeType: domain.FeePercentage,
				BaseFee: decimal.RequireFromString("0.003"),
				MinFee:  decimal.NewFromInt(10),
			},
			amount:  "100",
			wantFee: "10",
		},
		{
			name: "max fee caps a large percentage fee",
			cfg: domain.FeeConfig{
				FeeType: domain.FeePercentage,
				BaseFee: decimal.RequireFromString("0.01"),
				MaxFee:  decimalPtr(decimal.NewFromInt(50)),
			},
			amount:  "100000",
			wantFee: "50",
		},
		{
			name: "max below min wins because min clamps first",
			cfg: domain.FeeConfig{
				FeeType: domain.FeePercentage,
				BaseFee: decimal.RequireFromString("0.003"),
				MinFee:  decimal.NewFromInt(10),
				MaxFee:  decimalPtr(decimal.NewFromInt(5)),
			},
			amount:  "100",
			wantFee: "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.CalculateFee(decimal.RequireFromString(tt.amount))
			assertDecimalEqual(t, tt.wantFee, got.Fee)
		})
	}
}

func TestFeeConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.FeeConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid percentage config",
			cfg: domain.FeeConfig{
				FeeType: domain.FeePercentage,
				BaseFee: decimal.RequireFromString("0.003"),
			},
			wantErr: false,
		},
		{
			name: "percentage config with tiers",
			cfg: domain.FeeConfig{
				FeeType:     domain.FeePercentage,
				TieredRates: []domain.FeeTier{{FeeRate: decimal.RequireFromString("0.01")}},
			},
			wantErr: true,
			errMsg:  "must not define tiers",
		},
		{
			name: "tiered config without tiers",
			cfg: domain.FeeConfig{
				FeeType: domain.FeeTiered,
			},
			wantErr: true,
			errMsg:  "requires at least one tier",
		},
		{
			name: "tier with inverted bounds",
			cfg: domain.FeeConfig{
				FeeType: domain.FeeTiered,
				TieredRates: []domain.FeeTier{
					{
						MinAmount: decimal.NewFromInt(100),
						MaxAmount: decimalPtr(decimal.NewFromInt(10)),
						FeeRate:   decimal.RequireFromString("0.01"),
					},
				},
			},
			wantErr: true,
			errMsg:  "maxAmount below minAmount",
		},
		{
			name: "negative base fee",
			cfg: domain.FeeConfig{
				FeeType: domain.FeeFixed,
				BaseFee: decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "cannot be negative",
		},
		{
			name: "unknown fee type",
			cfg: domain.FeeConfig{
				FeeType: domain.FeeType("SURGE"),
			},
			wantErr: true,
			errMsg:  "unknown fee type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeeConfig_IsCurrentAt(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		cfg  domain.FeeConfig
		want bool
	}{
		{
			name: "active inside window",
			cfg: domain.FeeConfig{
				IsActive:  true,
				ValidFrom: now.Add(-time.Hour),
			},
			want: true,
		},
		{
			name: "inactive",
			cfg: domain.FeeConfig{
				IsActive:  false,
				ValidFrom: now.Add(-time.Hour),
			},
			want: false,
		},
		{
			name: "not yet effective",
			cfg: domain.FeeConfig{
				IsActive:  true,
				ValidFrom: now.Add(time.Hour),
			},
			want: false,
		},
		{
			name: "expired",
			cfg: domain.FeeConfig{
				IsActive:  true,
				ValidFrom: now.Add(-2 * time.Hour),
				ValidTo:   timePtr(now.Add(-time.Hour)),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.IsCurrentAt(now))
		})
	}
}

func TestParseSwapType(t *testing.T) {
	got, err := domain.ParseSwapType("XRP_TO_IOU")
	assert.NoError(t, err)
	assert.Equal(t, domain.SwapTypeXRPToIOU, got)

	_, err = domain.ParseSwapType("IOU_TO_IOU")
	assert.Error(t, err)
}

// Helper functions
func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}
