package domain_test

import (
	"testing"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPermissionDomain_Evaluate(t *testing.T) {
	tests := []struct {
		name        string
		dom         domain.PermissionDomain
		address     string
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "whitelist allows listed address",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainWhitelist,
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice", KYCStatus: domain.KYCPending}},
			},
			address:     "rAlice",
			wantAllowed: true,
			wantReason:  "address is whitelisted",
		},
		{
			name: "whitelist denies unlisted address",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainWhitelist,
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice"}},
			},
			address:     "rBob",
			wantAllowed: false,
			wantReason:  "address is not whitelisted",
		},
		{
			name: "whitelist with requireKYC denies pending entry",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainWhitelist,
				Settings:   domain.DomainSettings{RequireKYC: true},
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice", KYCStatus: domain.KYCPending}},
			},
			address:     "rAlice",
			wantAllowed: false,
			wantReason:  "KYC verification required",
		},
		{
			name: "whitelist with requireKYC allows verified entry",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainWhitelist,
				Settings:   domain.DomainSettings{RequireKYC: true},
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice", KYCStatus: domain.KYCVerified}},
			},
			address:     "rAlice",
			wantAllowed: true,
			wantReason:  "address is whitelisted",
		},
		{
			name: "blacklist allows unlisted address",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainBlacklist,
				Blacklist:  []domain.BlacklistEntry{{Address: "rMallory"}},
			},
			address:     "rAlice",
			wantAllowed: true,
			wantReason:  "address is not blacklisted",
		},
		{
			name: "blacklist denies listed address with reason",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainBlacklist,
				Blacklist:  []domain.BlacklistEntry{{Address: "rMallory", Reason: "sanctions"}},
			},
			address:     "rMallory",
			wantAllowed: false,
			wantReason:  "address is blacklisted: sanctions",
		},
		{
			name: "blacklist entry overrides whitelist membership",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainWhitelist,
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice", KYCStatus: domain.KYCVerified}},
				Blacklist:  []domain.BlacklistEntry{{Address: "rAlice"}},
			},
			address:     "rAlice",
			wantAllowed: false,
			wantReason:  "address is blacklisted",
		},
		{
			name: "kyc_required denies unlisted address",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainKYCRequired,
			},
			address:     "rAlice",
			wantAllowed: false,
			wantReason:  "address is not whitelisted",
		},
		{
			name: "kyc_required denies rejected entry",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainKYCRequired,
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice", KYCStatus: domain.KYCRejected}},
			},
			address:     "rAlice",
			wantAllowed: false,
			wantReason:  "KYC verification required",
		},
		{
			name: "kyc_required allows verified entry",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainKYCRequired,
				Whitelist:  []domain.WhitelistEntry{{Address: "rAlice", KYCStatus: domain.KYCVerified}},
			},
			address:     "rAlice",
			wantAllowed: true,
			wantReason:  "KYC verified",
		},
		{
			name: "unknown domain type allows",
			dom: domain.PermissionDomain{
				DomainType: domain.DomainType("greylist"),
			},
			address:     "rAlice",
			wantAllowed: true,
			wantReason:  "no enforceable policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dom.Evaluate(tt.address)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.dom.DomainType, got.DomainType)
		})
	}
}

func TestPermissionDomain_FindEntries(t *testing.T) {
	dom := domain.PermissionDomain{
		Whitelist: []domain.WhitelistEntry{{Address: "rAlice"}, {Address: "rBob"}},
		Blacklist: []domain.BlacklistEntry{{Address: "rMallory"}},
	}

	entry := dom.FindWhitelistEntry("rBob")
	if assert.NotNil(t, entry) {
		assert.Equal(t, "rBob", entry.Address)
	}
	assert.Nil(t, dom.FindWhitelistEntry("rCarol"))

	bl := dom.FindBlacklistEntry("rMallory")
	assert.NotNil(t, bl)
	assert.Nil(t, dom.FindBlacklistEntry("rAlice"))
}

func TestParseDomainType(t *testing.T) {
	got, err := domain.ParseDomainType("kyc_required")
	assert.NoError(t, err)
	assert.Equal(t, domain.DomainKYCRequired, got)

	_, err = domain.ParseDomainType("allowlist")
	assert.Error(t, err)
}

func TestParseKYCStatus(t *testing.T) {
	got, err := domain.ParseKYCStatus("VERIFIED")
	assert.NoError(t, err)
	assert.Equal(t, domain.KYCVerified, got)

	_, err = domain.ParseKYCStatus("verified")
	assert.Error(t, err)
}
