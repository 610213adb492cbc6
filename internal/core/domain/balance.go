package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is one trust line balance the ledger reports for an account.
type Balance struct {
	Currency string          `json:"currency"`
	Issuer   string          `json:"issuer,omitempty"`
	Value    decimal.Decimal `json:"balance"`
}

// IssuanceReport summarizes the outstanding issued supply of a currency at
// one point in time.
type IssuanceReport struct {
	Currency    string          `json:"currency"`
	Issuer      string          `json:"issuer"`
	TotalIssued decimal.Decimal `json:"totalIssued"`
	HolderCount int             `json:"holderCount"`
	Lines       []Balance       `json:"lines,omitempty"`
	AsOf        time.Time       `json:"asOf"`
}

// NewIssuanceReport derives the outstanding supply summary from the
// issuer's trust lines.
func NewIssuanceReport(currency, issuer string, lines []Balance, asOf time.Time) IssuanceReport {
	report := IssuanceReport{
		Currency: currency,
		Issuer:   issuer,
		AsOf:     asOf,
	}
	for _, line := range lines {
		if line.Currency != currency {
			continue
		}
		report.Lines = append(report.Lines, line)
		if line.Value.IsNegative() {
			report.HolderCount++
		}
	}
	report.TotalIssued = TotalIssued(lines, currency)
	return report
}

// TotalIssued sums the absolute value of the negative balances for the given
// currency across the issuer's trust lines. The issuer's side of a line goes
// negative as tokens are issued, so the total owed to holders is the sum of
// those magnitudes. Positive lines are holdings, not issuance, and are
// skipped.
func TotalIssued(lines []Balance, currency string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Currency != currency {
			continue
		}
		if line.Value.IsNegative() {
			total = total.Add(line.Value.Abs())
		}
	}
	return total
}
