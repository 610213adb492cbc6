// Package events defines the outbound port for settlement events. Swap
// outcomes, partial ones above all, are published for downstream
// reconciliation tooling.
package events

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
)

// Publisher emits settlement events to the message broker.
type Publisher interface {
	// PublishSwapResult emits the outcome of a swap attempt. Publishing is
	// best effort; a broker outage must never fail the swap itself.
	PublishSwapResult(ctx context.Context, result domain.SwapResult) error

	// Close releases the broker connection.
	Close() error
}
