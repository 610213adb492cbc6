package events

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsevents "github.com/2025XRRPKOREA/api-server/internal/core/ports/events"
)

// noopPublisher discards every event. Used when no broker URL is configured
// so the swap pipeline never has to care whether eventing is enabled.
type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops all events.
func NewNoopPublisher() portsevents.Publisher {
	return noopPublisher{}
}

// Ensure noopPublisher implements the portsevents.Publisher interface
var _ portsevents.Publisher = (*noopPublisher)(nil)

func (noopPublisher) PublishSwapResult(_ context.Context, _ domain.SwapResult) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
