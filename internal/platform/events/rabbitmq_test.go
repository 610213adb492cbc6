package events

import (
	"context"
	"testing"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestRoutingKey(t *testing.T) {
	testCases := []struct {
		name     string
		result   domain.SwapResult
		expected string
	}{
		{
			name: "successful xrp to iou swap",
			result: domain.SwapResult{
				SwapType: domain.SwapTypeXRPToIOU,
				Status:   domain.SwapSucceeded,
			},
			expected: "swap.xrp_to_iou.succeeded",
		},
		{
			name: "partial iou to xrp swap",
			result: domain.SwapResult{
				SwapType: domain.SwapTypeIOUToXRP,
				Status:   domain.SwapPartial,
			},
			expected: "swap.iou_to_xrp.partial",
		},
		{
			name: "failed transfer",
			result: domain.SwapResult{
				SwapType: domain.SwapTypeTransfer,
				Status:   domain.SwapFailed,
			},
			expected: "swap.transfer.failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, routingKey(tc.result))
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()

	err := pub.PublishSwapResult(context.Background(), domain.SwapResult{
		SwapID:   "swap-1",
		SwapType: domain.SwapTypeTransfer,
		Status:   domain.SwapSucceeded,
	})
	assert.NoError(t, err)
	assert.NoError(t, pub.Close())
}
