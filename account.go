package anticaptcha

import (
	"context"
	"fmt"
)

// GetBalance returns the account balance in USD.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	var bal float64
	err := c.call(ctx, methodGetBalance, nil, func(data []byte) (err error) {
		bal, err = parseBalance(data)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("getBalance: %w", err)
	}
	return bal, nil
}

// IsBalanceGreaterThan reports whether the balance is strictly greater than amount.
func (c *Client) IsBalanceGreaterThan(ctx context.Context, amount float64) (bool, error) {
	bal, err := c.GetBalance(ctx)
	if err != nil {
		return false, err
	}
	return bal > amount, nil
}

// GetQueueStats returns worker-pool telemetry for a queue.
func (c *Client) GetQueueStats(ctx context.Context, queue QueueID) (*QueueStats, error) {
	var stats *QueueStats
	err := c.call(ctx, methodGetQueueStats, map[string]any{"queueId": int(queue)}, func(data []byte) (err error) {
		stats, err = parseQueueStats(data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getQueueStats %d: %w", queue, err)
	}
	return stats, nil
}
