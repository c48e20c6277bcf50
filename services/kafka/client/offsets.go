package client

import (
	"context"
	"fmt"
	"time"
)

// OffsetsForTime returns, for every partition in order, the earliest offset whose timestamp is
// greater than or equal to t. Partitions with no such message resolve to their end offset.
func (c *Client) OffsetsForTime(ctx context.Context, topic string, partitions []int, t time.Time) ([]int64, error) {
	offsets := make([]int64, 0, len(partitions))
	for _, partition := range partitions {
		offset, err := c.offsetForTime(ctx, topic, partition, t)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, offset)
	}
	return offsets, nil
}

func (c *Client) offsetForTime(ctx context.Context, topic string, partition int, t time.Time) (int64, error) {
	conn, err := c.dialer.DialLeader(ctx, c.network, c.address, topic, partition)
	if err != nil {
		return 0, fmt.Errorf("could not dial leader of %s[%d]: %w", topic, partition, err)
	}
	defer closeAsync(conn)

	offset, err := withContext(ctx, func() (int64, error) {
		offset, err := conn.ReadOffset(t)
		if err == nil && offset < 0 {
			return conn.ReadLastOffset()
		}
		return offset, err
	})
	if err != nil {
		if ctx.Err() != nil {
			return 0, err
		}
		return 0, fmt.Errorf("could not read offset of %s[%d]: %w", topic, partition, err)
	}
	c.debugf("Offset of %s[%d] at %s is %d", topic, partition, t.Format(time.RFC3339Nano), offset)
	return offset, nil
}
