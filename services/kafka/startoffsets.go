package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/rudderlabs/rudder-purifier/sql/ast"
)

const (
	// TimeOffsetOption is the source option holding a time based start position, in milliseconds
	TimeOffsetOption = "kafka_time_offset"
	// StartOffsetOption is the source option holding one start offset per partition
	StartOffsetOption = "start_offset"
)

// LookupStartOffsets translates the kafka_time_offset option into one offset per partition of
// topic, in partition order. Negative values are relative to now. It returns false when the
// option is absent.
func LookupStartOffsets(
	ctx context.Context, consumer Consumer, topic string, options map[string]ast.Value, now time.Time,
) ([]int64, bool, error) {
	v, ok := options[TimeOffsetOption]
	if !ok {
		return nil, false, nil
	}
	if _, ok := options[StartOffsetOption]; ok {
		return nil, false, fmt.Errorf("`%s` and `%s` cannot be set at the same time", StartOffsetOption, TimeOffsetOption)
	}
	if _, ok := v.(ast.Number); !ok {
		return nil, false, fmt.Errorf("`%s` must be a number", TimeOffsetOption)
	}
	offset, err := cast.ToInt64E(v.String())
	if err != nil {
		return nil, false, fmt.Errorf("`%s` must be an integer: %w", TimeOffsetOption, err)
	}

	if offset < 0 {
		offset += now.UnixMilli()
		if offset < 0 {
			return nil, false, fmt.Errorf("relative `%s` must be smaller than current system timestamp", TimeOffsetOption)
		}
	}

	partitions, err := consumer.Partitions(ctx, topic)
	if err != nil {
		return nil, false, fmt.Errorf("fetching partitions of topic %q: %w", topic, err)
	}
	offsets, err := consumer.OffsetsForTime(ctx, topic, partitions, time.UnixMilli(offset))
	if err != nil {
		return nil, false, fmt.Errorf("looking up offsets of topic %q: %w", topic, err)
	}
	if len(offsets) != len(partitions) {
		return nil, false, fmt.Errorf("looking up offsets of topic %q: got %d offsets for %d partitions", topic, len(offsets), len(partitions))
	}
	return offsets, true, nil
}
