package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	channelKeyPrefix = "console:channel:"
	channelIndexKey  = "console:channels"
)

// RedisMirror keeps a write-through copy of the canonical channel state in
// Redis so a restarted console can warm-start with the last known view
// instead of an empty dashboard. It is an optional layer: the reconciler
// works identically without it.
type RedisMirror struct {
	rdb *redis.Client
}

func NewRedisMirror(rdb *redis.Client) *RedisMirror {
	return &RedisMirror{rdb: rdb}
}

func (m *RedisMirror) StoreChannel(ctx context.Context, ch Channel) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal channel %s: %w", ch.Key(), err)
	}
	pipe := m.rdb.TxPipeline()
	pipe.Set(ctx, channelKeyPrefix+ch.Key(), data, 0)
	pipe.SAdd(ctx, channelIndexKey, ch.Key())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store channel %s: %w", ch.Key(), err)
	}
	return nil
}

// LoadChannels reads every mirrored channel. Entries that fail to decode
// are skipped; a stale mirror should never block startup.
func (m *RedisMirror) LoadChannels(ctx context.Context) ([]Channel, error) {
	keys, err := m.rdb.SMembers(ctx, channelIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load channel index: %w", err)
	}
	// SMembers order is unspecified; sort for a stable restore order.
	sort.Strings(keys)

	out := make([]Channel, 0, len(keys))
	for _, key := range keys {
		data, err := m.rdb.Get(ctx, channelKeyPrefix+key).Bytes()
		if err != nil {
			continue
		}
		var ch Channel
		if err := json.Unmarshal(data, &ch); err != nil {
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

// Flush removes every mirrored channel.
func (m *RedisMirror) Flush(ctx context.Context) error {
	keys, err := m.rdb.SMembers(ctx, channelIndexKey).Result()
	if err != nil {
		return err
	}
	pipe := m.rdb.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, channelKeyPrefix+key)
	}
	pipe.Del(ctx, channelIndexKey)
	_, err = pipe.Exec(ctx)
	return err
}
