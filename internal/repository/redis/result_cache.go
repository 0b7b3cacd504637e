package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
)

func resultKey(hash string) string { return "adjudication:" + hash }

// ResultCache stores adjudication results zstd-compressed with a TTL.
type ResultCache struct {
	c   *Client
	ttl time.Duration
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewResultCache creates a cache on c. A zero ttl keeps entries forever.
func NewResultCache(c *Client, ttl time.Duration) (*ResultCache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ResultCache{c: c, ttl: ttl, enc: enc, dec: dec}, nil
}

// Get returns the cached result for hash, or nil, nil when there is none.
func (r *ResultCache) Get(ctx context.Context, hash string) ([]byte, error) {
	data, err := r.c.rdb.Get(ctx, resultKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	out, err := r.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress result: %w", err)
	}
	return out, nil
}

// Set stores a result under hash.
func (r *ResultCache) Set(ctx context.Context, hash string, value []byte) error {
	return r.c.rdb.Set(ctx, resultKey(hash), r.enc.EncodeAll(value, nil), r.ttl).Err()
}

// Delete removes a cached result.
func (r *ResultCache) Delete(ctx context.Context, hash string) error {
	return r.c.rdb.Del(ctx, resultKey(hash)).Err()
}

// Close releases the decoder's resources.
func (r *ResultCache) Close() {
	r.dec.Close()
}
