package bucket

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"lifecover/internal/ratelimit/models"
)

const (
	defaultShards             = 32
	defaultMaxBucketsPerShard = 10_000
)

// InMemoryBucketStore is a sliding-window limiter held in process memory.
// Keys are spread over shards by hash; each shard evicts its least recently
// used bucket once it holds maxPerShard keys. Counts are per process, so this
// store backs single-instance deployments and the Redis fallback.
type InMemoryBucketStore struct {
	shards      []*shard
	maxPerShard int
	now         func() time.Time
}

type shard struct {
	mu      sync.Mutex
	buckets map[string]*list.Element
	lru     *list.List
}

type slidingWindow struct {
	key        string
	timestamps []time.Time
}

type Option func(*InMemoryBucketStore)

func WithMaxBucketsPerShard(n int) Option {
	return func(s *InMemoryBucketStore) {
		if n > 0 {
			s.maxPerShard = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *InMemoryBucketStore) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *InMemoryBucketStore {
	s := &InMemoryBucketStore{
		maxPerShard: defaultMaxBucketsPerShard,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, defaultShards)
	for i := range s.shards {
		s.shards[i] = &shard{buckets: make(map[string]*list.Element), lru: list.New()}
	}
	return s
}

// Allow checks if a request is allowed and increments the counter.
func (s *InMemoryBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN records cost requests when they all fit in the window, or none.
func (s *InMemoryBucketStore) AllowN(_ context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	sw := sh.getOrCreate(key, s.maxPerShard)
	sw.cleanup(now, window)

	if len(sw.timestamps)+cost <= limit {
		for range cost {
			sw.timestamps = append(sw.timestamps, now)
		}
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(sw.timestamps),
			ResetAt:   sw.resetAt(now, window),
		}, nil
	}

	resetAt := sw.resetAt(now, window)
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(now, resetAt),
	}, nil
}

// Reset clears the rate limit counter for a key.
func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if el, ok := sh.buckets[key]; ok {
		sh.lru.Remove(el)
		delete(sh.buckets, key)
	}
	return nil
}

// GetCurrentCount returns the number of requests inside the window.
func (s *InMemoryBucketStore) GetCurrentCount(_ context.Context, key string, window time.Duration) (int, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	el, ok := sh.buckets[key]
	if !ok {
		return 0, nil
	}
	sw := el.Value.(*slidingWindow)
	sw.cleanup(s.now(), window)
	return len(sw.timestamps), nil
}

// Stats reports the total bucket count and the count held by each shard.
func (s *InMemoryBucketStore) Stats() (total int, perShard []int) {
	perShard = make([]int, len(s.shards))
	for i, sh := range s.shards {
		sh.mu.Lock()
		perShard[i] = len(sh.buckets)
		sh.mu.Unlock()
		total += perShard[i]
	}
	return total, perShard
}

func (s *InMemoryBucketStore) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// getOrCreate must be called with sh.mu held.
func (sh *shard) getOrCreate(key string, maxBuckets int) *slidingWindow {
	if el, ok := sh.buckets[key]; ok {
		sh.lru.MoveToFront(el)
		return el.Value.(*slidingWindow)
	}
	for sh.lru.Len() >= maxBuckets {
		oldest := sh.lru.Back()
		sh.lru.Remove(oldest)
		delete(sh.buckets, oldest.Value.(*slidingWindow).key)
	}
	sw := &slidingWindow{key: key}
	sh.buckets[key] = sh.lru.PushFront(sw)
	return sw
}

// cleanup drops timestamps at or before now-window.
func (sw *slidingWindow) cleanup(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// resetAt is when the oldest counted request leaves the window.
func (sw *slidingWindow) resetAt(now time.Time, window time.Duration) time.Time {
	if len(sw.timestamps) == 0 {
		return now.Add(window)
	}
	return sw.timestamps[0].Add(window)
}

func retryAfterSeconds(now, resetAt time.Time) int {
	d := resetAt.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
