package reviews

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"reviewhub/pkg/models"
)

const (
	// ListCacheKey prefixes the cached list; the entry lives under
	// ListCacheKey + ":" + generation.
	ListCacheKey = "reviewhub:reviews:list"
	// GenerationKey is bumped after every successful create.
	GenerationKey = "reviewhub:reviews:gen"
)

type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CachedStore keeps the full list in a cache, keyed by a generation that
// every successful create bumps. List reads the generation before it
// queries the store, so a snapshot taken before a create can only land
// under a key nobody reads any more. Cache failures are logged and
// bypassed.
type CachedStore struct {
	Store  Store
	Cache  ListCache
	TTL    time.Duration
	Logger *slog.Logger

	// creates whose generation bump failed; while non-zero List skips
	// the cache until a bump goes through
	failedBumps atomic.Int64
}

func NewCachedStore(store Store, cache ListCache, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{Store: store, Cache: cache, TTL: ttl, Logger: logger}
}

func listKey(gen int64) string {
	return ListCacheKey + ":" + strconv.FormatInt(gen, 10)
}

func (s *CachedStore) Create(ctx context.Context, in models.NewReview) (*models.Review, error) {
	review, err := s.Store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	gen, err := s.Cache.Incr(ctx, GenerationKey)
	if err != nil {
		s.failedBumps.Add(1)
		s.Logger.Warn("review list cache invalidation failed", "err", err)
		return review, nil
	}
	if err := s.Cache.Delete(ctx, listKey(gen-1)); err != nil {
		s.Logger.Debug("review list cache cleanup failed", "err", err)
	}
	return review, nil
}

func (s *CachedStore) List(ctx context.Context) ([]models.Review, error) {
	key, ok := s.currentKey(ctx)
	if !ok {
		return s.Store.List(ctx)
	}

	b, hit, err := s.Cache.Get(ctx, key)
	switch {
	case err != nil:
		s.Logger.Warn("review list cache read failed", "err", err)
	case hit:
		var out []models.Review
		if err := json.Unmarshal(b, &out); err == nil && out != nil {
			return out, nil
		}
		s.Logger.Warn("review list cache entry unreadable, refetching")
	}

	out, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	b, err = json.Marshal(out)
	if err != nil {
		s.Logger.Warn("review list cache encode failed", "err", err)
		return out, nil
	}
	if err := s.Cache.Set(ctx, key, b, s.TTL); err != nil {
		s.Logger.Warn("review list cache write failed", "err", err)
	}
	return out, nil
}

// currentKey returns the list key for the current generation. ok is false
// when the cache must be skipped for this call.
func (s *CachedStore) currentKey(ctx context.Context) (string, bool) {
	if pending := s.failedBumps.Load(); pending > 0 {
		if _, err := s.Cache.Incr(ctx, GenerationKey); err != nil {
			return "", false
		}
		// another create may have failed its bump meanwhile
		if !s.failedBumps.CompareAndSwap(pending, 0) {
			return "", false
		}
	}

	b, ok, err := s.Cache.Get(ctx, GenerationKey)
	if err != nil {
		s.Logger.Warn("review list cache generation read failed", "err", err)
		return "", false
	}
	var gen int64
	if ok {
		gen, err = strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			s.Logger.Warn("review list cache generation unreadable", "err", err)
			return "", false
		}
	}
	return listKey(gen), true
}
