package reviews

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"reviewhub/pkg/models"
)

var errStoreDown = errors.New("connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory Store with switchable failures.
type memStore struct {
	mu        sync.Mutex
	items     []models.Review
	nextID    int64
	base      time.Time
	createErr error
	listErr   error
	creates   int
	lists     int
}

func newMemStore() *memStore {
	return &memStore{base: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (s *memStore) Create(_ context.Context, in models.NewReview) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	r := models.Review{
		ID:        s.nextID,
		Email:     in.Email,
		Rating:    in.Rating,
		Text:      in.Text,
		CreatedAt: s.base.Add(time.Duration(s.nextID) * time.Second),
	}
	s.items = append(s.items, r)
	return &r, nil
}

func (s *memStore) List(_ context.Context) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Review, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []models.Review
}

func (p *recordingPublisher) PublishCreated(r models.Review) {
	p.mu.Lock()
	p.created = append(p.created, r)
	p.mu.Unlock()
}

// mapCache is an in-memory ListCache with switchable failures.
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failAll error
	incrErr error
	deletes int
	incrs   int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll != nil {
		return nil, false, c.failAll
	}
	b, ok := c.data[key]
	return b, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll != nil {
		return c.failAll
	}
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	if c.failAll != nil {
		return c.failAll
	}
	delete(c.data, key)
	return nil
}

func (c *mapCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll != nil {
		return 0, c.failAll
	}
	if c.incrErr != nil {
		return 0, c.incrErr
	}
	c.incrs++
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
