// Package cache keeps the latest successful backend result per logical resource.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value    interface{}
	storedAt time.Time
	stale    bool
}

// Service is the request-result cache. Values are replaced whole, never merged.
type Service struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*entry
	gen     map[string]uint64 // bumped by Invalidate; fetches started earlier store stale
	group   singleflight.Group
	now     func() time.Time
	logger  arbor.ILogger
}

// NewService creates a cache. ttl <= 0 means every Do refetches.
func NewService(ttl time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		ttl:     ttl,
		entries: make(map[string]*entry),
		gen:     make(map[string]uint64),
		now:     time.Now,
		logger:  logger,
	}
}

var _ interfaces.CacheService = (*Service)(nil)

// Do returns a fresh cached value or fetches one. Callers of the same key share one fetch;
// each caller still returns early when its own ctx ends.
func (s *Service) Do(ctx context.Context, key string, force bool, fetch interfaces.FetchFunc) (interface{}, error) {
	if !force {
		if value, ok := s.fresh(key); ok {
			return value, nil
		}
	}

	s.mu.RLock()
	generation := s.gen[key]
	s.mu.RUnlock()

	// The shared fetch must outlive the caller that happened to start it
	fetchCtx := context.WithoutCancel(ctx)
	flightKey := fmt.Sprintf("%s#%d", key, generation)

	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		start := s.now()
		value, err := fetch(fetchCtx)
		if err != nil {
			s.logger.Debug().Str("key", key).Err(err).Msg("Cache fetch failed, keeping previous value")
			return nil, err
		}
		s.storeGeneration(key, value, generation)
		s.logger.Debug().Str("key", key).Dur("duration", s.now().Sub(start)).Msg("Cache refreshed")
		return value, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) fresh(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.stale || s.ttl <= 0 {
		return nil, false
	}
	if s.now().Sub(e.storedAt) > s.ttl {
		return nil, false
	}
	return e.value, true
}

// Load returns the stored value even when it is stale
func (s *Service) Load(key string) (interface{}, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	return e.value, e.storedAt, true
}

// storeGeneration writes value as fetched under generation; a later Invalidate leaves it stale
func (s *Service) storeGeneration(key string, value interface{}, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{
		value:    value,
		storedAt: s.now(),
		stale:    s.gen[key] != generation,
	}
}

// Invalidate marks keys stale; the next Do for each key refetches.
func (s *Service) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.gen[key]++
		if e, ok := s.entries[key]; ok {
			e.stale = true
		}
	}
	s.logger.Debug().Strs("keys", keys).Msg("Cache invalidated")
}

// Fetch is the typed form of Do.
func Fetch[T any](ctx context.Context, c interfaces.CacheService, key string, force bool, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.Do(ctx, key, force, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T, not %T", key, value, zero)
	}
	return typed, nil
}

// Peek returns the stored value for key when it has type T.
func Peek[T any](c interfaces.CacheService, key string) (T, bool) {
	var zero T
	value, _, ok := c.Load(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}
