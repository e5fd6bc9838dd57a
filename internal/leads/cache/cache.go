// Package cache keeps the last fetched lead snapshot in Redis so that queue
// refreshes of several operators do not all hit the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/queue"
	"leadqueue_backend/internal/leads/scheduling"
	"leadqueue_backend/platform/logger"
)

const (
	snapshotKey   = "leads:snapshot:v1"
	generationKey = "leads:snapshot:gen"
)

// errStaleSnapshot means a write invalidated the cache while the snapshot was
// being fetched.
var errStaleSnapshot = errors.New("lead snapshot invalidated during fetch")

// Store decorates a queue.Store with a read-through snapshot cache. Every
// successful write drops the cached snapshot and bumps a generation counter;
// a fetched snapshot is only cached when the generation it was read under is
// still current.
type Store struct {
	next  queue.Store
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// New wraps next. A nil client or non-positive ttl disables caching.
func New(next queue.Store, client *redis.Client, ttl time.Duration, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{next: next, redis: client, ttl: ttl, log: log}
}

func (s *Store) enabled() bool {
	return s.redis != nil && s.ttl > 0
}

// FetchLeads serves the cached snapshot when present.
func (s *Store) FetchLeads(ctx context.Context) ([]domain.Lead, error) {
	var generation string
	cacheable := false
	if s.enabled() {
		if data, err := s.redis.Get(ctx, snapshotKey).Bytes(); err == nil {
			var leads []domain.Lead
			if json.Unmarshal(data, &leads) == nil {
				return leads, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("lead cache read failed", "error", err)
		}
		generation, cacheable = s.generation(ctx)
	}

	leads, err := s.next.FetchLeads(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.store(ctx, generation, leads)
	}
	return leads, nil
}

func (s *Store) generation(ctx context.Context) (string, bool) {
	gen, err := s.redis.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		s.log.Warn("lead cache generation read failed", "error", err)
		return "", false
	}
	return gen, true
}

// store caches leads unless a write bumped the generation since it was read.
func (s *Store) store(ctx context.Context, generation string, leads []domain.Lead) {
	payload, err := json.Marshal(leads)
	if err != nil {
		return
	}

	err = s.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, snapshotKey, payload, s.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		s.log.Debug("lead snapshot not cached; invalidated during fetch")
	default:
		s.log.Warn("lead cache write failed", "error", err)
	}
}

func (s *Store) PersistStatus(ctx context.Context, leadID, status string) error {
	if err := s.next.PersistStatus(ctx, leadID, status); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *Store) PersistObservation(ctx context.Context, payload scheduling.SavePayload) error {
	if err := s.next.PersistObservation(ctx, payload); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *Store) ReassignLead(ctx context.Context, leadID string, userID *string) error {
	if err := s.next.ReassignLead(ctx, leadID, userID); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached snapshot and bumps the generation so that
// fetches already in flight do not cache what they read.
func (s *Store) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, snapshotKey)
		return nil
	})
	if err != nil {
		s.log.Warn("lead cache invalidation failed", "error", err)
	}
}

var _ queue.Store = (*Store)(nil)
