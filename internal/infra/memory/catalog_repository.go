package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vyna-tutor-agent/internal/domain"
)

// CatalogLoader fetches a topic's question pool from a backing store.
type CatalogLoader interface {
	LoadTopic(ctx context.Context, topic string) (domain.TopicSet, error)
}

// CatalogRepository caches topic sets with TTL to avoid repeated loader hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedTopic
}

type cachedTopic struct {
	set       domain.TopicSet
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedTopic),
	}
}

func (r *CatalogRepository) GetTopic(ctx context.Context, topic string) (domain.TopicSet, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[topic]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.set, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(topic, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[topic]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.set, nil
		}
		r.mu.RUnlock()

		set, err := r.loader.LoadTopic(ctx, topic)
		if err != nil {
			return domain.TopicSet{}, err
		}

		r.mu.Lock()
		r.cache[topic] = cachedTopic{
			set:       set,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.TopicSet{}, err
	}
	return result.(domain.TopicSet), nil
}

// StaticCatalogLoader serves topics from an in-memory map (the built-in
// catalog, or fixtures in tests).
type StaticCatalogLoader struct {
	topics map[string]domain.TopicSet
}

func NewStaticCatalogLoader(topics map[string]domain.TopicSet) *StaticCatalogLoader {
	return &StaticCatalogLoader{topics: topics}
}

func (l *StaticCatalogLoader) LoadTopic(_ context.Context, topic string) (domain.TopicSet, error) {
	if set, ok := l.topics[topic]; ok {
		return set, nil
	}
	return domain.TopicSet{}, domain.ErrTopicNotFound
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
