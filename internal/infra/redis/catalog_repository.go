package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"vyna-tutor-agent/internal/domain"
)

// CatalogLoader fetches a topic's question pool from a backing store.
type CatalogLoader interface {
	LoadTopic(ctx context.Context, topic string) (domain.TopicSet, error)
}

// CatalogRepository caches topic sets in Redis (one JSON value per topic)
// and falls back to a loader on cache miss.
// Topic sets are stored as: SET catalog:topic:{topic} {json} EX {ttl}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetTopic(ctx context.Context, topic string) (domain.TopicSet, error) {
	key := r.topicKey(topic)

	if set, ok := r.fromCache(ctx, key); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(topic, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.fromCache(ctx, key); ok {
			return set, nil
		}

		set, err := r.loader.LoadTopic(ctx, topic)
		if err != nil {
			return domain.TopicSet{}, err
		}

		if data, err := json.Marshal(set); err == nil {
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return set, nil
	})
	if err != nil {
		return domain.TopicSet{}, err
	}
	return result.(domain.TopicSet), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context, key string) (domain.TopicSet, bool) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return domain.TopicSet{}, false
	}
	var set domain.TopicSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return domain.TopicSet{}, false
	}
	return set, true
}

func (r *CatalogRepository) topicKey(topic string) string {
	return "catalog:topic:" + topic
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
