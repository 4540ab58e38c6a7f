package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vyna-tutor-agent/internal/domain"
)

// CatalogLoader loads topic question sets stored as JSONB in Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadTopic(ctx context.Context, topic string) (domain.TopicSet, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM catalog_topics WHERE topic=$1`, topic).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TopicSet{}, domain.ErrTopicNotFound
	}
	if err != nil {
		return domain.TopicSet{}, fmt.Errorf("load topic: %w", err)
	}
	var set domain.TopicSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return domain.TopicSet{}, fmt.Errorf("unmarshal topic: %w", err)
	}
	return set, nil
}
