package memory

import (
	"context"
	"testing"
	"time"

	"vyna-tutor-agent/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(map[string]domain.TopicSet{
			"fractions": sampleTopic(),
		}),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetTopic(context.Background(), "fractions"); err != nil {
		t.Fatalf("get topic: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetTopic(context.Background(), "fractions"); err != nil {
		t.Fatalf("get topic 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderUnknownTopic(t *testing.T) {
	loader := NewStaticCatalogLoader(map[string]domain.TopicSet{})
	if _, err := loader.LoadTopic(context.Background(), "fractions"); err != domain.ErrTopicNotFound {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadTopic(ctx context.Context, topic string) (domain.TopicSet, error) {
	l.calls++
	return l.CatalogLoader.LoadTopic(ctx, topic)
}

func sampleTopic() domain.TopicSet {
	return domain.TopicSet{
		Topic: "fractions",
		Questions: []domain.QuizQuestion{
			{
				ID:            "q1",
				QuestionText:  "What is 1/2 + 1/4?",
				Options:       []string{"A) 2/6", "B) 3/4", "C) 1/6", "D) 2/4"},
				CorrectAnswer: "B",
			},
		},
	}
}
