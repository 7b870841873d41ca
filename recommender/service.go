package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imkonsowa/vibe-eats/models"
)

type Catalog interface {
	ListRestaurantsWithMenuItems(ctx context.Context) ([]models.RestaurantWithMenuItems, error)
}

type Completer interface {
	RequestCompletion(ctx context.Context, prompt string) (string, error)
}

// Service runs one recommendation request: catalog read, prompt, generation,
// normalization. It holds no per-request state and is safe for concurrent use.
type Service struct {
	catalog    Catalog
	prompts    *PromptBuilder
	requester  Completer
	normalizer *Normalizer
}

func NewService(catalog Catalog, prompts *PromptBuilder, requester Completer, normalizer *Normalizer) *Service {
	return &Service{
		catalog:    catalog,
		prompts:    prompts,
		requester:  requester,
		normalizer: normalizer,
	}
}

func (s *Service) Recommend(ctx context.Context, mood string) ([]Recommendation, error) {
	if strings.TrimSpace(mood) == "" {
		return nil, fmt.Errorf("%w: mood text is required", ErrInvalidInput)
	}

	restaurants, err := s.catalog.ListRestaurantsWithMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(restaurants) == 0 {
		return nil, ErrEmptyCatalog
	}

	dishes := FlattenDishes(restaurants)
	if len(dishes) == 0 {
		return nil, ErrEmptyCatalog
	}

	prompt, err := s.prompts.Build(mood, dishes)
	if err != nil {
		return nil, err
	}

	slog.Info("requesting recommendations",
		"mood_length", len(mood),
		"restaurants", len(restaurants),
		"dishes", len(dishes),
	)

	raw, err := s.requester.RequestCompletion(ctx, prompt)
	if err != nil {
		slog.Error("generation request failed", "error", err)
		return nil, err
	}

	recommendations, err := s.normalizer.Normalize(raw, dishes)
	if err != nil {
		slog.Error("failed to normalize generated response", "error", err)
		return nil, err
	}

	slog.Info("recommendations ready", "count", len(recommendations))

	return recommendations, nil
}
