package recommender

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

const missingImageRef = "none"

type PromptBuilder struct {
	images   ImageResolver
	template prompts.PromptTemplate
}

func NewPromptBuilder(images ImageResolver) *PromptBuilder {
	return &PromptBuilder{
		images: images,
		template: prompts.NewPromptTemplate(
			RecommendationPromptTemplate,
			[]string{"mood", "catalog", "relative_prefix", "storage_base_url", "placeholder", "example"},
		),
	}
}

// Build renders the recommendation prompt for mood over dishes. It fails with
// ErrInvalidInput before doing any work when mood is blank or dishes is empty.
func (b *PromptBuilder) Build(mood string, dishes []Dish) (string, error) {
	if strings.TrimSpace(mood) == "" {
		return "", fmt.Errorf("%w: mood text is required", ErrInvalidInput)
	}
	if len(dishes) == 0 {
		return "", fmt.Errorf("%w: no dishes to recommend from", ErrInvalidInput)
	}

	prompt, err := b.template.Format(map[string]any{
		"mood":             mood,
		"catalog":          createCatalogSummary(dishes),
		"relative_prefix":  b.images.RelativePrefix,
		"storage_base_url": b.images.StorageBaseURL,
		"placeholder":      b.images.Placeholder,
		"example":          RecommendationExample,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	return prompt, nil
}

func createCatalogSummary(dishes []Dish) string {
	var summary strings.Builder

	var current string
	for i, dish := range dishes {
		key := dish.RestaurantID + "\x00" + dish.RestaurantName + "\x00" + dish.RestaurantAddress
		if i == 0 || key != current {
			if i > 0 {
				summary.WriteString("\n")
			}
			summary.WriteString(restaurantHeader(dish))
			summary.WriteString("\n")
			current = key
		}

		summary.WriteString(dishLine(dish))
		summary.WriteString("\n")
	}

	return summary.String()
}

func restaurantHeader(d Dish) string {
	return fmt.Sprintf("%s - %s", d.RestaurantName, d.RestaurantAddress)
}

func dishLine(d Dish) string {
	ref := strings.TrimSpace(d.ImageRef)
	if ref == "" {
		ref = missingImageRef
	}

	return fmt.Sprintf("- %s (%s): %s (%s) [image ref: %s]", d.Name, d.Category, d.Description, formatPrice(d.Price), ref)
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}
