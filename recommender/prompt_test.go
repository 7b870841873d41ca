package recommender

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenDishes(t *testing.T) {
	dishes := FlattenDishes(testCatalog())
	require.Len(t, dishes, 4)

	for i, d := range dishes {
		assert.Equal(t, i+1, d.ID)
	}
	assert.Equal(t, "Margherita Pizza", dishes[0].Name)
	assert.Equal(t, "The Rustic Olive", dishes[0].RestaurantName)
	assert.Equal(t, "123 Main St, Raleigh, NC", dishes[0].RestaurantAddress)
	assert.Equal(t, "/dishes/pizza.jpg", dishes[0].ImageRef)
	assert.Equal(t, "Green Smoothie", dishes[3].Name)
	assert.Equal(t, "The Daily Grind", dishes[3].RestaurantName)
	assert.Equal(t, "m-4", dishes[3].MenuItemID)
}

func TestBuildPromptContainsMoodAndEveryDish(t *testing.T) {
	mood := "I'm stressed and need comfort food"
	dishes := FlattenDishes(testCatalog())

	prompt, err := NewPromptBuilder(testImages()).Build(mood, dishes)
	require.NoError(t, err)

	assert.Contains(t, prompt, mood)
	assert.Contains(t, prompt, "The Rustic Olive - 123 Main St, Raleigh, NC\n")
	assert.Contains(t, prompt, "The Daily Grind - 9 Oak Ave\n")

	for _, line := range []string{
		"- Margherita Pizza (Pizza): Tomato, mozzarella, basil ($14.50) [image ref: /dishes/pizza.jpg]",
		"- Lasagna (Pasta): Layered beef ragu ($17.00) [image ref: none]",
		"- Avocado Toast (Breakfast): Sourdough, smashed avocado ($9.25) [image ref: https://cdn.example.com/toast.png]",
		"- Green Smoothie (Drinks): Spinach, banana, oat milk ($6.00) [image ref: none]",
	} {
		assert.Equal(t, 1, strings.Count(prompt, line), "missing or repeated line %q", line)
	}

	assert.Contains(t, prompt, "between 8 and 10")
	assert.Contains(t, prompt, `"distance"`)
	assert.Contains(t, prompt, testStorageBase)
	assert.Contains(t, prompt, "/placeholder.svg")
	assert.Contains(t, prompt, RecommendationExample)
}

func TestBuildPromptKeepsMoodVerbatim(t *testing.T) {
	mood := `feeling "curious" & <adventurous>`

	prompt, err := NewPromptBuilder(testImages()).Build(mood, FlattenDishes(testCatalog()))
	require.NoError(t, err)
	assert.Contains(t, prompt, mood)
}

func TestBuildPromptMissingFields(t *testing.T) {
	prompt, err := NewPromptBuilder(testImages()).Build("hungry", []Dish{{ID: 1}})
	require.NoError(t, err)

	assert.Contains(t, prompt, " - \n")
	assert.Contains(t, prompt, "-  ():  ($0.00) [image ref: none]")
}

func TestBuildPromptRejectsInvalidInput(t *testing.T) {
	builder := NewPromptBuilder(testImages())
	dishes := FlattenDishes(testCatalog())

	tests := []struct {
		name   string
		mood   string
		dishes []Dish
	}{
		{name: "empty mood", mood: "", dishes: dishes},
		{name: "blank mood", mood: " \t\n ", dishes: dishes},
		{name: "no dishes", mood: "happy", dishes: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := builder.Build(tt.mood, tt.dishes)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, prompt)
		})
	}
}
