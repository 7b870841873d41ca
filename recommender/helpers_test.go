package recommender

import (
	"context"
	"sync"

	"github.com/imkonsowa/vibe-eats/models"
	"github.com/tmc/langchaingo/llms"
)

const testStorageBase = "https://storage.example.com/images"

func testImages() ImageResolver {
	return NewImageResolver(testStorageBase, "/", "/placeholder.svg")
}

func testCatalog() []models.RestaurantWithMenuItems {
	return []models.RestaurantWithMenuItems{
		{
			Restaurant: models.Restaurant{ID: "r-1", Name: "The Rustic Olive", Address: "123 Main St, Raleigh, NC"},
			MenuItems: []models.MenuItem{
				{ID: "m-1", Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Category: "Pizza", Price: 14.5, ImageURL: "/dishes/pizza.jpg"},
				{ID: "m-2", Name: "Lasagna", Description: "Layered beef ragu", Category: "Pasta", Price: 17},
			},
		},
		{
			Restaurant: models.Restaurant{ID: "r-2", Name: "The Daily Grind", Address: "9 Oak Ave"},
			MenuItems: []models.MenuItem{
				{ID: "m-3", Name: "Avocado Toast", Description: "Sourdough, smashed avocado", Category: "Breakfast", Price: 9.25, ImageURL: "https://cdn.example.com/toast.png"},
				{ID: "m-4", Name: "Green Smoothie", Description: "Spinach, banana, oat milk", Category: "Drinks", Price: 6},
			},
		},
	}
}

type stubGenerator struct {
	mu        sync.Mutex
	responses []stubResponse
	calls     int
	messages  [][]llms.MessageContent
	options   []llms.CallOptions
}

type stubResponse struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	s.messages = append(s.messages, messages)
	s.options = append(s.options, opts)

	resp := s.responses[min(s.calls, len(s.responses)-1)]
	s.calls++

	if resp.err != nil {
		return nil, resp.err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: resp.text}},
	}, nil
}

func (s *stubGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type stubCatalog struct {
	restaurants []models.RestaurantWithMenuItems
	err         error
	calls       int
}

func (s *stubCatalog) ListRestaurantsWithMenuItems(context.Context) ([]models.RestaurantWithMenuItems, error) {
	s.calls++
	return s.restaurants, s.err
}

type stubCompleter struct {
	text   string
	err    error
	calls  int
	prompt string
}

func (s *stubCompleter) RequestCompletion(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.text, s.err
}
