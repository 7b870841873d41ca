package recommender

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinDistance = 1
	MaxDistance = 5
	MinRating   = 4.0
	MaxRating   = 5.0
)

type Recommendation struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Distance    int     `json:"distance"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
}

// candidate is one generated item before validation. Pointers tell a missing
// field apart from a zero value.
type candidate struct {
	ID          *float64 `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Image       *string  `json:"image"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Distance    *float64 `json:"distance"`
	Rating      *float64 `json:"rating"`
	Category    *string  `json:"category" validate:"required"`
}

type Normalizer struct {
	images   ImageResolver
	validate *validator.Validate
}

func NewNormalizer(images ImageResolver) *Normalizer {
	return &Normalizer{
		images:   images,
		validate: validator.New(),
	}
}

// StripCodeFence removes a leading ``` (optionally followed by a language tag)
// and a trailing ``` from s, then trims surrounding whitespace.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
		})
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// Normalize parses generated text into recommendations. The whole call fails
// with a *FormatError only when the text is not a JSON list; individual items
// that fail validation, or that name a dish not present in dishes, are dropped.
// Matched items take price and category from the dish. Order is preserved.
func (n *Normalizer) Normalize(raw string, dishes []Dish) ([]Recommendation, error) {
	items, err := parseItems(StripCodeFence(raw))
	if err != nil {
		return nil, err
	}

	known := indexDishes(dishes)

	recommendations := make([]Recommendation, 0, len(items))
	var invalid, unknown int
	for _, item := range items {
		var c candidate
		if err := json.Unmarshal(item, &c); err != nil {
			invalid++
			continue
		}

		c.Title = strings.TrimSpace(c.Title)
		if err := n.validate.Struct(c); err != nil {
			invalid++
			continue
		}

		rec := Recommendation{
			Title:       c.Title,
			Description: strings.TrimSpace(c.Description),
			Price:       *c.Price,
			Distance:    clampDistance(c.Distance),
			Rating:      clampRating(c.Rating),
			Category:    *c.Category,
		}

		if known != nil {
			dish, ok := known[dishKey(c.Title)]
			if !ok {
				unknown++
				continue
			}
			rec.Title = dish.Name
			rec.Price = dish.Price
			rec.Category = dish.Category
		}

		var image string
		if c.Image != nil {
			image = *c.Image
		}
		rec.Image = n.images.Resolve(image)

		rec.ID = len(recommendations) + 1
		if c.ID != nil && *c.ID >= 1 && *c.ID <= math.MaxInt32 && *c.ID == math.Trunc(*c.ID) {
			rec.ID = int(*c.ID)
		}

		recommendations = append(recommendations, rec)
	}

	if invalid > 0 || unknown > 0 {
		slog.Warn("dropped generated recommendations",
			"invalid", invalid,
			"unknown_dish", unknown,
			"kept", len(recommendations),
		)
	}

	return recommendations, nil
}

func parseItems(text string) ([]json.RawMessage, error) {
	data := []byte(text)

	var items []json.RawMessage
	err := json.Unmarshal(data, &items)
	if err == nil {
		if items == nil {
			return nil, &FormatError{Msg: "expected a JSON array, got null", Offset: -1}
		}
		return items, nil
	}

	// some models wrap the list in an object even when asked not to
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var wrapper struct {
			Recommendations []json.RawMessage `json:"recommendations"`
		}
		if json.Unmarshal(data, &wrapper) == nil && wrapper.Recommendations != nil {
			return wrapper.Recommendations, nil
		}
	}

	return nil, newFormatError(err)
}

func dishKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func indexDishes(dishes []Dish) map[string]Dish {
	if len(dishes) == 0 {
		return nil
	}

	index := make(map[string]Dish, len(dishes))
	for _, d := range dishes {
		key := dishKey(d.Name)
		if _, ok := index[key]; !ok {
			index[key] = d
		}
	}

	return index
}

func clampDistance(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return MinDistance
	}

	d := int(math.Round(*v))
	return min(max(d, MinDistance), MaxDistance)
}

func clampRating(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return MinRating
	}

	r := math.Round(*v*10) / 10
	return min(max(r, MinRating), MaxRating)
}
