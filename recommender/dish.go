package recommender

import (
	"github.com/imkonsowa/vibe-eats/models"
)

// Dish is one menu item joined with its restaurant. ID is a sequence number
// assigned at flatten time and only means something within one request.
type Dish struct {
	ID                int
	MenuItemID        string
	RestaurantID      string
	RestaurantName    string
	RestaurantAddress string
	Name              string
	Description       string
	Category          string
	Price             float64
	ImageRef          string
}

func FlattenDishes(restaurants []models.RestaurantWithMenuItems) []Dish {
	var dishes []Dish
	for _, r := range restaurants {
		for _, item := range r.MenuItems {
			price := item.Price
			if price < 0 {
				price = 0
			}

			dishes = append(dishes, Dish{
				ID:                len(dishes) + 1,
				MenuItemID:        item.ID,
				RestaurantID:      r.Restaurant.ID,
				RestaurantName:    r.Restaurant.Name,
				RestaurantAddress: r.Restaurant.Address,
				Name:              item.Name,
				Description:       item.Description,
				Category:          item.Category,
				Price:             price,
				ImageRef:          item.ImageURL,
			})
		}
	}

	return dishes
}
