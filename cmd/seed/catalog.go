package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/imkonsowa/vibe-eats/models"
)

type CatalogFile struct {
	Restaurants []RestaurantEntry `json:"restaurants" validate:"required,min=1,dive"`
}

type RestaurantEntry struct {
	Name           string          `json:"name" validate:"required"`
	Address        string          `json:"address" validate:"required"`
	BannerImageURL string          `json:"banner_image_url"`
	MenuItems      []MenuItemEntry `json:"menu_items" validate:"dive"`
}

type MenuItemEntry struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
}

func ReadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}

	return &file, nil
}

func (c *CatalogFile) Validate() error {
	return validator.New().Struct(c)
}

func (c *CatalogFile) ToModels() []models.RestaurantWithMenuItems {
	restaurants := make([]models.RestaurantWithMenuItems, len(c.Restaurants))
	for i, r := range c.Restaurants {
		restaurants[i] = models.RestaurantWithMenuItems{
			Restaurant: models.Restaurant{
				Name:           r.Name,
				Address:        r.Address,
				BannerImageURL: r.BannerImageURL,
			},
			MenuItems: make([]models.MenuItem, len(r.MenuItems)),
		}

		for j, m := range r.MenuItems {
			restaurants[i].MenuItems[j] = models.MenuItem{
				Name:        m.Name,
				Description: m.Description,
				Category:    m.Category,
				Price:       m.Price,
				ImageURL:    m.ImageURL,
			}
		}
	}

	return restaurants
}
