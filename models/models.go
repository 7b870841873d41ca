package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	BannerImageURL string    `json:"banner_image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *Restaurant) TableName() string {
	return "restaurants"
}

func (r *Restaurant) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}

func (r *Restaurant) Stringify() string {
	return fmt.Sprintf("%s - %s", r.Name, r.Address)
}

type MenuItem struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:uuid;index" json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m *MenuItem) TableName() string {
	return "menu_items"
}

func (m *MenuItem) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	return nil
}

type RestaurantWithMenuItems struct {
	Restaurant Restaurant `json:"restaurant"`
	MenuItems  []MenuItem `json:"menu_items,omitempty"`
}
