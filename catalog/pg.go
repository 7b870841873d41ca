package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/imkonsowa/vibe-eats/config"
	"github.com/imkonsowa/vibe-eats/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pg is the relational catalog of restaurants and their menu items. Despite
// the name it runs on sqlite as well, which is what local runs and tests use.
type Pg struct {
	db *gorm.DB
}

func newLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

func Open(cfg *config.Config) (*Pg, error) {
	var dialector gorm.Dialector
	switch cfg.Catalog.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Postgres.ConnStr())
	case "sqlite":
		dialector = sqlite.Open(cfg.Catalog.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", cfg.Catalog.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s catalog: %w", cfg.Catalog.Driver, err)
	}

	return &Pg{db: db}, nil
}

func New(db *gorm.DB) *Pg {
	return &Pg{db: db}
}

func (s *Pg) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Restaurant{}, &models.MenuItem{}); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}

	return nil
}

func (s *Pg) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// ListRestaurantsWithMenuItems returns every restaurant with all of its menu
// items. Restaurants and items keep insertion order.
func (s *Pg) ListRestaurantsWithMenuItems(ctx context.Context) ([]models.RestaurantWithMenuItems, error) {
	var restaurants []models.Restaurant
	if err := s.db.WithContext(ctx).
		Order("created_at, id").
		Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	if len(restaurants) == 0 {
		return nil, nil
	}

	restaurantIDs := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		restaurantIDs = append(restaurantIDs, r.ID)
	}

	var menuItems []models.MenuItem
	if err := s.db.WithContext(ctx).
		Where("restaurant_id IN ?", restaurantIDs).
		Order("created_at, id").
		Find(&menuItems).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	menuItemsByRestaurant := make(map[string][]models.MenuItem)
	for _, item := range menuItems {
		menuItemsByRestaurant[item.RestaurantID] = append(
			menuItemsByRestaurant[item.RestaurantID],
			item,
		)
	}

	results := make([]models.RestaurantWithMenuItems, 0, len(restaurants))
	for _, restaurant := range restaurants {
		results = append(results, models.RestaurantWithMenuItems{
			Restaurant: restaurant,
			MenuItems:  menuItemsByRestaurant[restaurant.ID],
		})
	}

	return results, nil
}

func (s *Pg) Create(
	ctx context.Context,
	items []models.RestaurantWithMenuItems,
) error {
	if len(items) == 0 {
		return fmt.Errorf("no restaurants provided")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			restaurant := item.Restaurant
			if err := tx.Create(&restaurant).Error; err != nil {
				return fmt.Errorf("failed to create restaurant %q: %w", restaurant.Name, err)
			}

			if len(item.MenuItems) == 0 {
				continue
			}

			menuItems := make([]models.MenuItem, 0, len(item.MenuItems))
			for _, menuItem := range item.MenuItems {
				menuItem.RestaurantID = restaurant.ID
				menuItems = append(menuItems, menuItem)
			}

			if err := tx.Create(&menuItems).Error; err != nil {
				return fmt.Errorf("failed to create menu items for %q: %w", restaurant.Name, err)
			}
		}

		return nil
	})
}
