package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

var ErrDrinkNotFound = errors.New("drink not found")

// DrinkService manages the admin-owned catalog. Orders hold snapshots of
// drink name and image, so edits and deletions never touch placed orders.
type DrinkService struct {
	store     store.Store
	generator DescriptionGenerator
	logger    *zap.Logger
}

// NewDrinkService creates a new catalog service.
func NewDrinkService(st store.Store, generator DescriptionGenerator) *DrinkService {
	if generator == nil {
		generator = TemplateGenerator{}
	}
	return &DrinkService{
		store:     st,
		generator: generator,
		logger:    util.GetLogger(),
	}
}

// Save creates or updates a drink. A blank ID gets a fresh one; a blank
// description is filled by the generator, degrading to the deterministic
// template when generation fails.
func (s *DrinkService) Save(ctx context.Context, drink models.Drink) (*models.Drink, error) {
	if drink.ID == "" {
		drink.ID = uuid.New().String()
	}

	if drink.Description == "" {
		desc, err := s.generator.Generate(ctx, drink.Name, drink.Ingredients)
		if err != nil {
			util.DescriptionFallbacksTotal.Inc()
			s.logger.Warn("Description generation failed, using template",
				zap.String("drink", drink.Name),
				zap.Error(err))
			desc = FallbackDescription(drink.Name, drink.Ingredients)
		}
		drink.Description = desc
	}

	if err := drink.Validate(); err != nil {
		return nil, fmt.Errorf("invalid drink: %w", err)
	}

	if err := s.store.UpsertDrink(ctx, drink); err != nil {
		return nil, fmt.Errorf("failed to persist drink: %w", err)
	}

	s.logger.Info("Drink saved",
		zap.String("drink_id", drink.ID),
		zap.String("name", drink.Name),
		zap.Int("cost", drink.Cost))

	return &drink, nil
}

// Delete removes a drink from the catalog.
func (s *DrinkService) Delete(ctx context.Context, id string) error {
	drink, err := s.store.GetDrink(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load drink: %w", err)
	}
	if drink == nil {
		return ErrDrinkNotFound
	}
	if err := s.store.DeleteDrink(ctx, id); err != nil {
		return fmt.Errorf("failed to delete drink: %w", err)
	}
	s.logger.Info("Drink deleted", zap.String("drink_id", id))
	return nil
}

// Get returns one drink, or ErrDrinkNotFound.
func (s *DrinkService) Get(ctx context.Context, id string) (*models.Drink, error) {
	drink, err := s.store.GetDrink(ctx, id)
	if err != nil {
		return nil, err
	}
	if drink == nil {
		return nil, ErrDrinkNotFound
	}
	return drink, nil
}

// List returns the whole catalog.
func (s *DrinkService) List(ctx context.Context) ([]models.Drink, error) {
	return s.store.ListDrinks(ctx)
}

// SeedCatalog loads a small demo menu when the catalog is empty.
func (s *DrinkService) SeedCatalog(ctx context.Context) error {
	existing, err := s.store.ListDrinks(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []models.Drink{
		{
			ID:          uuid.New().String(),
			Name:        "Neon Sunset",
			ShortDesc:   "Fruity and refreshing",
			Description: "A burst of citrus with a smooth grenadine finish. Perfect to start the night.",
			Ingredients: []string{"Vodka", "Orange Juice", "Grenadine", "Ice"},
			ImageURL:    "https://picsum.photos/400/400?random=1",
			Cost:        1,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Dark Matter",
			ShortDesc:   "Strong and intense",
			Description: "Espresso blended with coffee liqueur and premium vodka. For those who need energy.",
			Ingredients: []string{"Vodka", "Coffee Liqueur", "Espresso", "Coffee Beans"},
			ImageURL:    "https://picsum.photos/400/400?random=2",
			Cost:        1,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Electric Blue",
			ShortDesc:   "Tart and vibrant",
			Description: "Blue curaçao brings the electric color, balanced with sicilian lemon and soda.",
			Ingredients: []string{"Gin", "Blue Curaçao", "Lemon", "Soda"},
			ImageURL:    "https://picsum.photos/400/400?random=3",
			Cost:        1,
		},
	}

	for _, d := range seeds {
		if err := s.store.UpsertDrink(ctx, d); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	s.logger.Info("Catalog seeded", zap.Int("count", len(seeds)))
	return nil
}
