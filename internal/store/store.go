package store

import (
	"context"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
)

// Store is the persistence boundary shared by every terminal. Records are
// read and written individually, keyed by identifier, so two sessions
// mutating different records never clobber each other's writes.
//
// Singleton lookups (event, current user) and record lookups return
// (nil, nil) when the record is absent; callers decide whether absence is
// an error.
type Store interface {
	GetEvent(ctx context.Context) (*models.EventConfig, error)
	SetEvent(ctx context.Context, event models.EventConfig) error

	ListDrinks(ctx context.Context) ([]models.Drink, error)
	GetDrink(ctx context.Context, id string) (*models.Drink, error)
	UpsertDrink(ctx context.Context, drink models.Drink) error
	DeleteDrink(ctx context.Context, id string) error

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpsertOrder(ctx context.Context, order models.Order) error

	ListCoinCodes(ctx context.Context) ([]models.CoinCode, error)
	GetCoinCode(ctx context.Context, code string) (*models.CoinCode, error)
	UpsertCoinCode(ctx context.Context, code models.CoinCode) error

	CurrentUser(ctx context.Context) (*models.User, error)
	SetCurrentUser(ctx context.Context, user models.User) error
	ClearCurrentUser(ctx context.Context) error

	Close() error
}
