package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

var (
	ErrInsufficientCoins = errors.New("not enough coins for this drink")
	ErrOrderNotFound     = errors.New("order not found")
)

// OrderService drives the order lifecycle: creation (which debits the
// guest's balance) and the forward-only status pipeline advanced by the
// kitchen.
type OrderService struct {
	store  store.Store
	logger *zap.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(st store.Store) *OrderService {
	return &OrderService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// PlaceOrder debits the drink's cost from the user and appends a pending
// order carrying a snapshot of the drink and the guest. The debited balance
// is persisted before the order is written; on a failed precondition
// nothing is mutated.
func (s *OrderService) PlaceOrder(ctx context.Context, user *models.User, drink models.Drink) (*models.Order, error) {
	if user.Coins < drink.Cost {
		util.OrdersRejectedTotal.WithLabelValues("insufficient_coins").Inc()
		return nil, ErrInsufficientCoins
	}

	user.Coins -= drink.Cost
	if err := s.store.SetCurrentUser(ctx, *user); err != nil {
		user.Coins += drink.Cost
		return nil, fmt.Errorf("failed to persist coin debit: %w", err)
	}

	order := models.Order{
		ID:         uuid.New().String(),
		DrinkID:    drink.ID,
		DrinkName:  drink.Name,
		DrinkImage: drink.ImageURL,
		UserID:     user.ID,
		UserName:   user.Name,
		Status:     models.StatusPending,
		Timestamp:  time.Now(),
	}

	if err := s.store.UpsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("drink", drink.Name),
		zap.String("user_id", user.ID),
		zap.Int("cost", drink.Cost),
		zap.Int("coins_left", user.Coins))

	return &order, nil
}

// Advance moves an order one step along pending→preparing→ready→delivered.
// Advancing a delivered order is a no-op returning the order unchanged.
func (s *OrderService) Advance(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == models.StatusDelivered {
		return order, nil
	}

	order.Status = order.Status.Next()
	if err := s.store.UpsertOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to persist status: %w", err)
	}

	util.OrdersAdvancedTotal.WithLabelValues(string(order.Status)).Inc()
	s.logger.Info("Order advanced",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)))

	return order, nil
}

// ListForUser returns the given guest's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	mine := orders[:0:0]
	for _, o := range orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		return mine[i].Timestamp.After(mine[j].Timestamp)
	})
	return mine, nil
}

// ListActive returns every undelivered order, oldest first, so the kitchen
// works the queue in FIFO order.
func (s *OrderService) ListActive(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	active := orders[:0:0]
	for _, o := range orders {
		if o.Status != models.StatusDelivered {
			active = append(active, o)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Timestamp.Before(active[j].Timestamp)
	})
	return active, nil
}
