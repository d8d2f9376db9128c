package store

import (
	"context"
	"sync"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
)

// MemoryStore keeps every collection in process memory. It is the default
// backend and the one the tests run against.
type MemoryStore struct {
	mu          sync.Mutex
	event       *models.EventConfig
	drinks      map[string]models.Drink
	orders      map[string]models.Order
	coinCodes   map[string]models.CoinCode
	currentUser *models.User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drinks:    make(map[string]models.Drink),
		orders:    make(map[string]models.Order),
		coinCodes: make(map[string]models.CoinCode),
	}
}

func (m *MemoryStore) GetEvent(ctx context.Context) (*models.EventConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.event == nil {
		return nil, nil
	}
	event := *m.event
	return &event, nil
}

func (m *MemoryStore) SetEvent(ctx context.Context, event models.EventConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.event = &event
	return nil
}

func (m *MemoryStore) ListDrinks(ctx context.Context) ([]models.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drinks := make([]models.Drink, 0, len(m.drinks))
	for _, d := range m.drinks {
		drinks = append(drinks, copyDrink(d))
	}
	return drinks, nil
}

func (m *MemoryStore) GetDrink(ctx context.Context, id string) (*models.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drinks[id]
	if !ok {
		return nil, nil
	}
	d = copyDrink(d)
	return &d, nil
}

func (m *MemoryStore) UpsertDrink(ctx context.Context, drink models.Drink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drinks[drink.ID] = copyDrink(drink)
	return nil
}

func (m *MemoryStore) DeleteDrink(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drinks, id)
	return nil
}

func (m *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *MemoryStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *MemoryStore) UpsertOrder(ctx context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MemoryStore) ListCoinCodes(ctx context.Context) ([]models.CoinCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := make([]models.CoinCode, 0, len(m.coinCodes))
	for _, c := range m.coinCodes {
		codes = append(codes, copyCoinCode(c))
	}
	return codes, nil
}

func (m *MemoryStore) GetCoinCode(ctx context.Context, code string) (*models.CoinCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coinCodes[code]
	if !ok {
		return nil, nil
	}
	c = copyCoinCode(c)
	return &c, nil
}

func (m *MemoryStore) UpsertCoinCode(ctx context.Context, code models.CoinCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coinCodes[code.Code] = copyCoinCode(code)
	return nil
}

func (m *MemoryStore) CurrentUser(ctx context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentUser == nil {
		return nil, nil
	}
	user := *m.currentUser
	return &user, nil
}

func (m *MemoryStore) SetCurrentUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = &user
	return nil
}

func (m *MemoryStore) ClearCurrentUser(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = nil
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func copyDrink(d models.Drink) models.Drink {
	d.Ingredients = append([]string(nil), d.Ingredients...)
	return d
}

func copyCoinCode(c models.CoinCode) models.CoinCode {
	c.RedeemedBy = append([]string(nil), c.RedeemedBy...)
	return c
}
