package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
)

const (
	keyEvent       = "th_drinks:event"
	keyCurrentUser = "th_drinks:current_user"
	keyDrinks      = "th_drinks:drinks"
	keyOrders      = "th_drinks:orders"
	keyCoinCodes   = "th_drinks:coin_codes"
)

// RedisStore keeps each collection in a Redis hash keyed by record
// identifier, with plain keys for the two singletons. Per-record HSET means
// two terminals updating different records never overwrite each other.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func (r *RedisStore) getSingleton(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("corrupt record at %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisStore) setSingleton(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, data, 0).Err()
}

func (r *RedisStore) getHashField(ctx context.Context, key, field string, dest interface{}) (bool, error) {
	data, err := r.rdb.HGet(ctx, key, field).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("corrupt record at %s/%s: %w", key, field, err)
	}
	return true, nil
}

func (r *RedisStore) setHashField(ctx context.Context, key, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, key, field, data).Err()
}

func (r *RedisStore) GetEvent(ctx context.Context) (*models.EventConfig, error) {
	var event models.EventConfig
	found, err := r.getSingleton(ctx, keyEvent, &event)
	if err != nil || !found {
		return nil, err
	}
	return &event, nil
}

func (r *RedisStore) SetEvent(ctx context.Context, event models.EventConfig) error {
	return r.setSingleton(ctx, keyEvent, event)
}

func (r *RedisStore) ListDrinks(ctx context.Context) ([]models.Drink, error) {
	entries, err := r.rdb.HGetAll(ctx, keyDrinks).Result()
	if err != nil {
		return nil, err
	}
	drinks := make([]models.Drink, 0, len(entries))
	for field, raw := range entries {
		var d models.Drink
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("corrupt record at %s/%s: %w", keyDrinks, field, err)
		}
		drinks = append(drinks, d)
	}
	return drinks, nil
}

func (r *RedisStore) GetDrink(ctx context.Context, id string) (*models.Drink, error) {
	var d models.Drink
	found, err := r.getHashField(ctx, keyDrinks, id, &d)
	if err != nil || !found {
		return nil, err
	}
	return &d, nil
}

func (r *RedisStore) UpsertDrink(ctx context.Context, drink models.Drink) error {
	return r.setHashField(ctx, keyDrinks, drink.ID, drink)
}

func (r *RedisStore) DeleteDrink(ctx context.Context, id string) error {
	return r.rdb.HDel(ctx, keyDrinks, id).Err()
}

func (r *RedisStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	entries, err := r.rdb.HGetAll(ctx, keyOrders).Result()
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(entries))
	for field, raw := range entries {
		var o models.Order
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return nil, fmt.Errorf("corrupt record at %s/%s: %w", keyOrders, field, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *RedisStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	found, err := r.getHashField(ctx, keyOrders, id, &o)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

func (r *RedisStore) UpsertOrder(ctx context.Context, order models.Order) error {
	return r.setHashField(ctx, keyOrders, order.ID, order)
}

func (r *RedisStore) ListCoinCodes(ctx context.Context) ([]models.CoinCode, error) {
	entries, err := r.rdb.HGetAll(ctx, keyCoinCodes).Result()
	if err != nil {
		return nil, err
	}
	codes := make([]models.CoinCode, 0, len(entries))
	for field, raw := range entries {
		var c models.CoinCode
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("corrupt record at %s/%s: %w", keyCoinCodes, field, err)
		}
		codes = append(codes, c)
	}
	return codes, nil
}

func (r *RedisStore) GetCoinCode(ctx context.Context, code string) (*models.CoinCode, error) {
	var c models.CoinCode
	found, err := r.getHashField(ctx, keyCoinCodes, code, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *RedisStore) UpsertCoinCode(ctx context.Context, code models.CoinCode) error {
	return r.setHashField(ctx, keyCoinCodes, code.Code, code)
}

func (r *RedisStore) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	found, err := r.getSingleton(ctx, keyCurrentUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *RedisStore) SetCurrentUser(ctx context.Context, user models.User) error {
	return r.setSingleton(ctx, keyCurrentUser, user)
}

func (r *RedisStore) ClearCurrentUser(ctx context.Context) error {
	return r.rdb.Del(ctx, keyCurrentUser).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
