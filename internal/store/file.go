package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
)

// fileState is the on-disk layout: one JSON document holding every
// collection, mirroring the browser-local storage the terminals originally
// shared.
type fileState struct {
	Event       *models.EventConfig `json:"event,omitempty"`
	Drinks      []models.Drink      `json:"drinks"`
	Orders      []models.Order      `json:"orders"`
	CoinCodes   []models.CoinCode   `json:"coin_codes"`
	CurrentUser *models.User        `json:"current_user,omitempty"`
}

// FileStore persists every collection in a single JSON file. The file is
// re-read on every operation so that other processes pointed at the same
// path observe committed state within one polling interval.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given path. The file is
// created on first write; a missing file reads as empty state.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	if _, err := fs.load(); err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return fs, nil
}

func (f *FileStore) load() (*fileState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &fileState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupt store file %s: %w", f.path, err)
	}
	return &state, nil
}

func (f *FileStore) save(state *fileState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// mutate runs fn against freshly loaded state and writes the result back.
func (f *FileStore) mutate(fn func(*fileState)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, err := f.load()
	if err != nil {
		return err
	}
	fn(state)
	return f.save(state)
}

func (f *FileStore) read() (*fileState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileStore) GetEvent(ctx context.Context) (*models.EventConfig, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	return state.Event, nil
}

func (f *FileStore) SetEvent(ctx context.Context, event models.EventConfig) error {
	return f.mutate(func(s *fileState) {
		s.Event = &event
	})
}

func (f *FileStore) ListDrinks(ctx context.Context) ([]models.Drink, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	return state.Drinks, nil
}

func (f *FileStore) GetDrink(ctx context.Context, id string) (*models.Drink, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	for i := range state.Drinks {
		if state.Drinks[i].ID == id {
			return &state.Drinks[i], nil
		}
	}
	return nil, nil
}

func (f *FileStore) UpsertDrink(ctx context.Context, drink models.Drink) error {
	return f.mutate(func(s *fileState) {
		for i := range s.Drinks {
			if s.Drinks[i].ID == drink.ID {
				s.Drinks[i] = drink
				return
			}
		}
		s.Drinks = append(s.Drinks, drink)
	})
}

func (f *FileStore) DeleteDrink(ctx context.Context, id string) error {
	return f.mutate(func(s *fileState) {
		kept := s.Drinks[:0]
		for _, d := range s.Drinks {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		s.Drinks = kept
	})
}

func (f *FileStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	return state.Orders, nil
}

func (f *FileStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	for i := range state.Orders {
		if state.Orders[i].ID == id {
			return &state.Orders[i], nil
		}
	}
	return nil, nil
}

func (f *FileStore) UpsertOrder(ctx context.Context, order models.Order) error {
	return f.mutate(func(s *fileState) {
		for i := range s.Orders {
			if s.Orders[i].ID == order.ID {
				s.Orders[i] = order
				return
			}
		}
		s.Orders = append(s.Orders, order)
	})
}

func (f *FileStore) ListCoinCodes(ctx context.Context) ([]models.CoinCode, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	return state.CoinCodes, nil
}

func (f *FileStore) GetCoinCode(ctx context.Context, code string) (*models.CoinCode, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	for i := range state.CoinCodes {
		if state.CoinCodes[i].Code == code {
			return &state.CoinCodes[i], nil
		}
	}
	return nil, nil
}

func (f *FileStore) UpsertCoinCode(ctx context.Context, code models.CoinCode) error {
	return f.mutate(func(s *fileState) {
		for i := range s.CoinCodes {
			if s.CoinCodes[i].Code == code.Code {
				s.CoinCodes[i] = code
				return
			}
		}
		s.CoinCodes = append(s.CoinCodes, code)
	})
}

func (f *FileStore) CurrentUser(ctx context.Context) (*models.User, error) {
	state, err := f.read()
	if err != nil {
		return nil, err
	}
	return state.CurrentUser, nil
}

func (f *FileStore) SetCurrentUser(ctx context.Context, user models.User) error {
	return f.mutate(func(s *fileState) {
		s.CurrentUser = &user
	})
}

func (f *FileStore) ClearCurrentUser(ctx context.Context) error {
	return f.mutate(func(s *fileState) {
		s.CurrentUser = nil
	})
}

func (f *FileStore) Close() error {
	return nil
}
