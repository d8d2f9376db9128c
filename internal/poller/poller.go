package poller

import (
	"context"
	"reflect"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

// Snapshot is one observed state of the shared store.
type Snapshot struct {
	Event     *models.EventConfig
	Drinks    []models.Drink
	Orders    []models.Order
	CoinCodes []models.CoinCode
}

// Poller re-reads the store on a fixed interval and publishes a snapshot
// whenever the observed state differs structurally from the previous one.
// It is the only mechanism by which one terminal sees another terminal's
// committed writes.
type Poller struct {
	store    store.Store
	interval time.Duration
	updates  chan Snapshot
	logger   *zap.Logger
}

// New creates a poller. Intervals at or below zero fall back to 2 seconds.
func New(st store.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		store:    st,
		interval: interval,
		updates:  make(chan Snapshot, 1),
		logger:   util.GetLogger(),
	}
}

// Updates delivers changed snapshots. The channel holds the latest unread
// snapshot; a slow consumer sees the freshest state, not every
// intermediate one.
func (p *Poller) Updates() <-chan Snapshot {
	return p.updates
}

// Start polls until the context is cancelled. The first successful read is
// always published so consumers begin from current state. Start may be
// called again with a fresh context after it returns.
func (p *Poller) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last *Snapshot
	p.logger.Info("Sync poller started", zap.Duration("interval", p.interval))

	for {
		snap, err := p.readSnapshot(ctx)
		util.PollCyclesTotal.Inc()
		if err != nil {
			p.logger.Warn("Poll read failed", zap.Error(err))
		} else if last == nil || !reflect.DeepEqual(*last, *snap) {
			last = snap
			util.PollChangesTotal.Inc()
			p.publish(*snap)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Sync poller stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) readSnapshot(ctx context.Context) (*Snapshot, error) {
	event, err := p.store.GetEvent(ctx)
	if err != nil {
		return nil, err
	}
	drinks, err := p.store.ListDrinks(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := p.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	codes, err := p.store.ListCoinCodes(ctx)
	if err != nil {
		return nil, err
	}

	// List order is backend-dependent; sort so equality compares content.
	sort.Slice(drinks, func(i, j int) bool { return drinks[i].ID < drinks[j].ID })
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Timestamp.Equal(orders[j].Timestamp) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].Timestamp.Before(orders[j].Timestamp)
	})
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })

	return &Snapshot{
		Event:     event,
		Drinks:    drinks,
		Orders:    orders,
		CoinCodes: codes,
	}, nil
}

// publish replaces any unread snapshot with the fresh one.
func (p *Poller) publish(snap Snapshot) {
	for {
		select {
		case p.updates <- snap:
			return
		default:
			select {
			case <-p.updates:
			default:
			}
		}
	}
}
