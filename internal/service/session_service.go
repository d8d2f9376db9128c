package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

var (
	ErrNotAuthenticated = errors.New("no active session")
	ErrSessionExpired   = errors.New("session expired: the event has ended")
	ErrWrongRole        = errors.New("session role not allowed on this surface")
	ErrNoActiveEvent    = errors.New("no active event")
	ErrEventEnded       = errors.New("the event has already ended")
	ErrNameRequired     = errors.New("a name is required")
)

// SessionOptions carries the gate's tunables.
type SessionOptions struct {
	StartingCoins      int    // balance granted to a fresh guest
	EventDurationHours int    // default window when the admin bootstraps the event
	KitchenCodeword    string // reserved login name for the kitchen terminal
}

// DefaultSessionOptions mirrors the original deployment: 3 starting coins,
// 5 hour events, "cozinha" as the kitchen codeword.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		StartingCoins:      3,
		EventDurationHours: 5,
		KitchenCodeword:    "cozinha",
	}
}

// SessionService is the gate in front of every protected action: it
// resolves the current user, expires guest sessions once the event window
// closes, and checks the role a surface requires.
type SessionService struct {
	store  store.Store
	opts   SessionOptions
	logger *zap.Logger
}

// NewSessionService creates a new session gate.
func NewSessionService(st store.Store, opts SessionOptions) *SessionService {
	if opts.StartingCoins <= 0 {
		opts.StartingCoins = 3
	}
	if opts.EventDurationHours <= 0 {
		opts.EventDurationHours = 5
	}
	if opts.KitchenCodeword == "" {
		opts.KitchenCodeword = "cozinha"
	}
	return &SessionService{
		store:  st,
		opts:   opts,
		logger: util.GetLogger(),
	}
}

// Current resolves the active user. Guests whose event window has closed
// are force-logged-out and reported as expired.
func (s *SessionService) Current(ctx context.Context) (*models.User, error) {
	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if user.Role == models.RoleGuest {
		event, err := s.store.GetEvent(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load event: %w", err)
		}
		if event != nil && event.Expired(time.Now()) {
			if err := s.store.ClearCurrentUser(ctx); err != nil {
				return nil, fmt.Errorf("failed to clear expired session: %w", err)
			}
			util.SessionsExpiredTotal.Inc()
			s.logger.Info("Guest session expired", zap.String("user_id", user.ID))
			return nil, ErrSessionExpired
		}
	}

	return user, nil
}

// Require resolves the current user and checks the surface's role. On a
// role mismatch the user is returned alongside ErrWrongRole so the caller
// can redirect to that role's own surface instead of failing destructively.
func (s *SessionService) Require(ctx context.Context, role models.Role) (*models.User, error) {
	user, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return user, ErrWrongRole
	}
	return user, nil
}

// LoginGuest starts a guest session bound to the active event. It fails
// when no event exists or the event window has already closed.
func (s *SessionService) LoginGuest(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	event, err := s.store.GetEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, ErrNoActiveEvent
	}
	if event.Expired(time.Now()) {
		return nil, ErrEventEnded
	}

	user := models.User{
		ID:      uuid.New().String(),
		Name:    name,
		Role:    models.RoleGuest,
		Coins:   s.opts.StartingCoins,
		EventID: event.ID,
	}
	if err := s.store.SetCurrentUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	util.GuestLoginsTotal.Inc()
	s.logger.Info("Guest logged in",
		zap.String("user_id", user.ID),
		zap.String("name", name))

	return &user, nil
}

// AdminLoginRequest carries the event fields used when the first admin
// login bootstraps the event.
type AdminLoginRequest struct {
	Name          string
	EventName     string
	EventLocation string
	EventTheme    models.Theme
}

// LoginAdmin starts an admin session, creating the event on first login.
// Entering the kitchen codeword as the name starts the kitchen pseudo
// identity instead.
func (s *SessionService) LoginAdmin(ctx context.Context, req AdminLoginRequest) (*models.User, error) {
	if strings.EqualFold(strings.TrimSpace(req.Name), s.opts.KitchenCodeword) {
		user := models.User{
			ID:      "kitchen",
			Name:    "Cozinha",
			Role:    models.RoleKitchen,
			Coins:   0,
			EventID: "admin",
		}
		if err := s.store.SetCurrentUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
		s.logger.Info("Kitchen terminal logged in")
		return &user, nil
	}

	event, err := s.store.GetEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		now := time.Now()
		created := models.EventConfig{
			ID:            uuid.New().String(),
			Name:          req.EventName,
			Location:      req.EventLocation,
			Date:          now.Format("02/01/2006"),
			Theme:         req.EventTheme,
			StartTime:     now,
			DurationHours: s.opts.EventDurationHours,
		}
		if created.Theme == "" {
			created.Theme = models.ThemeClean
		}
		if err := created.Validate(); err != nil {
			return nil, fmt.Errorf("invalid event: %w", err)
		}
		if err := s.store.SetEvent(ctx, created); err != nil {
			return nil, fmt.Errorf("failed to persist event: %w", err)
		}
		event = &created
		s.logger.Info("Event created",
			zap.String("event_id", created.ID),
			zap.String("name", created.Name),
			zap.String("theme", string(created.Theme)))
	}

	user := models.User{
		ID:      "admin",
		Name:    "Administrador",
		Role:    models.RoleAdmin,
		Coins:   9999,
		EventID: event.ID,
	}
	if err := s.store.SetCurrentUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("Admin logged in", zap.String("event_id", event.ID))
	return &user, nil
}

// Logout clears the current session.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.ClearCurrentUser(ctx)
}

// ActiveEvent returns the event config, or ErrNoActiveEvent when absent.
func (s *SessionService) ActiveEvent(ctx context.Context) (*models.EventConfig, error) {
	event, err := s.store.GetEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, ErrNoActiveEvent
	}
	return event, nil
}

// CreditCoins adds a redeemed amount to the user's balance and persists the
// session record. This is the compose step after CoinService.Redeem.
func (s *SessionService) CreditCoins(ctx context.Context, user *models.User, amount int) error {
	user.Coins += amount
	if err := s.store.SetCurrentUser(ctx, *user); err != nil {
		user.Coins -= amount
		return fmt.Errorf("failed to persist balance: %w", err)
	}
	return nil
}
