package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

var (
	ErrInvalidAmount   = errors.New("coin amount must be positive")
	ErrCodeNotFound    = errors.New("coin code not found")
	ErrAlreadyRedeemed = errors.New("coin code already redeemed by this user")
)

const (
	codeLength       = 6
	codeCharset      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeMaxAttempts  = 5
	defaultMaxRedeem = 9999
)

// CoinService manages coin-code issuance and redemption. It never touches
// the User record: crediting a balance after a successful redemption is the
// caller's compose step.
type CoinService struct {
	store  store.Store
	logger *zap.Logger
}

// NewCoinService creates a new coin service.
func NewCoinService(st store.Store) *CoinService {
	return &CoinService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// IssueCode generates a fresh code worth the given amount and persists it
// with an empty redemption list. Codes colliding with an existing one are
// regenerated; after codeMaxAttempts collisions issuance fails rather than
// reusing a live code.
func (s *CoinService) IssueCode(ctx context.Context, amount int) (*models.CoinCode, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == codeMaxAttempts {
			return nil, fmt.Errorf("could not generate a unique code after %d attempts", codeMaxAttempts)
		}
		code = randomCode()
		existing, err := s.store.GetCoinCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check code collision: %w", err)
		}
		if existing == nil {
			break
		}
	}

	coinCode := models.CoinCode{
		Code:           code,
		Amount:         amount,
		RedeemedBy:     []string{},
		MaxRedemptions: defaultMaxRedeem,
	}

	if err := s.store.UpsertCoinCode(ctx, coinCode); err != nil {
		return nil, fmt.Errorf("failed to persist coin code: %w", err)
	}

	util.CoinCodesIssuedTotal.Inc()
	s.logger.Info("Coin code issued",
		zap.String("code", code),
		zap.Int("amount", amount))

	return &coinCode, nil
}

// Redeem credits the code's amount to the given user at most once. Input is
// uppercased before lookup. The returned amount is what the caller must add
// to the user's balance; the code's own state is already persisted.
func (s *CoinService) Redeem(ctx context.Context, code, userID string) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	coinCode, err := s.store.GetCoinCode(ctx, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to look up coin code: %w", err)
	}
	if coinCode == nil {
		util.RedemptionsFailedTotal.WithLabelValues("not_found").Inc()
		return 0, ErrCodeNotFound
	}

	if coinCode.Redeemed(userID) {
		util.RedemptionsFailedTotal.WithLabelValues("already_redeemed").Inc()
		return 0, ErrAlreadyRedeemed
	}

	coinCode.RedeemedBy = append(coinCode.RedeemedBy, userID)
	if err := s.store.UpsertCoinCode(ctx, *coinCode); err != nil {
		return 0, fmt.Errorf("failed to persist redemption: %w", err)
	}

	util.CoinsRedeemedTotal.Add(float64(coinCode.Amount))
	s.logger.Info("Coin code redeemed",
		zap.String("code", normalized),
		zap.String("user_id", userID),
		zap.Int("amount", coinCode.Amount))

	return coinCode.Amount, nil
}

// ListCodes returns every issued code, for the admin panel.
func (s *CoinService) ListCodes(ctx context.Context) ([]models.CoinCode, error) {
	return s.store.ListCoinCodes(ctx)
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}
