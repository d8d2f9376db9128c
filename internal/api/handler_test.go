package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/service"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	sessions := service.NewSessionService(st, service.DefaultSessionOptions())
	coins := service.NewCoinService(st)
	orders := service.NewOrderService(st)
	drinks := service.NewDrinkService(st, service.TemplateGenerator{})

	router := gin.New()
	NewHandler(sessions, coins, orders, drinks, nil).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

// The terminal happy path: the admin sets up the event and the bar, a
// guest spends and tops up coins, the kitchen works the queue.
func TestFullEventFlow(t *testing.T) {
	router := newTestRouter(t)

	// Admin login bootstraps the event.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/login/admin", gin.H{
		"name":        "Thiago",
		"event_name":  "TH DRINKS Party",
		"event_theme": "neon",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/event", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var event models.EventConfig
	decode(t, rec, &event)
	assert.Equal(t, "TH DRINKS Party", event.Name)
	assert.Equal(t, models.ThemeNeon, event.Theme)

	// Stock the bar with one drink costing 2 coins.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/drinks", gin.H{
		"name":        "Neon Sunset",
		"ingredients": []string{"Vodka", "Orange Juice"},
		"cost":        2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var drink models.Drink
	decode(t, rec, &drink)
	require.NotEmpty(t, drink.ID)
	assert.NotEmpty(t, drink.Description)

	// Issue a 5-coin code and fetch its QR.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/coins/codes", gin.H{"amount": 5})
	require.Equal(t, http.StatusCreated, rec.Code)
	var code models.CoinCode
	decode(t, rec, &code)
	require.Len(t, code.Code, 6)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/coins/codes/"+code.Code+"/qr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	// Guest takes over the terminal with 3 starting coins.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/login/guest", gin.H{"name": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var guest models.User
	decode(t, rec, &guest)
	assert.Equal(t, 3, guest.Coins)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/coins/redeem", gin.H{"code": code.Code})
	require.Equal(t, http.StatusOK, rec.Code)
	var redeemed struct {
		Amount int `json:"amount"`
		Coins  int `json:"coins"`
	}
	decode(t, rec, &redeemed)
	assert.Equal(t, 5, redeemed.Amount)
	assert.Equal(t, 8, redeemed.Coins)

	// Same code again is rejected without touching the balance.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/coins/redeem", gin.H{"code": code.Code})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{"drink_id": drink.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var placed struct {
		Order models.Order `json:"order"`
		Coins int          `json:"coins"`
	}
	decode(t, rec, &placed)
	assert.Equal(t, models.StatusPending, placed.Order.Status)
	assert.Equal(t, "Neon Sunset", placed.Order.DrinkName)
	assert.Equal(t, 6, placed.Coins)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []models.Order
	decode(t, rec, &mine)
	require.Len(t, mine, 1)

	// Kitchen takes the terminal via the codeword and works the queue.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/login/admin", gin.H{"name": "cozinha"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/kitchen/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var queue []models.Order
	decode(t, rec, &queue)
	require.Len(t, queue, 1)

	for _, want := range []models.OrderStatus{
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	} {
		rec = doJSON(t, router, http.MethodPost, "/api/v1/kitchen/orders/"+placed.Order.ID+"/advance", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var advanced models.Order
		decode(t, rec, &advanced)
		assert.Equal(t, want, advanced.Status)
	}

	// Delivered orders leave the kitchen queue.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/kitchen/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue = nil
	decode(t, rec, &queue)
	assert.Empty(t, queue)
}

func TestGateBlocksAnonymous(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/coins/codes", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "/", body.RedirectTo)
}

func TestGateRedirectsWrongRole(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/login/admin", gin.H{
		"name":       "Thiago",
		"event_name": "Party",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/login/guest", gin.H{"name": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// A guest hitting the admin surface is redirected home, not failed.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/coins/codes", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "/app", body.RedirectTo)
}

func TestGuestLoginWithoutEventConflicts(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/login/guest", gin.H{"name": "Ana"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceOrderWithoutCoinsConflicts(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/login/admin", gin.H{
		"name":       "Thiago",
		"event_name": "Party",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/drinks", gin.H{
		"name":        "Dark Matter",
		"ingredients": []string{"Vodka", "Espresso"},
		"cost":        4,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var drink models.Drink
	decode(t, rec, &drink)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/login/guest", gin.H{"name": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// 3 starting coins cannot cover a 4-coin drink.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{"drink_id": drink.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
