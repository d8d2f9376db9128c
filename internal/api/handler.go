package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/service"
	"github.com/euthiagoalves10/TH-DRINKS/internal/util"
)

// Handler exposes the three terminal surfaces (admin, kitchen, guest) over
// HTTP. Surfaces hold no business logic: every request resolves the gate
// and composes engine results.
type Handler struct {
	sessions *service.SessionService
	coins    *service.CoinService
	orders   *service.OrderService
	drinks   *service.DrinkService
	qr       service.QRGenerator
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	sessions *service.SessionService,
	coins *service.CoinService,
	orders *service.OrderService,
	drinks *service.DrinkService,
	qr service.QRGenerator,
) *Handler {
	if qr == nil {
		qr = service.DefaultQRGenerator{}
	}
	return &Handler{
		sessions: sessions,
		coins:    coins,
		orders:   orders,
		drinks:   drinks,
		qr:       qr,
	}
}

// SetupRoutes sets up HTTP routes.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/login/guest", h.loginGuest)
		v1.POST("/login/admin", h.loginAdmin)
		v1.POST("/logout", h.logout)
		v1.GET("/session", h.session)
		v1.GET("/event", h.getEvent)
		v1.GET("/drinks", h.listDrinks)

		guest := v1.Group("", h.requireRole(models.RoleGuest))
		{
			guest.POST("/orders", h.placeOrder)
			guest.GET("/orders", h.listMyOrders)
			guest.POST("/coins/redeem", h.redeemCode)
		}

		admin := v1.Group("/admin", h.requireRole(models.RoleAdmin))
		{
			admin.POST("/drinks", h.saveDrink)
			admin.PUT("/drinks/:id", h.saveDrink)
			admin.DELETE("/drinks/:id", h.deleteDrink)
			admin.POST("/coins/codes", h.issueCode)
			admin.GET("/coins/codes", h.listCodes)
			admin.GET("/coins/codes/:code/qr", h.codeQR)
		}

		kitchen := v1.Group("/kitchen", h.requireRole(models.RoleKitchen))
		{
			kitchen.GET("/orders", h.listActiveOrders)
			kitchen.POST("/orders/:id/advance", h.advanceOrder)
		}
	}
}

const userKey = "session-user"

// requireRole gates a surface behind the session service. Gate failures
// never error destructively: the response carries the surface the caller
// should redirect to.
func (h *Handler) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.sessions.Require(c.Request.Context(), role)
		switch {
		case errors.Is(err, service.ErrWrongRole):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":       "wrong role for this surface",
				"redirect_to": user.Role.HomePath(),
			})
			return
		case errors.Is(err, service.ErrSessionExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "session expired",
				"redirect_to": "/",
			})
			return
		case errors.Is(err, service.ErrNotAuthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "not authenticated",
				"redirect_to": "/",
			})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

type guestLoginRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) loginGuest(c *gin.Context) {
	var req guestLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.sessions.LoginGuest(c.Request.Context(), req.Name)
	switch {
	case errors.Is(err, service.ErrNoActiveEvent):
		c.JSON(http.StatusConflict, gin.H{"error": "no active event, ask the admin to set one up"})
	case errors.Is(err, service.ErrEventEnded):
		c.JSON(http.StatusConflict, gin.H{"error": "this event has already ended"})
	case errors.Is(err, service.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "a name is required"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, user)
	}
}

type adminLoginRequest struct {
	Name          string `json:"name" binding:"required"`
	EventName     string `json:"event_name"`
	EventLocation string `json:"event_location"`
	EventTheme    string `json:"event_theme"`
}

func (h *Handler) loginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.sessions.LoginAdmin(c.Request.Context(), service.AdminLoginRequest{
		Name:          req.Name,
		EventName:     req.EventName,
		EventLocation: req.EventLocation,
		EventTheme:    models.Theme(req.EventTheme),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":        user,
		"redirect_to": user.Role.HomePath(),
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) session(c *gin.Context) {
	user, err := h.sessions.Current(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired", "redirect_to": "/"})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "redirect_to": "/"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, user)
	}
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.sessions.ActiveEvent(c.Request.Context())
	if errors.Is(err, service.ErrNoActiveEvent) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active event"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) listDrinks(c *gin.Context) {
	drinks, err := h.drinks.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, drinks)
}

type saveDrinkRequest struct {
	Name        string   `json:"name" binding:"required"`
	ShortDesc   string   `json:"short_desc"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
	ImageURL    string   `json:"image_url"`
	Cost        int      `json:"cost" binding:"required,min=1"`
}

func (h *Handler) saveDrink(c *gin.Context) {
	var req saveDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	drink, err := h.drinks.Save(c.Request.Context(), models.Drink{
		ID:          c.Param("id"),
		Name:        req.Name,
		ShortDesc:   req.ShortDesc,
		Description: req.Description,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		Cost:        req.Cost,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, drink)
}

func (h *Handler) deleteDrink(c *gin.Context) {
	err := h.drinks.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrDrinkNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "drink not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type issueCodeRequest struct {
	Amount int `json:"amount" binding:"required,min=1"`
}

func (h *Handler) issueCode(c *gin.Context) {
	var req issueCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	code, err := h.coins.IssueCode(c.Request.Context(), req.Amount)
	if errors.Is(err, service.ErrInvalidAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, code)
}

func (h *Handler) listCodes(c *gin.Context) {
	codes, err := h.coins.ListCodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *Handler) codeQR(c *gin.Context) {
	png, err := h.qr.Generate(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

type redeemRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) redeemCode(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user := currentUser(c)
	amount, err := h.coins.Redeem(c.Request.Context(), req.Code, user.ID)
	switch {
	case errors.Is(err, service.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid code"})
		return
	case errors.Is(err, service.ErrAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": "you already used this code"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Compose step: the coin engine only mutates code state.
	if err := h.sessions.CreditCoins(c.Request.Context(), user, amount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": amount, "coins": user.Coins})
}

type placeOrderRequest struct {
	DrinkID string `json:"drink_id" binding:"required"`
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	drink, err := h.drinks.Get(c.Request.Context(), req.DrinkID)
	if errors.Is(err, service.ErrDrinkNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "drink not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	order, err := h.orders.PlaceOrder(c.Request.Context(), user, *drink)
	if errors.Is(err, service.ErrInsufficientCoins) {
		c.JSON(http.StatusConflict, gin.H{"error": "not enough coins, redeem a code first"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "coins": user.Coins})
}

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.orders.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) listActiveOrders(c *gin.Context) {
	orders, err := h.orders.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) advanceOrder(c *gin.Context) {
	order, err := h.orders.Advance(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// prometheusMiddleware collects HTTP metrics.
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
