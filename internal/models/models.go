package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Role identifies which terminal a user belongs to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleKitchen Role = "kitchen"
	RoleGuest   Role = "guest"
)

// Valid reports whether the role is one of the three known terminals.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleKitchen, RoleGuest:
		return true
	}
	return false
}

// HomePath is the surface a user of this role should be redirected to.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleKitchen:
		return "/kitchen"
	default:
		return "/app"
	}
}

// OrderStatus is the kitchen pipeline position of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
)

// Next returns the following pipeline status. Delivered is terminal and
// absorbs further advances.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case StatusPending:
		return StatusPreparing
	case StatusPreparing:
		return StatusReady
	case StatusReady:
		return StatusDelivered
	default:
		return StatusDelivered
	}
}

// Theme selects the visual treatment rendered by the terminals.
type Theme string

const (
	ThemeClean  Theme = "clean"
	ThemeNeon   Theme = "neon"
	ThemeSunset Theme = "sunset"
	ThemeBlack  Theme = "black"
	ThemeHeavie Theme = "heavie"
)

// Themes lists every selectable theme.
var Themes = []Theme{ThemeClean, ThemeNeon, ThemeSunset, ThemeBlack, ThemeHeavie}

// Valid reports whether the theme is a known selection.
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// EventConfig describes the single active party. At most one exists in the
// store at a time.
type EventConfig struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Date          string    `json:"date"`
	Theme         Theme     `json:"theme"`
	StartTime     time.Time `json:"start_time"`
	DurationHours int       `json:"duration_hours"`
}

// EndTime is when guest sessions for this event stop being valid.
func (e EventConfig) EndTime() time.Time {
	return e.StartTime.Add(time.Duration(e.DurationHours) * time.Hour)
}

// Expired reports whether the event window has closed at the given instant.
func (e EventConfig) Expired(now time.Time) bool {
	return now.After(e.EndTime())
}

// Validate checks the fields an admin supplies when creating the event.
func (e EventConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Theme, validation.By(func(interface{}) error {
			if !e.Theme.Valid() {
				return validation.NewError("validation_theme", "unknown theme")
			}
			return nil
		})),
		validation.Field(&e.DurationHours, validation.Required, validation.Min(1)),
	)
}

// Drink is a catalog entry. Orders snapshot name and image at creation
// time, so editing a drink never rewrites placed orders.
type Drink struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ShortDesc   string   `json:"short_desc"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	ImageURL    string   `json:"image_url"`
	Cost        int      `json:"cost"`
}

// Validate checks catalog invariants at create/edit time.
func (d Drink) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Ingredients, validation.Required),
		validation.Field(&d.Cost, validation.Required, validation.Min(1)),
	)
}

// User is the session principal of one terminal.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Coins   int    `json:"coins"`
	EventID string `json:"event_id"`
}

// Order is one guest's request for one drink. Append-only except for the
// status field.
type Order struct {
	ID         string      `json:"id"`
	DrinkID    string      `json:"drink_id"`
	DrinkName  string      `json:"drink_name"`
	DrinkImage string      `json:"drink_image"`
	UserID     string      `json:"user_id"`
	UserName   string      `json:"user_name"`
	Status     OrderStatus `json:"status"`
	Timestamp  time.Time   `json:"timestamp"`
}

// CoinCode is a redeemable credit voucher. A user appears at most once in
// RedeemedBy; Amount never changes after issuance.
type CoinCode struct {
	Code           string   `json:"code"`
	Amount         int      `json:"amount"`
	RedeemedBy     []string `json:"redeemed_by"`
	MaxRedemptions int      `json:"max_redemptions"`
}

// Redeemed reports whether the given user already used this code.
func (c CoinCode) Redeemed(userID string) bool {
	for _, id := range c.RedeemedBy {
		if id == userID {
			return true
		}
	}
	return false
}
