// Package shop is the online shop storage model.
package shop

import "time"

// Status is the account state.
type Status string

const (
	// StatusActive can place orders.
	StatusActive Status = "active"
	// StatusBlocked cannot log in.
	StatusBlocked Status = "blocked"
)

// Priority orders support tickets.
type Priority int

const (
	PriorityLow  Priority = 1
	PriorityHigh Priority = 2
)

// Address is a postal address.
type Address struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty"`
}

// Audit carries change timestamps.
type Audit struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// User is a registered customer.
type User struct {
	ID      string   `json:"id" dmdoc:"key"`
	Email   string   `json:"email" validate:"required,email"` // Contact address.
	Status  Status   `json:"status"`
	Address *Address `json:"address,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Avatar  []byte   `json:"avatar,omitempty"`
	Secret  string   `json:"-"`
	Audit
}

// TableName returns the users table.
func (User) TableName() string { return "users" }

// Order is a placed order.
type Order struct {
	ID     int64  `json:"id" db:"pk"`
	UserID string `json:"user_id" dmdoc:"ref=User.id,name=customer"`
	Lines  []struct {
		SKU      string  `json:"sku"`
		Quantity int     `json:"quantity"`
		ShipTo   Address `json:"ship_to"`
	} `json:"lines"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Priority   Priority          `json:"priority"`
	Total      float64           `json:"total"`
	Note       *string           `json:"note"`
}

// TableName returns the orders table.
func (*Order) TableName() string {
	return "orders"
}

// Draft is never stored.
type Draft struct {
	Body string
}
