package domain

import (
	"strconv"
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ParseOrderStatus normalizes s and reports whether it names a known status
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OrderStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no further processing happens in this status
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentMethodCOD is the only supported payment method
const PaymentMethodCOD = "COD"

// ShippingDetails is the delivery information collected at checkout
type ShippingDetails struct {
	ReceiverName     string `json:"receiverName"`
	ContactPhone     string `json:"contactPhone"`
	ContactEmail     string `json:"contactEmail"`
	DeliveryAddress  string `json:"deliveryAddress"`
	DeliveryProvince string `json:"deliveryProvince"`
	DeliveryCity     string `json:"deliveryCity"`
	DeliveryDistrict string `json:"deliveryDistrict"`
	Notes            string `json:"notes"`
}

// OrderLine is a frozen snapshot of a catalog item at checkout time
type OrderLine struct {
	ItemID   int64    `json:"itemId"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
	Category Category `json:"category"`
}

// Order is an immutable record of a completed checkout
type Order struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	ShippingDetails
	Items         []OrderLine `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     *time.Time  `json:"updatedAt,omitempty"`
}

// MatchesSearch reports whether term matches the order id, username, receiver or city
func (o Order) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strconv.FormatInt(o.ID, 10), term) ||
		strings.Contains(strings.ToLower(o.Username), term) ||
		strings.Contains(strings.ToLower(o.ReceiverName), term) ||
		strings.Contains(strings.ToLower(o.DeliveryCity), term)
}
