package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates order progression. Placement always produces
// StatusPlaced; later states are reached by status-update flows.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrEmptyCustomerName = errors.New("customer name must not be empty")
	ErrInvalidEmail      = errors.New("customer email is invalid")
	ErrInvalidCode       = errors.New("order code is invalid")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNoItems           = errors.New("order must contain at least one item")
	ErrInvalidStatus     = errors.New("order status is invalid")
)

const codeLength = 10

// NewOrderCode derives a human-readable order code from a random 128-bit
// value: "ORD" plus the first ten uppercase hex characters. Collisions are
// overwhelmingly improbable but the store still enforces uniqueness on
// insert, and placement retries with a fresh code on conflict.
func NewOrderCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD" + strings.ToUpper(raw[:codeLength])
}

// OrderItem is one line of an order. UnitPrice is the product price
// snapshotted at purchase time; TotalPrice never changes when the catalog
// price does later.
type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// Order models the purchase aggregate. Items are append-only during
// placement and immutable once the order is persisted.
type Order struct {
	ID           int64
	Code         string
	CustomerName string
	Email        string
	OrderDate    time.Time
	Status       Status
	Items        []OrderItem
}

// NewOrder validates and constructs a new order in the placed state.
func NewOrder(code, customerName, email string, orderDate time.Time) (*Order, error) {
	order := &Order{
		Code:         strings.TrimSpace(code),
		CustomerName: strings.TrimSpace(customerName),
		Email:        strings.TrimSpace(email),
		OrderDate:    orderDate,
		Status:       StatusPlaced,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if !strings.HasPrefix(o.Code, "ORD") || len(o.Code) != len("ORD")+codeLength {
		return ErrInvalidCode
	}
	if o.CustomerName == "" {
		return ErrEmptyCustomerName
	}
	if !strings.Contains(o.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// AddItem appends a line item, snapshotting the unit price.
func (o *Order) AddItem(productID int64, productName string, quantity int32, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	o.Items = append(o.Items, OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt32(quantity)),
	})
	return nil
}

// Total derives the order value from its items; it is never stored.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// SummaryContent renders the order-summary text pushed to the semantic
// index, tagged with the order code.
func (o *Order) SummaryContent() string {
	var b strings.Builder
	b.WriteString("Order Summary:\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.Code)
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", o.Email)
	fmt.Fprintf(&b, "Date: %s\n", o.OrderDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	b.WriteString("Products:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s x %d = %s\n", item.ProductName, item.Quantity, item.TotalPrice.StringFixed(2))
	}
	return b.String()
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPlaced, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
