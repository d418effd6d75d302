package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("product name must not be empty")
	ErrInvalidPrice  = errors.New("product price must not be negative")
	ErrNegativeStock = errors.New("product stock must not be negative")
)

// Product models a catalog entry. Stock is the authoritative inventory
// count; it is decremented by order placement and must never go negative in
// committed state.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Brand         string
	Category      string
	Price         decimal.Decimal
	StockQuantity int32
	Available     bool
	ReleaseDate   time.Time
	Tags          []string

	ImageName string
	ImageType string
	ImageData []byte
}

// NewProduct validates and constructs a product aggregate.
func NewProduct(id int64, name string, price decimal.Decimal, stock int32) (*Product, error) {
	product := &Product{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Price:         price,
		StockQuantity: stock,
		Available:     stock > 0,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Deduct removes quantity from stock; used by in-memory placement. The
// relational adapter performs the equivalent guarded UPDATE instead.
func (p *Product) Deduct(quantity int32) error {
	if quantity <= 0 {
		return errors.New("deduct quantity must be positive")
	}
	if p.StockQuantity < quantity {
		return ErrNegativeStock
	}
	p.StockQuantity -= quantity
	return nil
}

// SemanticContent renders the text pushed to the semantic index for this
// product. Regenerated after every mutation so the index mirrors current
// relational state.
func (p *Product) SemanticContent() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	fmt.Fprintf(&b, "Brand: %s\n", p.Brand)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Price: %s\n", p.Price.StringFixed(2))
	fmt.Fprintf(&b, "Release Date: %s\n", p.ReleaseDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Available: %t\n", p.Available)
	fmt.Fprintf(&b, "Stock: %d\n", p.StockQuantity)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	return b.String()
}

// Clone returns a deep copy, so adapters can hand out aggregates without
// sharing mutable slices.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Tags != nil {
		clone.Tags = append([]string(nil), p.Tags...)
	}
	if p.ImageData != nil {
		clone.ImageData = append([]byte(nil), p.ImageData...)
	}
	return &clone
}
