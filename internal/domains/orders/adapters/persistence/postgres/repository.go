package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/ports"
)

var (
	_ ports.Repository     = (*Repository)(nil)
	_ ports.PlacementStore = (*Repository)(nil)
)

// Repository persists orders in PostgreSQL using GORM and provides the
// transactional placement boundary spanning the products and orders tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	Code         string            `gorm:"column:code;type:varchar(16);uniqueIndex"`
	CustomerName string            `gorm:"column:customer_name"`
	Email        string            `gorm:"column:email"`
	OrderDate    time.Time         `gorm:"column:order_date"`
	Status       string            `gorm:"column:status;type:varchar(32);index"`
	Items        []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;index"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	OrderID     int64           `gorm:"column:order_id;index"`
	ProductID   int64           `gorm:"column:product_id;index"`
	ProductName string          `gorm:"column:product_name"`
	Quantity    int32           `gorm:"column:quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// inventoryRow is the slice of the products table the placement boundary
// touches; the catalog adapter owns the full mapping.
type inventoryRow struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Name          string          `gorm:"column:name"`
	Description   string          `gorm:"column:description"`
	Brand         string          `gorm:"column:brand"`
	Category      string          `gorm:"column:category"`
	Price         decimal.Decimal `gorm:"column:price"`
	StockQuantity int32           `gorm:"column:stock_quantity"`
	Available     bool            `gorm:"column:available"`
	ReleaseDate   time.Time       `gorm:"column:release_date"`
}

func (inventoryRow) TableName() string { return "products" }

// Place runs fn inside one database transaction. Rollback on any error
// undoes every stock decrement and the order insert together.
func (r *Repository) Place(ctx context.Context, fn func(tx ports.PlacementTx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&placementTx{db: tx})
	})
}

type placementTx struct {
	db *gorm.DB
}

// DeductStock performs a guarded decrement: the UPDATE only matches when
// enough stock remains, so two concurrent placements can never both observe
// pre-decrement stock and oversell.
func (t *placementTx) DeductStock(ctx context.Context, productID int64, quantity int32) (*catalogdomain.Product, error) {
	result := t.db.WithContext(ctx).
		Model(&inventoryRow{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var row inventoryRow
		if err := t.db.WithContext(ctx).First(&row, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ports.ErrProductNotFound, productID)
			}
			return nil, err
		}
		return nil, &ports.InsufficientStockError{
			ProductID:   row.ID,
			ProductName: row.Name,
			Requested:   quantity,
			Available:   row.StockQuantity,
		}
	}
	var row inventoryRow
	if err := t.db.WithContext(ctx).First(&row, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// SaveOrder inserts the order and all its items as one unit.
func (t *placementTx) SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ports.ErrDuplicateOrderCode, order.Code)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByCode fetches an order with its items.
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all orders with their item snapshots, in insertion order.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:           order.ID,
		Code:         order.Code,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		OrderDate:    order.OrderDate,
		Status:       string(order.Status),
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:           r.ID,
		Code:         r.Code,
		CustomerName: r.CustomerName,
		Email:        r.Email,
		OrderDate:    r.OrderDate,
		Status:       domain.Status(r.Status),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return order
}

func (row inventoryRow) toDomain() *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Brand:         row.Brand,
		Category:      row.Category,
		Price:         row.Price,
		StockQuantity: row.StockQuantity,
		Available:     row.Available,
		ReleaseDate:   row.ReleaseDate,
	}
}
