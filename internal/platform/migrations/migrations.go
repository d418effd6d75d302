package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Name          string          `gorm:"column:name;index"`
	Description   string          `gorm:"column:description;type:text"`
	Brand         string          `gorm:"column:brand;index"`
	Category      string          `gorm:"column:category;index"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	StockQuantity int32           `gorm:"column:stock_quantity"`
	Available     bool            `gorm:"column:available"`
	ReleaseDate   time.Time       `gorm:"column:release_date"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[]"`
	ImageName     string          `gorm:"column:image_name"`
	ImageType     string          `gorm:"column:image_type"`
	ImageData     []byte          `gorm:"column:image_data"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
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
