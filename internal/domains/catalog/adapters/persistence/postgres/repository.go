package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to a relational table.
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

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":           record.Name,
				"description":    record.Description,
				"brand":          record.Brand,
				"category":       record.Category,
				"price":          record.Price,
				"stock_quantity": record.StockQuantity,
				"available":      record.Available,
				"release_date":   record.ReleaseDate,
				"tags":           record.Tags,
				"image_name":     record.ImageName,
				"image_type":     record.ImageType,
				"image_data":     record.ImageData,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByIDs fetches all products matching the given identifiers.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all products.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

// Search matches the keyword against name, brand, and category.
func (r *Repository) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	pattern := "%" + keyword + "%"
	var records []productRecord
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR brand ILIKE ? OR category ILIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Brand:         product.Brand,
		Category:      product.Category,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Available:     product.Available,
		ReleaseDate:   product.ReleaseDate,
		Tags:          pq.StringArray(product.Tags),
		ImageName:     product.ImageName,
		ImageType:     product.ImageType,
		ImageData:     product.ImageData,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Brand:         r.Brand,
		Category:      r.Category,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Available:     r.Available,
		ReleaseDate:   r.ReleaseDate,
		Tags:          []string(r.Tags),
		ImageName:     r.ImageName,
		ImageType:     r.ImageType,
		ImageData:     r.ImageData,
	}
}

func toDomainSlice(records []productRecord) []*domain.Product {
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products
}
