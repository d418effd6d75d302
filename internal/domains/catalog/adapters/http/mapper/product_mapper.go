package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
)

// ProductRequest is the transport shape for create/update calls. Price is a
// string so the decimal survives the trip exactly.
type ProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       string   `json:"price" binding:"required"`
	Stock       int32    `json:"stockQuantity" binding:"gte=0"`
	Available   bool     `json:"productAvailable"`
	ReleaseDate string   `json:"releaseDate"`
	Tags        []string `json:"tags"`
}

// ProductResponse is the transport representation of a product.
type ProductResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Stock       int32    `json:"stockQuantity"`
	Available   bool     `json:"productAvailable"`
	ReleaseDate string   `json:"releaseDate"`
	Tags        []string `json:"tags,omitempty"`
	ImageName   string   `json:"imageName,omitempty"`
}

// ToDomainProduct converts a transport request into the catalog model.
func ToDomainProduct(id int64, req ProductRequest) (*catalogdomain.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, err
	}
	product := &catalogdomain.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		Category:      req.Category,
		Price:         price,
		StockQuantity: req.Stock,
		Available:     req.Available,
		Tags:          req.Tags,
	}
	if req.ReleaseDate != "" {
		release, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			return nil, err
		}
		product.ReleaseDate = release
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// FromDomainProduct converts a catalog product to the transport shape.
func FromDomainProduct(product *catalogdomain.Product) ProductResponse {
	if product == nil {
		return ProductResponse{}
	}
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Category:    product.Category,
		Price:       product.Price.StringFixed(2),
		Stock:       product.StockQuantity,
		Available:   product.Available,
		ReleaseDate: product.ReleaseDate.Format("2006-01-02"),
		Tags:        product.Tags,
		ImageName:   product.ImageName,
	}
}

// FromDomainProducts maps a slice of products.
func FromDomainProducts(products []*catalogdomain.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, FromDomainProduct(product))
	}
	return responses
}
