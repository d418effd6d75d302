package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/http/mapper"
	"github.com/ecomai/ecom-api-server/internal/domains/catalog/application"
	"github.com/ecomai/ecom-api-server/internal/domains/catalog/ports"
	apierrors "github.com/ecomai/ecom-api-server/internal/shared/errors"
)

// maxImageBytes bounds uploaded and generated product images.
const maxImageBytes = 8 << 20

// ProductAPI exposes the catalog use cases over HTTP.
type ProductAPI struct {
	service ports.Service
}

func NewProductAPI(service ports.Service) *ProductAPI {
	return &ProductAPI{service: service}
}

// Register mounts the catalog routes on the given group.
func (api *ProductAPI) Register(group *gin.RouterGroup) {
	group.GET("/products", api.ListProducts)
	group.GET("/products/search", api.SearchProducts)
	group.POST("/products/semantic-search", api.SemanticSearch)
	group.GET("/product/:id", api.GetProduct)
	group.GET("/product/:id/image", api.GetProductImage)
	group.POST("/product", api.AddProduct)
	group.PUT("/product/:id", api.UpdateProduct)
	group.DELETE("/product/:id", api.DeleteProduct)
	group.POST("/product/generate-description", api.GenerateDescription)
	group.POST("/product/generate-image", api.GenerateImage)
}

// ListProducts handles GET /api/products.
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.List(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProducts(products))
}

// GetProduct handles GET /api/product/:id.
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(product))
}

// GetProductImage handles GET /api/product/:id/image.
func (api *ProductAPI) GetProductImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	if len(product.ImageData) == 0 {
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail("product has no image"))
		return
	}
	contentType := product.ImageType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, product.ImageData)
}

// AddProduct handles POST /api/product (multipart: "product" JSON part plus
// optional "image" file part).
func (api *ProductAPI) AddProduct(c *gin.Context) {
	api.saveProduct(c, 0)
}

// UpdateProduct handles PUT /api/product/:id.
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	api.saveProduct(c, id)
}

func (api *ProductAPI) saveProduct(c *gin.Context, id int64) {
	var req mapper.ProductRequest
	// multipart uploads carry the product JSON in the "product" form field
	if raw := c.PostForm("product"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := mapper.ToDomainProduct(id, req)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	if file, err := c.FormFile("image"); err == nil && file != nil {
		if file.Size > maxImageBytes {
			apierrors.Respond(c, apierrors.ErrValidation.WithDetail("image exceeds size limit"))
			return
		}
		src, err := file.Open()
		if err != nil {
			apierrors.Respond(c, apierrors.ErrInternal)
			return
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, maxImageBytes))
		if err != nil {
			apierrors.Respond(c, apierrors.ErrInternal)
			return
		}
		product.ImageName = file.Filename
		product.ImageType = file.Header.Get("Content-Type")
		product.ImageData = data
	}
	saved, err := api.service.Save(c.Request.Context(), product)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProduct(saved))
}

// DeleteProduct handles DELETE /api/product/:id.
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchProducts handles GET /api/products/search?keyword=.
func (api *ProductAPI) SearchProducts(c *gin.Context) {
	products, err := api.service.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProducts(products))
}

// SemanticSearch handles POST /api/products/semantic-search.
func (api *ProductAPI) SemanticSearch(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	products, err := api.service.SemanticSearch(c.Request.Context(), req.Query)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainProducts(products))
}

// GenerateDescription handles POST /api/product/generate-description.
func (api *ProductAPI) GenerateDescription(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	description, err := api.service.GenerateDescription(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": description})
}

// GenerateImage handles POST /api/product/generate-image.
func (api *ProductAPI) GenerateImage(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	image, err := api.service.GenerateImage(c.Request.Context(), req.Name, req.Category, req.Description)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("product id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, application.ErrAssistUnavailable):
		apierrors.Respond(c, apierrors.ErrInternal.WithDetail(err.Error()))
	default:
		apierrors.Respond(c, apierrors.ErrInternal)
	}
}
