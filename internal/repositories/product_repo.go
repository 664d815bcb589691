package repositories

import (
	"drogaria/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetBySequentialID(id uint64) (*models.Product, error)
	ListActive() ([]models.Product, error)
	// List returns one page of products, newest first, optionally filtered
	// by a case-insensitive substring of the name, plus the total count.
	List(search string, page, size int) ([]models.Product, int64, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
}

// ProductImageRepository defines the interface for product image records.
type ProductImageRepository interface {
	Create(image *models.ProductImage) error
	GetByID(id string) (*models.ProductImage, error)
	// ListByProduct returns the images of a product in upload order.
	ListByProduct(productSequentialID uint64) ([]models.ProductImage, error)
	// ClearPrimary unsets the primary flag on every image of the product.
	ClearPrimary(productSequentialID uint64) error
	Delete(id string) error
}
