package repositories

import (
	"errors"
	"fmt"
	"strings"

	"drogaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// GetBySequentialID retrieves a product by its display-facing number.
func (r *GORMProductRepository) GetBySequentialID(id uint64) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "sequential_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// ListActive retrieves the products visible on the storefront.
func (r *GORMProductRepository) ListActive() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("active = ?", true).Order("sequential_id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return products, nil
}

// List retrieves one page of products, newest first, with an optional
// case-insensitive name filter.
func (r *GORMProductRepository) List(search string, page, size int) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if s := strings.TrimSpace(search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Limit(size).Offset(page * size).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update saves all fields of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d for update: %w", product.SequentialID, ErrNotFound)
	}
	return nil
}

// GORMProductImageRepository is a GORM implementation of ProductImageRepository.
type GORMProductImageRepository struct {
	db *gorm.DB
}

// NewGORMProductImageRepository creates a new instance of GORMProductImageRepository.
func NewGORMProductImageRepository(db *gorm.DB) *GORMProductImageRepository {
	return &GORMProductImageRepository{db: db}
}

// Create inserts a new image record.
func (r *GORMProductImageRepository) Create(image *models.ProductImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create product image: %w", err)
	}
	return nil
}

// GetByID retrieves a single image record.
func (r *GORMProductImageRepository) GetByID(id string) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product image %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product image %s: %w", id, err)
	}
	return &image, nil
}

// ListByProduct retrieves the images of a product in upload order.
func (r *GORMProductImageRepository) ListByProduct(productSequentialID uint64) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.Where("product_sequential_id = ?", productSequentialID).
		Order("uploaded_at").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images of product %d: %w", productSequentialID, err)
	}
	return images, nil
}

// ClearPrimary unsets the primary flag on every image of the product.
func (r *GORMProductImageRepository) ClearPrimary(productSequentialID uint64) error {
	err := r.db.Model(&models.ProductImage{}).
		Where("product_sequential_id = ?", productSequentialID).
		Update("is_primary", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear primary flag of product %d: %w", productSequentialID, err)
	}
	return nil
}

// Delete removes an image record.
func (r *GORMProductImageRepository) Delete(id string) error {
	res := r.db.Delete(&models.ProductImage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product image %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product image %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
