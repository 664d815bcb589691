package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"drogaria/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint64]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[uint64]models.Product)}
}

// GetBySequentialID returns a product by its display-facing number.
func (r *MockProductRepository) GetBySequentialID(id uint64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

// ListActive returns the products visible on the storefront.
func (r *MockProductRepository) ListActive() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].SequentialID < products[j].SequentialID
	})
	return products, nil
}

// List returns one page of products with an optional name filter.
func (r *MockProductRepository) List(search string, page, size int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	var matched []models.Product
	for _, p := range r.products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := page * size
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.SequentialID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.SequentialID]; !ok {
		return fmt.Errorf("product %d for update: %w", product.SequentialID, ErrNotFound)
	}
	r.products[product.SequentialID] = *product
	return nil
}

// decrementStock performs the conditional decrement used by order creation.
func (r *MockProductRepository) decrementStock(id uint64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.Stock < qty {
		return &InsufficientStockError{ProductSequentialID: id}
	}
	product.Stock -= qty
	r.products[id] = product
	return nil
}

// restoreStock returns previously reserved units after a failed order.
func (r *MockProductRepository) restoreStock(id uint64, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return
	}
	product.Stock += qty
	r.products[id] = product
}

// MockProductImageRepository is an in-memory implementation of
// ProductImageRepository. Images keep insertion order, matching the
// upload-order listing of the GORM implementation.
type MockProductImageRepository struct {
	images []models.ProductImage
	mu     sync.RWMutex
}

// NewMockProductImageRepository creates a new instance of MockProductImageRepository.
func NewMockProductImageRepository() *MockProductImageRepository {
	return &MockProductImageRepository{}
}

// Create adds a new image record.
func (r *MockProductImageRepository) Create(image *models.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images = append(r.images, *image)
	return nil
}

// GetByID returns a single image record.
func (r *MockProductImageRepository) GetByID(id string) (*models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, img := range r.images {
		if img.ID == id {
			out := img
			return &out, nil
		}
	}
	return nil, fmt.Errorf("product image %s: %w", id, ErrNotFound)
}

// ListByProduct returns the images of a product in upload order.
func (r *MockProductImageRepository) ListByProduct(productSequentialID uint64) ([]models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ProductImage
	for _, img := range r.images {
		if img.ProductSequentialID == productSequentialID {
			out = append(out, img)
		}
	}
	return out, nil
}

// ClearPrimary unsets the primary flag on every image of the product.
func (r *MockProductImageRepository) ClearPrimary(productSequentialID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.images {
		if r.images[i].ProductSequentialID == productSequentialID {
			r.images[i].IsPrimary = false
		}
	}
	return nil
}

// Delete removes an image record.
func (r *MockProductImageRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, img := range r.images {
		if img.ID == id {
			r.images = append(r.images[:i], r.images[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product image %s for deletion: %w", id, ErrNotFound)
}
