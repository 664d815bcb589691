package services

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"drogaria/internal/models"
	"drogaria/internal/repositories"

	"github.com/google/uuid"
)

// CatalogService handles business logic for products and their images.
type CatalogService struct {
	productRepo repositories.ProductRepository
	imageRepo   repositories.ProductImageRepository
	sequences   repositories.SequenceRepository
	uploadDir   string
}

// NewCatalogService creates a new CatalogService. Uploaded image files are
// stored under uploadDir.
func NewCatalogService(
	productRepo repositories.ProductRepository,
	imageRepo repositories.ProductImageRepository,
	sequences repositories.SequenceRepository,
	uploadDir string,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		sequences:   sequences,
		uploadDir:   uploadDir,
	}
}

// ListStorefront returns the active products shown to customers.
func (s *CatalogService) ListStorefront() ([]models.Product, error) {
	return s.productRepo.ListActive()
}

// GetProduct returns a product by its display number.
func (s *CatalogService) GetProduct(sequentialID uint64) (*models.Product, error) {
	return s.productRepo.GetBySequentialID(sequentialID)
}

// List returns one backoffice page of products filtered by name.
func (s *CatalogService) List(search string, page, size int) ([]models.Product, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	return s.productRepo.List(search, page, size)
}

func validateProductFields(p *models.Product) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return RuleError("Nome do produto é obrigatório")
	}
	if len([]rune(name)) > 200 {
		return RuleError("Nome do produto deve ter no máximo 200 caracteres")
	}
	if p.Rating < 1 || p.Rating > 5 || math.Mod(p.Rating*2, 1) != 0 {
		return RuleError("Avaliação deve ser entre 1 e 5")
	}
	if strings.TrimSpace(p.Description) == "" {
		return RuleError("Descrição detalhada é obrigatória")
	}
	if len([]rune(p.Description)) > 2000 {
		return RuleError("Descrição detalhada deve ter no máximo 2000 caracteres")
	}
	if p.Price <= 0 {
		return RuleError("Preço deve ser maior que zero")
	}
	if p.Stock < 0 {
		return RuleError("Quantidade em estoque deve ser maior ou igual a zero")
	}
	return nil
}

// Create validates and stores a new product. The display number comes from
// the product counter; new products start active.
func (s *CatalogService) Create(product *models.Product) error {
	if err := validateProductFields(product); err != nil {
		return err
	}

	sequentialID, err := s.sequences.Next(models.SequenceProducts)
	if err != nil {
		return fmt.Errorf("failed to allocate product number: %w", err)
	}

	product.ID = uuid.New().String()
	product.SequentialID = sequentialID
	product.Active = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Create(product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update validates and applies a full product edit (administrator path).
func (s *CatalogService) Update(sequentialID uint64, updated models.Product) error {
	product, err := s.productRepo.GetBySequentialID(sequentialID)
	if err != nil {
		return RuleError("Produto não encontrado")
	}

	if err := validateProductFields(&updated); err != nil {
		return err
	}

	product.Name = updated.Name
	product.Rating = updated.Rating
	product.Description = updated.Description
	product.Price = updated.Price
	product.Stock = updated.Stock
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return fmt.Errorf("failed to update product %d: %w", sequentialID, err)
	}
	return nil
}

// UpdateStock changes only the stock quantity (stock clerk path).
func (s *CatalogService) UpdateStock(sequentialID uint64, stock int) error {
	product, err := s.productRepo.GetBySequentialID(sequentialID)
	if err != nil {
		return RuleError("Produto não encontrado")
	}
	if stock < 0 {
		return RuleError("Quantidade em estoque deve ser maior ou igual a zero")
	}

	product.Stock = stock
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return fmt.Errorf("failed to update stock of product %d: %w", sequentialID, err)
	}
	return nil
}

// ToggleActive flips the product's storefront visibility.
func (s *CatalogService) ToggleActive(sequentialID uint64) error {
	product, err := s.productRepo.GetBySequentialID(sequentialID)
	if err != nil {
		return RuleError("Produto não encontrado")
	}

	product.Active = !product.Active
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return fmt.Errorf("failed to toggle product %d: %w", sequentialID, err)
	}
	return nil
}

// AttachImage saves the uploaded file under the upload directory with a
// generated name and records it. When primary is set, the flag is cleared
// from every other image of the product first.
func (s *CatalogService) AttachImage(sequentialID uint64, originalName string, file io.Reader, primary bool) (*models.ProductImage, error) {
	if _, err := s.productRepo.GetBySequentialID(sequentialID); err != nil {
		return nil, RuleError("Produto não encontrado")
	}
	if originalName == "" {
		return nil, RuleError("Arquivo não pode estar vazio")
	}

	storedName := uuid.New().String() + filepath.Ext(originalName)
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	if primary {
		if err := s.imageRepo.ClearPrimary(sequentialID); err != nil {
			return nil, fmt.Errorf("failed to clear primary flag: %w", err)
		}
	}

	image := &models.ProductImage{
		ID:                  uuid.New().String(),
		ProductSequentialID: sequentialID,
		OriginalName:        originalName,
		StoredName:          storedName,
		Path:                "/images/produtos/" + storedName,
		IsPrimary:           primary,
		UploadedAt:          time.Now(),
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, fmt.Errorf("failed to record image: %w", err)
	}
	return image, nil
}

// DetachImage removes an image record and its file. The image must belong
// to the given product.
func (s *CatalogService) DetachImage(sequentialID uint64, imageID string) error {
	image, err := s.imageRepo.GetByID(imageID)
	if err != nil {
		return RuleError("Imagem não encontrada")
	}
	if image.ProductSequentialID != sequentialID {
		return RuleError("Esta imagem não pertence a este produto")
	}

	if err := s.imageRepo.Delete(imageID); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}
	if err := os.Remove(filepath.Join(s.uploadDir, image.StoredName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file %s: %w", image.StoredName, err)
	}
	return nil
}

// ImagesOf returns the images of a product in upload order.
func (s *CatalogService) ImagesOf(sequentialID uint64) ([]models.ProductImage, error) {
	return s.imageRepo.ListByProduct(sequentialID)
}

// PrimaryImage resolves the image path shown on listings: the explicit
// primary when one exists, otherwise the first uploaded image, otherwise
// the placeholder.
func (s *CatalogService) PrimaryImage(sequentialID uint64) string {
	images, err := s.imageRepo.ListByProduct(sequentialID)
	if err != nil || len(images) == 0 {
		return models.PlaceholderImage
	}
	for _, img := range images {
		if img.IsPrimary {
			return img.Path
		}
	}
	return images[0].Path
}
