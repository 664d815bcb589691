package services_test

import (
	"strings"
	"testing"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCatalogFixture(t *testing.T) (*services.CatalogService, *repositories.MockProductRepository, *repositories.MockProductImageRepository) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	imageRepo := repositories.NewMockProductImageRepository()
	sequences := repositories.NewMockSequenceRepository()
	svc := services.NewCatalogService(productRepo, imageRepo, sequences, t.TempDir())
	return svc, productRepo, imageRepo
}

func validProduct() models.Product {
	return models.Product{
		Name:        "Dipirona 500mg",
		Rating:      4.5,
		Description: "Analgésico e antitérmico",
		Price:       12.90,
		Stock:       100,
	}
}

func TestCatalog_CreateAssignsSequentialIDs(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	first := validProduct()
	assert.NoError(t, svc.Create(&first))
	assert.Equal(t, uint64(1), first.SequentialID)
	assert.True(t, first.Active)
	assert.NotEmpty(t, first.ID)

	second := validProduct()
	second.Name = "Vitamina C"
	assert.NoError(t, svc.Create(&second))
	assert.Equal(t, uint64(2), second.SequentialID)
}

func TestCatalog_CreateValidationOrder(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	tests := []struct {
		name    string
		mutate  func(*models.Product)
		message string
	}{
		{"empty name", func(p *models.Product) { p.Name = "  " }, "Nome do produto é obrigatório"},
		{"long name", func(p *models.Product) { p.Name = strings.Repeat("a", 201) }, "Nome do produto deve ter no máximo 200 caracteres"},
		{"rating too low", func(p *models.Product) { p.Rating = 0.5 }, "Avaliação deve ser entre 1 e 5"},
		{"rating too high", func(p *models.Product) { p.Rating = 5.5 }, "Avaliação deve ser entre 1 e 5"},
		{"rating off the half step", func(p *models.Product) { p.Rating = 4.3 }, "Avaliação deve ser entre 1 e 5"},
		{"empty description", func(p *models.Product) { p.Description = "" }, "Descrição detalhada é obrigatória"},
		{"long description", func(p *models.Product) { p.Description = strings.Repeat("a", 2001) }, "Descrição detalhada deve ter no máximo 2000 caracteres"},
		{"zero price", func(p *models.Product) { p.Price = 0 }, "Preço deve ser maior que zero"},
		{"negative stock", func(p *models.Product) { p.Stock = -1 }, "Quantidade em estoque deve ser maior ou igual a zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := validProduct()
			tt.mutate(&product)
			err := svc.Create(&product)
			assert.EqualError(t, err, tt.message)
			assert.True(t, services.IsRule(err))
		})
	}
}

func TestCatalog_UpdateStock(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	product := validProduct()
	assert.NoError(t, svc.Create(&product))

	assert.NoError(t, svc.UpdateStock(product.SequentialID, 42))
	stored, err := productRepo.GetBySequentialID(product.SequentialID)
	assert.NoError(t, err)
	assert.Equal(t, 42, stored.Stock)

	err = svc.UpdateStock(product.SequentialID, -1)
	assert.EqualError(t, err, "Quantidade em estoque deve ser maior ou igual a zero")

	err = svc.UpdateStock(999, 1)
	assert.EqualError(t, err, "Produto não encontrado")
}

func TestCatalog_ToggleActive(t *testing.T) {
	svc, productRepo, _ := newCatalogFixture(t)
	product := validProduct()
	assert.NoError(t, svc.Create(&product))

	assert.NoError(t, svc.ToggleActive(product.SequentialID))
	stored, err := productRepo.GetBySequentialID(product.SequentialID)
	assert.NoError(t, err)
	assert.False(t, stored.Active)

	assert.NoError(t, svc.ToggleActive(product.SequentialID))
	stored, err = productRepo.GetBySequentialID(product.SequentialID)
	assert.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestCatalog_AttachImageAndPrimaryResolution(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	product := validProduct()
	assert.NoError(t, svc.Create(&product))

	// no image at all: placeholder
	assert.Equal(t, models.PlaceholderImage, svc.PrimaryImage(product.SequentialID))

	imgA, err := svc.AttachImage(product.SequentialID, "frente.jpg", strings.NewReader("a"), false)
	assert.NoError(t, err)

	// no explicit primary: first by upload order
	assert.Equal(t, imgA.Path, svc.PrimaryImage(product.SequentialID))

	imgB, err := svc.AttachImage(product.SequentialID, "verso.jpg", strings.NewReader("b"), true)
	assert.NoError(t, err)

	// explicit primary wins
	assert.Equal(t, imgB.Path, svc.PrimaryImage(product.SequentialID))

	// attaching a new primary clears the old one
	imgC, err := svc.AttachImage(product.SequentialID, "lado.jpg", strings.NewReader("c"), true)
	assert.NoError(t, err)
	assert.Equal(t, imgC.Path, svc.PrimaryImage(product.SequentialID))

	images, err := svc.ImagesOf(product.SequentialID)
	assert.NoError(t, err)
	assert.Len(t, images, 3)
	primaries := 0
	for _, img := range images {
		if img.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestCatalog_DetachImageChecksOwnership(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	first := validProduct()
	assert.NoError(t, svc.Create(&first))
	second := validProduct()
	second.Name = "Vitamina C"
	assert.NoError(t, svc.Create(&second))

	img, err := svc.AttachImage(first.SequentialID, "frente.jpg", strings.NewReader("a"), true)
	assert.NoError(t, err)

	err = svc.DetachImage(second.SequentialID, img.ID)
	assert.EqualError(t, err, "Esta imagem não pertence a este produto")

	assert.NoError(t, svc.DetachImage(first.SequentialID, img.ID))
	assert.Equal(t, models.PlaceholderImage, svc.PrimaryImage(first.SequentialID))

	err = svc.DetachImage(first.SequentialID, img.ID)
	assert.EqualError(t, err, "Imagem não encontrada")
}

func TestCatalog_ListFiltersAndPaginates(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	names := []string{"Dipirona 500mg", "Dipirona 1g", "Vitamina C", "Protetor Solar"}
	for _, name := range names {
		product := validProduct()
		product.Name = name
		assert.NoError(t, svc.Create(&product))
	}

	matched, total, err := svc.List("dipirona", 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, matched, 2)

	page, total, err := svc.List("", 0, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 3)

	rest, _, err := svc.List("", 1, 3)
	assert.NoError(t, err)
	assert.Len(t, rest, 1)
}
