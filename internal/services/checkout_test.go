package services_test

import (
	"testing"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCheckoutFixture(t *testing.T) (*services.CheckoutService, *repositories.MockProductRepository, *repositories.MockOrderRepository, *models.Customer) {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	customerRepo := repositories.NewMockCustomerRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	sequences := repositories.NewMockSequenceRepository()

	customer := &models.Customer{
		Name:   "Maria Souza",
		Email:  "maria@exemplo.com",
		Active: true,
	}
	assert.NoError(t, customerRepo.Create(customer))

	svc := services.NewCheckoutService(productRepo, customerRepo, orderRepo, sequences, nil)
	return svc, productRepo, orderRepo, customer
}

func seedProduct(t *testing.T, repo *repositories.MockProductRepository, id uint64, name string, price float64, stock int) {
	t.Helper()
	assert.NoError(t, repo.Create(&models.Product{
		SequentialID: id,
		Name:         name,
		Price:        price,
		Stock:        stock,
		Active:       true,
	}))
}

func testAddress() *models.Address {
	return &models.Address{
		ID:         "end-1",
		PostalCode: "01310-100",
		Street:     "Avenida Paulista",
		Number:     "1000",
		City:       "São Paulo",
		State:      "SP",
	}
}

func TestValidateCardDetails_FirstFailureWins(t *testing.T) {
	valid := models.CardDetails{
		Number:       "4111111111111111",
		SecurityCode: "123",
		HolderName:   "Maria Souza",
		Expiry:       "12/30",
		Installments: 3,
	}
	assert.NoError(t, services.ValidateCardDetails(valid))

	tests := []struct {
		name    string
		mutate  func(*models.CardDetails)
		message string
	}{
		{
			"short number", func(c *models.CardDetails) { c.Number = "4111" },
			"Número do cartão inválido",
		},
		{
			"bad security code", func(c *models.CardDetails) { c.SecurityCode = "12" },
			"Código verificador deve ter 3 dígitos",
		},
		{
			"missing holder", func(c *models.CardDetails) { c.HolderName = "  " },
			"Nome completo é obrigatório",
		},
		{
			"bad expiry", func(c *models.CardDetails) { c.Expiry = "122030" },
			"Data de vencimento inválida. Use o formato MM/AA",
		},
		{
			"zero installments", func(c *models.CardDetails) { c.Installments = 0 },
			"Quantidade de parcelas inválida (deve ser entre 1 e 12)",
		},
		{
			"too many installments", func(c *models.CardDetails) { c.Installments = 13 },
			"Quantidade de parcelas inválida (deve ser entre 1 e 12)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := valid
			tt.mutate(&card)
			err := services.ValidateCardDetails(card)
			assert.EqualError(t, err, tt.message)
		})
	}

	// the number check fires before everything else
	broken := models.CardDetails{}
	assert.EqualError(t, services.ValidateCardDetails(broken), "Número do cartão inválido")
}

func TestCheckout_FinalizeEmptyCartCreatesNothing(t *testing.T) {
	svc, _, orderRepo, customer := newCheckoutFixture(t)

	_, err := svc.Finalize(services.CheckoutSession{Cart: models.Cart{}}, customer.ID)
	assert.EqualError(t, err, "Carrinho vazio")

	orders, err := orderRepo.ListAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_FinalizeComputesTotal(t *testing.T) {
	svc, productRepo, _, customer := newCheckoutFixture(t)
	seedProduct(t, productRepo, 1, "Dipirona 500mg", 50.00, 10)
	seedProduct(t, productRepo, 2, "Vitamina C", 30.00, 5)

	cs := services.CheckoutSession{
		Cart:           models.Cart{1: 2, 2: 1},
		Address:        testAddress(),
		PaymentMethod:  models.PaymentBoleto,
		ShippingFee:    15.00,
		ShippingChosen: true,
	}

	order, err := svc.Finalize(cs, customer.ID)
	assert.NoError(t, err)
	assert.Equal(t, 130.00, order.Subtotal)
	assert.Equal(t, 15.00, order.ShippingFee)
	assert.Equal(t, 145.00, order.Total)
	assert.Equal(t, models.StatusAwaitingPayment, order.Status)
	assert.Equal(t, uint64(1), order.Number)
	assert.Len(t, order.Items, 2)

	// stock was reserved
	p1, err := productRepo.GetBySequentialID(1)
	assert.NoError(t, err)
	assert.Equal(t, 8, p1.Stock)
	p2, err := productRepo.GetBySequentialID(2)
	assert.NoError(t, err)
	assert.Equal(t, 4, p2.Stock)
}

func TestCheckout_FinalizeDefaultsShippingFee(t *testing.T) {
	svc, productRepo, _, customer := newCheckoutFixture(t)
	seedProduct(t, productRepo, 1, "Dipirona 500mg", 10.00, 10)

	cs := services.CheckoutSession{
		Cart:          models.Cart{1: 1},
		Address:       testAddress(),
		PaymentMethod: models.PaymentBoleto,
	}

	order, err := svc.Finalize(cs, customer.ID)
	assert.NoError(t, err)
	assert.Equal(t, 25.00, order.ShippingFee)
	assert.Equal(t, 35.00, order.Total)
}

func TestCheckout_FinalizeInsufficientStockNamesProduct(t *testing.T) {
	svc, productRepo, orderRepo, customer := newCheckoutFixture(t)
	seedProduct(t, productRepo, 1, "Dipirona 500mg", 50.00, 1)

	cs := services.CheckoutSession{
		Cart:           models.Cart{1: 3},
		Address:        testAddress(),
		PaymentMethod:  models.PaymentBoleto,
		ShippingFee:    15.00,
		ShippingChosen: true,
	}

	_, err := svc.Finalize(cs, customer.ID)
	assert.EqualError(t, err, "Produto Dipirona 500mg não possui estoque suficiente")
	assert.True(t, services.IsRule(err))

	orders, err := orderRepo.ListAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)

	// stock untouched
	p1, err := productRepo.GetBySequentialID(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, p1.Stock)
}

func TestCheckout_FinalizeValidatesPayment(t *testing.T) {
	svc, productRepo, _, customer := newCheckoutFixture(t)
	seedProduct(t, productRepo, 1, "Dipirona 500mg", 50.00, 10)

	cs := services.CheckoutSession{
		Cart:    models.Cart{1: 1},
		Address: testAddress(),
	}

	cs.PaymentMethod = "PIX"
	_, err := svc.Finalize(cs, customer.ID)
	assert.EqualError(t, err, "Forma de pagamento inválida")

	cs.PaymentMethod = models.PaymentCard
	_, err = svc.Finalize(cs, customer.ID)
	assert.EqualError(t, err, "Dados do cartão obrigatórios")

	cs.Card = &models.CardDetails{Number: "4111"}
	_, err = svc.Finalize(cs, customer.ID)
	assert.EqualError(t, err, "Número do cartão inválido")
}

func TestCheckout_FinalizeMasksCard(t *testing.T) {
	svc, productRepo, _, customer := newCheckoutFixture(t)
	seedProduct(t, productRepo, 1, "Dipirona 500mg", 50.00, 10)

	cs := services.CheckoutSession{
		Cart:          models.Cart{1: 1},
		Address:       testAddress(),
		PaymentMethod: models.PaymentCard,
		Card: &models.CardDetails{
			Number:       "4111111111111234",
			SecurityCode: "123",
			HolderName:   "Maria Souza",
			Expiry:       "12/30",
			Installments: 2,
		},
		ShippingFee:    15.00,
		ShippingChosen: true,
	}

	order, err := svc.Finalize(cs, customer.ID)
	assert.NoError(t, err)
	assert.NotNil(t, order.Card)
	assert.Equal(t, "**** **** **** 1234", order.Card.Number)
	assert.Empty(t, order.Card.SecurityCode)
}

func TestCheckout_SummaryUsesLivePrices(t *testing.T) {
	svc, productRepo, _, _ := newCheckoutFixture(t)
	seedProduct(t, productRepo, 1, "Dipirona 500mg", 50.00, 10)

	cs := services.CheckoutSession{
		Cart:           models.Cart{1: 2},
		Address:        testAddress(),
		ShippingFee:    15.00,
		ShippingChosen: true,
	}

	summary, err := svc.Summary(cs)
	assert.NoError(t, err)
	assert.Equal(t, 100.00, summary.Subtotal)
	assert.Equal(t, 115.00, summary.Total)

	// a price change between summary and the next view is picked up
	product, err := productRepo.GetBySequentialID(1)
	assert.NoError(t, err)
	product.Price = 60.00
	assert.NoError(t, productRepo.Update(product))

	summary, err = svc.Summary(cs)
	assert.NoError(t, err)
	assert.Equal(t, 120.00, summary.Subtotal)

	_, err = svc.Summary(services.CheckoutSession{Cart: models.Cart{}})
	assert.EqualError(t, err, "Carrinho vazio")
}
