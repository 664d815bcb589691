package services_test

import (
	"testing"
	"time"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/internal/services"

	"github.com/stretchr/testify/assert"
)

func newOrderFixture(t *testing.T) (*services.OrderService, *repositories.MockOrderRepository) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	return services.NewOrderService(orderRepo, nil), orderRepo
}

func storedOrder(t *testing.T, repo *repositories.MockOrderRepository, number uint64, customerID string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		Number:     number,
		CustomerID: customerID,
		Status:     models.StatusAwaitingPayment,
		CreatedAt:  createdAt,
	}
	assert.NoError(t, repo.Create(order, nil))
	return order
}

func TestOrder_UpdateStatus(t *testing.T) {
	svc, repo := newOrderFixture(t)
	order := storedOrder(t, repo, 1, "cliente-1", time.Now())

	assert.NoError(t, svc.UpdateStatus(1, models.StatusPaymentApproved))

	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPaymentApproved, stored.Status)
}

func TestOrder_UpdateStatusRejectsInvalid(t *testing.T) {
	svc, repo := newOrderFixture(t)
	order := storedOrder(t, repo, 1, "cliente-1", time.Now())

	err := svc.UpdateStatus(1, models.StatusCancelled)
	assert.EqualError(t, err, "Status inválido")

	err = svc.UpdateStatus(1, models.OrderStatus("QUALQUER"))
	assert.EqualError(t, err, "Status inválido")

	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingPayment, stored.Status)

	err = svc.UpdateStatus(99, models.StatusDelivered)
	assert.EqualError(t, err, "Pedido não encontrado")
}

func TestOrder_ListNewestFirst(t *testing.T) {
	svc, repo := newOrderFixture(t)
	now := time.Now()
	storedOrder(t, repo, 1, "cliente-1", now.Add(-2*time.Hour))
	storedOrder(t, repo, 2, "cliente-2", now.Add(-time.Hour))
	storedOrder(t, repo, 3, "cliente-1", now)

	all, err := svc.ListAll()
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, uint64(3), all[0].Number)
	assert.Equal(t, uint64(1), all[2].Number)

	mine, err := svc.ListByCustomer("cliente-1")
	assert.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, uint64(3), mine[0].Number)
	assert.Equal(t, uint64(1), mine[1].Number)
}

func TestOrder_GetByNumber(t *testing.T) {
	svc, repo := newOrderFixture(t)
	storedOrder(t, repo, 7, "cliente-1", time.Now())

	order, err := svc.GetByNumber(7)
	assert.NoError(t, err)
	assert.Equal(t, "cliente-1", order.CustomerID)

	_, err = svc.GetByNumber(8)
	assert.EqualError(t, err, "Pedido não encontrado")
}
