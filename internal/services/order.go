package services

import (
	"errors"
	"fmt"
	"log"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/pkg/rabbitmq"
)

// OrderService handles order queries and status updates.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService. mqClient may be nil to disable
// event publishing.
func NewOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		mqClient:  mqClient,
	}
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll() ([]models.Order, error) {
	return s.orderRepo.ListAll()
}

// ListByCustomer returns a customer's orders, newest first.
func (s *OrderService) ListByCustomer(customerID string) ([]models.Order, error) {
	return s.orderRepo.ListByCustomer(customerID)
}

// GetByNumber returns an order by its customer-facing number.
func (s *OrderService) GetByNumber(number uint64) (*models.Order, error) {
	order, err := s.orderRepo.GetByNumber(number)
	if err != nil {
		if isNotFound(err) {
			return nil, RuleError("Pedido não encontrado")
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order to a new status and publishes the change.
func (s *OrderService) UpdateStatus(number uint64, status models.OrderStatus) error {
	order, err := s.GetByNumber(number)
	if err != nil {
		return err
	}

	if err := order.SetStatus(status); err != nil {
		if errors.Is(err, models.ErrInvalidStatus) {
			return RuleError("Status inválido")
		}
		return err
	}

	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to update order %d: %w", number, err)
	}

	if err := s.mqClient.PublishOrderEvent(rabbitmq.EventOrderStatusUpdated, map[string]interface{}{
		"numero_pedido": order.Number,
		"cliente_id":    order.CustomerID,
		"status":        order.Status,
	}); err != nil {
		log.Printf("failed to publish status update event for order %d: %v", number, err)
	}
	return nil
}
