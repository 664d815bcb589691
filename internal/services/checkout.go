package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"drogaria/internal/models"
	"drogaria/internal/repositories"
	"drogaria/pkg/rabbitmq"

	"github.com/google/uuid"
)

var cardExpiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// CheckoutSession is the in-progress checkout state. The web layer keeps it
// in the browser session and hands it in explicitly; the service itself is
// stateless.
type CheckoutSession struct {
	Cart           models.Cart
	Address        *models.Address
	PaymentMethod  string
	Card           *models.CardDetails
	ShippingFee    float64
	ShippingChosen bool
}

// OrderSummary is the live-priced review shown before finalizing.
type OrderSummary struct {
	Items       []models.OrderItem
	Address     *models.Address
	Payment     string
	Card        *models.CardDetails
	Subtotal    float64
	ShippingFee float64
	Total       float64
}

// CheckoutService turns a checkout session into an order.
type CheckoutService struct {
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	orderRepo    repositories.OrderRepository
	sequences    repositories.SequenceRepository
	mqClient     *rabbitmq.Client
}

// NewCheckoutService creates a new CheckoutService. mqClient may be nil to
// disable event publishing.
func NewCheckoutService(
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	orderRepo repositories.OrderRepository,
	sequences repositories.SequenceRepository,
	mqClient *rabbitmq.Client,
) *CheckoutService {
	return &CheckoutService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		sequences:    sequences,
		mqClient:     mqClient,
	}
}

// ValidateCardDetails checks the card form. Checks run in a fixed order and
// the first failure wins.
func ValidateCardDetails(card models.CardDetails) error {
	if len(OnlyDigits(card.Number)) < 13 {
		return RuleError("Número do cartão inválido")
	}
	if len(OnlyDigits(card.SecurityCode)) != 3 {
		return RuleError("Código verificador deve ter 3 dígitos")
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return RuleError("Nome completo é obrigatório")
	}
	if !cardExpiryPattern.MatchString(card.Expiry) {
		return RuleError("Data de vencimento inválida. Use o formato MM/AA")
	}
	if card.Installments < 1 || card.Installments > 12 {
		return RuleError("Quantidade de parcelas inválida (deve ser entre 1 e 12)")
	}
	return nil
}

// buildItems snapshots the cart lines against live catalog data.
func (s *CheckoutService) buildItems(cart models.Cart) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cart))
	for sequentialID, qty := range cart {
		product, err := s.productRepo.GetBySequentialID(sequentialID)
		if err != nil {
			if isNotFound(err) {
				return nil, RuleError("Produto não encontrado")
			}
			return nil, fmt.Errorf("failed to load product %d: %w", sequentialID, err)
		}
		items = append(items, models.OrderItem{
			ProductSequentialID: product.SequentialID,
			ProductName:         product.Name,
			Quantity:            qty,
			UnitPrice:           product.Price,
			Total:               product.Price * float64(qty),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductSequentialID < items[j].ProductSequentialID
	})
	return items, nil
}

// shippingFee resolves the fee to charge: the customer's explicit tier
// choice when one was made, otherwise the nationwide economy price.
func shippingFee(cs CheckoutSession) float64 {
	if cs.ShippingChosen {
		return cs.ShippingFee
	}
	return shippingFallback[0].Price
}

// Summary recomputes the order review against current prices and stock
// owners. Nothing is persisted.
func (s *CheckoutService) Summary(cs CheckoutSession) (*OrderSummary, error) {
	if cs.Cart.IsEmpty() {
		return nil, RuleError("Carrinho vazio")
	}
	items, err := s.buildItems(cs.Cart)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Total
	}
	fee := shippingFee(cs)

	return &OrderSummary{
		Items:       items,
		Address:     cs.Address,
		Payment:     cs.PaymentMethod,
		Card:        cs.Card,
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal + fee,
	}, nil
}

// Finalize re-validates the whole checkout session and creates the order.
// Stock is decremented atomically per line; when any product lacks stock no
// order is created and the product is named in the error.
func (s *CheckoutService) Finalize(cs CheckoutSession, customerID string) (*models.Order, error) {
	if cs.Cart.IsEmpty() {
		return nil, RuleError("Carrinho vazio")
	}
	if _, err := s.customerRepo.GetByID(customerID); err != nil {
		if isNotFound(err) {
			return nil, RuleError("Cliente não encontrado")
		}
		return nil, fmt.Errorf("failed to load customer %s: %w", customerID, err)
	}
	if cs.Address == nil {
		return nil, RuleError("Endereço de entrega obrigatório")
	}
	if cs.PaymentMethod != models.PaymentBoleto && cs.PaymentMethod != models.PaymentCard {
		return nil, RuleError("Forma de pagamento inválida")
	}
	var card *models.CardDetails
	if cs.PaymentMethod == models.PaymentCard {
		if cs.Card == nil {
			return nil, RuleError("Dados do cartão obrigatórios")
		}
		if err := ValidateCardDetails(*cs.Card); err != nil {
			return nil, err
		}
		masked := cs.Card.Masked()
		card = &masked
	}

	items, err := s.buildItems(cs.Cart)
	if err != nil {
		return nil, err
	}
	subtotal := 0.0
	quantities := make(map[uint64]int, len(items))
	names := make(map[uint64]string, len(items))
	for _, item := range items {
		subtotal += item.Total
		quantities[item.ProductSequentialID] = item.Quantity
		names[item.ProductSequentialID] = item.ProductName
	}

	number, err := s.sequences.Next(models.SequenceOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	fee := shippingFee(cs)
	order := &models.Order{
		ID:              uuid.New().String(),
		Number:          number,
		CustomerID:      customerID,
		Items:           items,
		DeliveryAddress: *cs.Address,
		PaymentMethod:   cs.PaymentMethod,
		Card:            card,
		Subtotal:        subtotal,
		ShippingFee:     fee,
		Total:           subtotal + fee,
		Status:          models.StatusAwaitingPayment,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(order, quantities); err != nil {
		var stockErr *repositories.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, RuleError(fmt.Sprintf("Produto %s não possui estoque suficiente",
				names[stockErr.ProductSequentialID]))
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.mqClient.PublishOrderEvent(rabbitmq.EventOrderCreated, map[string]interface{}{
		"numero_pedido": order.Number,
		"cliente_id":    order.CustomerID,
		"status":        order.Status,
		"total":         order.Total,
	}); err != nil {
		log.Printf("failed to publish order created event for order %d: %v", order.Number, err)
	}

	return order, nil
}
