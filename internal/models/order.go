package models

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusAwaitingPayment OrderStatus = "AGUARDANDO_PAGAMENTO"
	StatusPaymentRejected OrderStatus = "PAGAMENTO_REJEITADO"
	StatusPaymentApproved OrderStatus = "PAGAMENTO_COM_SUCESSO"
	StatusAwaitingPickup  OrderStatus = "AGUARDANDO_RETIRADA"
	StatusInTransit       OrderStatus = "EM_TRANSITO"
	StatusDelivered       OrderStatus = "ENTREGUE"

	// StatusCancelled has a display label but is not accepted by the
	// validated status-update path.
	StatusCancelled OrderStatus = "CANCELADO"
)

// ErrInvalidStatus is returned by SetStatus for any value outside the six
// settable statuses.
var ErrInvalidStatus = errors.New("invalid order status")

// Valid reports whether s is one of the settable statuses. The transition
// table is flat: any settable status may follow any other.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusAwaitingPayment, StatusPaymentRejected, StatusPaymentApproved,
		StatusAwaitingPickup, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// Label returns the human-readable form of the status.
func (s OrderStatus) Label() string {
	switch s {
	case StatusAwaitingPayment:
		return "Aguardando Pagamento"
	case StatusPaymentRejected:
		return "Pagamento Rejeitado"
	case StatusPaymentApproved:
		return "Pagamento com Sucesso"
	case StatusAwaitingPickup:
		return "Aguardando Retirada"
	case StatusInTransit:
		return "Em Trânsito"
	case StatusDelivered:
		return "Entregue"
	case StatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// Payment methods accepted at checkout.
const (
	PaymentBoleto = "BOLETO"
	PaymentCard   = "CARTAO"
)

// CardDetails holds the card data captured at checkout. Orders persist only
// the masked form produced by Masked.
type CardDetails struct {
	Number       string `json:"numero_cartao"`
	SecurityCode string `json:"codigo_verificador"`
	HolderName   string `json:"nome_completo"`
	Expiry       string `json:"data_vencimento"`
	Installments int    `json:"quantidade_parcelas"`
}

// Masked returns a copy safe for persistence: the card number reduced to its
// last four digits and the security code dropped.
func (c CardDetails) Masked() CardDetails {
	digits := strings.Map(keepDigit, c.Number)
	masked := "****"
	if len(digits) >= 4 {
		masked = "**** **** **** " + digits[len(digits)-4:]
	}
	return CardDetails{
		Number:       masked,
		HolderName:   c.HolderName,
		Expiry:       c.Expiry,
		Installments: c.Installments,
	}
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

// OrderItem is an immutable snapshot of one cart line at order creation.
// Later product price or name changes never alter it.
type OrderItem struct {
	ProductSequentialID uint64  `json:"produto_sequencial_id"`
	ProductName         string  `json:"nome_produto"`
	Quantity            int     `json:"quantidade"`
	UnitPrice           float64 `json:"preco_unitario"`
	Total               float64 `json:"total"`
}

// Order is a placed customer order. Items, delivery address and card details
// are value snapshots stored as JSON documents. Total is always recomputed
// as Subtotal + ShippingFee on persistence.
type Order struct {
	ID              string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Number          uint64       `json:"numero_pedido" gorm:"uniqueIndex"`
	CustomerID      string       `json:"cliente_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem  `json:"itens" gorm:"serializer:json"`
	DeliveryAddress Address      `json:"endereco_entrega" gorm:"serializer:json"`
	PaymentMethod   string       `json:"forma_pagamento"`
	Card            *CardDetails `json:"dados_cartao,omitempty" gorm:"serializer:json"`
	Subtotal        float64      `json:"subtotal"`
	ShippingFee     float64      `json:"frete"`
	Total           float64      `json:"total"`
	Status          OrderStatus  `json:"status" gorm:"type:varchar(30)"`
	CreatedAt       time.Time    `json:"data_criacao"`
	UpdatedAt       time.Time    `json:"data_ultima_atualizacao"`
}

// SetStatus moves the order to a new settable status, stamping the update
// time. It fails with ErrInvalidStatus and leaves the order untouched for
// anything outside the accepted values.
func (o *Order) SetStatus(s OrderStatus) error {
	if !s.Valid() {
		return ErrInvalidStatus
	}
	o.Status = s
	o.UpdatedAt = time.Now()
	return nil
}

// StatusLabel is a convenience for views.
func (o *Order) StatusLabel() string {
	return o.Status.Label()
}
