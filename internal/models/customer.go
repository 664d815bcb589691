package models

import "time"

// Address is a postal address owned by exactly one customer. Delivery
// addresses live embedded in the customer document; orders keep their own
// value copy.
type Address struct {
	ID           string `json:"id"`
	PostalCode   string `json:"cep"`
	Street       string `json:"logradouro"`
	Number       string `json:"numero"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	State        string `json:"uf"`
	IsDefault    bool   `json:"padrao"`
}

// Customer is a store customer. Delivery addresses are stored as a JSON
// document column, mirroring the embedded-document shape of the data; at
// most one of them is marked default.
type Customer struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email             string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	CPF               string    `json:"cpf" gorm:"uniqueIndex;type:varchar(11)"`
	Name              string    `json:"nome"`
	BirthDate         time.Time `json:"data_nascimento"`
	Gender            string    `json:"genero"`
	PasswordHash      string    `json:"-" gorm:"type:varchar(255)"`
	BillingAddress    Address   `json:"endereco_faturamento" gorm:"embedded;embeddedPrefix:billing_"`
	DeliveryAddresses []Address `json:"enderecos_entrega" gorm:"serializer:json"`
	Active            bool      `json:"status"`
	CreatedAt         time.Time `json:"data_criacao"`
	UpdatedAt         time.Time `json:"data_ultima_alteracao"`
}

// DefaultAddress returns the delivery address currently marked default, or
// nil when the customer has none.
func (c *Customer) DefaultAddress() *Address {
	for i := range c.DeliveryAddresses {
		if c.DeliveryAddresses[i].IsDefault {
			return &c.DeliveryAddresses[i]
		}
	}
	return nil
}

// AddressByID returns the delivery address with the given ID, or nil.
func (c *Customer) AddressByID(id string) *Address {
	for i := range c.DeliveryAddresses {
		if c.DeliveryAddresses[i].ID == id {
			return &c.DeliveryAddresses[i]
		}
	}
	return nil
}
