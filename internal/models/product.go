package models

import "time"

// Product represents an item of the store catalog. SequentialID is the
// display-facing number used across the storefront and backoffice; ID is the
// storage primary key.
type Product struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SequentialID uint64    `json:"sequencial_id" gorm:"uniqueIndex"`
	Name         string    `json:"nome" gorm:"type:varchar(200)" validate:"required,max=200"`
	Rating       float64   `json:"avaliacao" validate:"gt=0,lte=5"`
	Description  string    `json:"descricao" gorm:"type:varchar(2000)" validate:"required,max=2000"`
	Price        float64   `json:"preco" validate:"gt=0"`
	Stock        int       `json:"quantidade_estoque" validate:"gte=0"`
	Active       bool      `json:"status"`
	CreatedAt    time.Time `json:"data_criacao"`
	UpdatedAt    time.Time `json:"data_ultima_alteracao"`
}

// ProductImage is an uploaded image file attached to a product. The product
// is referenced by its sequential ID, not by a foreign object. At most one
// image per product carries IsPrimary; the catalog service unsets the flag
// on the others when a new primary is attached.
type ProductImage struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductSequentialID uint64    `json:"produto_sequencial_id" gorm:"index"`
	OriginalName        string    `json:"nome_arquivo_original"`
	StoredName          string    `json:"nome_arquivo_salvo"`
	Path                string    `json:"caminho_arquivo"`
	IsPrimary           bool      `json:"imagem_principal"`
	UploadedAt          time.Time `json:"data_upload"`
}

// PlaceholderImage is returned by primary-image resolution when a product has
// no image at all.
const PlaceholderImage = "https://via.placeholder.com/300x300?text=Sem+Imagem"
