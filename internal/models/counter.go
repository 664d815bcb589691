package models

// Counter holds the last issued value of a named sequence. Rows are locked
// while incrementing so two transactions never hand out the same value.
type Counter struct {
	Name  string `json:"name" gorm:"primarykey;size:50"`
	Value uint64 `json:"value" gorm:"not null"`
}

// Sequence names used across the application.
const (
	SequenceProducts = "produtos"
	SequenceOrders   = "pedidos"
	SequenceStaff    = "usuarios"
)
