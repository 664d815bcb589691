package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// ErrDataIntegrity is wrapped when a lookup that must be unique matches more
// than one record. The store enforces unique indexes, so hitting this means
// legacy duplicate data that needs a migration, not a runtime fallback.
var ErrDataIntegrity = errors.New("data integrity violation")

// InsufficientStockError is returned by order creation when a conditional
// stock decrement matches no row, i.e. the remaining stock no longer covers
// the requested quantity.
type InsufficientStockError struct {
	ProductSequentialID uint64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductSequentialID)
}
