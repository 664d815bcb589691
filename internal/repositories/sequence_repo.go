package repositories

// SequenceRepository hands out monotonically increasing numbers for
// customer-facing identifiers such as product codes and order numbers.
type SequenceRepository interface {
	Next(name string) (uint64, error)
}
