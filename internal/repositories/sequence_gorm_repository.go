package repositories

import (
	"errors"
	"fmt"

	"drogaria/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSequenceRepository implements SequenceRepository using a counters table.
type GORMSequenceRepository struct {
	db *gorm.DB
}

// NewGORMSequenceRepository creates a new instance of GORMSequenceRepository.
func NewGORMSequenceRepository(db *gorm.DB) *GORMSequenceRepository {
	return &GORMSequenceRepository{db: db}
}

// Next increments and returns the named counter. The row is locked for the
// duration of the transaction, so concurrent callers each receive a distinct
// value.
func (r *GORMSequenceRepository) Next(name string) (uint64, error) {
	var next uint64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var counter models.Counter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.Counter{Name: name, Value: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return fmt.Errorf("failed to create counter %s: %w", name, err)
			}
			next = counter.Value
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock counter %s: %w", name, err)
		}

		counter.Value++
		if err := tx.Save(&counter).Error; err != nil {
			return fmt.Errorf("failed to advance counter %s: %w", name, err)
		}
		next = counter.Value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
