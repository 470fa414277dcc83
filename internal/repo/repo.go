package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrInventoryConflict reports a commit-time sufficiency condition that
	// failed inside the checkout transaction.
	ErrInventoryConflict = errors.New("inventory conflict")

	// ErrOrderExists reports an order insert that found its id already taken.
	ErrOrderExists = errors.New("order already exists")
)

type GormRepo struct {
	DB *gorm.DB
}
