package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
)

// CheckoutTx accumulates the conditioned writes of one checkout and submits
// them as a single all-or-nothing database transaction: the order insert, one
// guarded stock decrement per line, and the cart status transition. A failed
// condition anywhere rolls back everything.
type CheckoutTx struct {
	db  *gorm.DB
	now time.Time
	ops []txOp
}

type txOp func(tx *gorm.DB) error

func (r *GormRepo) NewCheckoutTx(now time.Time) *CheckoutTx {
	return &CheckoutTx{db: r.DB, now: now}
}

// InsertOrder adds the order record, conditioned on its id not existing yet.
// The condition defends against an internal retry reusing a generated id, not
// against a client resubmitting the same cart.
func (t *CheckoutTx) InsertOrder(order *models.Order) *CheckoutTx {
	t.ops = append(t.ops, func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("order %s: %w", order.OrderID, ErrOrderExists)
			}
			return fmt.Errorf("insert order %s: %w", order.OrderID, err)
		}
		return nil
	})
	return t
}

// DecrementStock adds a stock decrement guarded by a sufficiency condition
// evaluated atomically with the write. This is the authoritative gate against
// concurrent oversell; any read-time check is only a fast fail.
func (t *CheckoutTx) DecrementStock(productID string, grams int64) *CheckoutTx {
	now := t.now
	t.ops = append(t.ops, func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("product_id = ? AND available_grams >= ?", productID, grams).
			Updates(map[string]interface{}{
				"available_grams": gorm.Expr("available_grams - ?", grams),
				"updated_at":      now,
			})
		if res.Error != nil {
			return fmt.Errorf("decrement stock %s: %w", productID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("product %s: %w", productID, ErrInventoryConflict)
		}
		return nil
	})
	return t
}

// MarkCheckedOut adds the cart's one-time ACTIVE -> CHECKED_OUT transition.
func (t *CheckoutTx) MarkCheckedOut(cartID string) *CheckoutTx {
	now := t.now
	t.ops = append(t.ops, func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("cart_id = ? AND status = ?", cartID, models.CartStatusActive).
			Updates(map[string]interface{}{
				"status":     models.CartStatusCheckedOut,
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("mark cart %s checked out: %w", cartID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("cart %s not active: %w", cartID, ErrInventoryConflict)
		}
		return nil
	})
	return t
}

func (t *CheckoutTx) Commit(ctx context.Context) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range t.ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
