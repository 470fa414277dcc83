package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart upserts the whole cart record, keyed by cart_id. Carts are created
// lazily on first mutation and never deleted; expiry is the store's job.
func (r *GormRepo) SaveCart(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}},
			UpdateAll: true,
		}).
		Create(cart).Error
}
