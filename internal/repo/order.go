package repo

import (
	"context"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
)

func (r *GormRepo) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
