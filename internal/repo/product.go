package repo

import (
	"context"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("product_id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
