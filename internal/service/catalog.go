package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

// ListProducts returns every active product keyed by id with its live stock.
func (s *CatalogService) ListProducts(ctx context.Context) (*transport.ProductsResponse, error) {
	products, err := s.Repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ListActiveProducts: %w", err)
	}

	out := make(map[string]transport.ProductStock, len(products))
	for _, p := range products {
		out[p.ProductID] = transport.ProductStock{
			ProductID:      p.ProductID,
			ProductName:    p.ProductName,
			Price:          p.Price,
			AvailableGrams: p.AvailableGrams,
		}
	}

	return &transport.ProductsResponse{Products: out, Count: len(out)}, nil
}

// GetProduct returns a single product, active or not; a hidden product is
// reported the same as a missing one.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*transport.ProductStock, error) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Product not found")
		}
		return nil, fmt.Errorf("repo.GetProduct: %w", err)
	}
	if !product.IsActive {
		return nil, fail(ErrNotFound, "Product not found")
	}

	return &transport.ProductStock{
		ProductID:      product.ProductID,
		ProductName:    product.ProductName,
		Price:          product.Price,
		AvailableGrams: product.AvailableGrams,
	}, nil
}
