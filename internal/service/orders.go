package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// ListOrders returns the caller's order history, newest first. Guests have no
// history, only authenticated users do.
func (s *OrderService) ListOrders(ctx context.Context, userID string) (*transport.OrdersResponse, error) {
	if userID == "" || strings.HasPrefix(userID, "guest_") {
		return nil, fail(ErrAuthRequired, "Unauthorized")
	}

	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.ListOrders: %w", err)
	}

	return &transport.OrdersResponse{Orders: orders, Count: len(orders)}, nil
}

// GetOrder fetches one order and enforces ownership. An order belonging to a
// different user is reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*transport.OrdersResponse, error) {
	if userID == "" || strings.HasPrefix(userID, "guest_") {
		return nil, fail(ErrAuthRequired, "Unauthorized")
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Order not found")
		}
		return nil, fmt.Errorf("repo.GetOrder: %w", err)
	}
	if order.UserID != userID {
		return nil, fail(ErrNotFound, "Order not found")
	}

	return &transport.OrdersResponse{Orders: []models.Order{*order}, Count: 1}, nil
}
