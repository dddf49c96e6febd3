package product

import (
	"context"

	domproduct "example.com/threadcart/app/internal/domain/product"
)

type Service struct {
	repo domproduct.Repository
}

func NewService(repo domproduct.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	return s.repo.GetByID(ctx, id)
}
