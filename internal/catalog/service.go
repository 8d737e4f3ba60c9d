package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: product code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	product := Product{
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		UnitPrice: req.UnitPrice,
	}
	if err := s.validate(product); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByCode(ctx, product.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing product: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: product code already exists", ErrAlreadyExists)
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]interface{})
	if req.Code != nil {
		if strings.TrimSpace(*req.Code) == "" {
			return nil, fmt.Errorf("%w: product code is required", httpx.ErrValidation)
		}
		updates["code"] = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: product name is required", httpx.ErrValidation)
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
