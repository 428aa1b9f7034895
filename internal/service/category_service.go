package service

import (
	"context"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List 获取分类列表
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

// GetByID 获取分类，不存在时返回 ErrNotFound
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// CountActiveProducts 统计分类下上架商品数
func (s *CategoryService) CountActiveProducts(ctx context.Context, id uint) (int64, error) {
	return s.repo.CountProducts(ctx, id, true)
}
