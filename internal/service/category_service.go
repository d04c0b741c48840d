package service

import (
	"context"
	"errors"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
}

func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository) CategoryService {
	return &categoryService{repo: repo, products: products}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, &apierror.ValidationError{Field: "name", Message: "category name already exists"}
	}
	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apierror.ValidationError{Field: "name", Message: "category name already exists"}
		}
		return nil, err
	}
	resp := categoryToResponse(c, 0)
	return &resp, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("category")
	}
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := categoryToResponse(c, count)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		count, err := s.products.CountByCategory(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		resp[i] = categoryToResponse(&categories[i], count)
	}
	return resp, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("category")
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apierror.ValidationError{Field: "name", Message: "category name already exists"}
		}
		return nil, err
	}
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := categoryToResponse(c, count)
	return &resp, nil
}

// Delete refuses to remove a category that still has products; reassign or
// delete the products first.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("category")
	}
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apierror.ValidationError{Message: "category has products and cannot be deleted"}
	}
	return s.repo.Delete(ctx, id)
}

func categoryToResponse(c *model.Category, productCount int64) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Description:  c.Description,
		IsActive:     c.IsActive,
		ProductCount: productCount,
	}
}
