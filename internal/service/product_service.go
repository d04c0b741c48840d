package service

import (
	"context"
	"errors"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"
	"invtrack/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	movements  repository.StockMovementRepository
	alerts     repository.AlertRepository
	dispatcher *worker.Dispatcher
	alertEmail string
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	movements repository.StockMovementRepository,
	alerts repository.AlertRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) ProductService {
	return &productService{
		repo:       repo,
		categories: categories,
		suppliers:  suppliers,
		movements:  movements,
		alerts:     alerts,
		dispatcher: dispatcher,
		alertEmail: alertEmail,
	}
}

func (s *productService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, &apierror.ValidationError{Field: "category_id", Message: "invalid uuid"}
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, &apierror.ValidationError{Field: "supplier_id", Message: "invalid uuid"}
	}

	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, apierror.NotFound("category")
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, apierror.NotFound("supplier")
	}

	// Pre-flight SKU check for a friendly error; the unique constraint
	// still backstops concurrent creates at commit time.
	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, &apierror.DuplicateSKUError{SKU: req.SKU}
	}

	p := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apierror.DuplicateSKUError{SKU: req.SKU}
		}
		return nil, err
	}

	if req.StockQuantity > 0 {
		_ = s.movements.Create(ctx, &model.StockMovement{
			ProductID: p.ID,
			UserID:    actorID,
			Quantity:  req.StockQuantity,
			Type:      model.MovementIn,
			Reason:    "initial stock",
		})
	}

	if err := reconcileAlert(ctx, s.alerts, s.dispatcher, s.alertEmail, p, p.StockQuantity); err != nil {
		return nil, err
	}

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product")
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data[i] = productToResponse(&products[i])
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("product")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, &apierror.ValidationError{Field: "category_id", Message: "invalid uuid"}
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, &apierror.ValidationError{Field: "supplier_id", Message: "invalid uuid"}
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, apierror.NotFound("category")
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, apierror.NotFound("supplier")
	}

	if req.SKU != p.SKU {
		if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
			return nil, &apierror.DuplicateSKUError{SKU: req.SKU}
		}
	}

	prevStock := p.StockQuantity

	p.Name = req.Name
	p.Description = req.Description
	p.SKU = req.SKU
	p.Price = req.Price
	p.StockQuantity = req.StockQuantity
	p.ReorderLevel = req.ReorderLevel
	p.CategoryID = categoryID
	p.SupplierID = supplierID
	p.IsActive = req.IsActive

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apierror.DuplicateSKUError{SKU: req.SKU}
		}
		return nil, err
	}

	if delta := req.StockQuantity - prevStock; delta != 0 {
		movType := model.MovementIn
		if delta < 0 {
			movType = model.MovementOut
		}
		_ = s.movements.Create(ctx, &model.StockMovement{
			ProductID: p.ID,
			UserID:    actorID,
			Quantity:  delta,
			Type:      movType,
			Reason:    "product update",
		})
	}

	if err := reconcileAlert(ctx, s.alerts, s.dispatcher, s.alertEmail, p, p.StockQuantity); err != nil {
		return nil, err
	}

	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("product")
	}
	return s.repo.SoftDelete(ctx, id)
}

func productToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
		CategoryID:    p.CategoryID.String(),
		SupplierID:    p.SupplierID.String(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     p.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	return resp
}
