package service

import (
	"context"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo     repository.SupplierRepository
	products repository.ProductRepository
}

func NewSupplierService(repo repository.SupplierRepository, products repository.ProductRepository) SupplierService {
	return &supplierService{repo: repo, products: products}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup, 0)
	return &resp, nil
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("supplier")
	}
	count, err := s.products.CountBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup, count)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		count, err := s.products.CountBySupplier(ctx, suppliers[i].ID)
		if err != nil {
			return nil, err
		}
		resp[i] = supplierToResponse(&suppliers[i], count)
	}
	return resp, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("supplier")
	}
	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.ContactPerson != nil {
		sup.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		sup.Email = *req.Email
	}
	if req.Phone != nil {
		sup.Phone = *req.Phone
	}
	if req.Address != nil {
		sup.Address = *req.Address
	}
	if req.IsActive != nil {
		sup.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	count, err := s.products.CountBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup, count)
	return &resp, nil
}

// Delete refuses to remove a supplier that still has products.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("supplier")
	}
	count, err := s.products.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apierror.ValidationError{Message: "supplier has products and cannot be deleted"}
	}
	return s.repo.Delete(ctx, id)
}

func supplierToResponse(s *model.Supplier, productCount int64) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		IsActive:      s.IsActive,
		ProductCount:  productCount,
	}
}
