package service

import (
	"context"
	"testing"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (ProductService, *stubProductRepo, *stubCategoryRepo, *stubSupplierRepo, *stubMovementRepo, *stubAlertRepo) {
	productRepo := newStubProductRepo()
	categoryRepo := newStubCategoryRepo()
	supplierRepo := newStubSupplierRepo()
	movementRepo := &stubMovementRepo{}
	alertRepo := newStubAlertRepo()
	svc := NewProductService(productRepo, categoryRepo, supplierRepo, movementRepo, alertRepo, nil, "")
	return svc, productRepo, categoryRepo, supplierRepo, movementRepo, alertRepo
}

func seedCatalog(categoryRepo *stubCategoryRepo, supplierRepo *stubSupplierRepo) (*model.Category, *model.Supplier) {
	cat := &model.Category{ID: uuid.New(), Name: "Beverages", IsActive: true}
	categoryRepo.categories[cat.ID] = cat
	sup := &model.Supplier{ID: uuid.New(), Name: "Acme Distribution", IsActive: true}
	supplierRepo.suppliers[sup.ID] = sup
	return cat, sup
}

func TestCreateProduct_InitialStockMovement(t *testing.T) {
	svc, _, categoryRepo, supplierRepo, movementRepo, _ := buildProductSvc()
	cat, sup := seedCatalog(categoryRepo, supplierRepo)
	actor := uuid.New()

	resp, err := svc.Create(context.Background(), actor, dto.CreateProductRequest{
		Name:          "Sparkling Water 500ml",
		SKU:           "SPW-500",
		Price:         decimal.NewFromFloat(2.50),
		StockQuantity: 40,
		ReorderLevel:  10,
		CategoryID:    cat.ID.String(),
		SupplierID:    sup.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "SPW-500", resp.SKU)
	assert.True(t, resp.IsActive)

	require.Len(t, movementRepo.movements, 1)
	m := movementRepo.movements[0]
	assert.Equal(t, 40, m.Quantity)
	assert.Equal(t, model.MovementIn, m.Type)
	assert.Equal(t, "initial stock", m.Reason)
	assert.Equal(t, actor, m.UserID)
}

func TestCreateProduct_ZeroStockNoMovementButAlert(t *testing.T) {
	svc, _, categoryRepo, supplierRepo, movementRepo, alertRepo := buildProductSvc()
	cat, sup := seedCatalog(categoryRepo, supplierRepo)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		Name:         "Backordered Item",
		SKU:          "BCK-001",
		Price:        decimal.NewFromFloat(9.99),
		ReorderLevel: 5,
		CategoryID:   cat.ID.String(),
		SupplierID:   sup.ID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, movementRepo.movements)

	// stock 0 ≤ reorder 5 → alert opens immediately
	require.Len(t, alertRepo.alerts, 1)
	for _, a := range alertRepo.alerts {
		assert.Equal(t, model.SeverityOutOfStock, a.Severity)
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, productRepo, categoryRepo, supplierRepo, _, _ := buildProductSvc()
	cat, sup := seedCatalog(categoryRepo, supplierRepo)
	seedProduct(productRepo, "Existing", "DUP-001", 10, 2)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		Name:       "Clone",
		SKU:        "DUP-001",
		Price:      decimal.NewFromFloat(1),
		CategoryID: cat.ID.String(),
		SupplierID: sup.ID.String(),
	})
	var dup *apierror.DuplicateSKUError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "DUP-001", dup.SKU)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _, categoryRepo, supplierRepo, _, _ := buildProductSvc()
	_, sup := seedCatalog(categoryRepo, supplierRepo)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		Name:       "Orphan",
		SKU:        "ORP-001",
		Price:      decimal.NewFromFloat(1),
		CategoryID: uuid.NewString(),
		SupplierID: sup.ID.String(),
	})
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Entity)
}

func TestUpdateProduct_StockDeltaMovement(t *testing.T) {
	svc, productRepo, categoryRepo, supplierRepo, movementRepo, _ := buildProductSvc()
	cat, sup := seedCatalog(categoryRepo, supplierRepo)
	p := seedProduct(productRepo, "Widget", "UPD-001", 10, 2)
	p.CategoryID = cat.ID
	p.SupplierID = sup.ID

	resp, err := svc.Update(context.Background(), uuid.New(), p.ID, dto.UpdateProductRequest{
		Name:          "Widget v2",
		SKU:           "UPD-001",
		Price:         decimal.NewFromFloat(12),
		StockQuantity: 25,
		ReorderLevel:  2,
		CategoryID:    cat.ID.String(),
		SupplierID:    sup.ID.String(),
		IsActive:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.StockQuantity)

	require.Len(t, movementRepo.movements, 1)
	m := movementRepo.movements[0]
	assert.Equal(t, 15, m.Quantity)
	assert.Equal(t, model.MovementIn, m.Type)
	assert.Equal(t, "product update", m.Reason)
}

func TestUpdateProduct_SKUCollision(t *testing.T) {
	svc, productRepo, categoryRepo, supplierRepo, _, _ := buildProductSvc()
	cat, sup := seedCatalog(categoryRepo, supplierRepo)
	seedProduct(productRepo, "First", "COL-001", 10, 2)
	p := seedProduct(productRepo, "Second", "COL-002", 10, 2)

	_, err := svc.Update(context.Background(), uuid.New(), p.ID, dto.UpdateProductRequest{
		Name:          "Second",
		SKU:           "COL-001",
		Price:         decimal.NewFromFloat(5),
		StockQuantity: 10,
		ReorderLevel:  2,
		CategoryID:    cat.ID.String(),
		SupplierID:    sup.ID.String(),
		IsActive:      true,
	})
	var dup *apierror.DuplicateSKUError
	require.ErrorAs(t, err, &dup)
}

func TestDeleteProduct_SoftDelete(t *testing.T) {
	svc, productRepo, _, _, _, _ := buildProductSvc()
	p := seedProduct(productRepo, "Widget", "DEL-001", 10, 2)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.True(t, productRepo.products[p.ID].IsDeleted)

	// Second delete reads as missing
	err := svc.Delete(context.Background(), p.ID)
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
