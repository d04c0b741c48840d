package service

import (
	"context"
	"time"

	"invtrack/internal/authz"
	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for testing. Tx methods
// accept the nil *gorm.DB that runTx passes in unit-test mode.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	skuIdx   map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		skuIdx:   make(map[string]*model.Product),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if _, exists := r.skuIdx[p.SKU]; exists {
		return gorm.ErrDuplicatedKey
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	r.skuIdx[p.SKU] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	p, ok := r.skuIdx[sku]
	if !ok || p.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if !p.IsDeleted {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	r.skuIdx[p.SKU] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsDeleted = true
	return nil
}

func (r *stubProductRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CategoryID == categoryID && !p.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.SupplierID == supplierID && !p.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	p, ok := r.products[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if p.StockQuantity < qty {
		return 0, nil
	}
	p.StockQuantity -= qty
	return 1, nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity += qty
	return nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity = qty
	return nil
}

func (r *stubProductRepo) FindBelowReorder(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.IsActive && !p.IsDeleted && p.StockQuantity <= p.ReorderLevel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) CountOutOfStock(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.StockQuantity == 0 && !p.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubOrderRepo is an in-memory OrderRepository.
type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	seqs   map[int]int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[uuid.UUID]*model.Order),
		seqs:   make(map[int]int),
	}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Return a snapshot, as a DB read would; callers must not see later
	// writes through a stale handle.
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, scope authz.OrderScope, _ dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if scope.Covers(o) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (r *stubOrderRepo) NextSequenceTx(_ *gorm.DB, year int) (int, error) {
	r.seqs[year]++
	return r.seqs[year], nil
}

func (r *stubOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if !o.OrderDate.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.orders {
		if o.Status != model.OrderStatusCancelled {
			total = total.Add(o.TotalAmount)
		}
	}
	return total, nil
}

func (r *stubOrderRepo) RevenueSince(_ context.Context, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.orders {
		if o.Status != model.OrderStatusCancelled && !o.OrderDate.Before(since) {
			total = total.Add(o.TotalAmount)
		}
	}
	return total, nil
}

func (r *stubOrderRepo) TopProducts(_ context.Context, _ int) ([]dto.TopProductStat, error) {
	return nil, nil
}

func (r *stubOrderRepo) Recent(_ context.Context, _ int) ([]model.Order, error) {
	return nil, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// stubMovementRepo captures ledger writes for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubAlertRepo is an in-memory AlertRepository.
type stubAlertRepo struct {
	alerts map[uuid.UUID]*model.LowStockAlert
}

func newStubAlertRepo() *stubAlertRepo {
	return &stubAlertRepo{alerts: make(map[uuid.UUID]*model.LowStockAlert)}
}

func (r *stubAlertRepo) Create(_ context.Context, a *model.LowStockAlert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alerts[a.ID] = a
	return nil
}

func (r *stubAlertRepo) Update(_ context.Context, a *model.LowStockAlert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *stubAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LowStockAlert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAlertRepo) FindUnreadByProduct(_ context.Context, productID uuid.UUID) (*model.LowStockAlert, error) {
	for _, a := range r.alerts {
		if a.ProductID == productID && !a.IsRead {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAlertRepo) List(_ context.Context, filter dto.AlertFilter) ([]model.LowStockAlert, int64, error) {
	var out []model.LowStockAlert
	for _, a := range r.alerts {
		if filter.UnreadOnly && a.IsRead {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAlertRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	a, ok := r.alerts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.IsRead = true
	return nil
}

func (r *stubAlertRepo) CountUnread(_ context.Context) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if !a.IsRead {
			n++
		}
	}
	return n, nil
}

var _ repository.AlertRepository = (*stubAlertRepo)(nil)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	users    map[uuid.UUID]*model.User
	emailIdx map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:    make(map[uuid.UUID]*model.User),
		emailIdx: make(map[string]*model.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, exists := r.emailIdx[u.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	r.emailIdx[u.Email] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.emailIdx[email]
	if !ok || u.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.IsDeleted {
			continue
		}
		if !includeInactive && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	r.emailIdx[u.Email] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsDeleted = true
	u.IsActive = false
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubCategoryRepo / stubSupplierRepo back the catalog services.
type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, sku string, stock, reorder int) *model.Product {
	p := &model.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           sku,
		Price:         decimal.NewFromFloat(10),
		StockQuantity: stock,
		ReorderLevel:  reorder,
		CategoryID:    uuid.New(),
		SupplierID:    uuid.New(),
		IsActive:      true,
	}
	repo.products[p.ID] = p
	repo.skuIdx[p.SKU] = p
	return p
}

func seedUser(repo *stubUserRepo, email, role string) *model.User {
	u := &model.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	repo.users[u.ID] = u
	repo.emailIdx[u.Email] = u
	return u
}
