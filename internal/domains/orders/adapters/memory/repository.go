package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	catalogdomain "github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	catalogports "github.com/ecomai/ecom-api-server/internal/domains/catalog/ports"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store preserving insertion order.
type Repository struct {
	mu     sync.RWMutex
	byCode map[string]*domain.Order
	codes  []string
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{byCode: map[string]*domain.Order{}}
}

func (r *Repository) GetByCode(_ context.Context, code string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.byCode[code]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.codes))
	for _, code := range r.codes {
		list = append(list, cloneOrder(r.byCode[code]))
	}
	return list, nil
}

func (r *Repository) insert(order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCode[order.Code]; exists {
		return nil, fmt.Errorf("%w: %s", ports.ErrDuplicateOrderCode, order.Code)
	}
	clone := cloneOrder(order)
	r.nextID++
	clone.ID = r.nextID
	for i := range clone.Items {
		clone.Items[i].ID = clone.ID*1000 + int64(i) + 1
	}
	r.byCode[clone.Code] = clone
	r.codes = append(r.codes, clone.Code)
	return cloneOrder(clone), nil
}

func (r *Repository) remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[code]; !ok {
		return
	}
	delete(r.byCode, code)
	for i, c := range r.codes {
		if c == code {
			r.codes = append(r.codes[:i], r.codes[i+1:]...)
			break
		}
	}
}

var _ ports.PlacementStore = (*PlacementStore)(nil)

// PlacementStore emulates the relational transaction boundary in memory: a
// single mutex serializes placements and a journal undoes partial work when
// the loop fails.
type PlacementStore struct {
	mu       sync.Mutex
	products catalogports.Repository
	orders   *Repository
}

// NewPlacementStore couples the in-memory catalog and order repositories.
func NewPlacementStore(products catalogports.Repository, orders *Repository) *PlacementStore {
	return &PlacementStore{products: products, orders: orders}
}

func (s *PlacementStore) Place(ctx context.Context, fn func(tx ports.PlacementTx) error) error {
	if s == nil || s.products == nil || s.orders == nil {
		return errors.New("memory placement store not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &placementTx{store: s}
	if err := fn(tx); err != nil {
		tx.rollback(ctx)
		return err
	}
	return nil
}

type deduction struct {
	productID int64
	quantity  int32
}

type placementTx struct {
	store     *PlacementStore
	deducted  []deduction
	savedCode string
}

func (t *placementTx) DeductStock(ctx context.Context, productID int64, quantity int32) (*catalogdomain.Product, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := t.store.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ports.ErrProductNotFound, productID)
		}
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, &ports.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}
	if err := product.Deduct(quantity); err != nil {
		return nil, err
	}
	saved, err := t.store.products.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	t.deducted = append(t.deducted, deduction{productID: productID, quantity: quantity})
	return saved, nil
}

func (t *placementTx) SaveOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	saved, err := t.store.orders.insert(order)
	if err != nil {
		return nil, err
	}
	t.savedCode = saved.Code
	return saved, nil
}

// rollback restores journaled deductions in reverse and drops the order.
func (t *placementTx) rollback(ctx context.Context) {
	if t.savedCode != "" {
		t.store.orders.remove(t.savedCode)
	}
	for i := len(t.deducted) - 1; i >= 0; i-- {
		d := t.deducted[i]
		product, err := t.store.products.GetByID(ctx, d.productID)
		if err != nil {
			continue
		}
		product.StockQuantity += d.quantity
		_, _ = t.store.products.Save(ctx, product)
	}
}

func cloneOrder(order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}
