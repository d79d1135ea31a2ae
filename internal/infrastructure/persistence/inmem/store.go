// Package inmem holds an in-memory implementation of the order placement
// storage, used by application tests that need real transactional behavior
// without a database.
package inmem

import (
	"context"
	"slices"
	"sync"

	"github.com/erp/storefront/internal/domain/cart"
	"github.com/erp/storefront/internal/domain/catalog"
	"github.com/erp/storefront/internal/domain/customer"
	"github.com/erp/storefront/internal/domain/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fault points for InjectFault
const (
	FaultLockCart    = "lock_cart"
	FaultCartLines   = "cart_lines"
	FaultCustomer    = "customer"
	FaultInsertOrder = "insert_order"
	FaultClearCart   = "clear_cart"
)

type state struct {
	products  map[uuid.UUID]catalog.Product
	carts     map[uuid.UUID]bool
	cartItems map[uuid.UUID]cart.Item
	customers map[uuid.UUID]customer.Customer
	orders    map[uuid.UUID]ordering.Order
}

func (s state) clone() state {
	return state{
		products:  cloneMap(s.products),
		carts:     cloneMap(s.carts),
		cartItems: cloneMap(s.cartItems),
		customers: cloneMap(s.customers),
		orders:    cloneMap(s.orders),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is a mutex-guarded set of tables. A unit of work holds the lock for
// its whole duration and restores a snapshot when it fails.
type Store struct {
	mu     sync.Mutex
	data   state
	faults map[string]error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		data: state{
			products:  map[uuid.UUID]catalog.Product{},
			carts:     map[uuid.UUID]bool{},
			cartItems: map[uuid.UUID]cart.Item{},
			customers: map[uuid.UUID]customer.Customer{},
			orders:    map[uuid.UUID]ordering.Order{},
		},
		faults: map[string]error{},
	}
}

// InjectFault makes the named placement step fail with err
func (s *Store) InjectFault(step string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[step] = err
}

// AddProduct stores a product
func (s *Store) AddProduct(p *catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = *p
}

// SetUnitPrice changes a stored product's price
func (s *Store) SetUnitPrice(productID uuid.UUID, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.data.products[productID]
	p.UnitPrice = price
	s.data.products[productID] = p
}

// AddCart stores an empty cart
func (s *Store) AddCart(c *cart.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.carts[c.ID] = true
}

// AddCartItem stores a line in a cart
func (s *Store) AddCartItem(item *cart.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.cartItems[item.ID] = *item
}

// CartHasRow reports whether the cart row still exists
func (s *Store) CartHasRow(cartID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.carts[cartID]
}

// CartItemCount returns the number of lines in the cart
func (s *Store) CartItemCount(cartID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.data.cartItems {
		if item.CartID == cartID {
			n++
		}
	}
	return n
}

// OrderCount returns the number of stored orders
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

// CustomerForUser returns the customer tied to the user, if any
func (s *Store) CustomerForUser(userID uuid.UUID) (*customer.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.customers {
		if c.UserID == userID {
			return &c, true
		}
	}
	return nil, false
}

// UnitOfWork returns the placement unit of work over this store
func (s *Store) UnitOfWork() ordering.UnitOfWork {
	return unitOfWork{store: s}
}

// Orders returns an order repository over this store
func (s *Store) Orders() ordering.OrderRepository {
	return orderRepository{store: s}
}

type unitOfWork struct {
	store *Store
}

func (u unitOfWork) Execute(ctx context.Context, fn func(tx ordering.PlacementTx) error) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(placementTx{store: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// placementTx runs with the store lock already held
type placementTx struct {
	store *Store
}

func (t placementTx) fault(step string) error {
	return t.store.faults[step]
}

func (t placementTx) LockCart(ctx context.Context, cartID uuid.UUID) error {
	if err := t.fault(FaultLockCart); err != nil {
		return err
	}
	if !t.store.data.carts[cartID] {
		return ordering.ErrCartNotFound
	}
	return nil
}

func (t placementTx) CartLines(ctx context.Context, cartID uuid.UUID) ([]ordering.Line, error) {
	if err := t.fault(FaultCartLines); err != nil {
		return nil, err
	}
	items := make([]cart.Item, 0)
	for _, item := range t.store.data.cartItems {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b cart.Item) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	lines := make([]ordering.Line, 0, len(items))
	for _, item := range items {
		product, ok := t.store.data.products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, ordering.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}
	return lines, nil
}

func (t placementTx) CustomerIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if err := t.fault(FaultCustomer); err != nil {
		return uuid.Nil, err
	}
	for _, c := range t.store.data.customers {
		if c.UserID == userID {
			return c.ID, nil
		}
	}
	c, err := customer.New(userID)
	if err != nil {
		return uuid.Nil, err
	}
	t.store.data.customers[c.ID] = *c
	return c.ID, nil
}

func (t placementTx) InsertOrder(ctx context.Context, order *ordering.Order) error {
	if _, exists := t.store.data.orders[order.ID]; exists {
		return shared.ErrAlreadyExists
	}
	stored := *order
	stored.Items = slices.Clone(order.Items)
	stored.ClearDomainEvents()
	t.store.data.orders[order.ID] = stored
	// the fault fires after the write so rollback is observable
	return t.fault(FaultInsertOrder)
}

func (t placementTx) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range t.store.data.cartItems {
		if item.CartID == cartID {
			delete(t.store.data.cartItems, id)
		}
	}
	return t.fault(FaultClearCart)
}

type orderRepository struct {
	store *Store
}

func (r orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.data.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.withTitles(order), nil
}

func (r orderRepository) FindAll(ctx context.Context, filter ordering.OrderFilter) ([]ordering.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	orders := r.matching(filter)
	slices.SortFunc(orders, func(a, b ordering.Order) int {
		return b.PlacedAt.Compare(a.PlacedAt)
	})
	if filter.Page > 0 && filter.PageSize > 0 {
		start := min(filter.Offset(), len(orders))
		end := min(start+filter.PageSize, len(orders))
		orders = orders[start:end]
	}
	for i := range orders {
		orders[i] = *r.withTitles(orders[i])
	}
	return orders, nil
}

func (r orderRepository) Count(ctx context.Context, filter ordering.OrderFilter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r orderRepository) UpdatePaymentStatus(ctx context.Context, order *ordering.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.data.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	stored.PaymentStatus = order.PaymentStatus
	stored.UpdatedAt = order.UpdatedAt
	r.store.data.orders[order.ID] = stored
	return nil
}

func (r orderRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.data.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.data.orders, id)
	return nil
}

func (r orderRepository) matching(filter ordering.OrderFilter) []ordering.Order {
	orders := make([]ordering.Order, 0, len(r.store.data.orders))
	for _, order := range r.store.data.orders {
		if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
			continue
		}
		orders = append(orders, order)
	}
	return orders
}

func (r orderRepository) withTitles(order ordering.Order) *ordering.Order {
	order.Items = slices.Clone(order.Items)
	for i := range order.Items {
		if p, ok := r.store.data.products[order.Items[i].ProductID]; ok {
			order.Items[i].ProductTitle = p.Title
		}
	}
	return &order
}
