package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	orderrepo "storefront/internal/repository/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryCatalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func newCatalog(products ...domain.Product) *memoryCatalog {
	c := &memoryCatalog{products: map[string]domain.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *memoryCatalog) Get(_ context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (c *memoryCatalog) setPrice(id, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.products[id]
	p.Price = decimal.RequireFromString(price)
	c.products[id] = p
}

// memoryRepo mirrors the Postgres repository: it re-prices lines at insert
// time and stores order, items and audit entries together.
type memoryRepo struct {
	mu      sync.Mutex
	catalog *memoryCatalog
	orders  map[string]domain.Order
	items   map[string][]domain.OrderItem
	audit   []domain.AuditEntry
	now     func() time.Time
	failErr error
}

func newMemoryRepo(catalog *memoryCatalog) *memoryRepo {
	return &memoryRepo{
		catalog: catalog,
		orders:  map[string]domain.Order{},
		items:   map[string][]domain.OrderItem{},
		now:     time.Now,
	}
}

func (r *memoryRepo) Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	items, totals, err := domain.PriceLines(ctx, in.Lines, r.catalog.Get)
	if err != nil {
		return nil, err
	}
	if !totals.Equal(in.Totals) {
		return nil, &domain.MismatchError{Field: "total", Claimed: in.Totals.Total, Calculated: totals.Total, Err: domain.ErrTotalMismatch}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	o := domain.Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Email:         in.Email,
		FullName:      in.FullName,
		Address:       in.Address,
		Subtotal:      totals.Subtotal,
		DeliveryTotal: totals.Delivery,
		Total:         totals.Total,
		Status:        domain.OrderStatusPending,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].OrderID = o.ID
		items[i].CreatedAt = now
	}
	r.orders[o.ID] = o
	r.items[o.ID] = items
	r.audit = append(r.audit, domain.AuditEntry{
		EventType: domain.AuditOrderCreated,
		TableName: "orders",
		RecordID:  o.ID,
		UserID:    in.UserID,
		EventData: map[string]interface{}{"anonymous": o.IsAnonymous(), "total": o.Total.StringFixed(2)},
	})
	o.Items = items
	return &o, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *memoryRepo) Items(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.OrderItem(nil), r.items[orderID]...), nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.UserID != nil && *o.UserID == userID }, limit, 0), nil
}

func (r *memoryRepo) List(_ context.Context, f domain.OrderFilter, limit, offset int) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool {
		return (f.Status == "" || o.Status == f.Status) &&
			(f.PaymentMethod == "" || o.PaymentMethod == f.PaymentMethod) &&
			(f.Email == "" || o.Email == f.Email)
	}, limit, offset), nil
}

func (r *memoryRepo) filter(keep func(domain.Order) bool, limit, offset int) []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, actor *string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if o.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = r.now()
	r.orders[id] = o
	r.audit = append(r.audit, domain.AuditEntry{EventType: domain.AuditOrderStatusUpdated, RecordID: id, UserID: actor})
	return &o, nil
}

func (r *memoryRepo) CountAnonymousSince(_ context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.orders {
		if o.UserID == nil && o.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBoom = errors.New("boom")

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func productID(n int) string { return fmt.Sprintf("00000000-0000-4000-8000-%012d", n) }
