package application

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/ports"
	searchdomain "github.com/ecomai/ecom-api-server/internal/domains/search/domain"
	searchports "github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

// maxCodeAttempts bounds retries when a generated order code collides with
// an existing one.
const maxCodeAttempts = 3

// Service is the order placement engine. A placement validates stock,
// decrements it, and persists the order with its item snapshots inside one
// transaction; afterwards it re-synchronizes the semantic index for every
// touched product plus the new order summary. Index trouble is logged and
// never unwinds a committed order.
type Service struct {
	store     ports.PlacementStore
	repo      ports.Repository
	indexSync searchports.IndexSyncOrchestrator
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithIndexSync(sync searchports.IndexSyncOrchestrator) Option {
	return func(s *Service) { s.indexSync = sync }
}

// WithClock overrides the order-date source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the placement engine with its dependencies.
func NewService(store ports.PlacementStore, repo ports.Repository, opts ...Option) *Service {
	s := &Service{store: store, repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder runs the placement algorithm for one request. Items are
// processed in the order the caller supplied them; any stock or lookup
// failure aborts the whole placement with no relational mutation left
// behind.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var placed *domain.Order
	var requests []searchports.SyncRequest
	for attempt := 0; ; attempt++ {
		order, err := domain.NewOrder(domain.NewOrderCode(), input.CustomerName, input.Email, s.now())
		if err != nil {
			return nil, mapError(err)
		}
		requests = requests[:0]
		err = s.store.Place(ctx, func(tx ports.PlacementTx) error {
			for _, item := range input.Items {
				product, err := tx.DeductStock(ctx, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if err := order.AddItem(product.ID, product.Name, item.Quantity, product.Price); err != nil {
					return err
				}
				requests = append(requests, productSyncRequest(product.ID, product.SemanticContent()))
			}
			saved, err := tx.SaveOrder(ctx, order)
			if err != nil {
				return err
			}
			placed = saved
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, ports.ErrDuplicateOrderCode) && attempt < maxCodeAttempts-1 {
			s.logWarn(ctx, "order code collision, regenerating", err, slog.String("order.code", order.Code))
			continue
		}
		return nil, mapError(err)
	}

	requests = append(requests, orderSyncRequest(placed))
	s.syncIndex(ctx, placed, requests)
	return placed, nil
}

// GetOrder loads one order by its code.
func (s *Service) GetOrder(ctx context.Context, code string) (*domain.Order, error) {
	order, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// ListOrders returns all persisted orders with their item snapshots, in
// storage order. Read-only; the index is never touched.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// syncIndex pushes the post-commit documents. The relational state is
// already durable, so failures here only cost index freshness.
func (s *Service) syncIndex(ctx context.Context, order *domain.Order, requests []searchports.SyncRequest) {
	if s.indexSync == nil {
		return
	}
	if err := s.indexSync.Sync(ctx, requests); err != nil {
		s.logWarn(ctx, "semantic index sync failed after placement", err, slog.String("order.code", order.Code))
	}
}

func validateInput(input ports.PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return mapError(domain.ErrNoItems)
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return mapError(domain.ErrInvalidQuantity)
		}
	}
	return nil
}

func productSyncRequest(productID int64, content string) searchports.SyncRequest {
	id := strconv.FormatInt(productID, 10)
	return searchports.SyncRequest{
		MetadataKey:   searchdomain.MetadataProductID,
		MetadataValue: id,
		Document:      searchdomain.NewDocument(content, map[string]string{searchdomain.MetadataProductID: id}),
	}
}

func orderSyncRequest(order *domain.Order) searchports.SyncRequest {
	return searchports.SyncRequest{
		MetadataKey:   searchdomain.MetadataOrderID,
		MetadataValue: order.Code,
		Document: searchdomain.NewDocument(order.SummaryContent(),
			map[string]string{searchdomain.MetadataOrderID: order.Code}),
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
