// internal/domain/command/snapshot.go
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/purchase"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"golang.org/x/sync/errgroup"
)

const snapshotCacheKey = "command:context_snapshot"

// Snapshot is the contextual state handed to the interpreter so it can
// ground entity references in what actually exists.
type Snapshot struct {
	Products    []catalog.Product        `json:"products"`
	Warehouses  []catalog.Warehouse      `json:"warehouses"`
	Suppliers   []catalog.Supplier       `json:"suppliers"`
	RecentStock []stock.TransactionRow   `json:"recent_stock"`
	OpenOrders  []purchase.PurchaseOrder `json:"open_orders"`
}

// SnapshotBuilder assembles the interpreter context. The sub-fetches are
// independent reads and run concurrently; a short-TTL Redis cache keeps
// rapid-fire commands from re-reading the whole catalog every time.
type SnapshotBuilder struct {
	catalog *catalog.Service
	ledger  *stock.Ledger
	orders  *purchase.Service
	cache   *redis.Client
	ttl     time.Duration
	logger  *logrus.Logger
}

// NewSnapshotBuilder creates a snapshot builder. cache may be nil, in which
// case every snapshot is built fresh.
func NewSnapshotBuilder(catalogSvc *catalog.Service, ledger *stock.Ledger, orders *purchase.Service, cache *redis.Client, ttl time.Duration, logger *logrus.Logger) *SnapshotBuilder {
	return &SnapshotBuilder{
		catalog: catalogSvc,
		ledger:  ledger,
		orders:  orders,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Build returns the current context snapshot
func (b *SnapshotBuilder) Build(ctx context.Context) (*Snapshot, error) {
	if cached := b.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var snapshot Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := b.catalog.ListProducts(gctx)
		if err != nil {
			return err
		}
		snapshot.Products = products
		return nil
	})
	g.Go(func() error {
		warehouses, err := b.catalog.ListWarehouses(gctx)
		if err != nil {
			return err
		}
		snapshot.Warehouses = warehouses
		return nil
	})
	g.Go(func() error {
		suppliers, err := b.catalog.ListSuppliers(gctx)
		if err != nil {
			return err
		}
		snapshot.Suppliers = suppliers
		return nil
	})
	g.Go(func() error {
		transactions, err := b.ledger.RecentTransactions(gctx, 20)
		if err != nil {
			return err
		}
		snapshot.RecentStock = transactions
		return nil
	})
	g.Go(func() error {
		orders, err := b.orders.OpenOrders(gctx)
		if err != nil {
			return err
		}
		snapshot.OpenOrders = orders
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build context snapshot: %w", err)
	}

	b.toCache(ctx, &snapshot)
	return &snapshot, nil
}

func (b *SnapshotBuilder) fromCache(ctx context.Context) *Snapshot {
	if b.cache == nil {
		return nil
	}

	payload, err := b.cache.Get(ctx, snapshotCacheKey).Result()
	if err != nil {
		if err != redis.Nil && b.logger != nil {
			b.logger.WithError(err).Warn("snapshot cache read failed")
		}
		return nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func (b *SnapshotBuilder) toCache(ctx context.Context, snapshot *Snapshot) {
	if b.cache == nil {
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := b.cache.Set(ctx, snapshotCacheKey, payload, b.ttl).Err(); err != nil && b.logger != nil {
		b.logger.WithError(err).Warn("snapshot cache write failed")
	}
}
