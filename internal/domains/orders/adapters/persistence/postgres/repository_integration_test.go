//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/ports"
	"github.com/ecomai/ecom-api-server/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("ecom_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, name, price string, stock int32) {
	t.Helper()
	repo := catalogpostgres.NewRepository(db)
	_, err := repo.Save(context.Background(), &catalogdomain.Product{
		ID:            id,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Available:     stock > 0,
	})
	require.NoError(t, err)
}

func productStock(t *testing.T, db *gorm.DB, id int64) int32 {
	t.Helper()
	product, err := catalogpostgres.NewRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return product.StockQuantity
}

func placeOne(t *testing.T, repo *Repository, productID int64, quantity int32) (*domain.Order, error) {
	t.Helper()
	order, err := domain.NewOrder(domain.NewOrderCode(), "Jordan Doe", "jordan@example.com", time.Now())
	require.NoError(t, err)

	var placed *domain.Order
	err = repo.Place(context.Background(), func(tx ports.PlacementTx) error {
		product, err := tx.DeductStock(context.Background(), productID, quantity)
		if err != nil {
			return err
		}
		if err := order.AddItem(product.ID, product.Name, quantity, product.Price); err != nil {
			return err
		}
		placed, err = tx.SaveOrder(context.Background(), order)
		return err
	})
	return placed, err
}

func TestPlace_DeductsStockAndPersistsOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 7, "Widget", "100.00", 10)
	repo := NewRepository(db)

	placed, err := placeOne(t, repo, 7, 3)
	require.NoError(t, err)
	assert.NotZero(t, placed.ID)
	assert.Equal(t, int32(7), productStock(t, db, 7))

	fetched, err := repo.GetByCode(context.Background(), placed.Code)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Widget", fetched.Items[0].ProductName)
	assert.Equal(t, "100.00", fetched.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "300.00", fetched.Items[0].TotalPrice.StringFixed(2))
}

func TestPlace_InsufficientStockRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Widget", "10.00", 5)
	seedProduct(t, db, 2, "Gadget", "20.00", 1)
	repo := NewRepository(db)

	order, err := domain.NewOrder(domain.NewOrderCode(), "Jordan Doe", "jordan@example.com", time.Now())
	require.NoError(t, err)

	err = repo.Place(context.Background(), func(tx ports.PlacementTx) error {
		if _, err := tx.DeductStock(context.Background(), 1, 2); err != nil {
			return err
		}
		if _, err := tx.DeductStock(context.Background(), 2, 3); err != nil {
			return err
		}
		_, err := tx.SaveOrder(context.Background(), order)
		return err
	})

	var stockErr *ports.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.ProductID)

	assert.Equal(t, int32(5), productStock(t, db, 1))
	assert.Equal(t, int32(1), productStock(t, db, 2))

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlace_ConcurrentPlacementsNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	const stock = 10
	seedProduct(t, db, 7, "Widget", "5.00", stock)
	repo := NewRepository(db)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = placeOne(t, repo, 7, 1)
		}(i)
	}
	wg.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
		}
	}
	assert.Equal(t, stock, placed)
	assert.Equal(t, int32(0), productStock(t, db, 7))
}

func TestPlace_DuplicateCodeTranslated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 7, "Widget", "5.00", 10)
	repo := NewRepository(db)

	code := domain.NewOrderCode()
	place := func() error {
		order, err := domain.NewOrder(code, "Jordan Doe", "jordan@example.com", time.Now())
		require.NoError(t, err)
		return repo.Place(context.Background(), func(tx ports.PlacementTx) error {
			product, err := tx.DeductStock(context.Background(), 7, 1)
			if err != nil {
				return err
			}
			if err := order.AddItem(product.ID, product.Name, 1, product.Price); err != nil {
				return err
			}
			_, err = tx.SaveOrder(context.Background(), order)
			return err
		})
	}

	require.NoError(t, place())
	err := place()
	require.ErrorIs(t, err, ports.ErrDuplicateOrderCode)

	// the colliding attempt's stock decrement must have rolled back
	assert.Equal(t, int32(9), productStock(t, db, 7))
}

func TestGetByCode_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	_, err := repo.GetByCode(context.Background(), "ORDDEADBEEF00")
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}
