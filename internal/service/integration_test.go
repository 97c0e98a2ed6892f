//go:build integration

package service_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/repository"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/Eursukkul/coaching-service/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "coaching_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	dropTables()
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}

	code := m.Run()

	dropTables()
	os.Exit(code)
}

func dropTables() {
	testDB.Exec("DROP TABLE IF EXISTS payments")
	testDB.Exec("DROP TABLE IF EXISTS bookings")
	testDB.Exec("DROP TABLE IF EXISTS subscriptions")
	testDB.Exec("DROP TABLE IF EXISTS packages")
}

func cleanTables() {
	testDB.Exec("DELETE FROM payments")
	testDB.Exec("DELETE FROM bookings")
	testDB.Exec("DELETE FROM subscriptions")
	testDB.Exec("DELETE FROM packages")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func stores() service.Stores {
	return service.Stores{
		Tx:            repository.NewTransactor(testDB),
		Packages:      repository.NewPackageRepository(testDB),
		Subscriptions: repository.NewSubscriptionRepository(testDB),
		Bookings:      repository.NewBookingRepository(testDB),
		Payments:      repository.NewPaymentRepository(testDB),
	}
}

func createSelfTrainingPackage(t *testing.T) *models.Package {
	t.Helper()
	monthly := models.SubscriptionMonthly
	months := 1
	renew := false
	pkg := &models.Package{
		Name:             "Monthly Self Training",
		Price:            49,
		Category:         models.CategorySelfTraining,
		IsActive:         true,
		SubscriptionType: &monthly,
		DurationMonths:   &months,
		AutoRenewal:      &renew,
	}
	require.NoError(t, pkg.SetFeatureList([]string{"gym access"}))
	require.NoError(t, testDB.Create(pkg).Error)
	return pkg
}

// A package created hidden stays hidden: the column must not fall back to a
// default when the flag is false.
func TestInactivePackageStaysOutOfCatalog(t *testing.T) {
	cleanTables()
	visible := createSelfTrainingPackage(t)
	months := 3
	hidden := &models.Package{
		Name:             "Quarterly Self Training",
		Price:            129,
		Category:         models.CategorySelfTraining,
		IsActive:         false,
		SubscriptionType: visible.SubscriptionType,
		DurationMonths:   &months,
		AutoRenewal:      visible.AutoRenewal,
	}
	svc := service.NewPackageService(repository.NewPackageRepository(testDB), nil)
	admin := lifecycle.Actor{UserID: "admin-001", Role: lifecycle.RoleAdmin}
	require.NoError(t, svc.CreatePackage(context.Background(), admin, hidden))

	var stored models.Package
	require.NoError(t, testDB.First(&stored, hidden.ID).Error)
	assert.False(t, stored.IsActive)

	pkgs, err := svc.ListPackages(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, visible.ID, pkgs[0].ID)

	all, err := repository.NewPackageRepository(testDB).List(context.Background(), repository.PackageFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// Ten pending purchases in one category are confirmed concurrently:
// exactly one becomes active.
func TestConcurrentConfirmPayment(t *testing.T) {
	cleanTables()
	pkg := createSelfTrainingPackage(t)
	svc := service.NewSubscriptionService(stores())
	user := lifecycle.Actor{UserID: "user-001", Role: lifecycle.RoleUser}

	const purchases = 10
	ids := make([]uint, 0, purchases)
	for i := 0; i < purchases; i++ {
		res, err := svc.Purchase(context.Background(), user, pkg.ID)
		require.NoError(t, err)
		ids = append(ids, res.Subscription.ID)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		activated  int
		ineligible int
	)
	wg.Add(len(ids))
	for _, id := range ids {
		go func(id uint) {
			defer wg.Done()
			_, err := svc.ConfirmPayment(t.Context(), user, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				activated++
			case errors.Is(err, lifecycle.ErrIneligiblePurchase):
				ineligible++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, activated)
	assert.Equal(t, purchases-1, ineligible)

	var active int64
	testDB.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", user.UserID, models.SubscriptionActive).
		Count(&active)
	assert.Equal(t, int64(1), active)
}

func TestPurchaseAfterActiveSubscriptionIsRejected(t *testing.T) {
	cleanTables()
	pkg := createSelfTrainingPackage(t)
	svc := service.NewSubscriptionService(stores())
	user := lifecycle.Actor{UserID: "user-002", Role: lifecycle.RoleUser}

	res, err := svc.Purchase(context.Background(), user, pkg.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), user, res.Subscription.ID)
	require.NoError(t, err)

	_, err = svc.Purchase(context.Background(), user, pkg.ID)
	assert.ErrorIs(t, err, lifecycle.ErrIneligiblePurchase)
}

func TestRefundCreatesNegativeLedgerEntry(t *testing.T) {
	cleanTables()
	pkg := createSelfTrainingPackage(t)
	subs := service.NewSubscriptionService(stores())
	payments := service.NewPaymentService(stores())
	user := lifecycle.Actor{UserID: "user-003", Role: lifecycle.RoleUser}
	admin := lifecycle.Actor{UserID: "admin-1", Role: lifecycle.RoleAdmin}

	res, err := subs.Purchase(context.Background(), user, pkg.ID)
	require.NoError(t, err)
	_, err = subs.ConfirmPayment(context.Background(), user, res.Subscription.ID)
	require.NoError(t, err)

	out, err := payments.Refund(context.Background(), admin, res.Payment.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Refund)

	stats, err := payments.Stats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 49.0, stats.SubscriptionRevenue)
	assert.Equal(t, 49.0, stats.RefundTotal)
	assert.Equal(t, 0.0, stats.NetRevenue)
}
