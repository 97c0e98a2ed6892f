package service

import (
	"context"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/repository"
	"gorm.io/gorm"
)

// --- Mock Transactor ---

type mockTx struct {
	calls int
}

func (m *mockTx) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.calls++
	return fn(nil)
}

// --- Mock PackageRepository ---

type mockPackageRepo struct {
	createFn   func(ctx context.Context, pkg *models.Package) error
	saveFn     func(ctx context.Context, pkg *models.Package) error
	deleteFn   func(ctx context.Context, id uint) error
	findByIDFn func(ctx context.Context, id uint) (*models.Package, error)
	listFn     func(ctx context.Context, filter repository.PackageFilter) ([]models.Package, error)
}

func (m *mockPackageRepo) Create(ctx context.Context, pkg *models.Package) error {
	return m.createFn(ctx, pkg)
}
func (m *mockPackageRepo) Save(ctx context.Context, pkg *models.Package) error {
	return m.saveFn(ctx, pkg)
}
func (m *mockPackageRepo) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockPackageRepo) FindByID(ctx context.Context, id uint) (*models.Package, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockPackageRepo) List(ctx context.Context, filter repository.PackageFilter) ([]models.Package, error) {
	return m.listFn(ctx, filter)
}

// --- In-memory SubscriptionRepository ---

// memSubscriptions keeps rows in a map so multi-step flows can be asserted on.
type memSubscriptions struct {
	rows   map[uint]models.Subscription
	nextID uint
	saves  int
}

func newMemSubscriptions(subs ...models.Subscription) *memSubscriptions {
	m := &memSubscriptions{rows: map[uint]models.Subscription{}, nextID: 100}
	for _, s := range subs {
		m.rows[s.ID] = s
	}
	return m
}

func (m *memSubscriptions) Create(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	m.nextID++
	sub.ID = m.nextID
	m.rows[sub.ID] = *sub
	return nil
}
func (m *memSubscriptions) Save(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	m.saves++
	m.rows[sub.ID] = *sub
	return nil
}
func (m *memSubscriptions) FindByID(ctx context.Context, id uint) (*models.Subscription, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}
func (m *memSubscriptions) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Subscription, error) {
	return m.FindByID(ctx, id)
}
func (m *memSubscriptions) FindByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range m.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (m *memSubscriptions) FindAll(ctx context.Context) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}
func (m *memSubscriptions) LockByUserAndCategory(ctx context.Context, tx *gorm.DB, userID string, category models.Category) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range m.rows {
		if s.UserID == userID && s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}
func (m *memSubscriptions) FindActiveEndedBy(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range m.rows {
		if s.Status == models.SubscriptionActive && !s.EndDate.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- In-memory BookingRepository ---

type memBookings struct {
	rows   map[uint]models.Booking
	nextID uint
}

func newMemBookings(bookings ...models.Booking) *memBookings {
	m := &memBookings{rows: map[uint]models.Booking{}, nextID: 200}
	for _, b := range bookings {
		m.rows[b.ID] = b
	}
	return m
}

func (m *memBookings) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	m.nextID++
	booking.ID = m.nextID
	m.rows[booking.ID] = *booking
	return nil
}
func (m *memBookings) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	m.rows[booking.ID] = *booking
	return nil
}
func (m *memBookings) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}
func (m *memBookings) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return m.FindByID(ctx, id)
}
func (m *memBookings) FindByClient(ctx context.Context, clientID string, status *models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.rows {
		if b.ClientID == clientID && (status == nil || b.BookingStatus == *status) {
			out = append(out, b)
		}
	}
	return out, nil
}
func (m *memBookings) FindAll(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.rows {
		if status == nil || b.BookingStatus == *status {
			out = append(out, b)
		}
	}
	return out, nil
}

// --- In-memory PaymentRepository ---

type memPayments struct {
	rows   map[uint]models.Payment
	nextID uint
	sumFn  func(kind models.PaymentType, since *time.Time) (float64, error)
}

func newMemPayments(payments ...models.Payment) *memPayments {
	m := &memPayments{rows: map[uint]models.Payment{}, nextID: 300}
	for _, p := range payments {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memPayments) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	m.nextID++
	payment.ID = m.nextID
	m.rows[payment.ID] = *payment
	return nil
}
func (m *memPayments) Save(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	m.rows[payment.ID] = *payment
	return nil
}
func (m *memPayments) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}
func (m *memPayments) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	return m.FindByID(ctx, id)
}
func (m *memPayments) FindByReferenceForUpdate(ctx context.Context, tx *gorm.DB, reference string) (*models.Payment, error) {
	for _, p := range m.rows {
		if p.Reference == reference {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memPayments) FindPendingForSubscription(ctx context.Context, tx *gorm.DB, subscriptionID uint) (*models.Payment, error) {
	for _, p := range m.rows {
		if p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID &&
			p.Type == models.PaymentTypeSubscription && p.Status == models.PaymentPending {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memPayments) FindPendingForBooking(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Payment, error) {
	for _, p := range m.rows {
		if p.BookingID != nil && *p.BookingID == bookingID &&
			p.Type == models.PaymentTypeBooking && p.Status == models.PaymentPending {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memPayments) FindAll(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}
func (m *memPayments) SumCompleted(ctx context.Context, kind models.PaymentType, since *time.Time) (float64, error) {
	return m.sumFn(kind, since)
}
func (m *memPayments) CountByStatus(ctx context.Context) (map[models.PaymentStatus]int64, error) {
	counts := map[models.PaymentStatus]int64{}
	for _, p := range m.rows {
		counts[p.Status]++
	}
	return counts, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	keys []string
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	m.keys = append(m.keys, routingKey)
	return nil
}

// --- Mock PackageCache ---

type mockCache struct {
	getFn       func(ctx context.Context, category string) ([]models.Package, bool, error)
	set         map[string][]models.Package
	invalidated int
}

func (m *mockCache) GetPackages(ctx context.Context, category string) ([]models.Package, bool, error) {
	return m.getFn(ctx, category)
}
func (m *mockCache) SetPackages(ctx context.Context, category string, pkgs []models.Package) error {
	if m.set == nil {
		m.set = map[string][]models.Package{}
	}
	m.set[category] = pkgs
	return nil
}
func (m *mockCache) Invalidate(ctx context.Context) error {
	m.invalidated++
	return nil
}

// --- Fixtures ---

var (
	client = lifecycle.Actor{UserID: "user-1", Role: lifecycle.RoleUser}
	other  = lifecycle.Actor{UserID: "user-2", Role: lifecycle.RoleUser}
	admin  = lifecycle.Actor{UserID: "admin-1", Role: lifecycle.RoleAdmin}
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
func uintPtr(v uint) *uint { return &v }

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func samplePrivatePackage() *models.Package {
	return &models.Package{
		ID:                   1,
		Name:                 "8 Private Sessions",
		Price:                400,
		Category:             models.CategoryPrivateSessions,
		IsActive:             true,
		SessionsCount:        intPtr(8),
		ValidityDays:         intPtr(90),
		IncludesSelfTraining: boolPtr(false),
	}
}

func sampleSelfTrainingPackage() *models.Package {
	monthly := models.SubscriptionMonthly
	return &models.Package{
		ID:               2,
		Name:             "Monthly Self Training",
		Price:            49,
		Category:         models.CategorySelfTraining,
		IsActive:         true,
		SubscriptionType: &monthly,
		DurationMonths:   intPtr(1),
		AutoRenewal:      boolPtr(true),
	}
}

func packagesByID(pkgs ...*models.Package) *mockPackageRepo {
	return &mockPackageRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Package, error) {
			for _, p := range pkgs {
				if p.ID == id {
					cp := *p
					return &cp, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func repositoryNotFound() error {
	return gorm.ErrRecordNotFound
}

type fixture struct {
	tx       *mockTx
	subs     *memSubscriptions
	bookings *memBookings
	payments *memPayments
	pub      *mockPublisher
	stores   Stores
}

func newFixture(pkgs ...*models.Package) *fixture {
	f := &fixture{
		tx:       &mockTx{},
		subs:     newMemSubscriptions(),
		bookings: newMemBookings(),
		payments: newMemPayments(),
		pub:      &mockPublisher{},
	}
	f.stores = Stores{
		Tx:            f.tx,
		Packages:      packagesByID(pkgs...),
		Subscriptions: f.subs,
		Bookings:      f.bookings,
		Payments:      f.payments,
	}
	return f
}

func (f *fixture) options(now time.Time) []Option {
	return []Option{WithPublisher(f.pub), fixedClock(now)}
}
