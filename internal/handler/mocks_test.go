package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/middleware"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

var (
	client = lifecycle.Actor{UserID: "client-1", Role: lifecycle.RoleUser}
	admin  = lifecycle.Actor{UserID: "admin-1", Role: lifecycle.RoleAdmin}
)

// newContext builds an echo context with the actor already authenticated.
// A zero actor leaves the request anonymous.
func newContext(method, target, body string, actor lifecycle.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = middleware.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor.UserID != "" {
		middleware.SetActor(c, actor)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

// --- PackageService ---

type mockPackageService struct {
	listFn    func(ctx context.Context, category *models.Category) ([]models.Package, error)
	listAllFn func(ctx context.Context, actor lifecycle.Actor) ([]models.Package, error)
	getFn     func(ctx context.Context, id uint) (*models.Package, error)
	createFn  func(ctx context.Context, actor lifecycle.Actor, pkg *models.Package) error
	updateFn  func(ctx context.Context, actor lifecycle.Actor, id uint, pkg *models.Package) (*models.Package, error)
	deleteFn  func(ctx context.Context, actor lifecycle.Actor, id uint) error
}

func (m *mockPackageService) ListPackages(ctx context.Context, category *models.Category) ([]models.Package, error) {
	return m.listFn(ctx, category)
}
func (m *mockPackageService) ListAllPackages(ctx context.Context, actor lifecycle.Actor) ([]models.Package, error) {
	return m.listAllFn(ctx, actor)
}
func (m *mockPackageService) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	return m.getFn(ctx, id)
}
func (m *mockPackageService) GetOffering(ctx context.Context, id uint) (lifecycle.Offering, error) {
	return nil, nil
}
func (m *mockPackageService) CreatePackage(ctx context.Context, actor lifecycle.Actor, pkg *models.Package) error {
	return m.createFn(ctx, actor, pkg)
}
func (m *mockPackageService) UpdatePackage(ctx context.Context, actor lifecycle.Actor, id uint, pkg *models.Package) (*models.Package, error) {
	return m.updateFn(ctx, actor, id, pkg)
}
func (m *mockPackageService) DeletePackage(ctx context.Context, actor lifecycle.Actor, id uint) error {
	return m.deleteFn(ctx, actor, id)
}

// --- SubscriptionService ---

type mockSubscriptionService struct {
	purchaseFn func(ctx context.Context, actor lifecycle.Actor, packageID uint) (*service.PurchaseResult, error)
	confirmFn  func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	cancelFn   func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	sessionFn  func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	renewFn    func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)
	listFn     func(ctx context.Context, actor lifecycle.Actor, userID string) ([]service.SubscriptionDetail, error)
	getFn      func(ctx context.Context, actor lifecycle.Actor, id uint) (*service.SubscriptionDetail, error)
}

func (m *mockSubscriptionService) Purchase(ctx context.Context, actor lifecycle.Actor, packageID uint) (*service.PurchaseResult, error) {
	return m.purchaseFn(ctx, actor, packageID)
}
func (m *mockSubscriptionService) ConfirmPayment(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	return m.confirmFn(ctx, actor, id)
}
func (m *mockSubscriptionService) Cancel(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	return m.cancelFn(ctx, actor, id)
}
func (m *mockSubscriptionService) RecordSession(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	return m.sessionFn(ctx, actor, id)
}
func (m *mockSubscriptionService) Renew(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error) {
	return m.renewFn(ctx, actor, id)
}
func (m *mockSubscriptionService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
func (m *mockSubscriptionService) List(ctx context.Context, actor lifecycle.Actor, userID string) ([]service.SubscriptionDetail, error) {
	return m.listFn(ctx, actor, userID)
}
func (m *mockSubscriptionService) Get(ctx context.Context, actor lifecycle.Actor, id uint) (*service.SubscriptionDetail, error) {
	return m.getFn(ctx, actor, id)
}

// --- BookingService ---

type mockBookingService struct {
	createFn func(ctx context.Context, actor lifecycle.Actor, packageID uint, notes string) (*models.Booking, *models.Payment, error)
	getFn    func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error)
	listFn   func(ctx context.Context, actor lifecycle.Actor, status *models.BookingStatus) ([]models.Booking, error)
	statusFn func(ctx context.Context, actor lifecycle.Actor, id uint, to models.BookingStatus) (*models.Booking, error)
	usageFn   func(ctx context.Context, actor lifecycle.Actor, id uint, hours int) (*models.Booking, error)
	confirmFn func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, actor lifecycle.Actor, packageID uint, notes string) (*models.Booking, *models.Payment, error) {
	return m.createFn(ctx, actor, packageID, notes)
}
func (m *mockBookingService) GetBooking(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error) {
	return m.getFn(ctx, actor, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, actor lifecycle.Actor, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listFn(ctx, actor, status)
}
func (m *mockBookingService) UpdateStatus(ctx context.Context, actor lifecycle.Actor, id uint, to models.BookingStatus) (*models.Booking, error) {
	return m.statusFn(ctx, actor, id, to)
}
func (m *mockBookingService) RecordUsage(ctx context.Context, actor lifecycle.Actor, id uint, hours int) (*models.Booking, error) {
	return m.usageFn(ctx, actor, id, hours)
}
func (m *mockBookingService) ConfirmPayment(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Booking, error) {
	return m.confirmFn(ctx, actor, id)
}

// --- PaymentService ---

type mockPaymentService struct {
	listFn   func(ctx context.Context, actor lifecycle.Actor) ([]models.Payment, error)
	statsFn  func(ctx context.Context, actor lifecycle.Actor) (*service.PaymentStats, error)
	manualFn func(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error)
	refundFn func(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error)
}

func (m *mockPaymentService) ListPayments(ctx context.Context, actor lifecycle.Actor) ([]models.Payment, error) {
	return m.listFn(ctx, actor)
}
func (m *mockPaymentService) Stats(ctx context.Context, actor lifecycle.Actor) (*service.PaymentStats, error) {
	return m.statsFn(ctx, actor)
}
func (m *mockPaymentService) RecordManual(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error) {
	return m.manualFn(ctx, actor, id)
}
func (m *mockPaymentService) Refund(ctx context.Context, actor lifecycle.Actor, id uint) (*lifecycle.PaymentOutcome, error) {
	return m.refundFn(ctx, actor, id)
}
func (m *mockPaymentService) ApplyProviderResult(ctx context.Context, reference string, succeeded bool) (*lifecycle.PaymentOutcome, error) {
	return nil, nil
}

// --- EntitlementService ---

type mockEntitlementService struct {
	fn func(ctx context.Context, actor lifecycle.Actor, userID string) (*service.Entitlements, error)
}

func (m *mockEntitlementService) Entitlements(ctx context.Context, actor lifecycle.Actor, userID string) (*service.Entitlements, error) {
	return m.fn(ctx, actor, userID)
}

func intPtr(v int) *int { return &v }
