// Package client is a typed HTTP client for the coaching service API. It
// shares the server's request and response types, so it lives inside the
// module for the service's own tooling and end-to-end tests.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Eursukkul/coaching-service/internal/dto"
	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/go-resty/resty/v2"
)

// Session carries the bearer token of the signed-in user.
type Session struct {
	Token string
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coaching api: %d %s", e.Status, e.Message)
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetry retries transport failures and 5xx responses.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL+"/api/v1").
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

func (c *Client) ListPackages(ctx context.Context, category *models.Category) ([]dto.PackageResponse, error) {
	var out []dto.PackageResponse
	req := c.http.R().SetContext(ctx)
	if category != nil {
		req.SetQueryParam("category", string(*category))
	}
	if err := do(req.SetResult(&out), http.MethodGet, "/packages"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, s Session) ([]dto.SubscriptionResponse, error) {
	var out []dto.SubscriptionResponse
	if err := do(c.authed(ctx, s).SetResult(&out), http.MethodGet, "/subscriptions"); err != nil {
		return nil, err
	}
	return out, nil
}

// StartPurchase refuses locally when the user already holds an effective
// subscription in the package's category, then asks the server to open the
// purchase. The server repeats the check.
func (c *Client) StartPurchase(ctx context.Context, s Session, pkg dto.PackageResponse, now time.Time) (*dto.PurchaseResponse, error) {
	subs, err := c.ListSubscriptions(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckEligibility(pkg.Category, toModels(subs), now); err != nil {
		return nil, err
	}

	var out dto.PurchaseResponse
	req := c.authed(ctx, s).SetBody(dto.PurchaseRequest{PackageID: pkg.ID}).SetResult(&out)
	if err := do(req, http.MethodPost, "/subscriptions"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, s Session, subscriptionID uint) (*dto.SubscriptionResponse, error) {
	var out dto.SubscriptionResponse
	path := "/subscriptions/" + strconv.FormatUint(uint64(subscriptionID), 10) + "/confirm-payment"
	if err := do(c.authed(ctx, s).SetResult(&out), http.MethodPost, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context, s Session) ([]dto.BookingResponse, error) {
	var out []dto.BookingResponse
	if err := do(c.authed(ctx, s).SetResult(&out), http.MethodGet, "/bookings"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, s Session, packageID uint, notes string) (*dto.CreateBookingResponse, error) {
	var out dto.CreateBookingResponse
	req := c.authed(ctx, s).
		SetBody(dto.CreateBookingRequest{PackageID: packageID, Notes: notes}).
		SetResult(&out)
	if err := do(req, http.MethodPost, "/bookings"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, s Session, bookingID uint, status models.BookingStatus) (*dto.BookingResponse, error) {
	var out dto.BookingResponse
	req := c.authed(ctx, s).
		SetBody(dto.UpdateBookingStatusRequest{Status: string(status)}).
		SetResult(&out)
	path := "/bookings/" + strconv.FormatUint(uint64(bookingID), 10) + "/status"
	if err := do(req, http.MethodPut, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmBookingPayment(ctx context.Context, s Session, bookingID uint) (*dto.BookingResponse, error) {
	var out dto.BookingResponse
	path := "/bookings/" + strconv.FormatUint(uint64(bookingID), 10) + "/confirm-payment"
	if err := do(c.authed(ctx, s).SetResult(&out), http.MethodPost, path); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Entitlements(ctx context.Context, s Session) (*dto.EntitlementsResponse, error) {
	var out dto.EntitlementsResponse
	if err := do(c.authed(ctx, s).SetResult(&out), http.MethodGet, "/entitlements"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) authed(ctx context.Context, s Session) *resty.Request {
	return c.http.R().SetContext(ctx).SetAuthToken(s.Token)
}

func do(req *resty.Request, method, path string) error {
	resp, err := req.SetError(&dto.ErrorResponse{}).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if body, ok := resp.Error().(*dto.ErrorResponse); ok && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}

func toModels(subs []dto.SubscriptionResponse) []models.Subscription {
	out := make([]models.Subscription, len(subs))
	for i, s := range subs {
		out[i] = models.Subscription{
			ID:            s.ID,
			UserID:        s.UserID,
			PackageID:     s.PackageID,
			Category:      s.Category,
			Status:        s.Status,
			PaymentStatus: s.PaymentStatus,
			StartDate:     s.StartDate,
			EndDate:       s.EndDate,
		}
	}
	return out
}
