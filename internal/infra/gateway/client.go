package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"service-booking/internal/domain/payment"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/tracing"
	"service-booking/internal/usecase/shared"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrUnexpectedStatus = errs.NewKind("payment gateway returned an error status", errs.ErrExternalService)
	ErrMalformedBody    = errs.NewKind("payment gateway returned an unreadable body", errs.ErrExternalService)
)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

// Client talks to a Razorpay-compatible orders/payments API.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	timeout   time.Duration
	http      *http.Client
}

var _ shared.PaymentGateway = (*Client)(nil)

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		timeout:   cfg.Timeout,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type paymentResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*shared.GatewayOrder, error) {
	var out orderResponse
	body := orderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt}
	if err := c.do(ctx, http.MethodPost, "/v1/orders", body, &out); err != nil {
		return nil, err
	}
	return &shared.GatewayOrder{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
	}, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*shared.GatewayPayment, error) {
	var out paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &out); err != nil {
		return nil, err
	}
	return &shared.GatewayPayment{
		ID:      out.ID,
		OrderID: out.OrderID,
		Status:  out.Status,
		Amount:  out.Amount,
	}, nil
}

// VerifySignature checks the checkout signature locally with the key secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(c.keySecret, orderID, paymentID, signature)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	ctx, span := tracing.Start(ctx, "gateway "+method+" "+spanPath(path), trace.WithSpanKind(trace.SpanKindClient))
	defer func() { tracing.End(span, err) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errs.Wrap(err, "encode gateway request")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errs.Wrap(err, "build gateway request")
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", spanPath(path)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.Wrapf(ErrUnexpectedStatus, "%s %s: %d %s", method, spanPath(path), resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(ErrMalformedBody, err.Error())
	}
	return nil
}

// spanPath drops resource ids so span names stay low-cardinality.
func spanPath(path string) string {
	if strings.HasPrefix(path, "/v1/payments/") {
		return "/v1/payments/:id"
	}
	return path
}
