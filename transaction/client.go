// Copyright 2026 Enoc Link Ltd.

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     https://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transaction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PaymentMediaType is the gateway's versioned payment media type.
const PaymentMediaType = "application/vnd.ni-payment.v2+json"

// IdempotencyKeyHeader carries a unique key per payment submission so a
// retried HTTP request cannot double-charge.
const IdempotencyKeyHeader = "Idempotency-Key"

const tracerName = "github.com/enoc-link/ngenius-checkout/transaction"

// maxErrorBytes limits how much of an error response body is folded into
// the returned error.
const maxErrorBytes = 4096

// ErrMissingLink indicates the order does not carry the link required for a
// call.
var ErrMissingLink = errors.New("transaction: order is missing a required link")

// GatewayError is a non-2xx reply from the transaction service.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("gateway error, status code %d: %s", e.StatusCode, e.Message)
}

// Client is the HTTP implementation of [Service].
type Client struct {
	httpClient *http.Client
	log        *slog.Logger
	tracer     trace.Tracer
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger overrides the client's logger.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithTracerProvider overrides the tracer provider used for per-call spans.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// NewClient returns a Client with a 30 second request timeout, the default
// slog logger and the global tracer provider.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Authorize(ctx context.Context, code, authURL string) (Tokens, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.Authorize")
	defer span.End()

	body := strings.NewReader("code=" + url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, body)
	if err != nil {
		return Tokens{}, c.fail(span, fmt.Errorf("build authorize request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", PaymentMediaType)

	var out struct {
		AccessToken  string `json:"access-token"`
		PaymentToken string `json:"payment-token"`
	}
	if err := c.do(req, &out); err != nil {
		return Tokens{}, c.fail(span, fmt.Errorf("authorize: %w", err))
	}

	c.log.DebugContext(ctx, "payment authorized",
		"has_payment_token", out.PaymentToken != "",
		"has_access_token", out.AccessToken != "")
	return Tokens{PaymentToken: out.PaymentToken, AccessToken: out.AccessToken}, nil
}

func (c *Client) MakePayment(ctx context.Context, order Order, payment PaymentRequest, paymentToken string) (*PaymentResponse, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.MakePayment")
	defer span.End()

	link, found := order.CardPaymentLink()
	if !found {
		return nil, c.fail(span, fmt.Errorf("%w: card payment", ErrMissingLink))
	}
	if err := payment.Validate(); err != nil {
		return nil, c.fail(span, err)
	}

	resp := &PaymentResponse{}
	err := c.doJSON(ctx, http.MethodPut, link, payment, resp, paymentToken, true)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("make payment: %w", err))
	}
	c.log.DebugContext(ctx, "card payment submitted", "order", order.Reference, "state", resp.State)
	return resp, nil
}

func (c *Client) MakeSavedCardPayment(ctx context.Context, savedCardURL string, payment SavedCardRequest, accessToken string) (*PaymentResponse, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.MakeSavedCardPayment")
	defer span.End()

	if err := payment.Validate(); err != nil {
		return nil, c.fail(span, err)
	}

	resp := &PaymentResponse{}
	err := c.doJSON(ctx, http.MethodPut, savedCardURL, payment, resp, accessToken, true)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("saved-card payment: %w", err))
	}
	c.log.DebugContext(ctx, "saved-card payment submitted", "state", resp.State)
	return resp, nil
}

func (c *Client) GetOrder(ctx context.Context, orderURL, accessToken string) (*Order, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.GetOrder")
	defer span.End()

	order := &Order{}
	err := c.doJSON(ctx, http.MethodGet, orderURL, nil, order, accessToken, false)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("get order: %w", err))
	}
	return order, nil
}

func (c *Client) GetVisaPlans(ctx context.Context, selfURL, accessToken, cardToken, pan string) (*VisaPlans, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.GetVisaPlans")
	defer span.End()

	if (cardToken == "") == (pan == "") {
		return nil, c.fail(span, errors.New("get visa plans: exactly one of card token and pan must be set"))
	}

	body := struct {
		CardToken string `json:"cardToken,omitempty"`
		PAN       string `json:"pan,omitempty"`
	}{CardToken: cardToken, PAN: pan}

	plans := &VisaPlans{}
	err := c.doJSON(ctx, http.MethodPost, selfURL+"/visa/eligibility-check", body, plans, accessToken, false)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("get visa plans: %w", err))
	}
	return plans, nil
}

func (c *Client) GetPayerIP(ctx context.Context, ipURL string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.GetPayerIP")
	defer span.End()

	var out struct {
		RequesterIP string `json:"requesterIp"`
	}
	err := c.doJSON(ctx, http.MethodGet, ipURL, nil, &out, "", false)
	if err != nil {
		return "", c.fail(span, fmt.Errorf("get payer ip: %w", err))
	}
	return out.RequesterIP, nil
}

func (c *Client) PostApplePayResponse(ctx context.Context, order Order, platformToken []byte, accessToken, payerIP string) (*PaymentResponse, error) {
	ctx, span := c.tracer.Start(ctx, "transaction.PostApplePayResponse")
	defer span.End()

	link, found := order.ApplePayLink()
	if !found {
		return nil, c.fail(span, fmt.Errorf("%w: apple pay", ErrMissingLink))
	}

	body := struct {
		Token   json.RawMessage `json:"token"`
		PayerIP string          `json:"payerIp,omitempty"`
	}{Token: platformToken, PayerIP: payerIP}

	resp := &PaymentResponse{}
	err := c.doJSON(ctx, http.MethodPut, link, body, resp, accessToken, true)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("apple pay payment: %w", err))
	}
	c.log.DebugContext(ctx, "apple pay payment submitted", "order", order.Reference, "state", resp.State)
	return resp, nil
}

// doJSON sends a JSON request and decodes a JSON response. A submission
// carries an idempotency key so that transport-level retries outside this
// SDK cannot double-charge.
func (c *Client) doJSON(ctx context.Context, method, target string, in, out any, bearer string, submission bool) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", PaymentMediaType)
	}
	req.Header.Set("Accept", PaymentMediaType)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if submission {
		req.Header.Set(IdempotencyKeyHeader, uuid.NewString())
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readGatewayError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readGatewayError folds the limited response body into a GatewayError.
// Some gateway errors are structured {"message": ...} JSON, the rest are
// used verbatim.
func readGatewayError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	if err != nil {
		return errors.Join(GatewayError{StatusCode: resp.StatusCode}, err)
	}

	msg := strings.TrimSpace(string(raw))
	var structured struct {
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(raw, &structured); jsonErr == nil && structured.Message != "" {
		msg = structured.Message
	}
	return GatewayError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) fail(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	return err
}
