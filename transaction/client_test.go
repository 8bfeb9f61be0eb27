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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(WithLogger(slogt.New(t)))
}

func orderWithPaymentLinks(links PaymentLinks) Order {
	return Order{
		Reference: "ord-1",
		Embedded:  &OrderEmbedded{Payment: []PaymentResponse{{State: "STARTED", Links: &links}}},
	}
}

func validPayment() PaymentRequest {
	return PaymentRequest{
		PAN:            "4111111111111111",
		Expiry:         "2030-05",
		CVV:            "123",
		CardholderName: "J Doe",
	}
}

func TestAuthorize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, PaymentMediaType, r.Header.Get("Accept"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc=123", r.PostForm.Get("code"))

		w.Write([]byte(`{"access-token":"at-1","payment-token":"pt-1"}`))
	}))
	defer srv.Close()

	tokens, err := newTestClient(t).Authorize(context.Background(), "abc=123", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, Tokens{PaymentToken: "pt-1", AccessToken: "at-1"}, tokens)
	assert.True(t, tokens.Valid())
}

func TestAuthorizeGatewayError(t *testing.T) {
	tests := map[string]struct {
		status  int
		body    string
		wantMsg string
	}{
		"structured": {
			status:  http.StatusUnauthorized,
			body:    `{"message":"authorization code expired"}`,
			wantMsg: "authorization code expired",
		},
		"plain text": {
			status:  http.StatusBadGateway,
			body:    "upstream unavailable",
			wantMsg: "upstream unavailable",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t).Authorize(context.Background(), "code", srv.URL)
			var gwErr GatewayError
			require.ErrorAs(t, err, &gwErr)
			assert.Equal(t, tc.status, gwErr.StatusCode)
			assert.Equal(t, tc.wantMsg, gwErr.Message)
		})
	}
}

func TestMakePayment(t *testing.T) {
	var got PaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/payments/p-1/card", r.URL.Path)
		assert.Equal(t, "Bearer pt-1", r.Header.Get("Authorization"))
		assert.Equal(t, PaymentMediaType, r.Header.Get("Content-Type"))
		assert.Equal(t, PaymentMediaType, r.Header.Get("Accept"))

		// Every submission carries a fresh idempotency key.
		_, err := uuid.Parse(r.Header.Get(IdempotencyKeyHeader))
		assert.NoError(t, err)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"state":"AUTHORISED"}`))
	}))
	defer srv.Close()

	order := orderWithPaymentLinks(PaymentLinks{Card: &Link{Href: srv.URL + "/payments/p-1/card"}})
	payment := validPayment()
	payment.PayerIP = "82.94.12.1"
	payment.Visa = &VisaPlanSelection{PlanSelectionIndicator: true, VPlanID: "vp-1"}

	resp, err := newTestClient(t).MakePayment(context.Background(), order, payment, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, "AUTHORISED", resp.State)
	assert.Equal(t, payment, got)
}

func TestMakePaymentRejectsBeforeSending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid requests must not reach the gateway")
	}))
	defer srv.Close()

	link := PaymentLinks{Card: &Link{Href: srv.URL}}
	c := newTestClient(t)

	t.Run("missing link", func(t *testing.T) {
		_, err := c.MakePayment(context.Background(), Order{}, validPayment(), "pt-1")
		assert.ErrorIs(t, err, ErrMissingLink)
	})

	t.Run("invalid pan", func(t *testing.T) {
		payment := validPayment()
		payment.PAN = "4111111111111112" // luhn check fails
		_, err := c.MakePayment(context.Background(), orderWithPaymentLinks(link), payment, "pt-1")
		assert.Error(t, err)
	})

	t.Run("non numeric cvv", func(t *testing.T) {
		payment := validPayment()
		payment.CVV = "12a"
		_, err := c.MakePayment(context.Background(), orderWithPaymentLinks(link), payment, "pt-1")
		assert.Error(t, err)
	})
}

func TestMakeSavedCardPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(IdempotencyKeyHeader))
		w.Write([]byte(`{"state":"PURCHASED"}`))
	}))
	defer srv.Close()

	req := SavedCardRequest{CardToken: "tok-1", Expiry: "2030-05", CVV: "123"}
	resp, err := newTestClient(t).MakeSavedCardPayment(context.Background(), srv.URL, req, "at-1")
	require.NoError(t, err)
	assert.Equal(t, "PURCHASED", resp.State)
}

func TestGetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		// Polling is a read, not a submission.
		assert.Empty(t, r.Header.Get(IdempotencyKeyHeader))
		w.Write([]byte(`{
			"reference": "ord-1",
			"_embedded": {"payment": [{"state": "AWAIT_3DS"}]}
		}`))
	}))
	defer srv.Close()

	order, err := newTestClient(t).GetOrder(context.Background(), srv.URL, "at-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.Reference)
	require.Len(t, order.Attempts(), 1)
	assert.Equal(t, StateAwait3DS, order.Attempts()[0].State)
}

func TestGetVisaPlans(t *testing.T) {
	t.Run("by card token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/payments/p-1/visa/eligibility-check", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"cardToken": "tok-1"}, body)

			w.Write([]byte(`{"matchedPlans":[{"vPlanID":"vp-1","numberOfInstallments":3}]}`))
		}))
		defer srv.Close()

		plans, err := newTestClient(t).GetVisaPlans(context.Background(), srv.URL+"/payments/p-1", "at-1", "tok-1", "")
		require.NoError(t, err)
		assert.True(t, plans.Eligible())
		assert.Equal(t, "vp-1", plans.MatchedPlans[0].VPlanID)
	})

	t.Run("card token and pan are mutually exclusive", func(t *testing.T) {
		c := newTestClient(t)
		_, err := c.GetVisaPlans(context.Background(), "https://gw.test/p-1", "at-1", "tok-1", "4111111111111111")
		assert.Error(t, err)
		_, err = c.GetVisaPlans(context.Background(), "https://gw.test/p-1", "at-1", "", "")
		assert.Error(t, err)
	})
}

func TestGetPayerIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"requesterIp":"82.94.12.1"}`))
	}))
	defer srv.Close()

	ip, err := newTestClient(t).GetPayerIP(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "82.94.12.1", ip)
}

func TestPostApplePayResponse(t *testing.T) {
	platformToken := []byte(`{"transactionIdentifier":"x","paymentData":{"version":"EC_v1"}}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(IdempotencyKeyHeader))

		var body struct {
			Token   json.RawMessage `json:"token"`
			PayerIP string          `json:"payerIp"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// The platform token is passed through untouched.
		assert.JSONEq(t, string(platformToken), string(body.Token))
		assert.Equal(t, "82.94.12.1", body.PayerIP)

		w.Write([]byte(`{"state":"CAPTURED"}`))
	}))
	defer srv.Close()

	order := orderWithPaymentLinks(PaymentLinks{ApplePay: &Link{Href: srv.URL}})
	resp, err := newTestClient(t).PostApplePayResponse(context.Background(), order, platformToken, "at-1", "82.94.12.1")
	require.NoError(t, err)
	assert.Equal(t, "CAPTURED", resp.State)

	_, err = newTestClient(t).PostApplePayResponse(context.Background(), Order{}, platformToken, "at-1", "")
	assert.ErrorIs(t, err, ErrMissingLink)
}
