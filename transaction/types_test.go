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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enoc-link/ngenius-checkout/currency"
)

func TestAuthCode(t *testing.T) {
	tests := map[string]struct {
		order  Order
		want   string
		wantOK bool
	}{
		"code in pay page query": {
			order: Order{Links: &OrderLinks{
				PayPage: &Link{Href: "https://paypage.test/?code=abc123&locale=en"},
			}},
			want:   "abc123",
			wantOK: true,
		},
		"no code parameter": {
			order: Order{Links: &OrderLinks{
				PayPage: &Link{Href: "https://paypage.test/"},
			}},
		},
		"no pay page link": {
			order: Order{Links: &OrderLinks{}},
		},
		"no links at all": {
			order: Order{},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			code, ok := tc.order.AuthCode()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestAttemptLinks(t *testing.T) {
	order := Order{Embedded: &OrderEmbedded{Payment: []PaymentResponse{{
		Links: &PaymentLinks{
			Self:      &Link{Href: "https://gw.test/self"},
			Card:      &Link{Href: "https://gw.test/card"},
			ApplePay:  &Link{Href: "https://gw.test/apple-pay"},
			SavedCard: &Link{Href: "https://gw.test/saved-card"},
			Aani:      &Link{Href: "https://gw.test/aani"},
		},
	}}}}

	links := map[string]func() (string, bool){
		"https://gw.test/self":       order.SelfLink,
		"https://gw.test/card":       order.CardPaymentLink,
		"https://gw.test/apple-pay":  order.ApplePayLink,
		"https://gw.test/saved-card": order.SavedCardLink,
		"https://gw.test/aani":       order.AaniLink,
	}
	for want, get := range links {
		got, ok := get()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	empty := Order{}
	_, ok := empty.CardPaymentLink()
	assert.False(t, ok)
}

func TestSynthesizeOrderLink(t *testing.T) {
	var order Order
	order.SynthesizeOrderLink("gw.test", "outlet-1", "ord-1")
	require.NotNil(t, order.Links)
	require.NotNil(t, order.Links.Order)
	assert.Equal(t, "https://gw.test/transactions/outlets/outlet-1/orders/ord-1", order.Links.Order.Href)
}

func TestThreeDSOneReady(t *testing.T) {
	complete := func() *PaymentResponse {
		return &PaymentResponse{
			ThreeDS: &ThreeDSConfig{ACSURL: "https://acs.test", ACSPaReq: "p", ACSMD: "m"},
			Links:   &PaymentLinks{ThreeDSTermURL: &Link{Href: "https://gw.test/term"}},
		}
	}

	assert.True(t, complete().ThreeDSOneReady())

	tests := map[string]func(*PaymentResponse){
		"no 3ds config": func(p *PaymentResponse) { p.ThreeDS = nil },
		"no acs url":    func(p *PaymentResponse) { p.ThreeDS.ACSURL = "" },
		"no pareq":      func(p *PaymentResponse) { p.ThreeDS.ACSPaReq = "" },
		"no md":         func(p *PaymentResponse) { p.ThreeDS.ACSMD = "" },
		"no term url":   func(p *PaymentResponse) { p.Links.ThreeDSTermURL = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := complete()
			mutate(p)
			assert.False(t, p.ThreeDSOneReady())
		})
	}
}

func TestPartialAuthArgs(t *testing.T) {
	full := currency.Amount{CurrencyCode: "AED", Value: 14200}
	partial := currency.Amount{CurrencyCode: "AED", Value: 7100}

	complete := func() *PaymentResponse {
		return &PaymentResponse{
			State:        StateAwaitingPartialAuthApproval,
			IssuingOrg:   "Test Bank",
			AuthResponse: &AuthResponse{Amount: &full, PartialAmount: &partial},
			Links: &PaymentLinks{
				PartialAuthAccept:  &Link{Href: "https://gw.test/accept"},
				PartialAuthDecline: &Link{Href: "https://gw.test/decline"},
			},
		}
	}

	t.Run("complete response", func(t *testing.T) {
		args, err := complete().PartialAuthArgs("at-1")
		require.NoError(t, err)
		assert.Equal(t, PartialAuthArgs{
			PartialAmount: partial,
			FullAmount:    full,
			AcceptURL:     "https://gw.test/accept",
			DeclineURL:    "https://gw.test/decline",
			IssuingOrg:    "Test Bank",
			AccessToken:   "at-1",
		}, args)
	})

	missing := map[string]func(*PaymentResponse){
		"no auth response":  func(p *PaymentResponse) { p.AuthResponse = nil },
		"no partial amount": func(p *PaymentResponse) { p.AuthResponse.PartialAmount = nil },
		"no full amount":    func(p *PaymentResponse) { p.AuthResponse.Amount = nil },
		"no accept link":    func(p *PaymentResponse) { p.Links.PartialAuthAccept = nil },
		"no decline link":   func(p *PaymentResponse) { p.Links.PartialAuthDecline = nil },
	}
	for name, mutate := range missing {
		t.Run(name, func(t *testing.T) {
			p := complete()
			mutate(p)
			_, err := p.PartialAuthArgs("at-1")
			assert.ErrorIs(t, err, ErrPartialAuthArgs)
		})
	}

	t.Run("from order picks the awaiting attempt", func(t *testing.T) {
		order := Order{Embedded: &OrderEmbedded{Payment: []PaymentResponse{
			{State: "FAILED"},
			*complete(),
		}}}
		args, err := order.PartialAuthArgs("at-1")
		require.NoError(t, err)
		assert.Equal(t, "https://gw.test/accept", args.AcceptURL)
	})

	t.Run("from order without an awaiting attempt", func(t *testing.T) {
		order := Order{Embedded: &OrderEmbedded{Payment: []PaymentResponse{{State: "FAILED"}}}}
		_, err := order.PartialAuthArgs("at-1")
		assert.ErrorIs(t, err, ErrPartialAuthArgs)
	})
}

func TestAaniArgs(t *testing.T) {
	order := func() Order {
		return Order{
			Reference: "ord-1",
			Amount:    &currency.Amount{CurrencyCode: "AED", Value: 14200},
			Embedded: &OrderEmbedded{Payment: []PaymentResponse{{
				Links: &PaymentLinks{Aani: &Link{Href: "https://gw.test/aani"}},
			}}},
		}
	}

	t.Run("complete order", func(t *testing.T) {
		o := order()
		args, ok := o.AaniArgs("myapp://done", "at-1")
		require.True(t, ok)
		assert.Equal(t, "https://gw.test/aani", args.PaymentURL)
		assert.Equal(t, "ord-1", args.OrderReference)
		assert.Equal(t, "myapp://done", args.BackLink)
		assert.Equal(t, "at-1", args.AccessToken)
	})

	t.Run("missing pieces", func(t *testing.T) {
		noAmount := order()
		noAmount.Amount = nil
		_, ok := noAmount.AaniArgs("myapp://done", "at-1")
		assert.False(t, ok)

		noLink := order()
		noLink.Embedded.Payment[0].Links.Aani = nil
		_, ok = noLink.AaniArgs("myapp://done", "at-1")
		assert.False(t, ok)

		noBackLink := order()
		_, ok = noBackLink.AaniArgs("", "at-1")
		assert.False(t, ok)
	})
}

func TestIsSuccessState(t *testing.T) {
	for _, state := range []string{
		StateAuthorised, StateCaptured, StatePurchased, StateVerified, StatePostAuthReview,
	} {
		assert.True(t, IsSuccessState(state), state)
	}
	for _, state := range []string{StateAwait3DS, StateAwaitingPartialAuthApproval, "FAILED", "STARTED", ""} {
		assert.False(t, IsSuccessState(state), state)
	}
}

func TestTokensValid(t *testing.T) {
	assert.True(t, Tokens{PaymentToken: "pt", AccessToken: "at"}.Valid())
	assert.False(t, Tokens{PaymentToken: "pt"}.Valid())
	assert.False(t, Tokens{AccessToken: "at"}.Valid())
	assert.False(t, Tokens{}.Valid())
}

func TestVisaPlansEligible(t *testing.T) {
	assert.False(t, (*VisaPlans)(nil).Eligible())
	assert.False(t, (&VisaPlans{}).Eligible())
	assert.True(t, (&VisaPlans{MatchedPlans: []VisaPlan{{VPlanID: "vp-1"}}}).Eligible())
}
