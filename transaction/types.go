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

// Package transaction defines the transaction-service call contract and the
// gateway wire types it exchanges: orders, payment responses, Visa
// installment plans and authorization tokens. The orchestrator in the root
// package consumes [Service]; [Client] is the HTTP implementation.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/enoc-link/ngenius-checkout/currency"
)

// Gateway payment states. The strings are part of the gateway wire contract
// and are matched case-sensitively; any state not listed here is treated as
// a failed payment.
const (
	StateAuthorised                  = "AUTHORISED"
	StateCaptured                    = "CAPTURED"
	StatePurchased                   = "PURCHASED"
	StateVerified                    = "VERIFIED"
	StatePostAuthReview              = "POST_AUTH_REVIEW"
	StateAwait3DS                    = "AWAIT_3DS"
	StateAwaitingPartialAuthApproval = "AWAITING_PARTIAL_AUTH_APPROVAL"
)

// IsSuccessState reports whether state is one of the five states the
// gateway uses for a successfully concluded payment attempt. Note that
// POST_AUTH_REVIEW counts as success here (the attempt concluded) even
// though the orchestrator reports it to the host as its own terminal
// status.
func IsSuccessState(state string) bool {
	switch state {
	case StateAuthorised, StateCaptured, StatePurchased, StateVerified, StatePostAuthReview:
		return true
	}
	return false
}

// EligibilityMatched is the eligibility status of a Visa matched candidate
// that qualifies for installment checking.
const EligibilityMatched = "MATCHED"

// Tokens is the credential pair issued by payment authorization. The
// payment token authorizes a single payment submission; the access token
// authorizes subsequent polling, 3-D Secure and installment calls.
type Tokens struct {
	PaymentToken string
	AccessToken  string
}

// Valid reports whether both tokens of the pair are present.
func (t Tokens) Valid() bool {
	return t.PaymentToken != "" && t.AccessToken != ""
}

// Service is the transaction-service call contract consumed by the
// orchestrator. Implementations return an error for transport failures and
// undecodable responses; the orchestrator collapses those to its failure
// paths and never retries.
type Service interface {
	// Authorize exchanges an order's authorization code for a token pair.
	Authorize(ctx context.Context, code, authURL string) (Tokens, error)
	// MakePayment submits card credentials for the order's payment attempt.
	MakePayment(ctx context.Context, order Order, req PaymentRequest, paymentToken string) (*PaymentResponse, error)
	// MakeSavedCardPayment submits a saved-card payment to the order's
	// saved-card link.
	MakeSavedCardPayment(ctx context.Context, savedCardURL string, req SavedCardRequest, accessToken string) (*PaymentResponse, error)
	// GetOrder polls an order by its order link.
	GetOrder(ctx context.Context, orderURL, accessToken string) (*Order, error)
	// GetVisaPlans queries Visa installment eligibility for a card,
	// identified by card token or raw PAN, never both.
	GetVisaPlans(ctx context.Context, selfURL, accessToken, cardToken, pan string) (*VisaPlans, error)
	// GetPayerIP resolves the payer's IP as seen by the gateway host.
	GetPayerIP(ctx context.Context, ipURL string) (string, error)
	// PostApplePayResponse submits a platform wallet token for the order.
	PostApplePayResponse(ctx context.Context, order Order, platformToken []byte, accessToken, payerIP string) (*PaymentResponse, error)
}

// Link is a HAL-style hyperlink.
type Link struct {
	Href string `json:"href"`
}

// OrderLinks are the links the gateway attaches to an order.
type OrderLinks struct {
	// PaymentAuthorization is the target of the authorize call.
	PaymentAuthorization *Link `json:"payment-authorization,omitempty"`
	// Order is the link used to poll the order after a 3-D Secure
	// challenge.
	Order *Link `json:"cnp:order,omitempty"`
	// PayPage is the hosted pay-page link; its host serves the
	// requester-ip endpoint and its query carries the authorization code.
	PayPage *Link `json:"payment,omitempty"`
}

// OrderEmbedded holds the resources embedded in an order response.
type OrderEmbedded struct {
	Payment []PaymentResponse `json:"payment,omitempty"`
}

// PaymentMethods lists the payment methods the merchant accepts for an
// order.
type PaymentMethods struct {
	Card []string `json:"card,omitempty"`
}

// SavedCard is a previously tokenized card attached to an order.
type SavedCard struct {
	CardToken      string `json:"cardToken"`
	MaskedPan      string `json:"maskedPan,omitempty"`
	Expiry         string `json:"expiry,omitempty"`
	CardholderName string `json:"cardholderName,omitempty"`
	Scheme         string `json:"scheme,omitempty"`
	// RecaptureCSC indicates the payer must re-enter the card security
	// code before the saved card can be charged.
	RecaptureCSC bool `json:"recaptureCsc,omitempty"`
}

// MatchedCandidates is the order's list of cards matched against the Visa
// installment program.
type MatchedCandidates struct {
	MatchedCandidates []MatchedCandidate `json:"matchedCandidates,omitempty"`
}

// MatchedCandidate is a single Visa installment candidacy result for a
// tokenized card.
type MatchedCandidate struct {
	CardToken         string `json:"cardToken"`
	EligibilityStatus string `json:"eligibilityStatus"`
}

// Order is a gateway order as created by a prior checkout session. It is
// read-only for the orchestrator except for the synthesized order link
// injected when resuming a 3-D Secure 2 flow, see
// [Order.SynthesizeOrderLink].
type Order struct {
	Reference      string             `json:"reference,omitempty"`
	OutletID       string             `json:"outletId,omitempty"`
	Amount         *currency.Amount   `json:"amount,omitempty"`
	Links          *OrderLinks        `json:"_links,omitempty"`
	Embedded       *OrderEmbedded     `json:"_embedded,omitempty"`
	SavedCard      *SavedCard         `json:"savedCard,omitempty"`
	PaymentMethods *PaymentMethods    `json:"paymentMethods,omitempty"`
	VisaCandidates *MatchedCandidates `json:"visSavedCardMatchedCandidates,omitempty"`
}

// AuthCode extracts the order's authorization code from the pay-page link
// query.
func (o *Order) AuthCode() (string, bool) {
	if o.Links == nil || o.Links.PayPage == nil {
		return "", false
	}
	u, err := url.Parse(o.Links.PayPage.Href)
	if err != nil {
		return "", false
	}
	code := u.Query().Get("code")
	return code, code != ""
}

// firstAttempt returns the order's first embedded payment attempt.
func (o *Order) firstAttempt() *PaymentResponse {
	if o.Embedded == nil || len(o.Embedded.Payment) == 0 {
		return nil
	}
	return &o.Embedded.Payment[0]
}

// Attempts returns the order's embedded payment attempts.
func (o *Order) Attempts() []PaymentResponse {
	if o.Embedded == nil {
		return nil
	}
	return o.Embedded.Payment
}

// ApplePayLink returns the Apple Pay submission link of the order's payment
// attempt, if the merchant has Apple Pay enabled.
func (o *Order) ApplePayLink() (string, bool) {
	return o.attemptLink(func(l *PaymentLinks) *Link { return l.ApplePay })
}

// CardPaymentLink returns the card submission link of the order's payment
// attempt.
func (o *Order) CardPaymentLink() (string, bool) {
	return o.attemptLink(func(l *PaymentLinks) *Link { return l.Card })
}

// SavedCardLink returns the saved-card submission link of the order's
// payment attempt.
func (o *Order) SavedCardLink() (string, bool) {
	return o.attemptLink(func(l *PaymentLinks) *Link { return l.SavedCard })
}

// SelfLink returns the self link of the order's payment attempt, used for
// Visa installment eligibility calls.
func (o *Order) SelfLink() (string, bool) {
	return o.attemptLink(func(l *PaymentLinks) *Link { return l.Self })
}

// AaniLink returns the Aani submission link of the order's payment attempt.
func (o *Order) AaniLink() (string, bool) {
	return o.attemptLink(func(l *PaymentLinks) *Link { return l.Aani })
}

func (o *Order) attemptLink(pick func(*PaymentLinks) *Link) (string, bool) {
	attempt := o.firstAttempt()
	if attempt == nil || attempt.Links == nil {
		return "", false
	}
	l := pick(attempt.Links)
	if l == nil || l.Href == "" {
		return "", false
	}
	return l.Href, true
}

// SynthesizeOrderLink injects an order link reconstructed from a stored
// 3-D Secure 2 payment response. This is the only mutation the
// orchestrator performs on an order.
func (o *Order) SynthesizeOrderLink(host, outletID, orderReference string) {
	o.Links = &OrderLinks{
		Order: &Link{Href: fmt.Sprintf("https://%s/transactions/outlets/%s/orders/%s", host, outletID, orderReference)},
	}
}

// PaymentLinks are the links the gateway attaches to a payment attempt.
type PaymentLinks struct {
	Self *Link `json:"self,omitempty"`
	// Payment carries the 3-D Secure 2 authentication URL on stored
	// payment responses.
	Payment        *Link `json:"payment,omitempty"`
	Card           *Link `json:"payment:card,omitempty"`
	ThreeDSTermURL *Link `json:"cnp:3ds,omitempty"`
	ApplePay       *Link `json:"applepay,omitempty"`
	SavedCard      *Link `json:"cnp:saved-card,omitempty"`
	Aani           *Link `json:"cnp:aani,omitempty"`
	// PartialAuthAccept and PartialAuthDecline drive the partial
	// authorization sub-flow.
	PartialAuthAccept  *Link `json:"cnp:partial-auth-accept,omitempty"`
	PartialAuthDecline *Link `json:"cnp:partial-auth-decline,omitempty"`
}

// ThreeDSConfig is the 3-D Secure 1 challenge configuration of a payment
// response. All fields plus the term URL link must be present for a v1
// challenge.
type ThreeDSConfig struct {
	ACSURL   string `json:"acsUrl,omitempty"`
	ACSPaReq string `json:"acsPaReq,omitempty"`
	ACSMD    string `json:"acsMd,omitempty"`
}

// ThreeDSTwoConfig is the 3-D Secure 2 challenge configuration of a payment
// response.
type ThreeDSTwoConfig struct {
	MessageVersion       string `json:"messageVersion,omitempty"`
	ThreeDSMethodURL     string `json:"threeDSMethodURL,omitempty"`
	ThreeDSServerTransID string `json:"threeDSServerTransID,omitempty"`
	DirectoryServerID    string `json:"directoryServerID,omitempty"`
	TransStatus          string `json:"transStatus,omitempty"`
}

// AuthResponse carries the gateway's authorization outcome amounts, present
// when a payment is awaiting partial-authorization approval.
type AuthResponse struct {
	Amount        *currency.Amount `json:"amount,omitempty"`
	PartialAmount *currency.Amount `json:"partialAmount,omitempty"`
}

// PaymentResponse is the result of a payment submission or of an order
// poll's embedded attempt.
type PaymentResponse struct {
	State              string            `json:"state,omitempty"`
	Amount             *currency.Amount  `json:"amount,omitempty"`
	OutletID           string            `json:"outletId,omitempty"`
	OrderReference     string            `json:"orderReference,omitempty"`
	AuthenticationCode string            `json:"authenticationCode,omitempty"`
	IssuingOrg         string            `json:"issuingOrg,omitempty"`
	ThreeDS            *ThreeDSConfig    `json:"3ds,omitempty"`
	ThreeDSTwo         *ThreeDSTwoConfig `json:"3ds2,omitempty"`
	AuthResponse       *AuthResponse     `json:"authResponse,omitempty"`
	Links              *PaymentLinks     `json:"_links,omitempty"`
}

// ThreeDSOneReady reports whether the response carries the complete 3-D
// Secure 1 challenge parameter set: ACS URL, PaReq, MD and a term URL.
func (p *PaymentResponse) ThreeDSOneReady() bool {
	return p.ThreeDS != nil &&
		p.ThreeDS.ACSURL != "" &&
		p.ThreeDS.ACSPaReq != "" &&
		p.ThreeDS.ACSMD != "" &&
		p.Links != nil &&
		p.Links.ThreeDSTermURL != nil &&
		p.Links.ThreeDSTermURL.Href != ""
}

// ErrPartialAuthArgs indicates a payment response in partial-auth state was
// missing fields required to drive the approval sub-flow.
var ErrPartialAuthArgs = errors.New("transaction: payment response is missing partial-auth fields")

// PartialAuthArgs is everything the partial-authorization surface needs:
// the approved partial amount, the originally requested amount, the
// accept/decline links and the access token that authorizes them.
type PartialAuthArgs struct {
	PartialAmount currency.Amount
	FullAmount    currency.Amount
	AcceptURL     string
	DeclineURL    string
	IssuingOrg    string
	AccessToken   string
}

// PartialAuthArgs derives the partial-authorization arguments from the
// response. It returns [ErrPartialAuthArgs] when the amounts or the
// accept/decline links are absent.
func (p *PaymentResponse) PartialAuthArgs(accessToken string) (PartialAuthArgs, error) {
	if p.AuthResponse == nil || p.AuthResponse.Amount == nil || p.AuthResponse.PartialAmount == nil {
		return PartialAuthArgs{}, fmt.Errorf("%w: amounts", ErrPartialAuthArgs)
	}
	if p.Links == nil || p.Links.PartialAuthAccept == nil || p.Links.PartialAuthDecline == nil {
		return PartialAuthArgs{}, fmt.Errorf("%w: accept/decline links", ErrPartialAuthArgs)
	}
	return PartialAuthArgs{
		PartialAmount: *p.AuthResponse.PartialAmount,
		FullAmount:    *p.AuthResponse.Amount,
		AcceptURL:     p.Links.PartialAuthAccept.Href,
		DeclineURL:    p.Links.PartialAuthDecline.Href,
		IssuingOrg:    p.IssuingOrg,
		AccessToken:   accessToken,
	}, nil
}

// PartialAuthArgs derives partial-authorization arguments from the order's
// first attempt in AWAITING_PARTIAL_AUTH_APPROVAL state.
func (o *Order) PartialAuthArgs(accessToken string) (PartialAuthArgs, error) {
	for i := range o.Attempts() {
		attempt := &o.Embedded.Payment[i]
		if attempt.State == StateAwaitingPartialAuthApproval {
			return attempt.PartialAuthArgs(accessToken)
		}
	}
	return PartialAuthArgs{}, fmt.Errorf("%w: no attempt awaiting approval", ErrPartialAuthArgs)
}

// AaniArgs is everything the Aani surface needs to run the alternative
// payment flow.
type AaniArgs struct {
	Amount         currency.Amount
	OrderReference string
	PaymentURL     string
	BackLink       string
	AccessToken    string
}

// AaniArgs builds the Aani sub-flow arguments from the order, the held
// access token and the caller-supplied return link. ok is false when the
// order has no amount or no Aani link, or when no return link was
// supplied.
func (o *Order) AaniArgs(backLink, accessToken string) (AaniArgs, bool) {
	link, found := o.AaniLink()
	if !found || o.Amount == nil || backLink == "" {
		return AaniArgs{}, false
	}
	return AaniArgs{
		Amount:         *o.Amount,
		OrderReference: o.Reference,
		PaymentURL:     link,
		BackLink:       backLink,
		AccessToken:    accessToken,
	}, true
}

// VisaPlan is a single matched Visa installment plan.
type VisaPlan struct {
	VPlanID              string `json:"vPlanID"`
	NumberOfInstallments int    `json:"numberOfInstallments,omitempty"`
	InstallmentFrequency string `json:"installmentFrequency,omitempty"`
	TermsAndConditions   string `json:"termsAndConditions,omitempty"`
}

// VisaPlans is the result of a Visa installment eligibility check. An empty
// matched-plan set means the card is not eligible.
type VisaPlans struct {
	MatchedPlans []VisaPlan `json:"matchedPlans,omitempty"`
}

// Eligible reports whether any installment plan matched.
func (v *VisaPlans) Eligible() bool {
	return v != nil && len(v.MatchedPlans) > 0
}

// VisaPlanSelection is the payer's chosen installment plan, attached to a
// payment request before submission.
type VisaPlanSelection struct {
	PlanSelectionIndicator bool   `json:"planSelectionIndicator"`
	VPlanID                string `json:"vPlanId"`
	AcceptedTAndCVersion   string `json:"acceptedTAndCVersion,omitempty"`
}
