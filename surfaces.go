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

package checkout

import (
	"context"

	"github.com/enoc-link/ngenius-checkout/cardprovider"
	"github.com/enoc-link/ngenius-checkout/currency"
	"github.com/enoc-link/ngenius-checkout/transaction"
)

// The surface interfaces below are implemented by the host. Each call
// presents one surface, blocks until the payer produced a result or
// abandoned it, and returns. The orchestrator presents at most one surface
// at a time: a call returns before the next surface is requested, and
// terminal dismissal goes through [Presenter] before the terminal callback
// fires. A surface signals payer abandonment by returning [ErrCancelled].

// CardCollector presents the card-entry surface and returns the collected
// card payload.
type CardCollector interface {
	CollectCard(ctx context.Context, order transaction.Order) (transaction.PaymentRequest, error)
}

// SavedCardCollector presents the saved-card surface to recapture the
// card security code.
type SavedCardCollector interface {
	CollectCVV(ctx context.Context, card transaction.SavedCard, amount currency.Amount) (string, error)
}

// SheetStatus is the result the platform wallet sheet shows after the
// authorization callback.
type SheetStatus int

const (
	SheetSuccess SheetStatus = iota
	SheetFailure
)

// ApplePayAuthorizeFunc is invoked by the wallet sheet when the payer
// approves: platformToken is the wallet's payment token. The returned
// SheetStatus drives the sheet's confirmation animation; the returned
// response, if any, is what the orchestrator interprets after the sheet is
// dismissed.
type ApplePayAuthorizeFunc func(ctx context.Context, platformToken []byte) (SheetStatus, *transaction.PaymentResponse)

// ApplePaySheet presents the platform wallet sheet restricted to the given
// networks. It returns the payment response produced by authorize, or nil
// when the sheet was dismissed without an authorization.
type ApplePaySheet interface {
	PresentSheet(ctx context.Context, networks []cardprovider.Network, authorize ApplePayAuthorizeFunc) (*transaction.PaymentResponse, error)
}

// ThreeDSV1Challenge carries the parameters of a 3-D Secure 1 ACS
// challenge.
type ThreeDSV1Challenge struct {
	ACSURL  string
	PaReq   string
	MD      string
	TermURL string
}

// ThreeDSChallengeHandler runs issuer challenges. A nil return means the
// challenge surface completed (regardless of whether the issuer approved);
// a non-nil error means the challenge machinery itself failed and the
// payment is treated as failed.
type ThreeDSChallengeHandler interface {
	PresentThreeDSV1(ctx context.Context, challenge ThreeDSV1Challenge) error
	PresentThreeDSV2(ctx context.Context, resp transaction.PaymentResponse, accessToken string, svc transaction.Service) error
}

// PartialAuthOutcome is the decision produced by the partial-authorization
// surface.
type PartialAuthOutcome int

const (
	// PartialAuthOutcomeSuccess: the gateway approved the full amount
	// after all.
	PartialAuthOutcomeSuccess PartialAuthOutcome = iota
	// PartialAuthOutcomeDeclineFailed: the payer declined but the decline
	// call failed.
	PartialAuthOutcomeDeclineFailed
	// PartialAuthOutcomeDeclined: the payer declined the partial amount.
	PartialAuthOutcomeDeclined
	// PartialAuthOutcomePartial: the payer accepted the partial amount.
	PartialAuthOutcomePartial
)

// PartialAuthPrompt presents the partial-authorization approval surface.
type PartialAuthPrompt interface {
	PromptPartialAuth(ctx context.Context, args transaction.PartialAuthArgs) (PartialAuthOutcome, error)
}

// InstallmentSelector presents matched Visa installment plans and returns
// the payer's choice.
type InstallmentSelector interface {
	SelectPlan(ctx context.Context, plans transaction.VisaPlans, fullAmount currency.Amount, maskedPan string) (transaction.VisaPlanSelection, error)
}

// AaniStatus is the outcome reported by the Aani surface.
type AaniStatus int

const (
	AaniSuccess AaniStatus = iota
	AaniFailed
	AaniCancelled
	AaniInvalidRequest
)

// AaniForm presents the Aani alternative-payment surface.
type AaniForm interface {
	PresentAani(ctx context.Context, args transaction.AaniArgs) (AaniStatus, error)
}

// CancelConfirmer asks the payer to confirm abandoning the payment. It is
// consulted only when [Config.ConfirmCancellation] is set.
type CancelConfirmer interface {
	ConfirmCancel(ctx context.Context) bool
}

// Presenter owns whatever container the host shows the surfaces in.
// Dismiss is called exactly once as part of termination and must not
// return until the teardown is complete: its completion happens-before the
// terminal callback.
type Presenter interface {
	Dismiss(ctx context.Context)
}

// Surfaces bundles the host's surface implementations. Only the surfaces
// reachable from the chosen payment medium need to be non-nil; a nil
// surface encountered mid-flow fails the payment rather than panicking.
type Surfaces struct {
	Card          CardCollector
	SavedCard     SavedCardCollector
	ApplePay      ApplePaySheet
	ThreeDS       ThreeDSChallengeHandler
	PartialAuth   PartialAuthPrompt
	Installments  InstallmentSelector
	Aani          AaniForm
	CancelConfirm CancelConfirmer
	Presenter     Presenter
}
