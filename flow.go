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
	"errors"
	"net/url"

	"github.com/enoc-link/ngenius-checkout/cardprovider"
	"github.com/enoc-link/ngenius-checkout/transaction"
)

// flow is one credential-collection variant, selected by the payment
// medium. Each variant owns exactly the data its sub-flow needs.
type flow interface {
	name() string
	// begin runs the variant's pre-authorization checks and returns the
	// first state of the machine.
	begin(o *Orchestrator) stateFn
	// collect presents the variant's credential surface(s) once
	// authorization succeeded.
	collect(ctx context.Context, o *Orchestrator) stateFn
}

func flowFor(medium PaymentMedium, resume *transaction.PaymentResponse, backLink string) (flow, error) {
	switch medium {
	case MediumCard:
		return cardFlow{}, nil
	case MediumApplePay:
		return applePayFlow{}, nil
	case MediumSavedCard:
		return savedCardFlow{}, nil
	case MediumAani:
		return aaniFlow{backLink: backLink}, nil
	case MediumThreeDSTwo:
		if resume == nil {
			return nil, errors.New("checkout: 3-D Secure 2 resumption requires a stored payment response, use NewThreeDSTwoResume")
		}
		return threeDSTwoResumeFlow{resp: *resume}, nil
	default:
		return nil, errors.New("checkout: unknown payment medium")
	}
}

type cardFlow struct{}

func (cardFlow) name() string { return "card" }

func (cardFlow) begin(o *Orchestrator) stateFn { return o.stateAuthorize }

func (cardFlow) collect(ctx context.Context, o *Orchestrator) stateFn {
	if o.surfaces.Card == nil {
		return o.finishState(result(PaymentFailed))
	}
	req, err := o.surfaces.Card.CollectCard(ctx, o.order)
	if err != nil {
		return o.surfaceOutcome(err, o.stateCollect)
	}
	req.PayerIP = o.payerIP(ctx)
	return o.stateVisaEligibility("", req.PAN, req.PAN, func(sel *transaction.VisaPlanSelection) stateFn {
		req.Visa = sel
		return o.stateSubmitCard(req)
	})
}

type applePayFlow struct{}

func (applePayFlow) name() string { return "apple-pay" }

func (applePayFlow) begin(o *Orchestrator) stateFn {
	// Apple Pay not enabled by the merchant, abort before authorizing.
	if _, found := o.order.ApplePayLink(); !found {
		return o.finishState(result(PaymentFailed).withAuth(AuthFailed))
	}
	return o.stateAuthorize
}

func (applePayFlow) collect(ctx context.Context, o *Orchestrator) stateFn {
	if o.surfaces.ApplePay == nil {
		return o.finishState(result(PaymentFailed))
	}
	var methods []string
	if o.order.PaymentMethods != nil {
		methods = o.order.PaymentMethods.Card
	}
	resp, err := o.surfaces.ApplePay.PresentSheet(ctx, cardprovider.Networks(methods), o.authorizeApplePay)
	if err != nil {
		// The sheet tearing down without an authorization is a failed
		// payment, not a cancellation.
		return o.stateInterpret(nil)
	}
	return o.stateInterpret(resp)
}

type savedCardFlow struct{}

func (savedCardFlow) name() string { return "saved-card" }

func (savedCardFlow) begin(o *Orchestrator) stateFn { return o.stateAuthorize }

func (savedCardFlow) collect(ctx context.Context, o *Orchestrator) stateFn {
	saved := o.order.SavedCard
	if saved == nil || o.order.Amount == nil {
		return o.finishState(result(InvalidRequest).withAuth(AuthFailed))
	}

	req := transaction.SavedCardRequest{
		CardToken:      saved.CardToken,
		Expiry:         saved.Expiry,
		CardholderName: saved.CardholderName,
	}
	if saved.RecaptureCSC {
		if o.surfaces.SavedCard == nil {
			return o.finishState(result(PaymentFailed))
		}
		cvv, err := o.surfaces.SavedCard.CollectCVV(ctx, *saved, *o.order.Amount)
		if err != nil {
			return o.surfaceOutcome(err, o.stateCollect)
		}
		req.CVV = cvv
	}

	savedCardURL, found := o.order.SavedCardLink()
	if !found {
		return o.finishState(result(InvalidRequest))
	}
	req.PayerIP = o.payerIP(ctx)

	submit := func(sel *transaction.VisaPlanSelection) stateFn {
		req.Visa = sel
		return o.stateSubmitSavedCard(savedCardURL, req)
	}
	if o.visaMatched(saved.CardToken) {
		return o.stateVisaEligibility(saved.CardToken, "", saved.MaskedPan, submit)
	}
	return submit(nil)
}

type aaniFlow struct {
	backLink string
}

func (aaniFlow) name() string { return "aani" }

func (aaniFlow) begin(o *Orchestrator) stateFn { return o.stateAuthorize }

func (f aaniFlow) collect(ctx context.Context, o *Orchestrator) stateFn {
	args, ok := o.order.AaniArgs(f.backLink, o.tokens.AccessToken)
	if !ok || o.surfaces.Aani == nil {
		// No surface is shown and no terminal status is reported; Run
		// returns ErrAaniUnavailable instead of hanging.
		o.log.WarnContext(ctx, "aani arguments unavailable, sub-flow not started")
		o.runErr = ErrAaniUnavailable
		return nil
	}
	status, err := o.surfaces.Aani.PresentAani(ctx, args)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			// Aani cancellation terminates without the confirmation
			// prompt.
			return o.finishState(result(PaymentCancelled))
		}
		return o.finishState(result(PaymentFailed))
	}
	switch status {
	case AaniSuccess:
		return o.finishState(result(PaymentSuccess))
	case AaniCancelled:
		return o.finishState(result(PaymentCancelled))
	case AaniInvalidRequest:
		return o.finishState(result(InvalidRequest))
	default:
		return o.finishState(result(PaymentFailed))
	}
}

type threeDSTwoResumeFlow struct {
	resp transaction.PaymentResponse
}

func (threeDSTwoResumeFlow) name() string { return "3ds2-resume" }

func (f threeDSTwoResumeFlow) begin(o *Orchestrator) stateFn {
	return func(ctx context.Context) stateFn {
		failed := result(PaymentFailed).withThreeDS(ThreeDSFailed).withAuth(AuthFailed)

		if f.resp.AuthenticationCode == "" {
			return o.finishState(failed)
		}
		if f.resp.Links == nil || f.resp.Links.Payment == nil {
			return o.finishState(failed)
		}
		authURL, err := url.Parse(f.resp.Links.Payment.Href)
		if err != nil || authURL.Host == "" || f.resp.OutletID == "" || f.resp.OrderReference == "" {
			return o.finishState(failed)
		}

		// Bootstrapping from a stored response: the order link has to be
		// reconstructed before the post-challenge poll can work. This is
		// the only mutation of the order.
		o.order.SynthesizeOrderLink(authURL.Host, f.resp.OutletID, f.resp.OrderReference)

		tokens, err := o.svc.Authorize(ctx, f.resp.AuthenticationCode, "https://"+authURL.Host+"/transactions/paymentAuthorization")
		if err != nil || !tokens.Valid() {
			return o.finishState(result(PaymentFailed).withAuth(AuthFailed))
		}
		o.tokens = tokens
		return o.stateCollect
	}
}

func (f threeDSTwoResumeFlow) collect(_ context.Context, o *Orchestrator) stateFn {
	resp := f.resp
	return o.stateInterpret(&resp)
}
