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
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/enoc-link/ngenius-checkout/transaction"
)

// stateFn is one step of the payment state machine. A state performs its
// work and returns the next state, or nil when the machine halts.
type stateFn func(ctx context.Context) stateFn

// Orchestrator drives a single payment attempt against an order: it
// authorizes, collects credentials through the host's surfaces, submits
// the payment and walks the 3-D Secure and partial-authorization
// sub-flows until a terminal status is reached.
//
// All surface and event callbacks are invoked from the goroutine that
// called Run. An Orchestrator is single-shot: once a terminal status has
// been reported it cannot be run again.
type Orchestrator struct {
	cfg      Config
	log      *slog.Logger
	svc      transaction.Service
	events   Events
	surfaces Surfaces

	order    transaction.Order
	flow     flow
	backLink string

	tokens transaction.Tokens
	runErr error

	mu       sync.Mutex
	running  bool
	pending  bool
	finished bool
	result   Result
}

// Run executes the payment flow to completion and returns the terminal
// result. It blocks until the flow finishes, parks awaiting an external
// 3-D Secure completion (ErrAwaitingThreeDS, resume with ResumePolling),
// or ctx is cancelled. After a terminal result has been reported Run
// returns ErrFinished; a concurrent second call returns ErrAlreadyRunning.
// A parked orchestrator refuses Run with ErrAwaitingThreeDS: restarting
// the machine would re-submit a payment whose first attempt is still in
// flight, so only ResumePolling can continue it.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	o.mu.Lock()
	switch {
	case o.finished:
		res := o.result
		o.mu.Unlock()
		return res, ErrFinished
	case o.running:
		o.mu.Unlock()
		return Result{}, ErrAlreadyRunning
	case o.pending:
		o.mu.Unlock()
		return Result{}, ErrAwaitingThreeDS
	}
	o.running = true
	o.mu.Unlock()
	defer o.release()

	o.log.InfoContext(ctx, "starting payment flow",
		"flow", o.flow.name(),
		"order", o.order.Reference,
	)
	return o.loop(ctx, o.flow.begin(o))
}

// ResumePolling continues a flow that Run parked with ErrAwaitingThreeDS,
// re-entering the post-challenge order poll with a fresh backoff schedule.
func (o *Orchestrator) ResumePolling(ctx context.Context) (Result, error) {
	o.mu.Lock()
	switch {
	case o.finished:
		res := o.result
		o.mu.Unlock()
		return res, ErrFinished
	case o.running:
		o.mu.Unlock()
		return Result{}, ErrAlreadyRunning
	case !o.pending:
		o.mu.Unlock()
		return Result{}, ErrNotAwaitingThreeDS
	}
	o.running = true
	o.pending = false
	o.mu.Unlock()
	defer o.release()

	o.log.InfoContext(ctx, "resuming order poll", "order", o.order.Reference)
	return o.loop(ctx, o.statePoll())
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}

// loop drives the state machine. Cancellation is checked between states
// so that a cancelled context always wins over whatever a surface
// returned; a cancelled flow reports no terminal status.
func (o *Orchestrator) loop(ctx context.Context, st stateFn) (Result, error) {
	o.runErr = nil
	for st != nil {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		st = st(ctx)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.finished:
		return o.result, nil
	case o.pending:
		return Result{}, ErrAwaitingThreeDS
	case o.runErr != nil:
		return Result{}, o.runErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	// Unreachable: every halting state finishes, parks, or records a
	// run error.
	return Result{}, nil
}

// stateAuthorize exchanges the order's authorization code for the token
// pair. Both tokens are required before any payment submission.
func (o *Orchestrator) stateAuthorize(ctx context.Context) stateFn {
	o.events.authorizationBegan()

	code, ok := o.order.AuthCode()
	if !ok || o.order.Links == nil || o.order.Links.PaymentAuthorization == nil {
		o.log.WarnContext(ctx, "order carries no authorization code or link")
		return o.finishState(result(PaymentFailed).withAuth(AuthFailed))
	}
	tokens, err := o.svc.Authorize(ctx, code, o.order.Links.PaymentAuthorization.Href)
	if err != nil || !tokens.Valid() {
		if err != nil {
			o.log.WarnContext(ctx, "payment authorization failed", "error", err)
		} else {
			o.log.WarnContext(ctx, "payment authorization returned an incomplete token pair")
		}
		return o.finishState(result(PaymentFailed).withAuth(AuthFailed))
	}
	o.tokens = tokens

	o.events.authorizationCompleted(AuthSuccess)
	o.events.paymentBegan()
	return o.stateCollect
}

func (o *Orchestrator) stateCollect(ctx context.Context) stateFn {
	return o.flow.collect(ctx, o)
}

// surfaceOutcome maps a credential surface error to the next state. A
// payer-initiated cancellation enters the cancellation policy with retry
// as the state to re-present if the payer changes their mind; anything
// else fails the payment.
func (o *Orchestrator) surfaceOutcome(err error, retry stateFn) stateFn {
	if errors.Is(err, ErrCancelled) {
		return o.stateCancel(retry)
	}
	return o.finishState(result(PaymentFailed))
}

func (o *Orchestrator) stateCancel(retry stateFn) stateFn {
	return func(ctx context.Context) stateFn {
		if o.cfg.ConfirmCancellation && o.surfaces.CancelConfirm != nil {
			if !o.surfaces.CancelConfirm.ConfirmCancel(ctx) {
				return retry
			}
		}
		return o.finishState(result(PaymentCancelled))
	}
}

// payerIP resolves the payer's IP from the pay-page host. Best effort:
// the submission proceeds with an empty IP when the lookup fails.
func (o *Orchestrator) payerIP(ctx context.Context) string {
	if o.order.Links == nil || o.order.Links.PayPage == nil {
		return ""
	}
	u, err := url.Parse(o.order.Links.PayPage.Href)
	if err != nil || u.Host == "" {
		return ""
	}
	ip, err := o.svc.GetPayerIP(ctx, "https://"+u.Host+"/api/requester-ip")
	if err != nil {
		o.log.DebugContext(ctx, "payer ip lookup failed", "error", err)
		return ""
	}
	return ip
}

// visaMatched reports whether cardToken is a matched Visa installment
// candidate on the order.
func (o *Orchestrator) visaMatched(cardToken string) bool {
	if o.order.VisaCandidates == nil {
		return false
	}
	for _, c := range o.order.VisaCandidates.MatchedCandidates {
		if c.CardToken == cardToken && c.EligibilityStatus == transaction.EligibilityMatched {
			return true
		}
	}
	return false
}

// stateVisaEligibility checks Visa installment eligibility for the card
// and, when plans match, lets the payer pick one before handing the
// optional selection to submit. Every degraded path submits without a
// plan rather than failing the payment.
func (o *Orchestrator) stateVisaEligibility(cardToken, pan, maskedPan string, submit func(*transaction.VisaPlanSelection) stateFn) stateFn {
	return func(ctx context.Context) stateFn {
		selfURL, found := o.order.SelfLink()
		if !found || o.tokens.AccessToken == "" {
			return submit(nil)
		}
		plans, err := o.svc.GetVisaPlans(ctx, selfURL, o.tokens.AccessToken, cardToken, pan)
		if err != nil {
			o.log.DebugContext(ctx, "visa eligibility check failed", "error", err)
			return submit(nil)
		}
		if !plans.Eligible() {
			return submit(nil)
		}
		if o.surfaces.Installments == nil || o.order.Amount == nil {
			return submit(nil)
		}
		// Re-presenting after a declined cancel prompt reuses the plans
		// already fetched.
		var present stateFn
		present = func(ctx context.Context) stateFn {
			sel, err := o.surfaces.Installments.SelectPlan(ctx, *plans, *o.order.Amount, maskedPan)
			if err != nil {
				return o.surfaceOutcome(err, present)
			}
			return submit(&sel)
		}
		return present
	}
}

func (o *Orchestrator) stateSubmitCard(req transaction.PaymentRequest) stateFn {
	return func(ctx context.Context) stateFn {
		resp, err := o.svc.MakePayment(ctx, o.order, req, o.tokens.PaymentToken)
		if err != nil {
			o.log.WarnContext(ctx, "payment submission failed", "error", err)
			return o.stateInterpret(nil)
		}
		return o.stateInterpret(resp)
	}
}

func (o *Orchestrator) stateSubmitSavedCard(savedCardURL string, req transaction.SavedCardRequest) stateFn {
	return func(ctx context.Context) stateFn {
		resp, err := o.svc.MakeSavedCardPayment(ctx, savedCardURL, req, o.tokens.AccessToken)
		if err != nil {
			o.log.WarnContext(ctx, "saved card payment submission failed", "error", err)
			return o.finishState(result(PaymentFailed))
		}
		return o.stateInterpret(resp)
	}
}

// authorizeApplePay submits a platform wallet token inside the sheet's
// authorization callback and reports the outcome back to the sheet. The
// gateway response is carried out of the sheet for interpretation.
func (o *Orchestrator) authorizeApplePay(ctx context.Context, platformToken []byte) (SheetStatus, *transaction.PaymentResponse) {
	resp, err := o.svc.PostApplePayResponse(ctx, o.order, platformToken, o.tokens.AccessToken, o.payerIP(ctx))
	if err != nil {
		o.log.WarnContext(ctx, "apple pay submission failed", "error", err)
		return SheetFailure, nil
	}
	if transaction.IsSuccessState(resp.State) {
		return SheetSuccess, resp
	}
	return SheetFailure, resp
}

// stateInterpret applies the gateway response decision table. Evaluation
// order matters: a nil response and unrecognized states both fail the
// payment.
func (o *Orchestrator) stateInterpret(resp *transaction.PaymentResponse) stateFn {
	return func(ctx context.Context) stateFn {
		if resp == nil {
			return o.finishState(result(PaymentFailed))
		}
		switch resp.State {
		case transaction.StateAuthorised, transaction.StateCaptured,
			transaction.StatePurchased, transaction.StateVerified:
			return o.finishState(result(PaymentSuccess))
		case transaction.StatePostAuthReview:
			return o.finishState(result(PaymentPostAuthReview))
		case transaction.StateAwait3DS:
			o.events.threeDSChallengeBegan()
			return o.stateThreeDS(resp)
		case transaction.StateAwaitingPartialAuthApproval:
			o.events.partialAuthBegan()
			args, err := resp.PartialAuthArgs(o.tokens.AccessToken)
			if err != nil {
				o.log.WarnContext(ctx, "partial auth response incomplete", "error", err)
				return o.finishState(result(InvalidRequest))
			}
			return o.statePartialAuth(args)
		default:
			return o.finishState(result(PaymentFailed))
		}
	}
}

// stateThreeDS routes an AWAIT_3DS response to a challenge. 3-D Secure 1
// takes precedence whenever the response carries a complete redirect;
// otherwise version 2 runs on the access token. A challenge that cannot
// be mounted fails the payment with a failed challenge status.
func (o *Orchestrator) stateThreeDS(resp *transaction.PaymentResponse) stateFn {
	return func(ctx context.Context) stateFn {
		switch {
		case o.surfaces.ThreeDS != nil && resp.ThreeDSOneReady():
			challenge := ThreeDSV1Challenge{
				ACSURL:  resp.ThreeDS.ACSURL,
				PaReq:   resp.ThreeDS.ACSPaReq,
				MD:      resp.ThreeDS.ACSMD,
				TermURL: resp.Links.ThreeDSTermURL.Href,
			}
			if err := o.surfaces.ThreeDS.PresentThreeDSV1(ctx, challenge); err != nil {
				o.log.WarnContext(ctx, "3-D Secure 1 challenge failed", "error", err)
				return o.stateInterpret(nil)
			}
			return o.statePoll()
		case o.surfaces.ThreeDS != nil && o.tokens.AccessToken != "":
			if err := o.surfaces.ThreeDS.PresentThreeDSV2(ctx, *resp, o.tokens.AccessToken, o.svc); err != nil {
				o.log.WarnContext(ctx, "3-D Secure 2 challenge failed", "error", err)
				return o.stateInterpret(nil)
			}
			return o.statePoll()
		default:
			return o.finishState(result(PaymentFailed).withThreeDS(ThreeDSFailed))
		}
	}
}

// statePoll re-reads the order after a 3-D Secure challenge until an
// attempt concludes. An order still awaiting its challenge outcome is
// re-read on the configured backoff schedule; once the schedule is
// exhausted the machine parks and Run returns ErrAwaitingThreeDS.
func (o *Orchestrator) statePoll() stateFn {
	return func(ctx context.Context) stateFn {
		if o.order.Links == nil || o.order.Links.Order == nil {
			return o.stateInterpret(nil)
		}
		orderURL := o.order.Links.Order.Href
		bo := o.cfg.Poll.backOff()

		for {
			order, err := o.svc.GetOrder(ctx, orderURL, o.tokens.AccessToken)
			if err != nil {
				o.log.WarnContext(ctx, "order poll failed", "error", err)
				return o.stateInterpret(nil)
			}

			attempts := order.Attempts()
			for _, a := range attempts {
				if a.State == transaction.StateAwaitingPartialAuthApproval {
					args, err := order.PartialAuthArgs(o.tokens.AccessToken)
					if err != nil {
						o.log.WarnContext(ctx, "partial auth attempt incomplete", "error", err)
						return o.finishState(result(PaymentFailed))
					}
					return o.statePartialAuth(args)
				}
			}

			awaiting := false
			for i := range attempts {
				if transaction.IsSuccessState(attempts[i].State) {
					return o.stateInterpret(&attempts[i])
				}
				if attempts[i].State == transaction.StateAwait3DS {
					awaiting = true
				}
			}
			if !awaiting {
				return o.stateInterpret(nil)
			}

			d := bo.NextBackOff()
			if d == backoff.Stop {
				o.log.InfoContext(ctx, "order still awaiting 3-D Secure, parking",
					"order", o.order.Reference,
				)
				o.mu.Lock()
				o.pending = true
				o.mu.Unlock()
				return nil
			}
			if err := sleep(ctx, d); err != nil {
				return nil
			}
		}
	}
}

// statePartialAuth puts the partial-authorization decision to the payer
// and maps the outcome to a terminal status.
func (o *Orchestrator) statePartialAuth(args transaction.PartialAuthArgs) stateFn {
	return func(ctx context.Context) stateFn {
		if o.surfaces.PartialAuth == nil {
			return o.finishState(result(PaymentFailed))
		}
		outcome, err := o.surfaces.PartialAuth.PromptPartialAuth(ctx, args)
		if err != nil {
			o.log.WarnContext(ctx, "partial auth prompt failed", "error", err)
			return o.finishState(result(PaymentFailed))
		}
		switch outcome {
		case PartialAuthOutcomeSuccess:
			return o.finishState(result(PaymentSuccess))
		case PartialAuthOutcomeDeclineFailed:
			return o.finishState(result(PartialAuthDeclineFailed))
		case PartialAuthOutcomeDeclined:
			return o.finishState(result(PartialAuthDeclined))
		case PartialAuthOutcomePartial:
			return o.finishState(result(PartiallyAuthorised))
		default:
			return o.finishState(result(PaymentFailed))
		}
	}
}

func (o *Orchestrator) finishState(res Result) stateFn {
	return func(ctx context.Context) stateFn {
		o.finish(ctx, res)
		return nil
	}
}

// finish reports the terminal result exactly once: challenge and
// authorization statuses first, then the presenter is dismissed, then the
// completion event fires. Late calls are dropped.
func (o *Orchestrator) finish(ctx context.Context, res Result) {
	o.mu.Lock()
	if o.finished {
		o.mu.Unlock()
		return
	}
	o.finished = true
	o.result = res
	o.mu.Unlock()

	if res.ThreeDS != nil {
		o.events.threeDSChallengeCompleted(*res.ThreeDS)
	}
	if res.Auth != nil {
		o.events.authorizationCompleted(*res.Auth)
	}
	if o.surfaces.Presenter != nil {
		o.surfaces.Presenter.Dismiss(ctx)
	}
	o.events.paymentCompleted(res)

	o.log.InfoContext(ctx, "payment flow finished",
		"order", o.order.Reference,
		"status", string(res.Payment),
	)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
