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

// Package checkouttest provides scripted fakes for orchestrator tests.
package checkouttest

import (
	"context"
	"errors"
	"fmt"

	checkout "github.com/enoc-link/ngenius-checkout"
	"github.com/enoc-link/ngenius-checkout/cardprovider"
	"github.com/enoc-link/ngenius-checkout/currency"
	"github.com/enoc-link/ngenius-checkout/transaction"
)

// Service is a scripted transaction.Service. Unset call sites return an
// error so a test fails loudly when the orchestrator makes a call the
// script did not anticipate.
type Service struct {
	AuthorizeFunc            func(ctx context.Context, code, authURL string) (transaction.Tokens, error)
	MakePaymentFunc          func(ctx context.Context, order transaction.Order, req transaction.PaymentRequest, paymentToken string) (*transaction.PaymentResponse, error)
	MakeSavedCardPaymentFunc func(ctx context.Context, savedCardURL string, req transaction.SavedCardRequest, accessToken string) (*transaction.PaymentResponse, error)
	GetOrderFunc             func(ctx context.Context, orderURL, accessToken string) (*transaction.Order, error)
	GetVisaPlansFunc         func(ctx context.Context, selfURL, accessToken, cardToken, pan string) (*transaction.VisaPlans, error)
	GetPayerIPFunc           func(ctx context.Context, ipURL string) (string, error)
	PostApplePayResponseFunc func(ctx context.Context, order transaction.Order, platformToken []byte, accessToken, payerIP string) (*transaction.PaymentResponse, error)
}

var _ transaction.Service = (*Service)(nil)

func (s *Service) Authorize(ctx context.Context, code, authURL string) (transaction.Tokens, error) {
	if s.AuthorizeFunc == nil {
		return transaction.Tokens{}, errors.New("checkouttest: Authorize not scripted")
	}
	return s.AuthorizeFunc(ctx, code, authURL)
}

func (s *Service) MakePayment(ctx context.Context, order transaction.Order, req transaction.PaymentRequest, paymentToken string) (*transaction.PaymentResponse, error) {
	if s.MakePaymentFunc == nil {
		return nil, errors.New("checkouttest: MakePayment not scripted")
	}
	return s.MakePaymentFunc(ctx, order, req, paymentToken)
}

func (s *Service) MakeSavedCardPayment(ctx context.Context, savedCardURL string, req transaction.SavedCardRequest, accessToken string) (*transaction.PaymentResponse, error) {
	if s.MakeSavedCardPaymentFunc == nil {
		return nil, errors.New("checkouttest: MakeSavedCardPayment not scripted")
	}
	return s.MakeSavedCardPaymentFunc(ctx, savedCardURL, req, accessToken)
}

func (s *Service) GetOrder(ctx context.Context, orderURL, accessToken string) (*transaction.Order, error) {
	if s.GetOrderFunc == nil {
		return nil, errors.New("checkouttest: GetOrder not scripted")
	}
	return s.GetOrderFunc(ctx, orderURL, accessToken)
}

func (s *Service) GetVisaPlans(ctx context.Context, selfURL, accessToken, cardToken, pan string) (*transaction.VisaPlans, error) {
	if s.GetVisaPlansFunc == nil {
		return nil, errors.New("checkouttest: GetVisaPlans not scripted")
	}
	return s.GetVisaPlansFunc(ctx, selfURL, accessToken, cardToken, pan)
}

func (s *Service) GetPayerIP(ctx context.Context, ipURL string) (string, error) {
	if s.GetPayerIPFunc == nil {
		return "", errors.New("checkouttest: GetPayerIP not scripted")
	}
	return s.GetPayerIPFunc(ctx, ipURL)
}

func (s *Service) PostApplePayResponse(ctx context.Context, order transaction.Order, platformToken []byte, accessToken, payerIP string) (*transaction.PaymentResponse, error) {
	if s.PostApplePayResponseFunc == nil {
		return nil, errors.New("checkouttest: PostApplePayResponse not scripted")
	}
	return s.PostApplePayResponseFunc(ctx, order, platformToken, accessToken, payerIP)
}

// CardCollector is a scripted checkout.CardCollector.
type CardCollector struct {
	CollectCardFunc func(ctx context.Context, order transaction.Order) (transaction.PaymentRequest, error)
}

func (c *CardCollector) CollectCard(ctx context.Context, order transaction.Order) (transaction.PaymentRequest, error) {
	return c.CollectCardFunc(ctx, order)
}

// SavedCardCollector is a scripted checkout.SavedCardCollector.
type SavedCardCollector struct {
	CollectCVVFunc func(ctx context.Context, card transaction.SavedCard, amount currency.Amount) (string, error)
}

func (c *SavedCardCollector) CollectCVV(ctx context.Context, card transaction.SavedCard, amount currency.Amount) (string, error) {
	return c.CollectCVVFunc(ctx, card, amount)
}

// ApplePaySheet is a scripted checkout.ApplePaySheet.
type ApplePaySheet struct {
	PresentSheetFunc func(ctx context.Context, networks []cardprovider.Network, authorize checkout.ApplePayAuthorizeFunc) (*transaction.PaymentResponse, error)
}

func (s *ApplePaySheet) PresentSheet(ctx context.Context, networks []cardprovider.Network, authorize checkout.ApplePayAuthorizeFunc) (*transaction.PaymentResponse, error) {
	return s.PresentSheetFunc(ctx, networks, authorize)
}

// ThreeDSChallengeHandler is a scripted checkout.ThreeDSChallengeHandler.
type ThreeDSChallengeHandler struct {
	PresentThreeDSV1Func func(ctx context.Context, challenge checkout.ThreeDSV1Challenge) error
	PresentThreeDSV2Func func(ctx context.Context, resp transaction.PaymentResponse, accessToken string, svc transaction.Service) error
}

func (h *ThreeDSChallengeHandler) PresentThreeDSV1(ctx context.Context, challenge checkout.ThreeDSV1Challenge) error {
	if h.PresentThreeDSV1Func == nil {
		return errors.New("checkouttest: PresentThreeDSV1 not scripted")
	}
	return h.PresentThreeDSV1Func(ctx, challenge)
}

func (h *ThreeDSChallengeHandler) PresentThreeDSV2(ctx context.Context, resp transaction.PaymentResponse, accessToken string, svc transaction.Service) error {
	if h.PresentThreeDSV2Func == nil {
		return errors.New("checkouttest: PresentThreeDSV2 not scripted")
	}
	return h.PresentThreeDSV2Func(ctx, resp, accessToken, svc)
}

// PartialAuthPrompt is a scripted checkout.PartialAuthPrompt.
type PartialAuthPrompt struct {
	PromptPartialAuthFunc func(ctx context.Context, args transaction.PartialAuthArgs) (checkout.PartialAuthOutcome, error)
}

func (p *PartialAuthPrompt) PromptPartialAuth(ctx context.Context, args transaction.PartialAuthArgs) (checkout.PartialAuthOutcome, error) {
	return p.PromptPartialAuthFunc(ctx, args)
}

// InstallmentSelector is a scripted checkout.InstallmentSelector.
type InstallmentSelector struct {
	SelectPlanFunc func(ctx context.Context, plans transaction.VisaPlans, fullAmount currency.Amount, maskedPan string) (transaction.VisaPlanSelection, error)
}

func (s *InstallmentSelector) SelectPlan(ctx context.Context, plans transaction.VisaPlans, fullAmount currency.Amount, maskedPan string) (transaction.VisaPlanSelection, error) {
	return s.SelectPlanFunc(ctx, plans, fullAmount, maskedPan)
}

// AaniForm is a scripted checkout.AaniForm.
type AaniForm struct {
	PresentAaniFunc func(ctx context.Context, args transaction.AaniArgs) (checkout.AaniStatus, error)
}

func (f *AaniForm) PresentAani(ctx context.Context, args transaction.AaniArgs) (checkout.AaniStatus, error) {
	return f.PresentAaniFunc(ctx, args)
}

// CancelConfirmer is a scripted checkout.CancelConfirmer.
type CancelConfirmer struct {
	ConfirmCancelFunc func(ctx context.Context) bool
}

func (c *CancelConfirmer) ConfirmCancel(ctx context.Context) bool {
	if c.ConfirmCancelFunc == nil {
		return true
	}
	return c.ConfirmCancelFunc(ctx)
}

// Presenter counts dismissals.
type Presenter struct {
	Dismissed int
}

func (p *Presenter) Dismiss(ctx context.Context) { p.Dismissed++ }

// EventLog records orchestrator events in emission order. Events arrive
// on the run goroutine, so no locking is needed when the test joins the
// run before asserting.
type EventLog struct {
	Entries []string
	Results []checkout.Result
}

// Bind returns an Events wired to append to the log.
func (l *EventLog) Bind() checkout.Events {
	return checkout.Events{
		AuthorizationBegan: func() { l.add("auth-began") },
		AuthorizationCompleted: func(s checkout.AuthorizationStatus) {
			l.add(fmt.Sprintf("auth-completed:%s", s))
		},
		PaymentBegan:          func() { l.add("payment-began") },
		ThreeDSChallengeBegan: func() { l.add("3ds-began") },
		ThreeDSChallengeCompleted: func(s checkout.ThreeDSStatus) {
			l.add(fmt.Sprintf("3ds-completed:%s", s))
		},
		PartialAuthBegan: func() { l.add("partial-auth-began") },
		PaymentCompleted: func(r checkout.Result) {
			l.add(fmt.Sprintf("payment-completed:%s", r.Payment))
			l.Results = append(l.Results, r)
		},
	}
}

func (l *EventLog) add(entry string) { l.Entries = append(l.Entries, entry) }
