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

// Package checkout orchestrates a hosted payment attempt against an
// N-Genius order: card, Apple Pay, saved-card and Aani payments plus
// resumption of an interrupted 3-D Secure 2 flow.
//
// The host supplies the interactive surfaces (credential forms, challenge
// views, confirmation prompts) behind the interfaces in Surfaces and
// observes progress through Events. The orchestrator owns the control
// flow: it authorizes against the gateway, collects credentials, submits
// the payment and interprets the gateway's response, reporting exactly
// one terminal Result per attempt.
//
//	orc, err := checkout.New(checkout.DefaultConfig(), order,
//		checkout.MediumCard, surfaces, events)
//	if err != nil {
//		...
//	}
//	res, err := orc.Run(ctx)
package checkout

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/enoc-link/ngenius-checkout/transaction"
)

// New builds an orchestrator for a fresh payment attempt against order.
// medium selects the credential flow; MediumThreeDSTwo is rejected here,
// use NewThreeDSTwoResume to continue an interrupted flow from a stored
// response.
func New(cfg Config, order transaction.Order, medium PaymentMedium, surfaces Surfaces, events Events, opts ...Option) (*Orchestrator, error) {
	if medium == MediumThreeDSTwo {
		return nil, errors.New("checkout: use NewThreeDSTwoResume for 3-D Secure 2 resumption")
	}
	return newOrchestrator(cfg, order, medium, nil, surfaces, events, opts)
}

// NewThreeDSTwoResume builds an orchestrator that continues a payment
// whose 3-D Secure 2 challenge completed out of band, bootstrapping the
// order from the stored payment response.
func NewThreeDSTwoResume(cfg Config, resp transaction.PaymentResponse, surfaces Surfaces, events Events, opts ...Option) (*Orchestrator, error) {
	return newOrchestrator(cfg, transaction.Order{}, MediumThreeDSTwo, &resp, surfaces, events, opts)
}

func newOrchestrator(cfg Config, order transaction.Order, medium PaymentMedium, resume *transaction.PaymentResponse, surfaces Surfaces, events Events, opts []Option) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:      cfg,
		log:      slog.Default(),
		events:   events,
		surfaces: surfaces,
		order:    order,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.svc == nil {
		o.svc = transaction.NewClient(
			transaction.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
			transaction.WithLogger(o.log),
		)
	}

	f, err := flowFor(medium, resume, o.backLink)
	if err != nil {
		return nil, err
	}
	o.flow = f
	return o, nil
}
