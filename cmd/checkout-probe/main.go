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

// checkout-probe runs a headless card payment against a gateway order to
// exercise the orchestration stack end to end. It reads card details from
// flags, which is acceptable only against test outlets.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	slogenv "github.com/cbrewster/slog-env"
	"gopkg.in/yaml.v3"

	checkout "github.com/enoc-link/ngenius-checkout"
	"github.com/enoc-link/ngenius-checkout/transaction"
)

func main() {
	log := slog.New(slogenv.NewHandler(slog.NewTextHandler(os.Stderr, nil)))
	slog.SetDefault(log)

	if err := run(context.Background(), log); err != nil {
		log.Error("probe failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		configPath = flag.String("config", "", "path to a YAML orchestrator config (optional)")
		orderPath  = flag.String("order", "", "path to a JSON order response (required)")
		pan        = flag.String("pan", "", "card number (required)")
		expiry     = flag.String("expiry", "", "card expiry, e.g. 2030-05 (required)")
		cvv        = flag.String("cvv", "", "card security code (required)")
		holder     = flag.String("holder", "", "cardholder name (required)")
	)
	flag.Parse()

	if *orderPath == "" || *pan == "" || *expiry == "" || *cvv == "" || *holder == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags")
	}

	cfg := checkout.DefaultConfig()
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}

	raw, err := os.ReadFile(*orderPath)
	if err != nil {
		return fmt.Errorf("read order: %w", err)
	}
	var order transaction.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return fmt.Errorf("parse order: %w", err)
	}

	surfaces := checkout.Surfaces{
		Card: staticCard{req: transaction.PaymentRequest{
			PAN:            *pan,
			Expiry:         *expiry,
			CVV:            *cvv,
			CardholderName: *holder,
		}},
	}
	events := checkout.Events{
		AuthorizationBegan: func() { log.Info("authorization began") },
		AuthorizationCompleted: func(s checkout.AuthorizationStatus) {
			log.Info("authorization completed", "status", string(s))
		},
		PaymentBegan: func() { log.Info("payment began") },
	}

	orc, err := checkout.New(cfg, order, checkout.MediumCard, surfaces, events,
		checkout.WithLogger(log),
	)
	if err != nil {
		return err
	}

	res, err := orc.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println("payment status:", string(res.Payment))
	return nil
}

// staticCard hands the flag-provided card to the orchestrator. A headless
// probe has no interactive form.
type staticCard struct {
	req transaction.PaymentRequest
}

func (c staticCard) CollectCard(ctx context.Context, order transaction.Order) (transaction.PaymentRequest, error) {
	return c.req, nil
}
