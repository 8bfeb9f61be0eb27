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
	"log/slog"

	"github.com/enoc-link/ngenius-checkout/transaction"
)

// Option configures an Orchestrator at construction time.
type Option func(o *Orchestrator)

// WithService injects the transaction service the orchestrator calls.
// Defaults to a [transaction.Client] built from the config.
func WithService(svc transaction.Service) Option {
	return func(o *Orchestrator) {
		o.svc = svc
	}
}

// WithLogger overrides the orchestrator's logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithBackLink sets the return link handed to the Aani sub-flow. Without
// it the Aani flow cannot build its arguments.
func WithBackLink(link string) Option {
	return func(o *Orchestrator) {
		o.backLink = link
	}
}
