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
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config allows for configuration of orchestrators via YAML files.
type Config struct {
	// ConfirmCancellation makes the orchestrator ask the payer to confirm
	// before a surface cancellation terminates the payment. Without it,
	// cancellation terminates immediately.
	ConfirmCancellation bool `yaml:"confirm_cancellation"`

	// Poll configures how the orchestrator re-polls an order whose
	// payment attempts are still awaiting a 3-D Secure result.
	Poll PollConfig `yaml:"poll"`

	// HTTPTimeout is the request timeout of the default transaction
	// client. Ignored when a service is injected with WithService.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// PollConfig is the post-challenge order polling policy. The zero value
// disables internal re-polling entirely: a still-pending order parks the
// orchestrator immediately and polling resumption is caller-driven via
// ResumePolling.
type PollConfig struct {
	// InitialInterval is the delay before the first re-poll.
	InitialInterval time.Duration `yaml:"initial_interval"`
	// MaxInterval caps the growth of the re-poll delay.
	MaxInterval time.Duration `yaml:"max_interval"`
	// MaxElapsedTime bounds the total time spent re-polling before the
	// orchestrator parks. Zero or negative disables re-polling.
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time"`
}

// backOff builds the backoff schedule for one polling session.
func (c PollConfig) backOff() backoff.BackOff {
	if c.MaxElapsedTime <= 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	b.MaxElapsedTime = c.MaxElapsedTime
	b.Reset()
	return b
}

// DefaultConfig returns the configuration used when the host does not
// provide one: no cancellation confirmation and a polling policy that
// re-polls for up to two minutes.
func DefaultConfig() Config {
	return Config{
		ConfirmCancellation: false,
		Poll: PollConfig{
			InitialInterval: 3 * time.Second,
			MaxInterval:     15 * time.Second,
			MaxElapsedTime:  2 * time.Minute,
		},
		HTTPTimeout: 30 * time.Second,
	}
}
