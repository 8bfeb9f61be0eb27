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
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPollBackOff(t *testing.T) {
	t.Run("zero value stops immediately", func(t *testing.T) {
		bo := PollConfig{}.backOff()
		assert.Equal(t, backoff.Stop, bo.NextBackOff())
	})

	t.Run("schedule starts at the initial interval", func(t *testing.T) {
		bo := PollConfig{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
			MaxElapsedTime:  time.Minute,
		}.backOff()

		first := bo.NextBackOff()
		require.NotEqual(t, backoff.Stop, first)
		// The exponential schedule jitters around the initial interval.
		assert.InDelta(t, 100*time.Millisecond, first, float64(60*time.Millisecond))
	})
}

func TestConfigYAML(t *testing.T) {
	// Durations are integer nanoseconds on the wire.
	raw := `
confirm_cancellation: true
poll:
  initial_interval: 1000000000
  max_interval: 10000000000
  max_elapsed_time: 90000000000
http_timeout: 20000000000
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))
	assert.True(t, cfg.ConfirmCancellation)
	assert.Equal(t, time.Second, cfg.Poll.InitialInterval)
	assert.Equal(t, 10*time.Second, cfg.Poll.MaxInterval)
	assert.Equal(t, 90*time.Second, cfg.Poll.MaxElapsedTime)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout)
}
