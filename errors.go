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

import "errors"

var (
	// ErrCancelled is returned by a surface when the payer abandoned it.
	// The orchestrator maps it to the cancellation policy; surfaces may
	// return it unwrapped or wrapped.
	ErrCancelled = errors.New("checkout: cancelled by payer")

	// ErrAwaitingThreeDS is returned by Run when the post-challenge order
	// poll found attempts still awaiting 3-D Secure and the poll policy is
	// exhausted. No terminal status has been reported; call
	// [Orchestrator.ResumePolling] to continue.
	ErrAwaitingThreeDS = errors.New("checkout: order still awaiting 3-D Secure result")

	// ErrNotAwaitingThreeDS is returned by ResumePolling when the
	// orchestrator is not parked on a pending 3-D Secure poll.
	ErrNotAwaitingThreeDS = errors.New("checkout: no pending 3-D Secure poll to resume")

	// ErrAaniUnavailable is returned by Run when the Aani sub-flow
	// arguments could not be built from the order. No surface is shown
	// and no terminal status is reported.
	ErrAaniUnavailable = errors.New("checkout: order does not support aani payments")

	// ErrAlreadyRunning is returned by Run when the orchestrator was
	// started twice.
	ErrAlreadyRunning = errors.New("checkout: orchestrator already running")

	// ErrFinished is returned when Run or ResumePolling is called after
	// the terminal status was reported.
	ErrFinished = errors.New("checkout: payment already finished")
)
