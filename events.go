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

// Events is the host-facing callback surface. All fields are optional
// except PaymentCompleted. Milestone callbacks fire zero or more times;
// PaymentCompleted fires exactly once per orchestrator lifetime, after the
// presenting surface has been dismissed. Every callback is invoked from
// the orchestrator's run goroutine, so hosts marshalling to a UI thread
// need to do so themselves but never need to guard against concurrent
// invocations.
type Events struct {
	AuthorizationBegan        func()
	AuthorizationCompleted    func(AuthorizationStatus)
	PaymentBegan              func()
	ThreeDSChallengeBegan     func()
	ThreeDSChallengeCompleted func(ThreeDSStatus)
	PartialAuthBegan          func()
	PaymentCompleted          func(Result)
}

func (e Events) authorizationBegan() {
	if e.AuthorizationBegan != nil {
		e.AuthorizationBegan()
	}
}

func (e Events) authorizationCompleted(s AuthorizationStatus) {
	if e.AuthorizationCompleted != nil {
		e.AuthorizationCompleted(s)
	}
}

func (e Events) paymentBegan() {
	if e.PaymentBegan != nil {
		e.PaymentBegan()
	}
}

func (e Events) threeDSChallengeBegan() {
	if e.ThreeDSChallengeBegan != nil {
		e.ThreeDSChallengeBegan()
	}
}

func (e Events) threeDSChallengeCompleted(s ThreeDSStatus) {
	if e.ThreeDSChallengeCompleted != nil {
		e.ThreeDSChallengeCompleted(s)
	}
}

func (e Events) partialAuthBegan() {
	if e.PartialAuthBegan != nil {
		e.PartialAuthBegan()
	}
}

func (e Events) paymentCompleted(r Result) {
	if e.PaymentCompleted != nil {
		e.PaymentCompleted(r)
	}
}
