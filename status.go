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

// PaymentStatus is the terminal outcome of an orchestrated payment as
// reported to the host. Hosts receive exactly one of these per
// orchestrator lifetime.
type PaymentStatus string

const (
	PaymentSuccess           PaymentStatus = "PAYMENT_SUCCESS"
	PaymentFailed            PaymentStatus = "PAYMENT_FAILED"
	PaymentPostAuthReview    PaymentStatus = "PAYMENT_POST_AUTH_REVIEW"
	PaymentCancelled         PaymentStatus = "PAYMENT_CANCELLED"
	InvalidRequest           PaymentStatus = "INVALID_REQUEST"
	PartialAuthDeclined      PaymentStatus = "PARTIAL_AUTH_DECLINED"
	PartialAuthDeclineFailed PaymentStatus = "PARTIAL_AUTH_DECLINE_FAILED"
	PartiallyAuthorised      PaymentStatus = "PARTIALLY_AUTHORISED"
)

// ThreeDSStatus reports the outcome of a 3-D Secure challenge, independent
// of the payment outcome.
type ThreeDSStatus string

const (
	ThreeDSSuccess ThreeDSStatus = "THREE_DS_SUCCESS"
	ThreeDSFailed  ThreeDSStatus = "THREE_DS_FAILED"
)

// AuthorizationStatus reports the outcome of the payment-authorization
// step.
type AuthorizationStatus string

const (
	AuthSuccess AuthorizationStatus = "AUTH_SUCCESS"
	AuthFailed  AuthorizationStatus = "AUTH_FAILED"
)

// Result is the single terminal report delivered to the host: the payment
// status plus the optional 3-D Secure and authorization statuses that
// accompanied the failure or success.
type Result struct {
	Payment PaymentStatus
	ThreeDS *ThreeDSStatus
	Auth    *AuthorizationStatus
}

func result(p PaymentStatus) Result {
	return Result{Payment: p}
}

func (r Result) withThreeDS(s ThreeDSStatus) Result {
	r.ThreeDS = &s
	return r
}

func (r Result) withAuth(s AuthorizationStatus) Result {
	r.Auth = &s
	return r
}

// PaymentMedium selects which credential-collection sub-flow the
// orchestrator enters. It is immutable for the orchestrator's lifetime.
type PaymentMedium int

const (
	// MediumCard collects card details through the host's card surface.
	MediumCard PaymentMedium = iota
	// MediumApplePay hands off to the platform wallet sheet.
	MediumApplePay
	// MediumSavedCard charges a previously tokenized card.
	MediumSavedCard
	// MediumAani runs the Aani alternative payment method.
	MediumAani
	// MediumThreeDSTwo resumes response handling from a stored 3-D Secure
	// 2 payment response; use [NewThreeDSTwoResume].
	MediumThreeDSTwo
)

func (m PaymentMedium) String() string {
	switch m {
	case MediumCard:
		return "card"
	case MediumApplePay:
		return "apple-pay"
	case MediumSavedCard:
		return "saved-card"
	case MediumAani:
		return "aani"
	case MediumThreeDSTwo:
		return "3ds2-resume"
	default:
		return "unknown"
	}
}
