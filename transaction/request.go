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

package transaction

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PaymentRequest is the card payment payload produced by a card-entry
// surface. PayerIP and Visa are filled in by the orchestrator before
// submission.
type PaymentRequest struct {
	PAN            string             `json:"pan" validate:"required,credit_card"`
	Expiry         string             `json:"expiry" validate:"required"`
	CVV            string             `json:"cvv" validate:"required,numeric,min=3,max=4"`
	CardholderName string             `json:"cardholderName" validate:"required"`
	PayerIP        string             `json:"payerIp,omitempty"`
	Visa           *VisaPlanSelection `json:"vis,omitempty"`
}

// Validate checks the card payload before it is sent to the gateway. There
// is no form layer in front of this SDK, so wire-level validation happens
// here.
func (r PaymentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid payment request: %w", err)
	}
	return nil
}

// SavedCardRequest is the saved-card payment payload. CVV is set only when
// the stored card requires security-code recapture.
type SavedCardRequest struct {
	CardToken      string             `json:"cardToken" validate:"required"`
	Expiry         string             `json:"expiry" validate:"required"`
	CardholderName string             `json:"cardholderName,omitempty"`
	CVV            string             `json:"cvv,omitempty" validate:"omitempty,numeric,min=3,max=4"`
	PayerIP        string             `json:"payerIp,omitempty"`
	Visa           *VisaPlanSelection `json:"vis,omitempty"`
}

// Validate checks the saved-card payload before submission.
func (r SavedCardRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid saved-card request: %w", err)
	}
	return nil
}
