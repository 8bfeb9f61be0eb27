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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentRequestValidate(t *testing.T) {
	valid := PaymentRequest{
		PAN:            "4111111111111111",
		Expiry:         "2030-05",
		CVV:            "123",
		CardholderName: "J Doe",
	}
	assert.NoError(t, valid.Validate())

	tests := map[string]func(*PaymentRequest){
		"missing pan":     func(r *PaymentRequest) { r.PAN = "" },
		"luhn failure":    func(r *PaymentRequest) { r.PAN = "4111111111111112" },
		"missing expiry":  func(r *PaymentRequest) { r.Expiry = "" },
		"missing cvv":     func(r *PaymentRequest) { r.CVV = "" },
		"short cvv":       func(r *PaymentRequest) { r.CVV = "12" },
		"long cvv":        func(r *PaymentRequest) { r.CVV = "12345" },
		"non numeric cvv": func(r *PaymentRequest) { r.CVV = "12x" },
		"missing name":    func(r *PaymentRequest) { r.CardholderName = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestSavedCardRequestValidate(t *testing.T) {
	valid := SavedCardRequest{CardToken: "tok-1", Expiry: "2030-05"}
	assert.NoError(t, valid.Validate())

	withCVV := valid
	withCVV.CVV = "1234"
	assert.NoError(t, withCVV.Validate())

	tests := map[string]func(*SavedCardRequest){
		"missing token":  func(r *SavedCardRequest) { r.CardToken = "" },
		"missing expiry": func(r *SavedCardRequest) { r.Expiry = "" },
		"bad cvv":        func(r *SavedCardRequest) { r.CVV = "xx" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}
