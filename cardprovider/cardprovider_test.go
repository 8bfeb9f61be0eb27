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

package cardprovider_test

import (
	"testing"

	"github.com/enoc-link/ngenius-checkout/cardprovider"
	"github.com/stretchr/testify/require"
)

func TestProvider_Network(t *testing.T) {
	tests := map[string]struct {
		provider cardprovider.Provider
		want     cardprovider.Network
	}{
		"visa":        {cardprovider.Visa, cardprovider.NetworkVisa},
		"mastercard":  {cardprovider.MasterCard, cardprovider.NetworkMasterCard},
		"amex":        {cardprovider.AmericanExpress, cardprovider.NetworkAmex},
		"diners maps to mastercard": {cardprovider.DinersClubInternational, cardprovider.NetworkMasterCard},
		"discover":    {cardprovider.Discover, cardprovider.NetworkDiscover},
		"jcb":         {cardprovider.JCB, cardprovider.NetworkJCB},
		"mada":        {cardprovider.Mada, cardprovider.NetworkMada},
		"jaywan rides on visa": {cardprovider.Jaywan, cardprovider.NetworkVisa},
		"unknown falls back to visa": {cardprovider.Provider("SOMETHING_ELSE"), cardprovider.NetworkVisa},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.provider.Network())
		})
	}
}

func TestNetworks(t *testing.T) {
	tests := map[string]struct {
		in   []string
		want []cardprovider.Network
	}{
		"nil input": {
			in:   nil,
			want: []cardprovider.Network{},
		},
		"dedupes networks sharing a scheme": {
			in:   []string{"MASTERCARD", "DINERS_CLUB_INTERNATIONAL", "VISA"},
			want: []cardprovider.Network{cardprovider.NetworkMasterCard, cardprovider.NetworkVisa},
		},
		"skips unrecognized schemes": {
			in:   []string{"VISA", "BITCOIN", "JCB"},
			want: []cardprovider.Network{cardprovider.NetworkVisa, cardprovider.NetworkJCB},
		},
		"preserves first-occurrence order": {
			in:   []string{"AMERICAN_EXPRESS", "VISA", "MASTERCARD", "VISA"},
			want: []cardprovider.Network{cardprovider.NetworkAmex, cardprovider.NetworkVisa, cardprovider.NetworkMasterCard},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, cardprovider.Networks(tc.in))
		})
	}
}
