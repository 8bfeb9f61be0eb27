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

// Package cardprovider maps the gateway's card-scheme identifiers to the
// payment-network identifiers understood by platform wallet sheets.
package cardprovider

// Provider is a card scheme as reported by the gateway in an order's
// supported payment-method list. The values are part of the gateway wire
// contract and are case-sensitive.
type Provider string

const (
	MasterCard              Provider = "MASTERCARD"
	DinersClubInternational Provider = "DINERS_CLUB_INTERNATIONAL"
	JCB                     Provider = "JCB"
	AmericanExpress         Provider = "AMERICAN_EXPRESS"
	Discover                Provider = "DISCOVER"
	Jaywan                  Provider = "JAYWAN"
	Mada                    Provider = "MADA"
	Visa                    Provider = "VISA"
)

// Network identifies a payment network on the platform wallet side.
type Network string

const (
	NetworkVisa       Network = "visa"
	NetworkMasterCard Network = "masterCard"
	NetworkAmex       Network = "amex"
	NetworkDiscover   Network = "discover"
	NetworkJCB        Network = "jcb"
	NetworkMada       Network = "mada"
)

// Network returns the platform payment network for the provider. Schemes
// without a network of their own ride on the closest supported one; unknown
// schemes fall back to visa.
func (p Provider) Network() Network {
	switch p {
	case Visa:
		return NetworkVisa
	case MasterCard:
		return NetworkMasterCard
	case AmericanExpress:
		return NetworkAmex
	case DinersClubInternational:
		return NetworkMasterCard
	case Discover:
		return NetworkDiscover
	case JCB:
		return NetworkJCB
	case Mada:
		return NetworkMada
	case Jaywan:
		return NetworkVisa
	default:
		return NetworkVisa
	}
}

// Networks maps the raw scheme identifiers of an order's card payment
// methods to the set of allowed platform networks. The result is
// deduplicated; order of the input is preserved for the first occurrence of
// each network. Unrecognized scheme identifiers are skipped rather than
// mapped to a fallback so that a merchant misconfiguration cannot widen the
// allowed set.
func Networks(providers []string) []Network {
	seen := make(map[Network]struct{}, len(providers))
	networks := make([]Network, 0, len(providers))
	for _, raw := range providers {
		p := Provider(raw)
		if !p.known() {
			continue
		}
		n := p.Network()
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		networks = append(networks, n)
	}
	return networks
}

func (p Provider) known() bool {
	switch p {
	case MasterCard, DinersClubInternational, JCB, AmericanExpress, Discover, Jaywan, Mada, Visa:
		return true
	}
	return false
}
