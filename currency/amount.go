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

// Package currency carries gateway money amounts and renders them for
// display. The gateway expresses amounts in the minor unit of the currency
// (fils, cents, ...), so a value of 1050 with currency code AED is
// AED 10.50.
package currency

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// defaultMinorUnit is used when the currency code is absent or not a valid
// ISO 4217 code.
const defaultMinorUnit = 2

// Amount is a monetary amount as it appears on the gateway wire: a currency
// code plus a value in minor units. The gateway serializes the value as a
// JSON number, hence the float64.
type Amount struct {
	CurrencyCode string  `json:"currencyCode,omitempty"`
	Value        float64 `json:"value,omitempty"`
}

// MinorUnit returns the number of minor-unit digits for the amount's
// currency per ISO 4217 (AED: 2, BHD: 3, JPY: 0).
func (a Amount) MinorUnit() int {
	unit, err := currency.ParseISO(a.CurrencyCode)
	if err != nil {
		return defaultMinorUnit
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// Minor returns the amount's value as integral minor units. Fractional
// wire values are rounded half away from zero; a value outside the int64
// range yields 0 and is logged.
func (a Amount) Minor() int64 {
	v, err := safecast.ToInt64(math.Round(a.Value))
	if err != nil {
		slog.Warn("amount value not representable in minor units",
			"currency", a.CurrencyCode, "value", a.Value, "error", err)
		return 0
	}
	return v
}

// Format renders the amount in major units with trailing zeros trimmed and
// the currency code placed according to the writing direction of tag:
// "10.5 AED" for left-to-right locales, "AED 10.5" for right-to-left ones.
func (a Amount) Format(tag language.Tag) string {
	return a.placeCode(tag, a.value(true))
}

// Format2Decimal renders the amount in major units with exactly two decimal
// places, currency code placement as in Format.
func (a Amount) Format2Decimal(tag language.Tag) string {
	major := float64(a.Minor()) / pow10(a.MinorUnit())
	return a.placeCode(tag, fmt.Sprintf("%.2f", major))
}

// FormattedValue renders the bare major-unit value without a currency code.
func (a Amount) FormattedValue() string {
	return a.value(true)
}

func (a Amount) value(trim bool) string {
	minor := a.Minor()
	scale := a.MinorUnit()
	if scale <= 0 {
		return strconv.FormatInt(minor, 10)
	}
	neg := minor < 0
	if neg {
		minor = -minor
	}
	div := int64(1)
	for range scale {
		div *= 10
	}
	s := fmt.Sprintf("%d.%0*d", minor/div, scale, minor%div)
	if trim {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if neg {
		s = "-" + s
	}
	return s
}

func (a Amount) placeCode(tag language.Tag, value string) string {
	if a.CurrencyCode == "" {
		return value
	}
	if rightToLeft(tag) {
		return a.CurrencyCode + " " + value
	}
	return value + " " + a.CurrencyCode
}

func pow10(n int) float64 {
	p := 1.0
	for range n {
		p *= 10
	}
	return p
}

// rightToLeft reports whether the likely script of tag is written right to
// left. x/text does not expose direction data, so the RTL scripts are
// enumerated here.
func rightToLeft(tag language.Tag) bool {
	scr, _ := tag.Script()
	switch scr.String() {
	case "Arab", "Hebr", "Thaa", "Syrc", "Nkoo", "Adlm", "Rohg", "Mand":
		return true
	}
	return false
}
