// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of decimal places a commission rate is stored with.
const RatePrecision = 4

var one = decimal.NewFromInt(1)

type CommissionTier struct {
	Tier           int32           `json:"tier"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

// Validate checks the tier is a positive hop count and the rate a fraction
// expressible with RatePrecision decimals.
func (t CommissionTier) Validate() error {
	if t.Tier < 1 {
		return fmt.Errorf("tier must be >= 1, got %d: %w", t.Tier, ErrInvalidArgument)
	}
	if t.CommissionRate.IsNegative() || t.CommissionRate.GreaterThan(one) {
		return fmt.Errorf("commission rate must be within [0, 1], got %s: %w", t.CommissionRate, ErrInvalidArgument)
	}
	if !t.CommissionRate.Equal(t.CommissionRate.Truncate(RatePrecision)) {
		return fmt.Errorf("commission rate has more than %d decimals: %w", RatePrecision, ErrInvalidArgument)
	}
	return nil
}
