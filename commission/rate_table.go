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
package commission

import (
	"context"
	"sort"

	"code.refchain.io/node/entities"

	"github.com/shopspring/decimal"
)

// RateTable maps a tier to its commission rate.
type RateTable struct {
	rates map[int32]decimal.Decimal
}

func NewRateTable(tiers []entities.CommissionTier) *RateTable {
	rates := make(map[int32]decimal.Decimal, len(tiers))
	for _, t := range tiers {
		rates[t.Tier] = t.CommissionRate
	}
	return &RateTable{rates: rates}
}

// LoadRateTable reads the whole table once.
func LoadRateTable(ctx context.Context, store TierReader) (*RateTable, error) {
	tiers, err := store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewRateTable(tiers), nil
}

// Rate returns the rate configured for the tier, or zero.
func (r *RateTable) Rate(tier int32) decimal.Decimal {
	if rate, ok := r.rates[tier]; ok {
		return rate
	}
	return decimal.Zero
}

func (r *RateTable) Tiers() []entities.CommissionTier {
	out := make([]entities.CommissionTier, 0, len(r.rates))
	for tier, rate := range r.rates {
		out = append(out, entities.CommissionTier{Tier: tier, CommissionRate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}
