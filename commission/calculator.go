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

	"code.refchain.io/node/entities"
	"code.refchain.io/node/referral"

	"github.com/shopspring/decimal"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/tier_reader_mock.go -package mocks code.refchain.io/node/commission TierReader
type TierReader interface {
	GetAll(ctx context.Context) ([]entities.CommissionTier, error)
}

type Purchase struct {
	ChargeID    entities.ChargeID
	PurchaserID entities.CustomerID
	Amount      int64
	Currency    string
}

// Calculator computes the commission lines owed up the referral chain of a
// purchaser.
type Calculator struct {
	tiers  TierReader
	walker *referral.AncestryWalker
}

func NewCalculator(tiers TierReader, walker *referral.AncestryWalker) *Calculator {
	return &Calculator{
		tiers:  tiers,
		walker: walker,
	}
}

// Calculate emits one line per ancestor of the purchaser that is not
// suspended. The tier counts every ancestor, suspended or not, so a
// suspension never renumbers the tiers above it. Amounts are rounded down to
// the minor unit and a tier without a configured rate yields a zero amount.
func (c *Calculator) Calculate(ctx context.Context, p Purchase) ([]entities.Commission, error) {
	rates, err := LoadRateTable(ctx, c.tiers)
	if err != nil {
		return nil, err
	}

	w, err := c.walker.Walk(ctx, p.PurchaserID)
	if err != nil {
		return nil, err
	}

	amount := decimal.NewFromInt(p.Amount)
	lines := []entities.Commission{}
	for {
		ancestor, ok, err := w.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if ancestor.IsSuspended() {
			continue
		}
		tier := w.Tier()
		rate := rates.Rate(tier)
		lines = append(lines, entities.Commission{
			CustomerID:     ancestor.ID,
			ChargeID:       p.ChargeID,
			Tier:           tier,
			CommissionRate: rate,
			Amount:         amount.Mul(rate).Floor().IntPart(),
			Currency:       p.Currency,
		})
	}
	return lines, nil
}
