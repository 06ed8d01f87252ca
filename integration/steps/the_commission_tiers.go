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

package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

func TheCommissionTiers(w *World, table *godog.Table) error {
	for _, row := range StrictParseTable(table, []string{
		"tier",
		"rate",
	}, nil) {
		tier := row.MustI32("tier")
		if _, err := w.Commissions.CreateCommissionTier(context.Background(), tier, row.MustDecimal("rate")); err != nil {
			return fmt.Errorf("couldn't create commission tier %d: %w", tier, err)
		}
	}
	return nil
}

func CommissionTierIsUpdated(w *World, tier int32, rate string) error {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return err
	}
	_, err = w.Commissions.UpdateCommissionTier(context.Background(), tier, r)
	return err
}

// CommissionTierUpdateFails expects the update to be rejected with an error
// containing msg.
func CommissionTierUpdateFails(w *World, tier int32, rate, msg string) error {
	err := CommissionTierIsUpdated(w, tier, rate)
	if err == nil {
		return fmt.Errorf("expected updating tier %d to rate %s to fail", tier, rate)
	}
	if !strings.Contains(err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %q", msg, err.Error())
	}
	return nil
}

func CommissionTierIsDeleted(w *World, tier int32) error {
	return w.Commissions.DeleteCommissionTier(context.Background(), tier)
}

// TheCommissionRatesShouldBe compares the whole rate table, ordered by tier.
func TheCommissionRatesShouldBe(w *World, table *godog.Table) error {
	tiers, err := w.Commissions.GetAllCommissionRates(context.Background())
	if err != nil {
		return err
	}
	rows := StrictParseTable(table, []string{
		"tier",
		"rate",
	}, nil)
	if len(rows) != len(tiers) {
		return fmt.Errorf("expected %d commission tiers, got %d", len(rows), len(tiers))
	}
	for i, row := range rows {
		if tiers[i].Tier != row.MustI32("tier") || !tiers[i].CommissionRate.Equal(row.MustDecimal("rate")) {
			return fmt.Errorf("expected tier %d at rate %s, got tier %d at rate %s",
				row.MustI32("tier"), row.MustStr("rate"), tiers[i].Tier, tiers[i].CommissionRate)
		}
	}
	return nil
}
