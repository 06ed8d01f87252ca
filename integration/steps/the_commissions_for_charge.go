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
	"sort"
	"strings"

	"code.refchain.io/node/entities"

	"github.com/cucumber/godog"
)

func TheCommissionsForChargeShouldBe(w *World, code string, table *godog.Table) error {
	got, err := commissionsForCharge(w, code)
	if err != nil {
		return err
	}

	rows := StrictParseTable(table, []string{
		"customer",
		"tier",
		"amount",
	}, []string{
		"currency",
	})
	if len(rows) != len(got) {
		return fmt.Errorf("expected %d commissions for charge %s, got %d: %s", len(rows), code, len(got), describeCommissions(w, got))
	}

	for _, row := range rows {
		customer, err := w.Customer(row.MustStr("customer"))
		if err != nil {
			return err
		}
		if !hasCommission(got, customer.ID, row) {
			return fmt.Errorf("missing commission for %s at tier %d amount %d on charge %s, got %s",
				row.MustStr("customer"), row.MustI32("tier"), row.MustI64("amount"), code, describeCommissions(w, got))
		}
	}
	return nil
}

func NoCommissionsForCharge(w *World, code string) error {
	got, err := commissionsForCharge(w, code)
	if err != nil {
		return err
	}
	if len(got) > 0 {
		return fmt.Errorf("expected no commissions for charge %s, got %s", code, describeCommissions(w, got))
	}
	return nil
}

func commissionsForCharge(w *World, code string) ([]entities.Commission, error) {
	ctx := context.Background()
	charge, err := w.Store.Charges.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("couldn't find charge %s: %w", code, err)
	}
	return w.Commissions.ListByCharge(ctx, charge.ID)
}

func hasCommission(commissions []entities.Commission, customer entities.CustomerID, row RowWrapper) bool {
	for _, c := range commissions {
		if c.CustomerID != customer || c.Tier != row.MustI32("tier") || c.Amount != row.MustI64("amount") {
			continue
		}
		if row.HasColumn("currency") && c.Currency != row.Str("currency") {
			continue
		}
		return true
	}
	return false
}

func describeCommissions(w *World, commissions []entities.Commission) string {
	out := make([]string, 0, len(commissions))
	for _, c := range commissions {
		out = append(out, fmt.Sprintf("{%s tier:%d amount:%d %s}", w.CodeOf(c.CustomerID), c.Tier, c.Amount, c.Currency))
	}
	sort.Strings(out)
	return "[" + strings.Join(out, " ") + "]"
}
